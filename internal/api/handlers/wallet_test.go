package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamup/internal/middleware"
	"teamup/internal/models"
	"teamup/internal/payments"
	"teamup/internal/services"
)

type fakeWalletOps struct {
	overviewWallet models.Wallet
	overviewTxns   []models.WalletTransaction
	checkoutURL    string
	topUpErr       error
	confirmRes     services.TopUpResult
	confirmErr     error
	webhookErr     error

	gotPayload   []byte
	gotSignature string
	gotSessionID string
	gotAmount    decimal.Decimal
}

func (f *fakeWalletOps) Overview(ctx context.Context, userID string) (models.Wallet, []models.WalletTransaction, error) {
	return f.overviewWallet, f.overviewTxns, nil
}

func (f *fakeWalletOps) StartTopUp(ctx context.Context, userID string, amount decimal.Decimal) (string, error) {
	f.gotAmount = amount
	return f.checkoutURL, f.topUpErr
}

func (f *fakeWalletOps) ConfirmTopUp(ctx context.Context, userID, sessionID string) (services.TopUpResult, error) {
	f.gotSessionID = sessionID
	return f.confirmRes, f.confirmErr
}

func (f *fakeWalletOps) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	f.gotPayload = payload
	f.gotSignature = signature
	return f.webhookErr
}

func authedRequest(method, target, body, userID string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}

func TestTopUpHandler(t *testing.T) {
	t.Run("returns checkout url", func(t *testing.T) {
		f := &fakeWalletOps{checkoutURL: "https://checkout.example/cs_1"}
		rec := httptest.NewRecorder()
		NewWalletHandler(f).TopUp(rec, authedRequest(http.MethodPost, "/wallet/topup", `{"amount":"25.00"}`, "u1"))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, f.gotAmount.Equal(decimal.RequireFromString("25.00")))
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "https://checkout.example/cs_1", body["checkout_url"])
	})

	t.Run("invalid amount is a 400", func(t *testing.T) {
		f := &fakeWalletOps{topUpErr: services.ErrInvalidAmount}
		rec := httptest.NewRecorder()
		NewWalletHandler(f).TopUp(rec, authedRequest(http.MethodPost, "/wallet/topup", `{"amount":"0"}`, "u1"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unconfigured provider is a 503", func(t *testing.T) {
		f := &fakeWalletOps{topUpErr: payments.ErrNotConfigured}
		rec := httptest.NewRecorder()
		NewWalletHandler(f).TopUp(rec, authedRequest(http.MethodPost, "/wallet/topup", `{"amount":"10"}`, "u1"))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("provider failure is a 502", func(t *testing.T) {
		f := &fakeWalletOps{topUpErr: assert.AnError}
		rec := httptest.NewRecorder()
		NewWalletHandler(f).TopUp(rec, authedRequest(http.MethodPost, "/wallet/topup", `{"amount":"10"}`, "u1"))
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}

func TestConfirmHandler(t *testing.T) {
	t.Run("requires session_id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewWalletHandler(&fakeWalletOps{}).Confirm(rec, authedRequest(http.MethodGet, "/wallet/topup/confirm", "", "u1"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("passes session through", func(t *testing.T) {
		f := &fakeWalletOps{confirmRes: services.TopUpResult{Applied: true, Amount: decimal.RequireFromString("25.00")}}
		rec := httptest.NewRecorder()
		NewWalletHandler(f).Confirm(rec, authedRequest(http.MethodGet, "/wallet/topup/confirm?session_id=cs_1", "", "u1"))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "cs_1", f.gotSessionID)
		var res services.TopUpResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.True(t, res.Applied)
	})

	t.Run("foreign session is a 403", func(t *testing.T) {
		f := &fakeWalletOps{confirmErr: services.ErrSessionForeign}
		rec := httptest.NewRecorder()
		NewWalletHandler(f).Confirm(rec, authedRequest(http.MethodGet, "/wallet/topup/confirm?session_id=cs_x", "", "u1"))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("incomplete payment is a 200 with applied false", func(t *testing.T) {
		f := &fakeWalletOps{confirmErr: services.ErrPaymentIncomplete}
		rec := httptest.NewRecorder()
		NewWalletHandler(f).Confirm(rec, authedRequest(http.MethodGet, "/wallet/topup/confirm?session_id=cs_x", "", "u1"))

		require.Equal(t, http.StatusOK, rec.Code)
		var res services.TopUpResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.False(t, res.Applied)
	})
}

func TestWebhookHandler(t *testing.T) {
	t.Run("acknowledges valid payloads", func(t *testing.T) {
		f := &fakeWalletOps{}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", strings.NewReader(`{"type":"checkout.session.completed"}`))
		req.Header.Set("Stripe-Signature", "t=1,v1=abc")
		NewWalletHandler(f).Webhook(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "t=1,v1=abc", f.gotSignature)
		assert.JSONEq(t, `{"received":true}`, rec.Body.String())
	})

	t.Run("rejects bad signatures", func(t *testing.T) {
		f := &fakeWalletOps{webhookErr: services.ErrWebhookInvalid}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", strings.NewReader("junk"))
		NewWalletHandler(f).Webhook(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("storage failure is a 500 so the provider retries", func(t *testing.T) {
		f := &fakeWalletOps{webhookErr: assert.AnError}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", strings.NewReader("{}"))
		NewWalletHandler(f).Webhook(rec, req)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
