package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/shopspring/decimal"

	"teamup/internal/api/httpx"
	"teamup/internal/middleware"
	"teamup/internal/models"
	"teamup/internal/payments"
	"teamup/internal/services"
)

// WalletOps is the slice of WalletService the handlers need.
type WalletOps interface {
	Overview(ctx context.Context, userID string) (models.Wallet, []models.WalletTransaction, error)
	StartTopUp(ctx context.Context, userID string, amount decimal.Decimal) (string, error)
	ConfirmTopUp(ctx context.Context, userID, sessionID string) (services.TopUpResult, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

type WalletHandler struct {
	Wallets WalletOps
}

func NewWalletHandler(wallets WalletOps) *WalletHandler {
	return &WalletHandler{Wallets: wallets}
}

func (h *WalletHandler) Overview(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	wallet, txns, err := h.Wallets.Overview(r.Context(), userID)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "wallet lookup failed", nil)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"wallet":       wallet,
		"transactions": txns,
	})
}

func (h *WalletHandler) TopUp(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	var req struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid body", nil)
		return
	}
	url, err := h.Wallets.StartTopUp(r.Context(), userID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAmount):
			httpx.WriteError(w, http.StatusBadRequest, "validation", err.Error(), nil)
		case errors.Is(err, payments.ErrNotConfigured):
			httpx.WriteError(w, http.StatusServiceUnavailable, "payments_unconfigured", err.Error(), nil)
		default:
			httpx.WriteError(w, http.StatusBadGateway, "provider_error", "unable to start checkout", nil)
		}
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"checkout_url": url})
}

// Confirm is the browser redirect path: the success URL carries the
// session id and this endpoint performs the same idempotent
// reconciliation as the webhook.
func (h *WalletHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		httpx.WriteError(w, http.StatusBadRequest, "validation", "session_id required", nil)
		return
	}
	res, err := h.Wallets.ConfirmTopUp(r.Context(), userID, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrNotConfigured):
			httpx.WriteError(w, http.StatusServiceUnavailable, "payments_unconfigured", err.Error(), nil)
		case errors.Is(err, services.ErrSessionForeign):
			httpx.WriteError(w, http.StatusForbidden, "forbidden", err.Error(), nil)
		case errors.Is(err, services.ErrPaymentIncomplete):
			httpx.WriteJSON(w, http.StatusOK, services.TopUpResult{Applied: false, Message: err.Error()})
		case errors.Is(err, services.ErrAmountMissing):
			httpx.WriteError(w, http.StatusBadGateway, "provider_error", err.Error(), nil)
		default:
			httpx.WriteError(w, http.StatusBadGateway, "provider_error", "unable to verify the payment session", nil)
		}
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

// Webhook receives provider notifications. Signature or decode
// failures are client errors; payloads that verify but cannot be
// attributed are acknowledged so the provider stops retrying.
func (h *WalletHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "unreadable body", nil)
		return
	}
	sig := r.Header.Get("Stripe-Signature")
	if err := h.Wallets.HandleWebhook(r.Context(), payload, sig); err != nil {
		if errors.Is(err, services.ErrWebhookInvalid) {
			httpx.WriteError(w, http.StatusBadRequest, "invalid_webhook", "webhook rejected", nil)
			return
		}
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "webhook processing failed", nil)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"received": true})
}
