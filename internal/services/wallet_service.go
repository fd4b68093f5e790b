package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"teamup/internal/metrics"
	"teamup/internal/models"
	"teamup/internal/notify"
	"teamup/internal/payments"
	repo "teamup/internal/repository"
)

var (
	ErrInvalidAmount     = errors.New("top up amount must be greater than zero")
	ErrSessionForeign    = errors.New("this top-up session does not belong to you")
	ErrPaymentIncomplete = errors.New("payment is not complete yet")
	ErrAmountMissing     = errors.New("payment provider did not return an amount")

	// ErrWebhookInvalid marks payloads that must be rejected with a
	// client error (bad signature, undecodable body).
	ErrWebhookInvalid = errors.New("invalid webhook payload")
)

var minorUnits = decimal.NewFromInt(100)

type WalletService struct {
	store    repo.Store
	provider payments.Provider
	notifier *notify.Notifier
	currency string
	baseURL  string
}

func NewWalletService(store repo.Store, provider payments.Provider, notifier *notify.Notifier, currency, baseURL string) *WalletService {
	return &WalletService{store: store, provider: provider, notifier: notifier, currency: currency, baseURL: baseURL}
}

// Overview returns the wallet (created lazily) and its recent ledger.
func (s *WalletService) Overview(ctx context.Context, userID string) (models.Wallet, []models.WalletTransaction, error) {
	r := s.store.Repos()
	wallet, err := r.Wallets.GetOrCreate(ctx, userID)
	if err != nil {
		return models.Wallet{}, nil, err
	}
	txns, err := r.Wallets.ListTransactions(ctx, wallet.ID, 50, 0)
	if err != nil {
		return models.Wallet{}, nil, err
	}
	return wallet, txns, nil
}

// StartTopUp creates a checkout session and returns the URL to send
// the user to. The success URL carries the session id so the browser
// redirect can run the same reconciliation as the webhook.
func (s *WalletService) StartTopUp(ctx context.Context, userID string, amount decimal.Decimal) (string, error) {
	if !amount.IsPositive() {
		return "", ErrInvalidAmount
	}
	if !s.provider.Enabled() {
		return "", payments.ErrNotConfigured
	}
	sess, err := s.provider.CreateCheckout(ctx, payments.CheckoutParams{
		AmountMinor: amount.Mul(minorUnits).IntPart(),
		Currency:    s.currency,
		ProductName: "Wallet top-up",
		SuccessURL:  s.baseURL + "/api/v1/wallet/topup/confirm?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:   s.baseURL + "/api/v1/wallet",
		UserID:      userID,
	})
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}

type TopUpResult struct {
	Applied bool            `json:"applied"`
	Amount  decimal.Decimal `json:"amount"`
	Message string          `json:"message"`
}

// ConfirmTopUp is the browser status-check path: retrieve the session,
// make sure it belongs to the caller and is paid, then apply it exactly
// once.
func (s *WalletService) ConfirmTopUp(ctx context.Context, userID, sessionID string) (TopUpResult, error) {
	if !s.provider.Enabled() {
		return TopUpResult{}, payments.ErrNotConfigured
	}
	sess, err := s.provider.GetSession(ctx, sessionID)
	if err != nil {
		return TopUpResult{}, err
	}
	if sess.UserID != userID {
		return TopUpResult{}, ErrSessionForeign
	}
	if !sess.Paid {
		return TopUpResult{}, ErrPaymentIncomplete
	}
	if sess.AmountMinor <= 0 {
		return TopUpResult{}, ErrAmountMissing
	}

	amount := decimal.NewFromInt(sess.AmountMinor).Div(minorUnits)
	applied, err := s.applyTopUp(ctx, userID, amount, sess.ID, sess.PaymentIntent)
	if err != nil {
		return TopUpResult{}, err
	}
	res := TopUpResult{Applied: applied, Amount: amount}
	if applied {
		res.Message = "Top-up applied to your wallet."
	} else {
		res.Message = "Top-up was already applied."
	}
	return res, nil
}

// HandleWebhook applies a signed provider notification. Malformed or
// unattributable-but-wellformed payloads are acknowledged without
// mutation so the provider does not retry forever; only signature or
// decode failures are rejected.
func (s *WalletService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	sess, err := s.provider.VerifyWebhook(payload, signature)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWebhookInvalid, err)
	}
	if sess == nil || !sess.Paid {
		return nil
	}
	if sess.ID == "" || sess.UserID == "" || sess.AmountMinor <= 0 {
		slog.Warn("webhook payload missing fields, acknowledged without mutation", "session_id", sess.ID)
		return nil
	}
	exists, err := s.store.Repos().Users.Exists(ctx, sess.UserID)
	if err != nil {
		return err
	}
	if !exists {
		slog.Warn("webhook references unknown user, acknowledged without mutation",
			"session_id", sess.ID, "user_id", sess.UserID)
		return nil
	}

	amount := decimal.NewFromInt(sess.AmountMinor).Div(minorUnits)
	_, err = s.applyTopUp(ctx, sess.UserID, amount, sess.ID, sess.PaymentIntent)
	return err
}

// applyTopUp credits the wallet exactly once per session id: the
// existence check runs under the wallet lock, and the ledger's unique
// constraint catches the remaining race between concurrent deliveries.
func (s *WalletService) applyTopUp(ctx context.Context, userID string, amount decimal.Decimal, sessionID, paymentIntent string) (bool, error) {
	applied := false
	err := s.store.InTx(ctx, func(r repo.Repos) error {
		wallet, err := r.Wallets.LockGetOrCreate(ctx, userID)
		if err != nil {
			return err
		}
		seen, err := r.Wallets.HasSession(ctx, sessionID)
		if err != nil {
			return err
		}
		if seen {
			return nil
		}
		ch := repo.WalletChange{
			WalletID:         wallet.ID,
			Amount:           amount,
			Kind:             models.KindTopUp,
			PaymentSessionID: &sessionID,
		}
		if paymentIntent != "" {
			ch.PaymentIntentID = &paymentIntent
		}
		if _, err := r.Wallets.Apply(ctx, ch); err != nil {
			return err
		}
		applied = true
		return nil
	})
	if errors.Is(err, repo.ErrDuplicateSession) {
		// lost the race to a concurrent delivery; same outcome as seen
		metrics.TopUpsDuplicate.Inc()
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !applied {
		metrics.TopUpsDuplicate.Inc()
		return false, nil
	}

	metrics.TopUpsApplied.Inc()
	if user, err := s.store.Repos().Users.GetByID(ctx, userID); err == nil {
		s.notifier.TopUpApplied(user, amount)
	}
	return true, nil
}
