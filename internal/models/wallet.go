package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet holds one user's prepaid balance. Created lazily on first
// access. The balance is only ever changed together with a
// WalletTransaction row in the same database transaction.
type Wallet struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Balance   decimal.Decimal `json:"balance"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type TransactionKind string

const (
	KindTopUp       TransactionKind = "topup"
	KindEventDebit  TransactionKind = "event_debit"
	KindEventRefund TransactionKind = "event_refund"
)

// WalletTransaction is an immutable ledger entry. PaymentSessionID is
// unique when present and doubles as the idempotency key for top-up
// reconciliation.
type WalletTransaction struct {
	ID               string          `json:"id"`
	WalletID         string          `json:"wallet_id"`
	Amount           decimal.Decimal `json:"amount"`
	Kind             TransactionKind `json:"kind"`
	EventID          *string         `json:"event_id,omitempty"`
	PaymentSessionID *string         `json:"payment_session_id,omitempty"`
	PaymentIntentID  *string         `json:"payment_intent_id,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}
