package payments

import (
	"context"
	"errors"
)

var ErrNotConfigured = errors.New("payment provider is not configured")

// CheckoutParams describes one wallet top-up checkout.
type CheckoutParams struct {
	AmountMinor int64 // smallest currency unit
	Currency    string
	ProductName string
	SuccessURL  string
	CancelURL   string
	UserID      string // linked back via client reference id + metadata
}

// Session is the provider-agnostic view of a checkout session.
type Session struct {
	ID            string
	URL           string
	UserID        string
	Paid          bool
	AmountMinor   int64
	PaymentIntent string
}

// Provider is the outbound payment boundary. The stripe implementation
// is the only production one; tests substitute fakes.
type Provider interface {
	Enabled() bool
	CreateCheckout(ctx context.Context, p CheckoutParams) (Session, error)
	GetSession(ctx context.Context, id string) (Session, error)
	// VerifyWebhook checks the payload signature and returns the
	// completed-and-paid checkout session it carries, or nil when the
	// event is of a type this system does not act on. A non-nil error
	// means the payload must be rejected with a client error.
	VerifyWebhook(payload []byte, signature string) (*Session, error)
}
