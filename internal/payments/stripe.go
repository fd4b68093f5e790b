package payments

import (
	"context"
	"encoding/json"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/webhook"
)

type StripeProvider struct {
	webhookSecret string
	enabled       bool
}

func NewStripeProvider(secretKey, webhookSecret string) *StripeProvider {
	if secretKey != "" {
		stripe.Key = secretKey
	}
	return &StripeProvider{
		webhookSecret: webhookSecret,
		enabled:       secretKey != "",
	}
}

func (s *StripeProvider) Enabled() bool { return s.enabled }

func (s *StripeProvider) CreateCheckout(ctx context.Context, p CheckoutParams) (Session, error) {
	if !s.enabled {
		return Session{}, ErrNotConfigured
	}
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(p.Currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(p.ProductName),
				},
				UnitAmount: stripe.Int64(p.AmountMinor),
			},
			Quantity: stripe.Int64(1),
		}},
		SuccessURL:        stripe.String(p.SuccessURL),
		CancelURL:         stripe.String(p.CancelURL),
		ClientReferenceID: stripe.String(p.UserID),
	}
	params.Context = ctx
	params.AddMetadata("user_id", p.UserID)

	sess, err := session.New(params)
	if err != nil {
		return Session{}, err
	}
	return fromStripeSession(sess), nil
}

func (s *StripeProvider) GetSession(ctx context.Context, id string) (Session, error) {
	if !s.enabled {
		return Session{}, ErrNotConfigured
	}
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	sess, err := session.Get(id, params)
	if err != nil {
		return Session{}, err
	}
	return fromStripeSession(sess), nil
}

func (s *StripeProvider) VerifyWebhook(payload []byte, signature string) (*Session, error) {
	if s.webhookSecret == "" {
		return nil, ErrNotConfigured
	}
	event, err := webhook.ConstructEvent(payload, signature, s.webhookSecret)
	if err != nil {
		return nil, err
	}
	if event.Type != "checkout.session.completed" {
		return nil, nil
	}
	var cs stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
		return nil, err
	}
	out := fromStripeSession(&cs)
	return &out, nil
}

func fromStripeSession(cs *stripe.CheckoutSession) Session {
	out := Session{
		ID:          cs.ID,
		URL:         cs.URL,
		UserID:      cs.ClientReferenceID,
		Paid:        cs.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		AmountMinor: cs.AmountTotal,
	}
	if out.UserID == "" && cs.Metadata != nil {
		out.UserID = cs.Metadata["user_id"]
	}
	if cs.PaymentIntent != nil {
		out.PaymentIntent = cs.PaymentIntent.ID
	}
	return out
}
