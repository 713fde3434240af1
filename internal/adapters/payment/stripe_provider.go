// Package payment adapts hosted checkout providers to services.PaymentProvider.
package payment

import (
	"context"
	"errors"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/shemul345/Life-O-positive-server/internal/core/services"
)

// StripeProvider implements services.PaymentProvider with Stripe Checkout
type StripeProvider struct {
	api *client.API
}

// NewStripeProvider creates a provider authenticated with secretKey
func NewStripeProvider(secretKey string) (*StripeProvider, error) {
	if secretKey == "" {
		return nil, errors.New("stripe secret key is required")
	}
	return &StripeProvider{api: client.New(secretKey, nil)}, nil
}

// CreateCheckoutSession opens a one-item payment-mode checkout session
func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, in services.CheckoutSessionParams) (*services.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(in.SuccessURL),
		CancelURL:  stripe.String(in.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(strings.ToLower(in.Currency)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(in.ProductName),
					},
					UnitAmount: stripe.Int64(in.AmountMinor),
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	if in.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(in.CustomerEmail)
	}
	for k, v := range in.Metadata {
		params.AddMetadata(k, v)
	}
	if in.IdempotencyKey != "" {
		params.SetIdempotencyKey(in.IdempotencyKey)
	}
	params.Context = ctx

	session, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, err
	}
	return toCheckoutSession(session), nil
}

// RetrieveCheckoutSession fetches a session by id
func (p *StripeProvider) RetrieveCheckoutSession(ctx context.Context, id string) (*services.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	session, err := p.api.CheckoutSessions.Get(id, params)
	if err != nil {
		return nil, err
	}
	return toCheckoutSession(session), nil
}

// toCheckoutSession maps a Stripe session. The payment intent id identifies the
// transaction; sessions without one fall back to the session id in the service.
func toCheckoutSession(s *stripe.CheckoutSession) *services.CheckoutSession {
	out := &services.CheckoutSession{
		ID:            s.ID,
		URL:           s.URL,
		Paid:          s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		AmountTotal:   s.AmountTotal,
		Currency:      string(s.Currency),
		CustomerEmail: s.CustomerEmail,
		Metadata:      s.Metadata,
	}
	if s.PaymentIntent != nil {
		out.TransactionID = s.PaymentIntent.ID
	}
	if out.CustomerEmail == "" && s.CustomerDetails != nil {
		out.CustomerEmail = s.CustomerDetails.Email
	}
	if out.Metadata == nil {
		out.Metadata = map[string]string{}
	}
	return out
}
