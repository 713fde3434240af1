package services

import (
	"context"
)

// Note: AccessService implementation is in access_service.go
// Note: AccountService implementation is in account_service.go

// TokenVerifier resolves a bearer token into the principal email.
// Every failure is reported as an error; callers do not distinguish causes.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}

// PaymentProvider creates and inspects hosted checkout sessions
type PaymentProvider interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*CheckoutSession, error)
	RetrieveCheckoutSession(ctx context.Context, id string) (*CheckoutSession, error)
}

// CheckoutSessionParams describes a one-off payment to collect
type CheckoutSessionParams struct {
	AmountMinor    int64
	Currency       string
	ProductName    string
	CustomerEmail  string
	SuccessURL     string
	CancelURL      string
	Metadata       map[string]string
	IdempotencyKey string
}

// CheckoutSession is the provider-neutral view of a checkout session
type CheckoutSession struct {
	ID            string
	URL           string
	Paid          bool
	AmountTotal   int64
	Currency      string
	TransactionID string
	CustomerEmail string
	Metadata      map[string]string
}

// Metadata keys attached to checkout sessions
const (
	MetadataDonorEmail  = "donorEmail"
	MetadataDonorName   = "donorName"
	MetadataPaymentType = "paymentType"
)
