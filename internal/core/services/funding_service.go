package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/shemul345/Life-O-positive-server/internal/adapters/persistence/models"
	"github.com/shemul345/Life-O-positive-server/internal/adapters/persistence/repositories"
	"github.com/shemul345/Life-O-positive-server/internal/core/domain"
	"github.com/shemul345/Life-O-positive-server/internal/pkg/metrics"
	"github.com/shemul345/Life-O-positive-server/internal/pkg/money"
	"github.com/shemul345/Life-O-positive-server/internal/pkg/pagination"
)

// PaymentTypeFunding marks voluntary contributions to the platform
const PaymentTypeFunding = "funding"

// FundingConfig holds the checkout settings
type FundingConfig struct {
	Currency  string
	ClientURL string
}

// FundingService reconciles external payments into the funding ledger
type FundingService struct {
	fundings repositories.FundingRepository
	provider PaymentProvider
	cfg      FundingConfig
	log      logrus.FieldLogger
	now      func() time.Time
}

// NewFundingService creates a new funding service
func NewFundingService(
	fundings repositories.FundingRepository,
	provider PaymentProvider,
	cfg FundingConfig,
	log logrus.FieldLogger,
) *FundingService {
	if cfg.Currency == "" {
		cfg.Currency = "usd"
	}
	cfg.Currency = strings.ToLower(cfg.Currency)
	cfg.ClientURL = strings.TrimRight(cfg.ClientURL, "/")

	return &FundingService{
		fundings: fundings,
		provider: provider,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// CheckoutInput represents a contribution to collect.
// Amount is in major units and accepts a JSON number or string.
type CheckoutInput struct {
	Amount     decimal.Decimal `json:"amount"`
	DonorEmail string          `json:"donorEmail"`
	DonorName  string          `json:"donorName"`
}

// CheckoutOutput is returned to the client to redirect to the hosted page
type CheckoutOutput struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// ConfirmResult reports the ledger entry for a confirmed payment
type ConfirmResult struct {
	Record *models.FundingRecord `json:"record"`
	// Replayed is true when the payment had already been recorded
	Replayed bool `json:"replayed"`
}

// CreateCheckout opens a hosted checkout session for input.Amount
func (s *FundingService) CreateCheckout(ctx context.Context, input *CheckoutInput) (*CheckoutOutput, error) {
	if !input.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be greater than zero", domain.ErrInvalidRequest)
	}

	minor, err := money.ToMinor(input.Amount, s.cfg.Currency)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	if minor < 1 || minor > money.MaxMinor {
		return nil, fmt.Errorf("%w: amount must be at most %s %s", domain.ErrInvalidRequest,
			money.FromMinor(money.MaxMinor, s.cfg.Currency).String(), strings.ToUpper(s.cfg.Currency))
	}

	email := domain.NormalizeEmail(input.DonorEmail)
	session, err := s.provider.CreateCheckoutSession(ctx, CheckoutSessionParams{
		AmountMinor:   minor,
		Currency:      s.cfg.Currency,
		ProductName:   "Life O+ funding",
		CustomerEmail: email,
		SuccessURL:    s.cfg.ClientURL + "/funding-success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     s.cfg.ClientURL + "/funding",
		Metadata: map[string]string{
			MetadataDonorEmail:  email,
			MetadataDonorName:   strings.TrimSpace(input.DonorName),
			MetadataPaymentType: PaymentTypeFunding,
		},
		IdempotencyKey: uuid.NewString(),
	})
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	s.log.WithFields(logrus.Fields{"session_id": session.ID, "amount_minor": minor}).Info("Checkout session created")
	return &CheckoutOutput{SessionID: session.ID, URL: session.URL}, nil
}

// Confirm records the payment behind sessionID exactly once.
// Repeated calls for the same payment return the existing record.
func (s *FundingService) Confirm(ctx context.Context, sessionID string) (*ConfirmResult, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session_id is required", domain.ErrInvalidRequest)
	}

	session, err := s.provider.RetrieveCheckoutSession(ctx, sessionID)
	if err != nil {
		metrics.RecordConfirmation(metrics.OutcomeFailed)
		return nil, fmt.Errorf("retrieve checkout session: %w", err)
	}

	transactionID := session.TransactionID
	if transactionID == "" {
		transactionID = session.ID
	}

	existing, err := s.fundings.GetByTransactionID(ctx, transactionID)
	switch {
	case err == nil:
		metrics.RecordConfirmation(metrics.OutcomeReplayed)
		return &ConfirmResult{Record: existing, Replayed: true}, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		metrics.RecordConfirmation(metrics.OutcomeFailed)
		return nil, err
	}

	if !session.Paid {
		metrics.RecordConfirmation(metrics.OutcomeIncomplete)
		return nil, fmt.Errorf("%w: session %s is not paid", domain.ErrPaymentIncomplete, sessionID)
	}

	currency := strings.ToLower(session.Currency)
	if currency == "" {
		currency = s.cfg.Currency
	}
	email := session.Metadata[MetadataDonorEmail]
	if email == "" {
		email = domain.NormalizeEmail(session.CustomerEmail)
	}
	paymentType := session.Metadata[MetadataPaymentType]
	if paymentType == "" {
		paymentType = PaymentTypeFunding
	}

	record := &models.FundingRecord{
		ID:            uuid.NewString(),
		Amount:        money.FromMinor(session.AmountTotal, currency),
		Currency:      currency,
		DonorEmail:    email,
		DonorName:     session.Metadata[MetadataDonorName],
		TransactionID: transactionID,
		SessionID:     session.ID,
		PaidAt:        s.now().UTC(),
		Status:        domain.FundingStatusCompleted,
		PaymentType:   paymentType,
	}

	created, err := s.fundings.CreateIfAbsent(ctx, record)
	if err != nil {
		metrics.RecordConfirmation(metrics.OutcomeFailed)
		return nil, err
	}
	if !created {
		// a concurrent confirmation won the insert
		existing, err = s.fundings.GetByTransactionID(ctx, transactionID)
		if err != nil {
			metrics.RecordConfirmation(metrics.OutcomeFailed)
			return nil, err
		}
		metrics.RecordConfirmation(metrics.OutcomeReplayed)
		return &ConfirmResult{Record: existing, Replayed: true}, nil
	}

	metrics.RecordConfirmation(metrics.OutcomeRecorded)
	s.log.WithFields(logrus.Fields{
		"transaction_id": transactionID,
		"amount":         record.Amount.String(),
		"currency":       currency,
	}).Info("Funding recorded")

	return &ConfirmResult{Record: record}, nil
}

// List lists funding records with pagination, newest first
func (s *FundingService) List(ctx context.Context, params pagination.Params) (*pagination.Response, error) {
	records, total, err := s.fundings.List(ctx, params.Offset, params.Size)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []*models.FundingRecord{}
	}
	return pagination.NewResponse(records, params, total), nil
}
