package repositories

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/shemul345/Life-O-positive-server/internal/adapters/persistence/models"
	"github.com/shemul345/Life-O-positive-server/internal/core/domain"
)

// Lookups that find nothing return gorm.ErrRecordNotFound, as do updates and
// deletes addressed to a missing id.

// AccountRepository defines account repository interface
type AccountRepository interface {
	// CreateIfAbsent inserts the account unless its email is already taken.
	// It reports whether a row was inserted.
	CreateIfAbsent(ctx context.Context, account *models.Account) (bool, error)
	GetByID(ctx context.Context, id uint) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	UpdateRole(ctx context.Context, id uint, role domain.Role) error
	UpdateStatus(ctx context.Context, id uint, status domain.AccountStatus) error
	UpdateProfile(ctx context.Context, email string, fields models.ProfileFields) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter models.AccountFilter, offset, limit int) ([]*models.Account, int64, error)
	SearchDonors(ctx context.Context, search models.DonorSearch) ([]*models.Account, error)
	CountByRole(ctx context.Context, role domain.Role) (int64, error)
}

// DonationRequestRepository defines donation request repository interface
type DonationRequestRepository interface {
	Create(ctx context.Context, request *models.DonationRequest) error
	GetByID(ctx context.Context, id uint) (*models.DonationRequest, error)
	ListByRequester(ctx context.Context, email string, status domain.DonationStatus, limit int) ([]*models.DonationRequest, error)
	List(ctx context.Context, filter models.DonationRequestFilter, offset, limit int) ([]*models.DonationRequest, int64, error)
	// ApplyStatusChange updates status and donor fields in one statement.
	// It reports whether the row matched the id and the allowed source statuses.
	ApplyStatusChange(ctx context.Context, id uint, change models.StatusChange) (bool, error)
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context, filter models.DonationRequestFilter) (int64, error)
}

// FundingRepository defines funding ledger repository interface
type FundingRepository interface {
	// CreateIfAbsent inserts the record unless its transaction id is already recorded.
	// It reports whether a row was inserted.
	CreateIfAbsent(ctx context.Context, record *models.FundingRecord) (bool, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*models.FundingRecord, error)
	List(ctx context.Context, offset, limit int) ([]*models.FundingRecord, int64, error)
	SumAmount(ctx context.Context) (decimal.Decimal, error)
}
