package repositories

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shemul345/Life-O-positive-server/internal/adapters/persistence/models"
)

// fundingRepository implements FundingRepository interface.
// Records are append-only; there is no update or delete.
type fundingRepository struct {
	db *gorm.DB
}

// NewFundingRepository creates a new funding repository
func NewFundingRepository(db *gorm.DB) FundingRepository {
	return &fundingRepository{db: db}
}

// CreateIfAbsent inserts a funding record. A unique-index violation on
// transaction_id means another call already recorded this payment.
func (r *fundingRepository) CreateIfAbsent(ctx context.Context, record *models.FundingRecord) (bool, error) {
	err := r.db.WithContext(ctx).Create(record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GetByTransactionID gets the record for an external transaction
func (r *fundingRepository) GetByTransactionID(ctx context.Context, transactionID string) (*models.FundingRecord, error) {
	var record models.FundingRecord
	err := r.db.WithContext(ctx).Where("transaction_id = ?", transactionID).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// List lists funding records with pagination, most recent payment first
func (r *fundingRepository) List(ctx context.Context, offset, limit int) ([]*models.FundingRecord, int64, error) {
	records := []*models.FundingRecord{}
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.FundingRecord{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("paid_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// SumAmount totals every recorded payment
func (r *fundingRepository) SumAmount(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	row := r.db.WithContext(ctx).
		Model(&models.FundingRecord{}).
		Select("COALESCE(SUM(amount), 0)").
		Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}
