package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shemul345/Life-O-positive-server/internal/adapters/persistence/models"
	"github.com/shemul345/Life-O-positive-server/internal/core/domain"
)

// donationRequestRepository implements DonationRequestRepository interface
type donationRequestRepository struct {
	db *gorm.DB
}

// NewDonationRequestRepository creates a new donation request repository
func NewDonationRequestRepository(db *gorm.DB) DonationRequestRepository {
	return &donationRequestRepository{db: db}
}

// Create creates a new donation request
func (r *donationRequestRepository) Create(ctx context.Context, request *models.DonationRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

// GetByID gets a donation request by ID
func (r *donationRequestRepository) GetByID(ctx context.Context, id uint) (*models.DonationRequest, error) {
	var request models.DonationRequest
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// ListByRequester lists the requests owned by email, newest first.
// A zero limit returns every request.
func (r *donationRequestRepository) ListByRequester(ctx context.Context, email string, status domain.DonationStatus, limit int) ([]*models.DonationRequest, error) {
	requests := []*models.DonationRequest{}

	query := r.db.WithContext(ctx).
		Where("requester_email = ?", email).
		Scopes(statusScope(status)).
		Order("created_at DESC").
		Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// List lists donation requests across all owners with pagination, newest first
func (r *donationRequestRepository) List(ctx context.Context, filter models.DonationRequestFilter, offset, limit int) ([]*models.DonationRequest, int64, error) {
	requests := []*models.DonationRequest{}

	total, err := r.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	err = r.db.WithContext(ctx).
		Scopes(statusScope(filter.Status)).
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&requests).Error
	if err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

// Count counts donation requests matching filter
func (r *donationRequestRepository) Count(ctx context.Context, filter models.DonationRequestFilter) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.DonationRequest{}).
		Scopes(statusScope(filter.Status)).
		Count(&count).Error
	return count, err
}

// statusScope matches either the current or the legacy status column
func statusScope(status domain.DonationStatus) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if status == "" {
			return db
		}
		return db.Where("(donation_status = ? OR status = ?)", status, status)
	}
}

// ApplyStatusChange performs a conditional single-row update.
// The allowed source statuses are part of the WHERE clause, so two
// concurrent callers cannot both pass a strict transition check.
func (r *donationRequestRepository) ApplyStatusChange(ctx context.Context, id uint, change models.StatusChange) (bool, error) {
	if change.From != nil && len(change.From) == 0 {
		return false, nil
	}

	updates := map[string]interface{}{
		"donation_status": change.To,
	}
	switch {
	case change.ClearDonor:
		updates["donor_name"] = nil
		updates["donor_email"] = nil
	case change.Donor != nil:
		updates["donor_name"] = change.Donor.Name
		updates["donor_email"] = change.Donor.Email
	}

	query := r.db.WithContext(ctx).
		Model(&models.DonationRequest{}).
		Where("id = ?", id)
	if change.From != nil {
		query = query.Where("donation_status IN ?", change.From)
	}

	result := query.Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete removes a donation request permanently
func (r *donationRequestRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.DonationRequest{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
