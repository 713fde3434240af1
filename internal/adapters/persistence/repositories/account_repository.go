package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/shemul345/Life-O-positive-server/internal/adapters/persistence/models"
	"github.com/shemul345/Life-O-positive-server/internal/core/domain"
)

// accountRepository implements AccountRepository interface
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

// CreateIfAbsent inserts an account, relying on the unique email index.
// The connection must be opened with TranslateError so a violation surfaces
// as gorm.ErrDuplicatedKey.
func (r *accountRepository) CreateIfAbsent(ctx context.Context, account *models.Account) (bool, error) {
	err := r.db.WithContext(ctx).Create(account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GetByID gets an account by ID
func (r *accountRepository) GetByID(ctx context.Context, id uint) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetByEmail gets an account by email
func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// UpdateRole sets the role of an account
func (r *accountRepository) UpdateRole(ctx context.Context, id uint, role domain.Role) error {
	return r.updateColumn(ctx, id, "role", role)
}

// UpdateStatus sets the status of an account
func (r *accountRepository) UpdateStatus(ctx context.Context, id uint, status domain.AccountStatus) error {
	return r.updateColumn(ctx, id, "status", status)
}

func (r *accountRepository) updateColumn(ctx context.Context, id uint, column string, value interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", id).
		Update(column, value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateProfile applies the non-nil profile fields of the account owning email
func (r *accountRepository) UpdateProfile(ctx context.Context, email string, fields models.ProfileFields) error {
	updates := fields.Updates()
	if len(updates) == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Account{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}

	result := r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("email = ?", email).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes an account permanently
func (r *accountRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Account{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List lists accounts with pagination, newest first
func (r *accountRepository) List(ctx context.Context, filter models.AccountFilter, offset, limit int) ([]*models.Account, int64, error) {
	accounts := []*models.Account{}
	var total int64

	if err := r.db.WithContext(ctx).
		Model(&models.Account{}).
		Scopes(accountFilterScope(filter)).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Scopes(accountFilterScope(filter)).
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&accounts).Error; err != nil {
		return nil, 0, err
	}

	return accounts, total, nil
}

func accountFilterScope(filter models.AccountFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.Status != "" {
			db = db.Where("status = ?", filter.Status)
		}
		if filter.Role != "" {
			db = db.Where("role = ?", filter.Role)
		}
		return db
	}
}

// SearchDonors finds active donors by blood group and location
func (r *accountRepository) SearchDonors(ctx context.Context, search models.DonorSearch) ([]*models.Account, error) {
	donors := []*models.Account{}

	query := r.db.WithContext(ctx).
		Where("role = ?", domain.RoleDonor).
		Where("status = ?", domain.AccountActive)
	if search.BloodGroup != "" {
		query = query.Where("blood_group = ?", search.BloodGroup)
	}
	if search.District != "" {
		query = query.Where("district = ?", search.District)
	}
	if search.SubDistrict != "" {
		query = query.Where("sub_district = ?", search.SubDistrict)
	}

	err := query.Order("created_at DESC").Find(&donors).Error
	if err != nil {
		return nil, err
	}
	return donors, nil
}

// CountByRole counts accounts holding role
func (r *accountRepository) CountByRole(ctx context.Context, role domain.Role) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Account{}).Where("role = ?", role).Count(&count).Error
	return count, err
}
