package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/shemul345/Life-O-positive-server/internal/adapters/persistence/models"
	"github.com/shemul345/Life-O-positive-server/internal/adapters/persistence/repositories"
	"github.com/shemul345/Life-O-positive-server/internal/core/domain"
	"github.com/shemul345/Life-O-positive-server/internal/pkg/pagination"
)

// AccountService handles registration, profiles and account administration
type AccountService struct {
	accounts repositories.AccountRepository
	log      logrus.FieldLogger
}

// NewAccountService creates a new account service
func NewAccountService(accounts repositories.AccountRepository, log logrus.FieldLogger) *AccountService {
	return &AccountService{accounts: accounts, log: log}
}

// RegisterInput represents a registration request.
// Role and status are not client-settable.
type RegisterInput struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	Avatar      string `json:"avatar"`
	BloodGroup  string `json:"bloodGroup"`
	District    string `json:"district"`
	SubDistrict string `json:"subDistrict"`
}

// ProfileInput represents a partial profile update.
// Email, role and status are not client-settable.
type ProfileInput struct {
	Name        *string `json:"name"`
	Avatar      *string `json:"avatar"`
	BloodGroup  *string `json:"bloodGroup"`
	District    *string `json:"district"`
	SubDistrict *string `json:"subDistrict"`
}

// ListAccountsInput represents the admin account listing query
type ListAccountsInput struct {
	Params pagination.Params
	Status string
	Role   string
}

// DonorSearchInput represents the public donor search query
type DonorSearchInput struct {
	BloodGroup  string
	District    string
	SubDistrict string
}

// Register creates an account unless one exists for the email.
// It returns the stored account and whether it was created by this call.
func (s *AccountService) Register(ctx context.Context, input *RegisterInput) (*models.Account, bool, error) {
	email := domain.NormalizeEmail(input.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, false, fmt.Errorf("%w: a valid email is required", domain.ErrInvalidRequest)
	}

	account := &models.Account{
		Email:       email,
		Name:        strings.TrimSpace(input.Name),
		Avatar:      input.Avatar,
		BloodGroup:  input.BloodGroup,
		District:    input.District,
		SubDistrict: input.SubDistrict,
		Role:        domain.RoleDonor,
		Status:      domain.AccountActive,
	}

	created, err := s.accounts.CreateIfAbsent(ctx, account)
	if err != nil {
		return nil, false, err
	}
	if !created {
		existing, err := s.accounts.GetByEmail(ctx, email)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}

	s.log.WithField("email", email).Info("Account registered")
	return account, true, nil
}

// GetRole returns the stored role for email, or donor when no account exists
func (s *AccountService) GetRole(ctx context.Context, email string) (domain.Role, error) {
	account, err := s.accounts.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RoleDonor, nil
		}
		return "", err
	}
	return account.Role, nil
}

// SetRole changes the role of account id on behalf of principal
func (s *AccountService) SetRole(ctx context.Context, principal string, id uint, role domain.Role) (*models.Account, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidRequest, role)
	}
	if err := s.guardSelf(ctx, principal, id, domain.ErrCannotChangeOwnRole); err != nil {
		return nil, err
	}
	if err := s.accounts.UpdateRole(ctx, id, role); err != nil {
		return nil, notFound(err, domain.ErrAccountNotFound)
	}

	s.log.WithFields(logrus.Fields{"account_id": id, "role": role, "by": principal}).Info("Account role changed")
	return s.getByID(ctx, id)
}

// SetStatus blocks or unblocks account id on behalf of principal
func (s *AccountService) SetStatus(ctx context.Context, principal string, id uint, status domain.AccountStatus) (*models.Account, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidRequest, status)
	}
	if err := s.guardSelf(ctx, principal, id, domain.ErrCannotChangeOwnRole); err != nil {
		return nil, err
	}
	if err := s.accounts.UpdateStatus(ctx, id, status); err != nil {
		return nil, notFound(err, domain.ErrAccountNotFound)
	}

	s.log.WithFields(logrus.Fields{"account_id": id, "status": status, "by": principal}).Info("Account status changed")
	return s.getByID(ctx, id)
}

// ListAccounts lists accounts with pagination and optional status/role filters
func (s *AccountService) ListAccounts(ctx context.Context, input *ListAccountsInput) (*pagination.Response, error) {
	filter := models.AccountFilter{}

	if input.Status != "" && input.Status != domain.StatusFilterAll {
		status := domain.AccountStatus(input.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidRequest, input.Status)
		}
		filter.Status = status
	}
	if input.Role != "" && input.Role != domain.StatusFilterAll {
		role := domain.Role(input.Role)
		if !role.Valid() {
			return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidRequest, input.Role)
		}
		filter.Role = role
	}

	accounts, total, err := s.accounts.List(ctx, filter, input.Params.Offset, input.Params.Size)
	if err != nil {
		return nil, err
	}
	if accounts == nil {
		accounts = []*models.Account{}
	}

	return pagination.NewResponse(accounts, input.Params, total), nil
}

// Delete removes account id permanently on behalf of principal
func (s *AccountService) Delete(ctx context.Context, principal string, id uint) error {
	if err := s.guardSelf(ctx, principal, id, domain.ErrCannotDeleteSelf); err != nil {
		return err
	}
	if err := s.accounts.Delete(ctx, id); err != nil {
		return notFound(err, domain.ErrAccountNotFound)
	}

	s.log.WithFields(logrus.Fields{"account_id": id, "by": principal}).Info("Account deleted")
	return nil
}

// GetProfile returns the account stored for email
func (s *AccountService) GetProfile(ctx context.Context, email string) (*models.Account, error) {
	account, err := s.accounts.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return nil, notFound(err, domain.ErrAccountNotFound)
	}
	return account, nil
}

// UpdateProfile applies the client-writable fields of input to the account for email
func (s *AccountService) UpdateProfile(ctx context.Context, email string, input *ProfileInput) (*models.Account, error) {
	email = domain.NormalizeEmail(email)
	fields := models.ProfileFields{
		Name:        input.Name,
		Avatar:      input.Avatar,
		BloodGroup:  input.BloodGroup,
		District:    input.District,
		SubDistrict: input.SubDistrict,
	}

	if err := s.accounts.UpdateProfile(ctx, email, fields); err != nil {
		return nil, notFound(err, domain.ErrAccountNotFound)
	}
	return s.GetProfile(ctx, email)
}

// SearchDonors returns active donors matching the given location and blood group
func (s *AccountService) SearchDonors(ctx context.Context, input *DonorSearchInput) ([]*models.Account, error) {
	donors, err := s.accounts.SearchDonors(ctx, models.DonorSearch{
		BloodGroup:  strings.TrimSpace(input.BloodGroup),
		District:    strings.TrimSpace(input.District),
		SubDistrict: strings.TrimSpace(input.SubDistrict),
	})
	if err != nil {
		return nil, err
	}
	if donors == nil {
		donors = []*models.Account{}
	}
	return donors, nil
}

// guardSelf rejects administrative actions an admin aims at their own account
func (s *AccountService) guardSelf(ctx context.Context, principal string, id uint, selfErr error) error {
	target, err := s.getByID(ctx, id)
	if err != nil {
		return err
	}
	if target.Email == domain.NormalizeEmail(principal) {
		return selfErr
	}
	return nil
}

func (s *AccountService) getByID(ctx context.Context, id uint) (*models.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, domain.ErrAccountNotFound)
	}
	return account, nil
}

// notFound maps gorm.ErrRecordNotFound to target and passes other errors through
func notFound(err, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}
