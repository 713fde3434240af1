package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/shemul345/Life-O-positive-server/internal/adapters/persistence/models"
	"github.com/shemul345/Life-O-positive-server/internal/adapters/persistence/repositories"
	"github.com/shemul345/Life-O-positive-server/internal/core/domain"
)

// AccessService answers authorization questions about a principal.
// Role and status always come from the stored account.
type AccessService struct {
	accounts repositories.AccountRepository
	log      logrus.FieldLogger
}

// NewAccessService creates a new access service
func NewAccessService(accounts repositories.AccountRepository, log logrus.FieldLogger) *AccessService {
	return &AccessService{accounts: accounts, log: log}
}

// RequireRole fails with ErrForbidden unless the principal's account holds one of roles
func (s *AccessService) RequireRole(ctx context.Context, principal string, roles ...domain.Role) error {
	account, err := s.lookup(ctx, principal)
	if err != nil {
		return err
	}
	if account == nil {
		return fmt.Errorf("%w: no account for principal", domain.ErrForbidden)
	}
	if !account.HasRole(roles...) {
		return fmt.Errorf("%w: role %s is not allowed", domain.ErrForbidden, account.Role)
	}
	return nil
}

// RequireActive fails with ErrForbidden when the principal's account is blocked.
// A principal without an account passes.
func (s *AccessService) RequireActive(ctx context.Context, principal string) error {
	account, err := s.lookup(ctx, principal)
	if err != nil {
		return err
	}
	if account != nil && account.IsBlocked() {
		return fmt.Errorf("%w: account is blocked", domain.ErrForbidden)
	}
	return nil
}

// RequireOwner fails with ErrForbidden unless principal and owner are the same email
func (s *AccessService) RequireOwner(principal, owner string) error {
	if owner == "" || domain.NormalizeEmail(principal) != domain.NormalizeEmail(owner) {
		return fmt.Errorf("%w: not the owner of this resource", domain.ErrForbidden)
	}
	return nil
}

// IsAdmin reports whether the principal's account has the admin role
func (s *AccessService) IsAdmin(ctx context.Context, principal string) (bool, error) {
	account, err := s.lookup(ctx, principal)
	if err != nil || account == nil {
		return false, err
	}
	return account.HasRole(domain.RoleAdmin), nil
}

// lookup returns nil without error when no account exists
func (s *AccessService) lookup(ctx context.Context, principal string) (*models.Account, error) {
	account, err := s.accounts.GetByEmail(ctx, domain.NormalizeEmail(principal))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		s.log.WithError(err).WithField("principal", principal).Error("Failed to load account for authorization")
		return nil, fmt.Errorf("load account: %w", err)
	}
	return account, nil
}
