package config

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/shemul345/Life-O-positive-server/internal/adapters/persistence/models"
	"github.com/shemul345/Life-O-positive-server/internal/adapters/persistence/repositories"
	"github.com/shemul345/Life-O-positive-server/internal/core/domain"
)

// Seeder handles database seeding
type Seeder struct {
	accounts repositories.AccountRepository
	log      logrus.FieldLogger
}

// NewSeeder creates a new seeder instance
func NewSeeder(accounts repositories.AccountRepository, log logrus.FieldLogger) *Seeder {
	return &Seeder{accounts: accounts, log: log}
}

// Run executes all seeders
func (s *Seeder) Run(ctx context.Context, cfg *Config) error {
	if cfg.AdminEmail == "" {
		s.log.Info("ADMIN_EMAIL not set, skipping admin seeding")
		return nil
	}
	return s.seedAdmin(ctx, cfg.AdminEmail)
}

// seedAdmin makes sure the configured email holds an active admin account.
// Identity is external, so only the account row is created here.
func (s *Seeder) seedAdmin(ctx context.Context, email string) error {
	created, err := s.accounts.CreateIfAbsent(ctx, &models.Account{
		Email:  email,
		Name:   "Administrator",
		Role:   domain.RoleAdmin,
		Status: domain.AccountActive,
	})
	if err != nil {
		return err
	}
	if created {
		s.log.WithField("email", email).Info("Admin account seeded")
		return nil
	}

	existing, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !existing.HasRole(domain.RoleAdmin) {
		if err := s.accounts.UpdateRole(ctx, existing.ID, domain.RoleAdmin); err != nil {
			return err
		}
	}
	if existing.IsBlocked() {
		if err := s.accounts.UpdateStatus(ctx, existing.ID, domain.AccountActive); err != nil {
			return err
		}
	}
	s.log.WithField("email", email).Info("Admin account already present")
	return nil
}
