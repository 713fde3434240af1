package services

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/shemul345/Life-O-positive-server/internal/adapters/persistence/models"
	"github.com/shemul345/Life-O-positive-server/internal/adapters/persistence/repositories"
	"github.com/shemul345/Life-O-positive-server/internal/core/domain"
)

// StatsService aggregates the admin dashboard figures
type StatsService struct {
	accounts repositories.AccountRepository
	requests repositories.DonationRequestRepository
	fundings repositories.FundingRepository
	log      logrus.FieldLogger
}

// NewStatsService creates a new stats service
func NewStatsService(
	accounts repositories.AccountRepository,
	requests repositories.DonationRequestRepository,
	fundings repositories.FundingRepository,
	log logrus.FieldLogger,
) *StatsService {
	return &StatsService{
		accounts: accounts,
		requests: requests,
		fundings: fundings,
		log:      log,
	}
}

// AdminStats represents admin dashboard data
type AdminStats struct {
	// Account statistics
	TotalDonors     int64 `json:"totalDonors"`
	TotalVolunteers int64 `json:"totalVolunteers"`
	TotalAdmins     int64 `json:"totalAdmins"`

	// Donation request statistics
	TotalRequests    int64                           `json:"totalRequests"`
	RequestsByStatus map[domain.DonationStatus]int64 `json:"requestsByStatus"`

	// Funding
	TotalFunding decimal.Decimal `json:"totalFunding"`
}

// GetAdminStats returns admin dashboard data
func (s *StatsService) GetAdminStats(ctx context.Context) (*AdminStats, error) {
	stats := &AdminStats{
		RequestsByStatus: make(map[domain.DonationStatus]int64, len(domain.AllDonationStatuses)),
	}

	roleCounts := []struct {
		role domain.Role
		dst  *int64
	}{
		{domain.RoleDonor, &stats.TotalDonors},
		{domain.RoleVolunteer, &stats.TotalVolunteers},
		{domain.RoleAdmin, &stats.TotalAdmins},
	}
	for _, rc := range roleCounts {
		count, err := s.accounts.CountByRole(ctx, rc.role)
		if err != nil {
			return nil, err
		}
		*rc.dst = count
	}

	total, err := s.requests.Count(ctx, models.DonationRequestFilter{})
	if err != nil {
		return nil, err
	}
	stats.TotalRequests = total

	for _, status := range domain.AllDonationStatuses {
		count, err := s.requests.Count(ctx, models.DonationRequestFilter{Status: status})
		if err != nil {
			return nil, err
		}
		stats.RequestsByStatus[status] = count
	}

	sum, err := s.fundings.SumAmount(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalFunding = sum

	return stats, nil
}
