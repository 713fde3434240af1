package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shemul345/Life-O-positive-server/internal/adapters/persistence/models"
	"github.com/shemul345/Life-O-positive-server/internal/core/domain"
)

func TestStatsService_GetAdminStats(t *testing.T) {
	accounts := newFakeAccountRepo()
	accounts.seed("admin@example.com", domain.RoleAdmin, domain.AccountActive)
	accounts.seed("vol@example.com", domain.RoleVolunteer, domain.AccountActive)
	accounts.seed("d1@example.com", domain.RoleDonor, domain.AccountActive)
	accounts.seed("d2@example.com", domain.RoleDonor, domain.AccountBlocked)

	requests := newFakeDonationRequestRepo()
	ctx := context.Background()
	for _, status := range []domain.DonationStatus{domain.DonationPending, domain.DonationPending, domain.DonationDone} {
		require.NoError(t, requests.Create(ctx, &models.DonationRequest{RequesterEmail: "d1@example.com", DonationStatus: status}))
	}

	fundings := newFakeFundingRepo()
	for tx, amount := range map[string]string{"pi_1": "10.25", "pi_2": "4.75"} {
		_, err := fundings.CreateIfAbsent(ctx, &models.FundingRecord{TransactionID: tx, Amount: decimal.RequireFromString(amount)})
		require.NoError(t, err)
	}

	svc := NewStatsService(accounts, requests, fundings, testLogger())
	stats, err := svc.GetAdminStats(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.TotalDonors)
	assert.Equal(t, int64(1), stats.TotalVolunteers)
	assert.Equal(t, int64(1), stats.TotalAdmins)
	assert.Equal(t, int64(3), stats.TotalRequests)
	assert.Equal(t, int64(2), stats.RequestsByStatus[domain.DonationPending])
	assert.Equal(t, int64(0), stats.RequestsByStatus[domain.DonationCanceled])
	assert.True(t, stats.TotalFunding.Equal(decimal.NewFromInt(15)))
}

func TestStatsService_StoreFailure(t *testing.T) {
	accounts := newFakeAccountRepo()
	accounts.err = errStoreDown
	svc := NewStatsService(accounts, newFakeDonationRequestRepo(), newFakeFundingRepo(), testLogger())

	_, err := svc.GetAdminStats(context.Background())
	assert.ErrorIs(t, err, errStoreDown)
}
