package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shemul345/Life-O-positive-server/internal/adapters/persistence/models"
	"github.com/shemul345/Life-O-positive-server/internal/core/domain"
)

func newFunding(txID, amount string, paidAt time.Time) *models.FundingRecord {
	return &models.FundingRecord{
		ID:            uuid.NewString(),
		Amount:        decimal.RequireFromString(amount),
		Currency:      "usd",
		TransactionID: txID,
		PaidAt:        paidAt,
		Status:        domain.FundingStatusCompleted,
		PaymentType:   "funding",
	}
}

func TestFundingRepository_UniqueTransaction(t *testing.T) {
	repo := NewFundingRepository(newTestDB(t))
	ctx := context.Background()

	created, err := repo.CreateIfAbsent(ctx, newFunding("pi_1", "25.50", time.Now()))
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.CreateIfAbsent(ctx, newFunding("pi_1", "25.50", time.Now()))
	require.NoError(t, err)
	assert.False(t, created)

	_, total, err := repo.List(ctx, 0, 15)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	stored, err := repo.GetByTransactionID(ctx, "pi_1")
	require.NoError(t, err)
	assert.True(t, stored.Amount.Equal(decimal.RequireFromString("25.50")))

	_, err = repo.GetByTransactionID(ctx, "pi_missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestFundingRepository_ListAndSum(t *testing.T) {
	repo := NewFundingRepository(newTestDB(t))
	ctx := context.Background()

	sum, err := repo.SumAmount(ctx)
	require.NoError(t, err)
	assert.True(t, sum.IsZero())

	base := time.Now().Add(-time.Hour)
	for i, amount := range []string{"10", "25.50", "4.50"} {
		_, err := repo.CreateIfAbsent(ctx, newFunding("pi_"+amount, amount, base.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
	}

	sum, err = repo.SumAmount(ctx)
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.NewFromInt(40)), "got %s", sum)

	records, total, err := repo.List(ctx, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, records, 2)
	assert.Equal(t, "pi_4.50", records[0].TransactionID)
}
