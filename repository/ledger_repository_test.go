package repository

import (
	"context"
	"testing"

	"deadpigeons/domain/entities"
	"deadpigeons/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerRepository_Record(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewLedgerRepository(testDB.DB)
	ctx := context.Background()

	account := testutil.CreateTestAccount(t, testDB.DB, "alice", 0)

	entry := &entities.LedgerEntry{
		AccountID:     account.ID,
		BalanceBefore: 0,
		BalanceAfter:  100,
		Amount:        100,
		Reason:        entities.ReasonTopup,
		Reference:     "MP-1001",
	}
	require.NoError(t, repo.Record(ctx, entry))

	assert.NotZero(t, entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())
}

func TestLedgerRepository_GetByAccount(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewLedgerRepository(testDB.DB)
	ctx := context.Background()

	account := testutil.CreateTestAccount(t, testDB.DB, "bob", 0)

	testutil.CreateTestLedgerEntry(t, testDB.DB, account.ID, 0, 100, 100, entities.ReasonTopup)
	testutil.CreateTestLedgerEntry(t, testDB.DB, account.ID, 100, 80, -20, entities.ReasonEntryFee)
	testutil.CreateTestLedgerEntry(t, testDB.DB, account.ID, 80, 40, -40, entities.ReasonEntryFee)

	t.Run("most recent first", func(t *testing.T) {
		entries, err := repo.GetByAccount(ctx, account.ID, 10)
		require.NoError(t, err)
		require.Len(t, entries, 3)

		assert.Equal(t, int64(-40), entries[0].Amount)
		assert.Equal(t, int64(-20), entries[1].Amount)
		assert.Equal(t, int64(100), entries[2].Amount)
	})

	t.Run("limit applies", func(t *testing.T) {
		entries, err := repo.GetByAccount(ctx, account.ID, 2)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("unknown account yields empty", func(t *testing.T) {
		entries, err := repo.GetByAccount(ctx, 999999, 10)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestLedgerRepository_SumByAccount(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewLedgerRepository(testDB.DB)
	ctx := context.Background()

	account := testutil.CreateTestAccount(t, testDB.DB, "carol", 0)

	t.Run("empty ledger sums to zero", func(t *testing.T) {
		sum, err := repo.SumByAccount(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), sum)
	})

	t.Run("signed amounts cancel", func(t *testing.T) {
		testutil.CreateTestLedgerEntry(t, testDB.DB, account.ID, 0, 200, 200, entities.ReasonTopup)
		testutil.CreateTestLedgerEntry(t, testDB.DB, account.ID, 200, 160, -40, entities.ReasonEntryFee)
		testutil.CreateTestLedgerEntry(t, testDB.DB, account.ID, 160, 80, -80, entities.ReasonEntryFee)

		sum, err := repo.SumByAccount(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(80), sum)
	})
}
