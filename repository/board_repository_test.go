package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"deadpigeons/domain/apperror"
	"deadpigeons/events"
	"deadpigeons/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardRepository_GetOrCreate(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBoardRepository(testDB.DB)
	ctx := context.Background()

	t.Run("creates board when absent", func(t *testing.T) {
		board, err := repo.GetOrCreate(ctx, 2026, 10)
		require.NoError(t, err)
		require.NotNil(t, board)

		assert.Equal(t, 2026, board.Year)
		assert.Equal(t, 10, board.WeekNumber)
		assert.True(t, board.IsOpen)
		assert.Nil(t, board.ClosedAt)
	})

	t.Run("returns existing board on second call", func(t *testing.T) {
		first, err := repo.GetOrCreate(ctx, 2026, 11)
		require.NoError(t, err)

		second, err := repo.GetOrCreate(ctx, 2026, 11)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("same week of different years gets different boards", func(t *testing.T) {
		a, err := repo.GetOrCreate(ctx, 2026, 12)
		require.NoError(t, err)
		b, err := repo.GetOrCreate(ctx, 2027, 12)
		require.NoError(t, err)

		assert.NotEqual(t, a.ID, b.ID)
	})

	t.Run("concurrent callers resolve to one board", func(t *testing.T) {
		const callers = 8
		ids := make([]int64, callers)
		var wg sync.WaitGroup
		wg.Add(callers)
		for i := 0; i < callers; i++ {
			go func(i int) {
				defer wg.Done()
				board, err := repo.GetOrCreate(ctx, 2026, 13)
				if assert.NoError(t, err) {
					ids[i] = board.ID
				}
			}(i)
		}
		wg.Wait()

		for _, id := range ids[1:] {
			assert.Equal(t, ids[0], id)
		}
	})
}

func TestBoardRepository_GetByWeek(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBoardRepository(testDB.DB)
	ctx := context.Background()

	t.Run("returns nil when absent", func(t *testing.T) {
		board, err := repo.GetByWeek(ctx, 2026, 40)
		require.NoError(t, err)
		assert.Nil(t, board)
	})

	t.Run("returns board when present", func(t *testing.T) {
		created := testutil.CreateTestBoard(t, testDB.DB, 2026, 41)

		board, err := repo.GetByWeek(ctx, 2026, 41)
		require.NoError(t, err)
		require.NotNil(t, board)
		assert.Equal(t, created.ID, board.ID)
	})
}

func TestBoardRepository_GetByWeekForShare(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBoardRepository(testDB.DB)
	ctx := context.Background()

	t.Run("returns nil when no board exists", func(t *testing.T) {
		board, err := repo.GetByWeekForShare(ctx, 2026, 20)
		require.NoError(t, err)
		assert.Nil(t, board)
	})

	t.Run("returns the board", func(t *testing.T) {
		created, err := repo.GetOrCreate(ctx, 2026, 21)
		require.NoError(t, err)

		board, err := repo.GetByWeekForShare(ctx, 2026, 21)
		require.NoError(t, err)
		require.NotNil(t, board)
		assert.Equal(t, created.ID, board.ID)
	})

	t.Run("holds off the exclusive lock until the entry commits", func(t *testing.T) {
		_, err := repo.GetOrCreate(ctx, 2026, 22)
		require.NoError(t, err)

		factory := NewUnitOfWorkFactory(testDB.DB, events.NewBus())

		entryTx := factory.Create()
		require.NoError(t, entryTx.Begin(ctx))
		_, err = entryTx.Boards().GetByWeekForShare(ctx, 2026, 22)
		require.NoError(t, err)

		locked := make(chan error, 1)
		go func() {
			settleTx := factory.Create()
			if err := settleTx.Begin(ctx); err != nil {
				locked <- err
				return
			}
			defer settleTx.Rollback()
			_, err := settleTx.Boards().GetByWeekForUpdate(ctx, 2026, 22)
			locked <- err
		}()

		// The exclusive lock must wait while the share is held
		select {
		case <-locked:
			t.Fatal("exclusive lock acquired while the shared lock was held")
		case <-time.After(200 * time.Millisecond):
		}

		require.NoError(t, entryTx.Commit())

		select {
		case err := <-locked:
			require.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("exclusive lock not acquired after the share was released")
		}
	})
}

func TestBoardRepository_Close(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBoardRepository(testDB.DB)
	ctx := context.Background()

	t.Run("closes an open board", func(t *testing.T) {
		board := testutil.CreateTestBoard(t, testDB.DB, 2026, 20)

		err := repo.Close(ctx, board.ID)
		require.NoError(t, err)

		closed, err := repo.GetByWeek(ctx, 2026, 20)
		require.NoError(t, err)
		assert.False(t, closed.IsOpen)
		assert.NotNil(t, closed.ClosedAt)
	})

	t.Run("second close is refused", func(t *testing.T) {
		board := testutil.CreateTestBoard(t, testDB.DB, 2026, 21)

		require.NoError(t, repo.Close(ctx, board.ID))

		err := repo.Close(ctx, board.ID)
		assert.True(t, apperror.IsState(err, apperror.ReasonAlreadySettled))
	})

	t.Run("unknown board", func(t *testing.T) {
		err := repo.Close(ctx, 999999)
		assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	})
}
