package services

import (
	"context"
	"testing"
	"time"

	"deadpigeons/domain/apperror"
	"deadpigeons/domain/entities"
	"deadpigeons/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestSettlementService(t *testing.T) (*settlementService, *testhelpers.MockUnitOfWorkFactory, *testhelpers.MockUnitOfWork, *testhelpers.MockBoardRepository, *testhelpers.MockEntryRepository, *testhelpers.MockDrawRepository, *testhelpers.MockSettlementRepository) {
	t.Helper()

	mockUoW := new(testhelpers.MockUnitOfWork)
	mockFactory := new(testhelpers.MockUnitOfWorkFactory)
	mockBoardRepo := new(testhelpers.MockBoardRepository)
	mockEntryRepo := new(testhelpers.MockEntryRepository)
	mockDrawRepo := new(testhelpers.MockDrawRepository)
	mockSettlementRepo := new(testhelpers.MockSettlementRepository)

	mockUoW.SetRepositories(mockBoardRepo, nil, mockEntryRepo, nil, mockDrawRepo, mockSettlementRepo)

	service := NewSettlementService(mockFactory, testWeekClock(t)).(*settlementService)
	service.now = fixedNow

	return service, mockFactory, mockUoW, mockBoardRepo, mockEntryRepo, mockDrawRepo, mockSettlementRepo
}

func TestSettlementService_SettleBoard_Success(t *testing.T) {
	ctx := context.Background()
	service, mockFactory, mockUoW, mockBoardRepo, mockEntryRepo, mockDrawRepo, mockSettlementRepo := newTestSettlementService(t)

	board := &entities.Board{ID: 3, Year: 2026, WeekNumber: 2, IsOpen: true}
	entries := []*entities.Entry{
		{ID: 1, BoardID: 3, AccountID: 10, GuessedNumbers: []int64{1, 2, 3, 4, 5}},
		{ID: 2, BoardID: 3, AccountID: 20, GuessedNumbers: []int64{3, 5, 7, 9, 11}},
		{ID: 3, BoardID: 3, AccountID: 30, GuessedNumbers: []int64{1, 3, 5, 7, 9, 11}},
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockBoardRepo.On("GetByWeekForUpdate", ctx, 2026, 2).Return(board, nil)
	mockDrawRepo.On("GetByBoard", ctx, int64(3)).Return(nil, nil)
	mockDrawRepo.On("Create", ctx, mock.MatchedBy(func(d *entities.WinningDraw) bool {
		return d.BoardID == 3 && assert.ObjectsAreEqual([]int64{1, 3, 5}, d.WinningNumbers)
	})).Return(nil)
	mockEntryRepo.On("GetByBoard", ctx, int64(3)).Return(entries, nil)
	mockSettlementRepo.On("CreateBatch", ctx, mock.MatchedBy(func(records []*entities.SettlementRecord) bool {
		return len(records) == 3 &&
			records[0].EntryID == 1 && records[0].IsWinner &&
			records[1].EntryID == 2 && !records[1].IsWinner &&
			records[2].EntryID == 3 && records[2].IsWinner
	})).Return(nil)
	mockBoardRepo.On("Close", ctx, int64(3)).Return(nil)

	summary, err := service.SettleBoard(ctx, 2, []int64{5, 1, 3})

	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.BoardID)
	assert.Equal(t, 3, summary.TotalEntries)
	assert.Equal(t, 2, summary.TotalWinners)
	assert.Equal(t, []int64{10, 30}, summary.WinningAccountIDs)
	assert.Equal(t, []int64{1, 3, 5}, summary.WinningNumbers)
	assert.False(t, summary.AlreadySettled)

	mockBoardRepo.AssertExpectations(t)
	mockDrawRepo.AssertExpectations(t)
	mockSettlementRepo.AssertExpectations(t)
}

func TestSettlementService_SettleBoard_NoEntries(t *testing.T) {
	ctx := context.Background()
	service, mockFactory, mockUoW, mockBoardRepo, mockEntryRepo, mockDrawRepo, mockSettlementRepo := newTestSettlementService(t)

	board := &entities.Board{ID: 3, Year: 2026, WeekNumber: 2, IsOpen: true}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockBoardRepo.On("GetByWeekForUpdate", ctx, 2026, 2).Return(board, nil)
	mockDrawRepo.On("GetByBoard", ctx, int64(3)).Return(nil, nil)
	mockDrawRepo.On("Create", ctx, mock.AnythingOfType("*entities.WinningDraw")).Return(nil)
	mockEntryRepo.On("GetByBoard", ctx, int64(3)).Return([]*entities.Entry{}, nil)
	mockBoardRepo.On("Close", ctx, int64(3)).Return(nil)

	summary, err := service.SettleBoard(ctx, 2, []int64{1, 2, 3})

	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalEntries)
	assert.Equal(t, 0, summary.TotalWinners)
	assert.Empty(t, summary.WinningAccountIDs)

	// An empty board settles without writing any settlement records
	mockSettlementRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}

func TestSettlementService_SettleBoard_FinalWeekDuringCutoverWindow(t *testing.T) {
	ctx := context.Background()
	service, mockFactory, mockUoW, mockBoardRepo, mockEntryRepo, mockDrawRepo, mockSettlementRepo := newTestSettlementService(t)

	// Saturday 2027-01-02 18:00 Copenhagen: still ISO week 53 of 2026, but
	// the identifier has already advanced to 2027 week 1. Declaring week
	// 53's draw must resolve to the open 2026 board.
	loc, err := time.LoadLocation("Europe/Copenhagen")
	require.NoError(t, err)
	service.now = func() time.Time {
		return time.Date(2027, time.January, 2, 18, 0, 0, 0, loc)
	}

	board := &entities.Board{ID: 7, Year: 2026, WeekNumber: 53, IsOpen: true}
	entries := []*entities.Entry{
		{ID: 1, BoardID: 7, AccountID: 10, GuessedNumbers: []int64{1, 2, 3, 4, 5}},
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockBoardRepo.On("GetByWeekForUpdate", ctx, 2026, 53).Return(board, nil)
	mockDrawRepo.On("GetByBoard", ctx, int64(7)).Return(nil, nil)
	mockDrawRepo.On("Create", ctx, mock.AnythingOfType("*entities.WinningDraw")).Return(nil)
	mockEntryRepo.On("GetByBoard", ctx, int64(7)).Return(entries, nil)
	mockSettlementRepo.On("CreateBatch", ctx, mock.AnythingOfType("[]*entities.SettlementRecord")).Return(nil)
	mockBoardRepo.On("Close", ctx, int64(7)).Return(nil)

	summary, err := service.SettleBoard(ctx, 53, []int64{1, 2, 3})

	require.NoError(t, err)
	assert.Equal(t, int64(7), summary.BoardID)
	assert.Equal(t, 2026, summary.Year)
	assert.Equal(t, 53, summary.WeekNumber)
	mockBoardRepo.AssertExpectations(t)
}

func TestSettlementService_SettleBoard_IdempotentWithSameNumbers(t *testing.T) {
	ctx := context.Background()
	service, mockFactory, mockUoW, mockBoardRepo, _, mockDrawRepo, mockSettlementRepo := newTestSettlementService(t)

	board := &entities.Board{ID: 3, Year: 2026, WeekNumber: 2, IsOpen: false}
	draw := &entities.WinningDraw{ID: 9, BoardID: 3, WinningNumbers: []int64{1, 3, 5}}
	records := []*entities.SettlementRecord{
		{ID: 1, EntryID: 1, BoardID: 3, AccountID: 10, IsWinner: true},
		{ID: 2, EntryID: 2, BoardID: 3, AccountID: 20, IsWinner: false},
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockBoardRepo.On("GetByWeekForUpdate", ctx, 2026, 2).Return(board, nil)
	mockDrawRepo.On("GetByBoard", ctx, int64(3)).Return(draw, nil)
	mockSettlementRepo.On("GetByBoard", ctx, int64(3)).Return(records, nil)

	// Same numbers in a different order count as the same declaration
	summary, err := service.SettleBoard(ctx, 2, []int64{5, 3, 1})

	require.NoError(t, err)
	assert.True(t, summary.AlreadySettled)
	assert.Equal(t, 2, summary.TotalEntries)
	assert.Equal(t, 1, summary.TotalWinners)
	assert.Equal(t, []int64{10}, summary.WinningAccountIDs)

	mockDrawRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mockSettlementRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
	mockBoardRepo.AssertNotCalled(t, "Close", mock.Anything, mock.Anything)
}

func TestSettlementService_SettleBoard_DifferentNumbersRejected(t *testing.T) {
	ctx := context.Background()
	service, mockFactory, mockUoW, mockBoardRepo, _, mockDrawRepo, _ := newTestSettlementService(t)

	board := &entities.Board{ID: 3, Year: 2026, WeekNumber: 2, IsOpen: false}
	draw := &entities.WinningDraw{ID: 9, BoardID: 3, WinningNumbers: []int64{1, 3, 5}}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockBoardRepo.On("GetByWeekForUpdate", ctx, 2026, 2).Return(board, nil)
	mockDrawRepo.On("GetByBoard", ctx, int64(3)).Return(draw, nil)

	_, err := service.SettleBoard(ctx, 2, []int64{2, 4, 6})

	assert.True(t, apperror.IsState(err, apperror.ReasonAlreadySettled))
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestSettlementService_SettleBoard_ClosedBoardWithoutDraw(t *testing.T) {
	ctx := context.Background()
	service, mockFactory, mockUoW, mockBoardRepo, _, mockDrawRepo, _ := newTestSettlementService(t)

	board := &entities.Board{ID: 3, Year: 2026, WeekNumber: 2, IsOpen: false}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockBoardRepo.On("GetByWeekForUpdate", ctx, 2026, 2).Return(board, nil)
	mockDrawRepo.On("GetByBoard", ctx, int64(3)).Return(nil, nil)

	_, err := service.SettleBoard(ctx, 2, []int64{1, 2, 3})

	assert.True(t, apperror.IsState(err, apperror.ReasonAlreadySettled))
}

func TestSettlementService_SettleBoard_BoardNotFound(t *testing.T) {
	ctx := context.Background()
	service, mockFactory, mockUoW, mockBoardRepo, _, _, _ := newTestSettlementService(t)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockBoardRepo.On("GetByWeekForUpdate", ctx, 2026, 1).Return(nil, nil)

	_, err := service.SettleBoard(ctx, 1, []int64{1, 2, 3})

	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestSettlementService_SettleBoard_MalformedWinningSet(t *testing.T) {
	ctx := context.Background()
	service, mockFactory, _, _, _, _, _ := newTestSettlementService(t)

	tests := []struct {
		name    string
		numbers []int64
	}{
		{name: "too few", numbers: []int64{1, 2}},
		{name: "too many", numbers: []int64{1, 2, 3, 4}},
		{name: "duplicate", numbers: []int64{1, 1, 2}},
		{name: "out of range", numbers: []int64{1, 2, 17}},
		{name: "empty", numbers: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.SettleBoard(ctx, 2, tt.numbers)
			assert.True(t, apperror.IsKind(err, apperror.KindValidation))
		})
	}

	mockFactory.AssertNotCalled(t, "Create")
}

func TestComputeOutcomes(t *testing.T) {
	entries := []*entities.Entry{
		{ID: 1, BoardID: 3, AccountID: 30, GuessedNumbers: []int64{1, 2, 3, 4, 5, 6, 7, 8}},
		{ID: 2, BoardID: 3, AccountID: 10, GuessedNumbers: []int64{9, 10, 11, 12, 13}},
		{ID: 3, BoardID: 3, AccountID: 20, GuessedNumbers: []int64{2, 4, 6, 8, 10}},
	}

	records, winners := computeOutcomes(entries, []int64{2, 4, 6})

	require.Len(t, records, 3)
	assert.True(t, records[0].IsWinner)
	assert.False(t, records[1].IsWinner)
	assert.True(t, records[2].IsWinner)

	// Winner account IDs come back sorted
	assert.Equal(t, []int64{20, 30}, winners)
}
