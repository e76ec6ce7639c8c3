package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"deadpigeons/domain/apperror"
	"deadpigeons/domain/entities"
	"deadpigeons/domain/interfaces"
	"deadpigeons/events"

	log "github.com/sirupsen/logrus"
)

// settlementService computes winners and closes boards
type settlementService struct {
	uowFactory interfaces.UnitOfWorkFactory
	clock      *entities.WeekClock
	now        func() time.Time
}

// NewSettlementService creates a new settlement service
func NewSettlementService(uowFactory interfaces.UnitOfWorkFactory, clock *entities.WeekClock) interfaces.SettlementService {
	return &settlementService{
		uowFactory: uowFactory,
		clock:      clock,
		now:        time.Now,
	}
}

// SettleBoard declares the winning numbers for a week's board, records every
// entry's outcome and closes the board, as one logical unit. Re-declaring the
// same numbers for an already settled board returns the existing result
// unchanged.
func (s *settlementService) SettleBoard(ctx context.Context, week int, winningNumbers []int64) (*interfaces.SettlementSummary, error) {
	if err := entities.ValidateWinningNumbers(winningNumbers); err != nil {
		return nil, err
	}

	numbers := entities.NormalizeNumbers(winningNumbers)

	year := s.clock.YearFor(s.now(), week)

	return withConflictRetry(func() (*interfaces.SettlementSummary, error) {
		return s.settleBoard(ctx, year, week, numbers)
	})
}

func (s *settlementService) settleBoard(ctx context.Context, year, week int, numbers []int64) (*interfaces.SettlementSummary, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	// Lock the board row so concurrent settlement attempts serialize here
	board, err := uow.Boards().GetByWeekForUpdate(ctx, year, week)
	if err != nil {
		return nil, err
	}
	if board == nil {
		return nil, apperror.NewNotFound("no board exists for week %d", week)
	}

	existingDraw, err := uow.Draws().GetByBoard(ctx, board.ID)
	if err != nil {
		return nil, err
	}
	if existingDraw != nil {
		if !existingDraw.Matches(numbers) {
			return nil, apperror.NewState(apperror.ReasonAlreadySettled,
				"board for week %d was already settled with different numbers", week)
		}
		// Same numbers declared again: hand back the recorded outcome
		summary, err := s.existingSummary(ctx, uow, board, existingDraw)
		if err != nil {
			return nil, err
		}
		if err := uow.Commit(); err != nil {
			return nil, err
		}
		return summary, nil
	}
	if board.IsClosed() {
		return nil, apperror.NewState(apperror.ReasonAlreadySettled,
			"board for week %d is closed", week)
	}

	draw := &entities.WinningDraw{
		BoardID:        board.ID,
		WinningNumbers: numbers,
	}
	if err := uow.Draws().Create(ctx, draw); err != nil {
		return nil, err
	}

	entries, err := uow.Entries().GetByBoard(ctx, board.ID)
	if err != nil {
		return nil, err
	}

	records, winnerAccountIDs := computeOutcomes(entries, numbers)

	if len(records) > 0 {
		if err := uow.Settlements().CreateBatch(ctx, records); err != nil {
			return nil, err
		}
	}

	if err := uow.Boards().Close(ctx, board.ID); err != nil {
		return nil, err
	}

	if err := uow.EventBus().Publish(events.BoardSettledEvent{
		BoardID:      board.ID,
		WeekNumber:   board.WeekNumber,
		Year:         board.Year,
		TotalEntries: len(entries),
		TotalWinners: len(winnerAccountIDs),
	}); err != nil {
		log.WithError(err).Error("Failed to publish board settled event")
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"boardID":      board.ID,
		"week":         board.WeekNumber,
		"totalEntries": len(entries),
		"totalWinners": len(winnerAccountIDs),
	}).Info("Board settled")

	return &interfaces.SettlementSummary{
		BoardID:           board.ID,
		Year:              board.Year,
		WeekNumber:        board.WeekNumber,
		WinningNumbers:    numbers,
		TotalEntries:      len(entries),
		TotalWinners:      len(winnerAccountIDs),
		WinningAccountIDs: winnerAccountIDs,
	}, nil
}

// existingSummary rebuilds the settlement summary from the persisted records
// of a board that was already settled
func (s *settlementService) existingSummary(ctx context.Context, uow interfaces.UnitOfWork, board *entities.Board, draw *entities.WinningDraw) (*interfaces.SettlementSummary, error) {
	records, err := uow.Settlements().GetByBoard(ctx, board.ID)
	if err != nil {
		return nil, err
	}

	winnerAccountIDs := make([]int64, 0)
	for _, record := range records {
		if record.IsWinner {
			winnerAccountIDs = append(winnerAccountIDs, record.AccountID)
		}
	}
	sort.Slice(winnerAccountIDs, func(i, j int) bool { return winnerAccountIDs[i] < winnerAccountIDs[j] })

	return &interfaces.SettlementSummary{
		BoardID:           board.ID,
		Year:              board.Year,
		WeekNumber:        board.WeekNumber,
		WinningNumbers:    draw.WinningNumbers,
		TotalEntries:      len(records),
		TotalWinners:      len(winnerAccountIDs),
		WinningAccountIDs: winnerAccountIDs,
		AlreadySettled:    true,
	}, nil
}

// computeOutcomes evaluates every entry against the winning numbers. An entry
// wins exactly when its guessed numbers contain all winning numbers.
func computeOutcomes(entries []*entities.Entry, winningNumbers []int64) ([]*entities.SettlementRecord, []int64) {
	records := make([]*entities.SettlementRecord, 0, len(entries))
	winnerAccountIDs := make([]int64, 0)

	for _, entry := range entries {
		isWinner := entry.IsWinner(winningNumbers)
		records = append(records, &entities.SettlementRecord{
			EntryID:   entry.ID,
			BoardID:   entry.BoardID,
			AccountID: entry.AccountID,
			IsWinner:  isWinner,
		})
		if isWinner {
			winnerAccountIDs = append(winnerAccountIDs, entry.AccountID)
		}
	}

	sort.Slice(winnerAccountIDs, func(i, j int) bool { return winnerAccountIDs[i] < winnerAccountIDs[j] })
	return records, winnerAccountIDs
}
