package services

import (
	"context"
	"fmt"
	"time"

	"deadpigeons/domain/apperror"
	"deadpigeons/domain/entities"
	"deadpigeons/domain/interfaces"
)

// boardService owns creation and lookup of the one board per week identifier
type boardService struct {
	uowFactory interfaces.UnitOfWorkFactory
	clock      *entities.WeekClock
	now        func() time.Time
}

// NewBoardService creates a new board service
func NewBoardService(uowFactory interfaces.UnitOfWorkFactory, clock *entities.WeekClock) interfaces.BoardService {
	return &boardService{
		uowFactory: uowFactory,
		clock:      clock,
		now:        time.Now,
	}
}

// GetOrCreateCurrentBoard returns the board for the current week identifier,
// creating it open if absent
func (s *boardService) GetOrCreateCurrentBoard(ctx context.Context) (*entities.Board, error) {
	year, week := s.clock.WeekAt(s.now())

	return withConflictRetry(func() (*entities.Board, error) {
		uow := s.uowFactory.Create()
		if err := uow.Begin(ctx); err != nil {
			return nil, fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer uow.Rollback()

		board, err := uow.Boards().GetOrCreate(ctx, year, week)
		if err != nil {
			return nil, err
		}

		if err := uow.Commit(); err != nil {
			return nil, err
		}
		return board, nil
	})
}

// GetBoardByWeek returns the board for a week number, resolved against the
// current date
func (s *boardService) GetBoardByWeek(ctx context.Context, week int) (*entities.Board, error) {
	if week < 1 || week > 53 {
		return nil, apperror.NewValidation("week number %d is out of range [1,53]", week)
	}

	year := s.clock.YearFor(s.now(), week)

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	board, err := uow.Boards().GetByWeek(ctx, year, week)
	if err != nil {
		return nil, err
	}
	if board == nil {
		return nil, apperror.NewNotFound("no board exists for week %d", week)
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return board, nil
}
