package repository

import (
	"context"
	"fmt"

	"deadpigeons/database"
	"deadpigeons/domain/apperror"
	"deadpigeons/domain/entities"

	"github.com/jackc/pgx/v5"
)

// BoardRepository implements board data access
type BoardRepository struct {
	q Queryable
}

// NewBoardRepository creates a new board repository
func NewBoardRepository(db *database.DB) *BoardRepository {
	return &BoardRepository{q: db.Pool}
}

// newBoardRepositoryWithTx creates a new board repository with a transaction
func newBoardRepositoryWithTx(tx Queryable) *BoardRepository {
	return &BoardRepository{q: tx}
}

const boardColumns = `id, year, week_number, is_open, created_at, closed_at`

func scanBoard(row pgx.Row) (*entities.Board, error) {
	var board entities.Board
	err := row.Scan(
		&board.ID,
		&board.Year,
		&board.WeekNumber,
		&board.IsOpen,
		&board.CreatedAt,
		&board.ClosedAt,
	)
	if err != nil {
		return nil, err
	}
	return &board, nil
}

// GetOrCreate returns the board for the given week, creating it open if
// absent. ON CONFLICT DO NOTHING resolves a create race to a single board:
// the loser's insert returns no row and the follow-up select reads the
// winner's board.
func (r *BoardRepository) GetOrCreate(ctx context.Context, year, week int) (*entities.Board, error) {
	query := `
		INSERT INTO boards (year, week_number, is_open)
		VALUES ($1, $2, TRUE)
		ON CONFLICT (year, week_number) DO NOTHING
		RETURNING ` + boardColumns

	board, err := scanBoard(r.q.QueryRow(ctx, query, year, week))
	if err == nil {
		return board, nil
	}
	if err != pgx.ErrNoRows {
		return nil, fmt.Errorf("failed to create board for week %d/%d: %w", week, year, mapConflict(err))
	}

	board, err = r.GetByWeek(ctx, year, week)
	if err != nil {
		return nil, err
	}
	if board == nil {
		return nil, apperror.NewConflict(fmt.Sprintf("board for week %d/%d vanished during create", week, year), nil)
	}
	return board, nil
}

// GetByWeek retrieves the board for a week, or nil if none exists
func (r *BoardRepository) GetByWeek(ctx context.Context, year, week int) (*entities.Board, error) {
	query := `
		SELECT ` + boardColumns + `
		FROM boards
		WHERE year = $1 AND week_number = $2
	`

	board, err := scanBoard(r.q.QueryRow(ctx, query, year, week))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get board for week %d/%d: %w", week, year, err)
	}
	return board, nil
}

// GetByWeekForUpdate retrieves the board with a row lock. Settlement locks
// the board row so concurrent settlement attempts serialize on it.
func (r *BoardRepository) GetByWeekForUpdate(ctx context.Context, year, week int) (*entities.Board, error) {
	query := `
		SELECT ` + boardColumns + `
		FROM boards
		WHERE year = $1 AND week_number = $2
		FOR UPDATE
	`

	board, err := scanBoard(r.q.QueryRow(ctx, query, year, week))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock board for week %d/%d: %w", week, year, mapConflict(err))
	}
	return board, nil
}

// GetByWeekForShare retrieves the board with a shared row lock. An entry
// transaction holds the share until commit, so a settlement taking the
// exclusive lock cannot read the board's entries while one is in flight.
func (r *BoardRepository) GetByWeekForShare(ctx context.Context, year, week int) (*entities.Board, error) {
	query := `
		SELECT ` + boardColumns + `
		FROM boards
		WHERE year = $1 AND week_number = $2
		FOR SHARE
	`

	board, err := scanBoard(r.q.QueryRow(ctx, query, year, week))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock board for week %d/%d: %w", week, year, mapConflict(err))
	}
	return board, nil
}

// Close transitions a board from open to closed. The WHERE is_open guard
// makes double-close observable: zero rows affected on an existing board
// means it was already closed.
func (r *BoardRepository) Close(ctx context.Context, boardID int64) error {
	query := `
		UPDATE boards
		SET is_open = FALSE, closed_at = NOW()
		WHERE id = $1 AND is_open
	`

	result, err := r.q.Exec(ctx, query, boardID)
	if err != nil {
		return fmt.Errorf("failed to close board %d: %w", boardID, mapConflict(err))
	}

	if result.RowsAffected() == 0 {
		var exists bool
		if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM boards WHERE id = $1)`, boardID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check board %d: %w", boardID, err)
		}
		if !exists {
			return apperror.NewNotFound("board %d not found", boardID)
		}
		return apperror.NewState(apperror.ReasonAlreadySettled, "board %d is already closed", boardID)
	}

	return nil
}
