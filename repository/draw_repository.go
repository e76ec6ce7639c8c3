package repository

import (
	"context"
	"fmt"

	"deadpigeons/database"
	"deadpigeons/domain/apperror"
	"deadpigeons/domain/entities"

	"github.com/jackc/pgx/v5"
)

// DrawRepository implements winning draw data access
type DrawRepository struct {
	q Queryable
}

// NewDrawRepository creates a new draw repository
func NewDrawRepository(db *database.DB) *DrawRepository {
	return &DrawRepository{q: db.Pool}
}

// newDrawRepositoryWithTx creates a new draw repository with a transaction
func newDrawRepositoryWithTx(tx Queryable) *DrawRepository {
	return &DrawRepository{q: tx}
}

// Create persists the winning draw for a board. The unique board_id
// constraint guarantees at most one draw per board; the loser of a
// concurrent declaration race gets a conflict and re-reads the winner's draw.
func (r *DrawRepository) Create(ctx context.Context, draw *entities.WinningDraw) error {
	query := `
		INSERT INTO winning_draws (board_id, winning_numbers)
		VALUES ($1, $2)
		RETURNING id, declared_at
	`

	err := r.q.QueryRow(ctx, query, draw.BoardID, draw.WinningNumbers).Scan(&draw.ID, &draw.DeclaredAt)
	if err != nil {
		if isUniqueViolation(err, "winning_draws_board_id_key") {
			return apperror.NewConflict(fmt.Sprintf("board %d already has a winning draw", draw.BoardID), err)
		}
		return fmt.Errorf("failed to create winning draw for board %d: %w", draw.BoardID, mapConflict(err))
	}

	return nil
}

// GetByBoard retrieves a board's draw, or nil if not yet declared
func (r *DrawRepository) GetByBoard(ctx context.Context, boardID int64) (*entities.WinningDraw, error) {
	query := `
		SELECT id, board_id, winning_numbers, declared_at
		FROM winning_draws
		WHERE board_id = $1
	`

	var draw entities.WinningDraw
	err := r.q.QueryRow(ctx, query, boardID).Scan(
		&draw.ID,
		&draw.BoardID,
		&draw.WinningNumbers,
		&draw.DeclaredAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get winning draw for board %d: %w", boardID, err)
	}

	return &draw, nil
}
