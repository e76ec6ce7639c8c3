package repository

import (
	"context"
	"fmt"

	"deadpigeons/database"
	"deadpigeons/domain/apperror"
	"deadpigeons/domain/entities"

	"github.com/jackc/pgx/v5"
)

// EntryRepository implements entry data access
type EntryRepository struct {
	q Queryable
}

// NewEntryRepository creates a new entry repository
func NewEntryRepository(db *database.DB) *EntryRepository {
	return &EntryRepository{q: db.Pool}
}

// newEntryRepositoryWithTx creates a new entry repository with a transaction
func newEntryRepositoryWithTx(tx Queryable) *EntryRepository {
	return &EntryRepository{q: tx}
}

const entryColumns = `id, board_id, account_id, guessed_numbers, price, repeat_weeks, ledger_entry_id, played_at`

func scanEntry(row pgx.Row) (*entities.Entry, error) {
	var entry entities.Entry
	err := row.Scan(
		&entry.ID,
		&entry.BoardID,
		&entry.AccountID,
		&entry.GuessedNumbers,
		&entry.Price,
		&entry.RepeatWeeks,
		&entry.LedgerEntryID,
		&entry.PlayedAt,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Create persists a new entry. The unique (account_id, board_id) constraint
// enforces one entry per account per board at commit time rather than via a
// check-then-act read, closing the race between concurrent submissions.
func (r *EntryRepository) Create(ctx context.Context, entry *entities.Entry) error {
	query := `
		INSERT INTO entries (board_id, account_id, guessed_numbers, price, repeat_weeks, ledger_entry_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, played_at
	`

	err := r.q.QueryRow(ctx, query,
		entry.BoardID,
		entry.AccountID,
		entry.GuessedNumbers,
		entry.Price,
		entry.RepeatWeeks,
		entry.LedgerEntryID,
	).Scan(&entry.ID, &entry.PlayedAt)

	if err != nil {
		if isUniqueViolation(err, "entries_account_id_board_id_key") {
			return apperror.NewState(apperror.ReasonAlreadyPlayed, "account %d already has an entry on board %d", entry.AccountID, entry.BoardID)
		}
		return fmt.Errorf("failed to create entry for account %d on board %d: %w", entry.AccountID, entry.BoardID, mapConflict(err))
	}

	return nil
}

// GetByAccountAndBoard retrieves an account's entry on a board, or nil
func (r *EntryRepository) GetByAccountAndBoard(ctx context.Context, accountID, boardID int64) (*entities.Entry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM entries
		WHERE account_id = $1 AND board_id = $2
	`

	entry, err := scanEntry(r.q.QueryRow(ctx, query, accountID, boardID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entry for account %d on board %d: %w", accountID, boardID, err)
	}
	return entry, nil
}

// GetByBoard returns all entries on a board
func (r *EntryRepository) GetByBoard(ctx context.Context, boardID int64) ([]*entities.Entry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM entries
		WHERE board_id = $1
		ORDER BY played_at ASC
	`

	rows, err := r.q.Query(ctx, query, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to get entries for board %d: %w", boardID, err)
	}
	defer rows.Close()

	var entries []*entities.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entries: %w", err)
	}

	return entries, nil
}

// GetHistoryByAccount returns the account's entries joined with their
// settlement outcome and board week, most recent first
func (r *EntryRepository) GetHistoryByAccount(ctx context.Context, accountID int64) ([]*entities.AccountHistoryItem, error) {
	query := `
		SELECT
			e.id,
			e.board_id,
			b.year,
			b.week_number,
			e.guessed_numbers,
			e.price,
			e.played_at,
			s.is_winner,
			s.settled_at
		FROM entries e
		JOIN boards b ON b.id = e.board_id
		LEFT JOIN settlement_records s ON s.entry_id = e.id
		WHERE e.account_id = $1
		ORDER BY e.played_at DESC
	`

	rows, err := r.q.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get history for account %d: %w", accountID, err)
	}
	defer rows.Close()

	var items []*entities.AccountHistoryItem
	for rows.Next() {
		var item entities.AccountHistoryItem
		err := rows.Scan(
			&item.EntryID,
			&item.BoardID,
			&item.Year,
			&item.WeekNumber,
			&item.GuessedNumbers,
			&item.Price,
			&item.PlayedAt,
			&item.IsWinner,
			&item.SettledAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history item: %w", err)
		}
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}

	return items, nil
}
