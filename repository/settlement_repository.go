package repository

import (
	"context"
	"fmt"

	"deadpigeons/database"
	"deadpigeons/domain/apperror"
	"deadpigeons/domain/entities"
)

// SettlementRepository implements settlement record access
type SettlementRepository struct {
	q Queryable
}

// NewSettlementRepository creates a new settlement repository
func NewSettlementRepository(db *database.DB) *SettlementRepository {
	return &SettlementRepository{q: db.Pool}
}

// newSettlementRepositoryWithTx creates a new settlement repository with a transaction
func newSettlementRepositoryWithTx(tx Queryable) *SettlementRepository {
	return &SettlementRepository{q: tx}
}

// CreateBatch persists settlement records for a board's entries. The unique
// entry_id constraint guarantees exactly one record per entry.
func (r *SettlementRepository) CreateBatch(ctx context.Context, records []*entities.SettlementRecord) error {
	if len(records) == 0 {
		return nil
	}

	query := `
		INSERT INTO settlement_records (entry_id, board_id, account_id, is_winner)
		VALUES
	`

	var args []any
	for i, record := range records {
		if i > 0 {
			query += ","
		}
		paramIndex := i * 4
		query += fmt.Sprintf(" ($%d, $%d, $%d, $%d)", paramIndex+1, paramIndex+2, paramIndex+3, paramIndex+4)
		args = append(args, record.EntryID, record.BoardID, record.AccountID, record.IsWinner)
	}

	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err, "settlement_records_entry_id_key") {
			return apperror.NewConflict("settlement records already exist for this board", err)
		}
		return fmt.Errorf("failed to create settlement records: %w", mapConflict(err))
	}

	return nil
}

// GetByBoard returns all settlement records for a board
func (r *SettlementRepository) GetByBoard(ctx context.Context, boardID int64) ([]*entities.SettlementRecord, error) {
	query := `
		SELECT id, entry_id, board_id, account_id, is_winner, settled_at
		FROM settlement_records
		WHERE board_id = $1
		ORDER BY entry_id ASC
	`

	rows, err := r.q.Query(ctx, query, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement records for board %d: %w", boardID, err)
	}
	defer rows.Close()

	var records []*entities.SettlementRecord
	for rows.Next() {
		var record entities.SettlementRecord
		err := rows.Scan(
			&record.ID,
			&record.EntryID,
			&record.BoardID,
			&record.AccountID,
			&record.IsWinner,
			&record.SettledAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settlement record: %w", err)
		}
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlement records: %w", err)
	}

	return records, nil
}
