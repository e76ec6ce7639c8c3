package repository

import (
	"context"
	"fmt"

	"deadpigeons/database"
	"deadpigeons/domain/entities"
)

// LedgerRepository implements the balance audit trail
type LedgerRepository struct {
	q Queryable
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *database.DB) *LedgerRepository {
	return &LedgerRepository{q: db.Pool}
}

// newLedgerRepositoryWithTx creates a new ledger repository with a transaction
func newLedgerRepositoryWithTx(tx Queryable) *LedgerRepository {
	return &LedgerRepository{q: tx}
}

// Record appends one immutable ledger entry
func (r *LedgerRepository) Record(ctx context.Context, entry *entities.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (account_id, balance_before, balance_after, amount, reason, reference)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		entry.AccountID,
		entry.BalanceBefore,
		entry.BalanceAfter,
		entry.Amount,
		entry.Reason,
		entry.Reference,
	).Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to record ledger entry for account %d: %w", entry.AccountID, err)
	}

	return nil
}

// GetByAccount returns ledger entries for an account, most recent first
func (r *LedgerRepository) GetByAccount(ctx context.Context, accountID int64, limit int) ([]*entities.LedgerEntry, error) {
	query := `
		SELECT id, account_id, balance_before, balance_after, amount, reason, reference, created_at
		FROM ledger_entries
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entries for account %d: %w", accountID, err)
	}
	defer rows.Close()

	var entries []*entities.LedgerEntry
	for rows.Next() {
		var entry entities.LedgerEntry
		err := rows.Scan(
			&entry.ID,
			&entry.AccountID,
			&entry.BalanceBefore,
			&entry.BalanceAfter,
			&entry.Amount,
			&entry.Reason,
			&entry.Reference,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger entries: %w", err)
	}

	return entries, nil
}

// SumByAccount returns the sum of all ledger amounts for an account. The
// steady-state balance is the maintained running total on the account row;
// this sum exists so audits can reconcile the two.
func (r *LedgerRepository) SumByAccount(ctx context.Context, accountID int64) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM ledger_entries
		WHERE account_id = $1
	`

	var sum int64
	if err := r.q.QueryRow(ctx, query, accountID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("failed to sum ledger for account %d: %w", accountID, err)
	}

	return sum, nil
}
