package testutil

import (
	"context"
	"testing"

	"deadpigeons/database"
	"deadpigeons/domain/entities"

	"github.com/stretchr/testify/require"
)

// CreateTestAccount inserts an active account with the given balance and
// returns it
func CreateTestAccount(t *testing.T, db *database.DB, name string, balance int64) *entities.Account {
	t.Helper()

	account := &entities.Account{}
	err := db.Pool.QueryRow(context.Background(), `
		INSERT INTO accounts (name, email, balance, active)
		VALUES ($1, $2, $3, true)
		RETURNING id, name, email, balance, active, created_at, updated_at`,
		name, name+"@example.com", balance,
	).Scan(&account.ID, &account.Name, &account.Email, &account.Balance, &account.Active, &account.CreatedAt, &account.UpdatedAt)
	require.NoError(t, err)
	return account
}

// CreateInactiveTestAccount inserts a deactivated account
func CreateInactiveTestAccount(t *testing.T, db *database.DB, name string) *entities.Account {
	t.Helper()

	account := CreateTestAccount(t, db, name, 0)
	_, err := db.Pool.Exec(context.Background(), `UPDATE accounts SET active = false WHERE id = $1`, account.ID)
	require.NoError(t, err)
	account.Active = false
	return account
}

// CreateTestBoard inserts an open board for the given week identifier
func CreateTestBoard(t *testing.T, db *database.DB, year, week int) *entities.Board {
	t.Helper()

	board := &entities.Board{}
	err := db.Pool.QueryRow(context.Background(), `
		INSERT INTO boards (year, week_number, is_open)
		VALUES ($1, $2, true)
		RETURNING id, year, week_number, is_open, created_at, closed_at`,
		year, week,
	).Scan(&board.ID, &board.Year, &board.WeekNumber, &board.IsOpen, &board.CreatedAt, &board.ClosedAt)
	require.NoError(t, err)
	return board
}

// CreateTestLedgerEntry inserts a ledger row and returns its id
func CreateTestLedgerEntry(t *testing.T, db *database.DB, accountID, before, after, amount int64, reason entities.LedgerReason) int64 {
	t.Helper()

	var id int64
	err := db.Pool.QueryRow(context.Background(), `
		INSERT INTO ledger_entries (account_id, balance_before, balance_after, amount, reason, reference)
		VALUES ($1, $2, $3, $4, $5, '')
		RETURNING id`,
		accountID, before, after, amount, string(reason),
	).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateTestEntry inserts an entry backed by a matching ledger row
func CreateTestEntry(t *testing.T, db *database.DB, accountID, boardID int64, numbers []int64, price int64) *entities.Entry {
	t.Helper()

	ledgerID := CreateTestLedgerEntry(t, db, accountID, price, 0, -price, entities.ReasonEntryFee)

	entry := &entities.Entry{}
	err := db.Pool.QueryRow(context.Background(), `
		INSERT INTO entries (board_id, account_id, guessed_numbers, price, repeat_weeks, ledger_entry_id)
		VALUES ($1, $2, $3, $4, 0, $5)
		RETURNING id, board_id, account_id, guessed_numbers, price, repeat_weeks, ledger_entry_id, played_at`,
		boardID, accountID, numbers, price, ledgerID,
	).Scan(&entry.ID, &entry.BoardID, &entry.AccountID, &entry.GuessedNumbers, &entry.Price, &entry.RepeatWeeks, &entry.LedgerEntryID, &entry.PlayedAt)
	require.NoError(t, err)
	return entry
}
