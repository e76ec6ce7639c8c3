package entities

import (
	"time"
)

// Entry is one account's guessed-number submission against a board.
// At most one entry exists per (account, board) pair; the database enforces
// the constraint at commit time.
type Entry struct {
	ID             int64     `db:"id"`
	BoardID        int64     `db:"board_id"`
	AccountID      int64     `db:"account_id"`
	GuessedNumbers []int64   `db:"guessed_numbers"`
	Price          int64     `db:"price"`
	RepeatWeeks    int       `db:"repeat_weeks"` // 0 = single week
	LedgerEntryID  int64     `db:"ledger_entry_id"`
	PlayedAt       time.Time `db:"played_at"`
}

// IsWinner reports whether this entry wins against the declared winning
// numbers: every winning number must appear among the guesses. There is no
// partial credit, and ordering of either set is irrelevant.
func (e *Entry) IsWinner(winningNumbers []int64) bool {
	return ContainsAll(e.GuessedNumbers, winningNumbers)
}
