package entities

import (
	"time"
)

// SettlementRecord captures the outcome of one entry after its board was
// settled. Exactly one record exists per entry; re-settlement with the same
// winning numbers yields the same records rather than duplicates.
type SettlementRecord struct {
	ID        int64     `db:"id"`
	EntryID   int64     `db:"entry_id"`
	BoardID   int64     `db:"board_id"`
	AccountID int64     `db:"account_id"`
	IsWinner  bool      `db:"is_winner"`
	SettledAt time.Time `db:"settled_at"`
}

// AccountHistoryItem is one row of an account's play history: the entry
// joined with its board week and, once settled, its settlement outcome.
type AccountHistoryItem struct {
	EntryID        int64      `db:"entry_id"`
	BoardID        int64      `db:"board_id"`
	Year           int        `db:"year"`
	WeekNumber     int        `db:"week_number"`
	GuessedNumbers []int64    `db:"guessed_numbers"`
	Price          int64      `db:"price"`
	PlayedAt       time.Time  `db:"played_at"`
	IsWinner       *bool      `db:"is_winner"`  // NULL until the board settles
	SettledAt      *time.Time `db:"settled_at"` // NULL until the board settles
}
