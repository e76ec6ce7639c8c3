package entities

import (
	"time"
)

// Board is the weekly container that accepts entries for one week identifier.
// A board is created open and transitions to closed exactly once, at
// settlement time. Closed is terminal.
type Board struct {
	ID         int64      `db:"id"`
	Year       int        `db:"year"`
	WeekNumber int        `db:"week_number"`
	IsOpen     bool       `db:"is_open"`
	CreatedAt  time.Time  `db:"created_at"`
	ClosedAt   *time.Time `db:"closed_at"` // NULL until settlement closes the board
}

// IsClosed returns true if the board no longer accepts entries.
func (b *Board) IsClosed() bool {
	return !b.IsOpen
}
