package entities

import (
	"time"
)

// WinningDraw is the operator-declared winning-number set for a board.
// Immutable once created; a board has at most one draw.
type WinningDraw struct {
	ID             int64     `db:"id"`
	BoardID        int64     `db:"board_id"`
	WinningNumbers []int64   `db:"winning_numbers"`
	DeclaredAt     time.Time `db:"declared_at"`
}

// Matches reports whether the declared numbers equal the given set,
// regardless of order. Used by the idempotent re-settlement path.
func (d *WinningDraw) Matches(numbers []int64) bool {
	return SameNumberSet(d.WinningNumbers, numbers)
}
