package entities

import (
	"time"
)

// Account represents a registered participant with a balance. The balance is
// a maintained running total; it is mutated only through ledger operations,
// never overwritten from caller-supplied state.
type Account struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Balance   int64     `db:"balance"`
	Active    bool      `db:"active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
