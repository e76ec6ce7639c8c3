package entities

import (
	"time"
)

// LedgerReason classifies a balance-affecting event.
type LedgerReason string

const (
	ReasonEntryFee LedgerReason = "ENTRY_FEE"
	ReasonTopup    LedgerReason = "TOPUP"
)

// LedgerEntry is an immutable audit record of one balance delta. Amount is
// signed: debits are negative, credits are positive. The running balance on
// the account must always equal the sum of its ledger amounts.
type LedgerEntry struct {
	ID            int64        `db:"id"`
	AccountID     int64        `db:"account_id"`
	BalanceBefore int64        `db:"balance_before"`
	BalanceAfter  int64        `db:"balance_after"`
	Amount        int64        `db:"amount"`
	Reason        LedgerReason `db:"reason"`
	Reference     string       `db:"reference"` // external payment reference for topups
	CreatedAt     time.Time    `db:"created_at"`
}
