package interfaces

import (
	"context"

	"deadpigeons/domain/entities"
)

// BoardService owns creation and lookup of the one board per week
type BoardService interface {
	// GetOrCreateCurrentBoard returns the board for the current week
	// identifier, creating it open if absent
	GetOrCreateCurrentBoard(ctx context.Context) (*entities.Board, error)

	// GetBoardByWeek returns the board for a week number. The year is
	// resolved against the current date; a week number past the current
	// ISO week refers to the previous year's board.
	GetBoardByWeek(ctx context.Context, week int) (*entities.Board, error)
}

// EntryService validates and accepts entry submissions
type EntryService interface {
	// PlaceEntry validates the submission, debits the entry fee and persists
	// the entry as one atomic operation
	PlaceEntry(ctx context.Context, accountID int64, week int, guessedNumbers []int64, repeatWeeks int) (*entities.Entry, error)
}

// LedgerService exposes the balance ledger
type LedgerService interface {
	// Credit tops up an account balance. Invoked by the external
	// payment-approval collaborator; reference carries the provider's
	// transaction identifier.
	Credit(ctx context.Context, accountID, amount int64, reference string) (*entities.Account, error)

	// GetBalance returns the running balance together with the
	// ledger-reconciled sum
	GetBalance(ctx context.Context, accountID int64) (*BalanceStatement, error)

	// GetLedger returns an account's ledger entries, most recent first
	GetLedger(ctx context.Context, accountID int64, limit int) ([]*entities.LedgerEntry, error)
}

// SettlementService computes winners and closes boards
type SettlementService interface {
	// SettleBoard declares the winning numbers for a week's board, records
	// every entry's outcome and closes the board, as one logical unit.
	// Invoking it again with the same numbers returns the existing result.
	SettleBoard(ctx context.Context, week int, winningNumbers []int64) (*SettlementSummary, error)
}

// HistoryService reads settled play history
type HistoryService interface {
	// GetAccountHistory returns the account's entries joined with their
	// settlement outcome, most recent first
	GetAccountHistory(ctx context.Context, accountID int64) ([]*entities.AccountHistoryItem, error)
}

// BalanceStatement is the running balance with its audit reconciliation
type BalanceStatement struct {
	AccountID  int64
	Balance    int64
	LedgerSum  int64
	Reconciled bool
}

// SettlementSummary is the outcome of settling one board
type SettlementSummary struct {
	BoardID           int64
	Year              int
	WeekNumber        int
	WinningNumbers    []int64
	TotalEntries      int
	TotalWinners      int
	WinningAccountIDs []int64
	AlreadySettled    bool
}
