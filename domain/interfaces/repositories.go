package interfaces

import (
	"context"

	"deadpigeons/domain/entities"
	"deadpigeons/events"
)

// BoardRepository defines the interface for board data access
type BoardRepository interface {
	// GetOrCreate returns the board for the given week, creating it open if
	// absent. Concurrent first-callers for the same week resolve to a single
	// board via the unique (year, week_number) constraint.
	GetOrCreate(ctx context.Context, year, week int) (*entities.Board, error)

	// GetByWeek retrieves the board for a week, or nil if none exists
	GetByWeek(ctx context.Context, year, week int) (*entities.Board, error)

	// GetByWeekForUpdate retrieves the board with an exclusive row lock,
	// serializing concurrent settlement attempts
	GetByWeekForUpdate(ctx context.Context, year, week int) (*entities.Board, error)

	// GetByWeekForShare retrieves the board with a shared row lock. Entry
	// placement holds it until commit so settlement's exclusive lock waits
	// for in-flight entries instead of missing them.
	GetByWeekForShare(ctx context.Context, year, week int) (*entities.Board, error)

	// Close transitions the board to closed. Fails if already closed.
	Close(ctx context.Context, boardID int64) error
}

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	// GetByID retrieves an account, or nil if none exists
	GetByID(ctx context.Context, id int64) (*entities.Account, error)

	// GetByIDForUpdate retrieves an account with a row lock
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.Account, error)

	// Create creates a new account
	Create(ctx context.Context, name, email string, initialBalance int64, active bool) (*entities.Account, error)

	// AddBalance adds to an account's balance atomically
	AddBalance(ctx context.Context, id, amount int64) error

	// DeductBalance deducts from an account's balance atomically, failing
	// with an insufficient balance error rather than going negative
	DeductBalance(ctx context.Context, id, amount int64) error
}

// EntryRepository defines the interface for entry data access
type EntryRepository interface {
	// Create persists a new entry. A duplicate (account, board) pair is
	// rejected by the unique constraint at commit time.
	Create(ctx context.Context, entry *entities.Entry) error

	// GetByAccountAndBoard retrieves an account's entry on a board, or nil
	GetByAccountAndBoard(ctx context.Context, accountID, boardID int64) (*entities.Entry, error)

	// GetByBoard returns all entries on a board
	GetByBoard(ctx context.Context, boardID int64) ([]*entities.Entry, error)

	// GetHistoryByAccount returns the account's entries joined with their
	// settlement outcome, most recent first
	GetHistoryByAccount(ctx context.Context, accountID int64) ([]*entities.AccountHistoryItem, error)
}

// LedgerRepository defines the interface for the balance audit trail
type LedgerRepository interface {
	// Record appends one immutable ledger entry
	Record(ctx context.Context, entry *entities.LedgerEntry) error

	// GetByAccount returns ledger entries for an account, most recent first
	GetByAccount(ctx context.Context, accountID int64, limit int) ([]*entities.LedgerEntry, error)

	// SumByAccount returns the sum of all ledger amounts for an account,
	// for reconciliation against the maintained running balance
	SumByAccount(ctx context.Context, accountID int64) (int64, error)
}

// DrawRepository defines the interface for winning draw data access
type DrawRepository interface {
	// Create persists the winning draw for a board. At most one draw exists
	// per board; a concurrent second declaration loses the race.
	Create(ctx context.Context, draw *entities.WinningDraw) error

	// GetByBoard retrieves a board's draw, or nil if not yet declared
	GetByBoard(ctx context.Context, boardID int64) (*entities.WinningDraw, error)
}

// SettlementRepository defines the interface for settlement record access
type SettlementRepository interface {
	// CreateBatch persists settlement records for a board's entries
	CreateBatch(ctx context.Context, records []*entities.SettlementRecord) error

	// GetByBoard returns all settlement records for a board
	GetByBoard(ctx context.Context, boardID int64) ([]*entities.SettlementRecord, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event) error
}

// UnitOfWork provides transactional access to all repositories. Either every
// write inside the unit commits, or none does.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	Boards() BoardRepository
	Accounts() AccountRepository
	Entries() EntryRepository
	Ledger() LedgerRepository
	Draws() DrawRepository
	Settlements() SettlementRepository

	// EventBus returns a publisher whose events are flushed only on commit
	EventBus() EventPublisher
}

// UnitOfWorkFactory creates units of work
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
