package testhelpers

import (
	"context"

	"deadpigeons/domain/entities"
	"deadpigeons/domain/interfaces"
	"deadpigeons/events"

	"github.com/stretchr/testify/mock"
)

// MockBoardRepository is a mock implementation of BoardRepository
type MockBoardRepository struct {
	mock.Mock
}

func (m *MockBoardRepository) GetOrCreate(ctx context.Context, year, week int) (*entities.Board, error) {
	args := m.Called(ctx, year, week)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Board), args.Error(1)
}

func (m *MockBoardRepository) GetByWeek(ctx context.Context, year, week int) (*entities.Board, error) {
	args := m.Called(ctx, year, week)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Board), args.Error(1)
}

func (m *MockBoardRepository) GetByWeekForUpdate(ctx context.Context, year, week int) (*entities.Board, error) {
	args := m.Called(ctx, year, week)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Board), args.Error(1)
}

func (m *MockBoardRepository) GetByWeekForShare(ctx context.Context, year, week int) (*entities.Board, error) {
	args := m.Called(ctx, year, week)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Board), args.Error(1)
}

func (m *MockBoardRepository) Close(ctx context.Context, boardID int64) error {
	args := m.Called(ctx, boardID)
	return args.Error(0)
}

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id int64) (*entities.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, name, email string, initialBalance int64, active bool) (*entities.Account, error) {
	args := m.Called(ctx, name, email, initialBalance, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) AddBalance(ctx context.Context, id, amount int64) error {
	args := m.Called(ctx, id, amount)
	return args.Error(0)
}

func (m *MockAccountRepository) DeductBalance(ctx context.Context, id, amount int64) error {
	args := m.Called(ctx, id, amount)
	return args.Error(0)
}

// MockEntryRepository is a mock implementation of EntryRepository
type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) Create(ctx context.Context, entry *entities.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockEntryRepository) GetByAccountAndBoard(ctx context.Context, accountID, boardID int64) (*entities.Entry, error) {
	args := m.Called(ctx, accountID, boardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Entry), args.Error(1)
}

func (m *MockEntryRepository) GetByBoard(ctx context.Context, boardID int64) ([]*entities.Entry, error) {
	args := m.Called(ctx, boardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Entry), args.Error(1)
}

func (m *MockEntryRepository) GetHistoryByAccount(ctx context.Context, accountID int64) ([]*entities.AccountHistoryItem, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.AccountHistoryItem), args.Error(1)
}

// MockLedgerRepository is a mock implementation of LedgerRepository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Record(ctx context.Context, entry *entities.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) GetByAccount(ctx context.Context, accountID int64, limit int) ([]*entities.LedgerEntry, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) SumByAccount(ctx context.Context, accountID int64) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

// MockDrawRepository is a mock implementation of DrawRepository
type MockDrawRepository struct {
	mock.Mock
}

func (m *MockDrawRepository) Create(ctx context.Context, draw *entities.WinningDraw) error {
	args := m.Called(ctx, draw)
	return args.Error(0)
}

func (m *MockDrawRepository) GetByBoard(ctx context.Context, boardID int64) (*entities.WinningDraw, error) {
	args := m.Called(ctx, boardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WinningDraw), args.Error(1)
}

// MockSettlementRepository is a mock implementation of SettlementRepository
type MockSettlementRepository struct {
	mock.Mock
}

func (m *MockSettlementRepository) CreateBatch(ctx context.Context, records []*entities.SettlementRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockSettlementRepository) GetByBoard(ctx context.Context, boardID int64) ([]*entities.SettlementRecord, error) {
	args := m.Called(ctx, boardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.SettlementRecord), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repositories are
// assigned with SetRepositories rather than expectation-driven so tests only
// declare expectations for the repos a scenario actually touches.
type MockUnitOfWork struct {
	mock.Mock

	boards      interfaces.BoardRepository
	accounts    interfaces.AccountRepository
	entries     interfaces.EntryRepository
	ledger      interfaces.LedgerRepository
	draws       interfaces.DrawRepository
	settlements interfaces.SettlementRepository
	eventBus    interfaces.EventPublisher
}

// SetRepositories assigns the repositories returned by the accessor methods.
// Pass nil for repositories the test never reaches.
func (m *MockUnitOfWork) SetRepositories(
	boards interfaces.BoardRepository,
	accounts interfaces.AccountRepository,
	entries interfaces.EntryRepository,
	ledger interfaces.LedgerRepository,
	draws interfaces.DrawRepository,
	settlements interfaces.SettlementRepository,
) {
	m.boards = boards
	m.accounts = accounts
	m.entries = entries
	m.ledger = ledger
	m.draws = draws
	m.settlements = settlements
}

// SetEventBus assigns the event publisher returned by EventBus
func (m *MockUnitOfWork) SetEventBus(eventBus interfaces.EventPublisher) {
	m.eventBus = eventBus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Boards() interfaces.BoardRepository {
	return m.boards
}

func (m *MockUnitOfWork) Accounts() interfaces.AccountRepository {
	return m.accounts
}

func (m *MockUnitOfWork) Entries() interfaces.EntryRepository {
	return m.entries
}

func (m *MockUnitOfWork) Ledger() interfaces.LedgerRepository {
	return m.ledger
}

func (m *MockUnitOfWork) Draws() interfaces.DrawRepository {
	return m.draws
}

func (m *MockUnitOfWork) Settlements() interfaces.SettlementRepository {
	return m.settlements
}

func (m *MockUnitOfWork) EventBus() interfaces.EventPublisher {
	if m.eventBus == nil {
		return noopPublisher{}
	}
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() interfaces.UnitOfWork {
	args := m.Called()
	return args.Get(0).(interfaces.UnitOfWork)
}

// noopPublisher swallows events for tests that do not assert on them
type noopPublisher struct{}

func (noopPublisher) Publish(event events.Event) error {
	return nil
}
