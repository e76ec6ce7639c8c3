package events

import (
	"context"
	"sync"

	"deadpigeons/domain/entities"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeEntryPlaced   EventType = "entry_placed"
	EventTypeBalanceChange EventType = "balance_change"
	EventTypeBoardSettled  EventType = "board_settled"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// EntryPlacedEvent represents an entry that was accepted onto a board
type EntryPlacedEvent struct {
	EntryID    int64
	BoardID    int64
	AccountID  int64
	WeekNumber int
	Price      int64
}

func (e EntryPlacedEvent) Type() EventType {
	return EventTypeEntryPlaced
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	AccountID     int64
	BalanceBefore int64
	BalanceAfter  int64
	Amount        int64
	Reason        entities.LedgerReason
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// BoardSettledEvent represents a board that was settled and closed
type BoardSettledEvent struct {
	BoardID      int64
	WeekNumber   int
	Year         int
	TotalEntries int
	TotalWinners int
}

func (e BoardSettledEvent) Type() EventType {
	return EventTypeBoardSettled
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Call handlers asynchronously to avoid blocking the caller
	for _, handler := range handlers {
		go func(h Handler) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType": event.Type(),
						"panic":     r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler)
	}
}

// TransactionalBus stashes events published during a unit of work and flushes
// them to the underlying bus only after the database commit succeeds.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) error {
	b.pending = append(b.pending, e)
	return nil
}

// Flush emits all pending events. Called after a successful commit.
func (b *TransactionalBus) Flush(ctx context.Context) {
	// Events outlive the transaction context that produced them.
	eventCtx := context.Background()
	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
}

// Discard drops all pending events. Called after a rollback.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
