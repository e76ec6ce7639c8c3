package services

import (
	"context"
	"fmt"
	"time"

	"deadpigeons/domain/apperror"
	"deadpigeons/domain/entities"
	"deadpigeons/domain/interfaces"
	"deadpigeons/events"

	log "github.com/sirupsen/logrus"
)

// entryService validates and accepts entry submissions
type entryService struct {
	uowFactory interfaces.UnitOfWorkFactory
	clock      *entities.WeekClock
	priceTable entities.PriceTable
	now        func() time.Time
}

// NewEntryService creates a new entry service
func NewEntryService(uowFactory interfaces.UnitOfWorkFactory, clock *entities.WeekClock, priceTable entities.PriceTable) interfaces.EntryService {
	return &entryService{
		uowFactory: uowFactory,
		clock:      clock,
		priceTable: priceTable,
		now:        time.Now,
	}
}

// PlaceEntry validates the submission, debits the entry fee and persists the
// entry as one atomic operation. Either the debit, its ledger entry and the
// entry row all commit, or none of them do.
func (s *entryService) PlaceEntry(ctx context.Context, accountID int64, week int, guessedNumbers []int64, repeatWeeks int) (*entities.Entry, error) {
	if err := entities.ValidateGuessNumbers(guessedNumbers); err != nil {
		return nil, err
	}
	if repeatWeeks < 0 {
		return nil, apperror.NewValidation("repeat weeks must not be negative, got %d", repeatWeeks)
	}

	numbers := entities.NormalizeNumbers(guessedNumbers)

	price, err := s.priceTable.PriceFor(len(numbers))
	if err != nil {
		return nil, err
	}

	year := s.clock.YearFor(s.now(), week)

	return withConflictRetry(func() (*entities.Entry, error) {
		return s.placeEntry(ctx, accountID, year, week, numbers, price, repeatWeeks)
	})
}

func (s *entryService) placeEntry(ctx context.Context, accountID int64, year, week int, numbers []int64, price int64, repeatWeeks int) (*entities.Entry, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	// Lock the account row first so concurrent submissions by the same
	// account serialize here.
	account, err := uow.Accounts().GetByIDForUpdate(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apperror.NewNotFound("account %d not found", accountID)
	}
	if !account.Active {
		return nil, apperror.NewState(apperror.ReasonInactiveAccount, "account %d is not active", accountID)
	}

	// Shared lock held until commit: a concurrent settlement's exclusive
	// lock waits here, so it never settles past an in-flight entry.
	board, err := uow.Boards().GetByWeekForShare(ctx, year, week)
	if err != nil {
		return nil, err
	}
	if board == nil {
		return nil, apperror.NewNotFound("no board exists for week %d", week)
	}
	if board.IsClosed() {
		return nil, apperror.NewState(apperror.ReasonBoardClosed, "board for week %d is closed", week)
	}

	// Friendly pre-check; the unique constraint still enforces this at
	// commit time if a concurrent submission slips past it.
	existing, err := uow.Entries().GetByAccountAndBoard(ctx, accountID, board.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewState(apperror.ReasonAlreadyPlayed, "account %d already has an entry on board %d", accountID, board.ID)
	}

	if account.Balance < price {
		return nil, apperror.NewInsufficientBalance(account.Balance, price)
	}

	if err := uow.Accounts().DeductBalance(ctx, accountID, price); err != nil {
		return nil, err
	}

	ledgerEntry := &entities.LedgerEntry{
		AccountID:     accountID,
		BalanceBefore: account.Balance,
		BalanceAfter:  account.Balance - price,
		Amount:        -price,
		Reason:        entities.ReasonEntryFee,
	}
	if err := uow.Ledger().Record(ctx, ledgerEntry); err != nil {
		return nil, err
	}

	entry := &entities.Entry{
		BoardID:        board.ID,
		AccountID:      accountID,
		GuessedNumbers: numbers,
		Price:          price,
		RepeatWeeks:    repeatWeeks,
		LedgerEntryID:  ledgerEntry.ID,
	}
	if err := uow.Entries().Create(ctx, entry); err != nil {
		return nil, err
	}

	if err := uow.EventBus().Publish(events.EntryPlacedEvent{
		EntryID:    entry.ID,
		BoardID:    board.ID,
		AccountID:  accountID,
		WeekNumber: week,
		Price:      price,
	}); err != nil {
		log.WithError(err).Error("Failed to publish entry placed event")
	}
	if err := uow.EventBus().Publish(events.BalanceChangeEvent{
		AccountID:     accountID,
		BalanceBefore: ledgerEntry.BalanceBefore,
		BalanceAfter:  ledgerEntry.BalanceAfter,
		Amount:        ledgerEntry.Amount,
		Reason:        ledgerEntry.Reason,
	}); err != nil {
		log.WithError(err).Error("Failed to publish balance change event")
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"accountID": accountID,
		"boardID":   board.ID,
		"week":      week,
		"price":     price,
	}).Info("Entry placed")

	return entry, nil
}
