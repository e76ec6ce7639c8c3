package services

import (
	"context"
	"fmt"

	"deadpigeons/domain/apperror"
	"deadpigeons/domain/entities"
	"deadpigeons/domain/interfaces"
	"deadpigeons/events"

	log "github.com/sirupsen/logrus"
)

const defaultLedgerLimit = 50

// ledgerService exposes the balance ledger
type ledgerService struct {
	uowFactory interfaces.UnitOfWorkFactory
}

// NewLedgerService creates a new ledger service
func NewLedgerService(uowFactory interfaces.UnitOfWorkFactory) interfaces.LedgerService {
	return &ledgerService{uowFactory: uowFactory}
}

// Credit tops up an account balance and appends the matching ledger entry in
// one transaction. reference carries the payment provider's transaction
// identifier.
func (s *ledgerService) Credit(ctx context.Context, accountID, amount int64, reference string) (*entities.Account, error) {
	if amount <= 0 {
		return nil, apperror.NewValidation("credit amount must be positive, got %d", amount)
	}
	if reference == "" {
		return nil, apperror.NewValidation("credit reference must not be empty")
	}

	return withConflictRetry(func() (*entities.Account, error) {
		return s.credit(ctx, accountID, amount, reference)
	})
}

func (s *ledgerService) credit(ctx context.Context, accountID, amount int64, reference string) (*entities.Account, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.Accounts().GetByIDForUpdate(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apperror.NewNotFound("account %d not found", accountID)
	}

	if err := uow.Accounts().AddBalance(ctx, accountID, amount); err != nil {
		return nil, err
	}

	ledgerEntry := &entities.LedgerEntry{
		AccountID:     accountID,
		BalanceBefore: account.Balance,
		BalanceAfter:  account.Balance + amount,
		Amount:        amount,
		Reason:        entities.ReasonTopup,
		Reference:     reference,
	}
	if err := uow.Ledger().Record(ctx, ledgerEntry); err != nil {
		return nil, err
	}

	if err := uow.EventBus().Publish(events.BalanceChangeEvent{
		AccountID:     accountID,
		BalanceBefore: ledgerEntry.BalanceBefore,
		BalanceAfter:  ledgerEntry.BalanceAfter,
		Amount:        amount,
		Reason:        entities.ReasonTopup,
	}); err != nil {
		log.WithError(err).Error("Failed to publish balance change event")
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	account.Balance += amount

	log.WithFields(log.Fields{
		"accountID": accountID,
		"amount":    amount,
		"reference": reference,
		"balance":   account.Balance,
	}).Info("Account credited")

	return account, nil
}

// GetBalance returns the running balance together with the ledger-reconciled
// sum, so a drift between the two surfaces immediately
func (s *ledgerService) GetBalance(ctx context.Context, accountID int64) (*interfaces.BalanceStatement, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.Accounts().GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apperror.NewNotFound("account %d not found", accountID)
	}

	sum, err := uow.Ledger().SumByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if sum != account.Balance {
		log.WithFields(log.Fields{
			"accountID": accountID,
			"balance":   account.Balance,
			"ledgerSum": sum,
		}).Warn("Account balance does not reconcile with ledger")
	}

	return &interfaces.BalanceStatement{
		AccountID:  accountID,
		Balance:    account.Balance,
		LedgerSum:  sum,
		Reconciled: sum == account.Balance,
	}, nil
}

// GetLedger returns an account's ledger entries, most recent first
func (s *ledgerService) GetLedger(ctx context.Context, accountID int64, limit int) ([]*entities.LedgerEntry, error) {
	if limit <= 0 {
		limit = defaultLedgerLimit
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.Accounts().GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apperror.NewNotFound("account %d not found", accountID)
	}

	entries, err := uow.Ledger().GetByAccount(ctx, accountID, limit)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return entries, nil
}
