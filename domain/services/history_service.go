package services

import (
	"context"
	"fmt"

	"deadpigeons/domain/apperror"
	"deadpigeons/domain/entities"
	"deadpigeons/domain/interfaces"
)

// historyService reads settled play history
type historyService struct {
	uowFactory interfaces.UnitOfWorkFactory
}

// NewHistoryService creates a new history service
func NewHistoryService(uowFactory interfaces.UnitOfWorkFactory) interfaces.HistoryService {
	return &historyService{uowFactory: uowFactory}
}

// GetAccountHistory returns the account's entries joined with their
// settlement outcome, most recent first. Entries on boards not yet settled
// carry no outcome.
func (s *historyService) GetAccountHistory(ctx context.Context, accountID int64) ([]*entities.AccountHistoryItem, error) {
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

	items, err := uow.Entries().GetHistoryByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return items, nil
}
