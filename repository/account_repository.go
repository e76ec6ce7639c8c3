package repository

import (
	"context"
	"fmt"

	"deadpigeons/database"
	"deadpigeons/domain/apperror"
	"deadpigeons/domain/entities"

	"github.com/jackc/pgx/v5"
)

// AccountRepository implements account data access
type AccountRepository struct {
	q Queryable
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{q: db.Pool}
}

// newAccountRepositoryWithTx creates a new account repository with a transaction
func newAccountRepositoryWithTx(tx Queryable) *AccountRepository {
	return &AccountRepository{q: tx}
}

const accountColumns = `id, name, email, balance, active, created_at, updated_at`

func scanAccount(row pgx.Row) (*entities.Account, error) {
	var account entities.Account
	err := row.Scan(
		&account.ID,
		&account.Name,
		&account.Email,
		&account.Balance,
		&account.Active,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetByID retrieves an account, or nil if none exists
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*entities.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	account, err := scanAccount(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %d: %w", id, err)
	}
	return account, nil
}

// GetByIDForUpdate retrieves an account with a row lock, serializing
// concurrent balance mutations for the same account
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`

	account, err := scanAccount(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock account %d: %w", id, mapConflict(err))
	}
	return account, nil
}

// Create creates a new account
func (r *AccountRepository) Create(ctx context.Context, name, email string, initialBalance int64, active bool) (*entities.Account, error) {
	query := `
		INSERT INTO accounts (name, email, balance, active)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + accountColumns

	account, err := scanAccount(r.q.QueryRow(ctx, query, name, email, initialBalance, active))
	if err != nil {
		return nil, fmt.Errorf("failed to create account %q: %w", name, err)
	}
	return account, nil
}

// AddBalance adds to an account's balance atomically
func (r *AccountRepository) AddBalance(ctx context.Context, id, amount int64) error {
	if amount <= 0 {
		return apperror.NewValidation("credit amount must be positive, got %d", amount)
	}

	query := `
		UPDATE accounts
		SET balance = balance + $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.q.Exec(ctx, query, amount, id)
	if err != nil {
		return fmt.Errorf("failed to add balance for account %d: %w", id, mapConflict(err))
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("account %d not found", id)
	}

	return nil
}

// DeductBalance deducts from an account's balance atomically. The balance
// guard in the WHERE clause refuses any debit that would go negative.
func (r *AccountRepository) DeductBalance(ctx context.Context, id, amount int64) error {
	if amount <= 0 {
		return apperror.NewValidation("debit amount must be positive, got %d", amount)
	}

	query := `
		UPDATE accounts
		SET balance = balance - $1, updated_at = NOW()
		WHERE id = $2 AND balance >= $1
	`

	result, err := r.q.Exec(ctx, query, amount, id)
	if err != nil {
		return fmt.Errorf("failed to deduct balance for account %d: %w", id, mapConflict(err))
	}

	if result.RowsAffected() == 0 {
		account, err := r.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to check account %d: %w", id, err)
		}
		if account == nil {
			return apperror.NewNotFound("account %d not found", id)
		}
		return apperror.NewInsufficientBalance(account.Balance, amount)
	}

	return nil
}
