package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an error into one of the caller-facing categories.
type Kind string

const (
	KindValidation          Kind = "validation"
	KindState               Kind = "state"
	KindInsufficientBalance Kind = "insufficient_balance"
	KindNotFound            Kind = "not_found"
	KindConflict            Kind = "conflict"
)

// StateReason identifies why a state transition was refused.
type StateReason string

const (
	ReasonInactiveAccount StateReason = "INACTIVE_ACCOUNT"
	ReasonBoardClosed     StateReason = "BOARD_CLOSED"
	ReasonAlreadyPlayed   StateReason = "ALREADY_PLAYED"
	ReasonAlreadySettled  StateReason = "ALREADY_SETTLED"
)

// AppError is a typed, user-facing-safe error. Raw storage errors are kept
// in cause and never exposed through Error().
type AppError struct {
	Kind    Kind
	Reason  StateReason
	Message string
	cause   error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", e.Reason, e.Message)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// NewValidation creates a validation error for malformed input.
func NewValidation(format string, args ...any) *AppError {
	return &AppError{
		Kind:    KindValidation,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewState creates a state error with a reason code.
func NewState(reason StateReason, format string, args ...any) *AppError {
	return &AppError{
		Kind:    KindState,
		Reason:  reason,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewInsufficientBalance creates an insufficient balance error.
func NewInsufficientBalance(have, need int64) *AppError {
	return &AppError{
		Kind:    KindInsufficientBalance,
		Message: fmt.Sprintf("insufficient balance: have %d, need %d", have, need),
	}
}

// NewNotFound creates a not found error.
func NewNotFound(format string, args ...any) *AppError {
	return &AppError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewConflict creates a concurrency conflict error. Conflicts are safe to
// retry after re-reading current state.
func NewConflict(msg string, cause error) *AppError {
	return &AppError{
		Kind:    KindConflict,
		Message: msg,
		cause:   cause,
	}
}

// KindOf returns the kind of err, or "" if err is not an AppError.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// IsState reports whether err is a state error with the given reason.
func IsState(err error, reason StateReason) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == KindState && appErr.Reason == reason
	}
	return false
}

// IsConflict reports whether err is a concurrency conflict.
func IsConflict(err error) bool {
	return IsKind(err, KindConflict)
}
