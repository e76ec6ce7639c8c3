package services

import (
	"deadpigeons/domain/apperror"

	log "github.com/sirupsen/logrus"
)

// withConflictRetry runs fn and, if it lost a serialization race, runs it
// once more. The second attempt re-reads current state inside a fresh
// transaction, so it either succeeds against the winner's outcome or fails
// with a terminal error the caller must act on.
func withConflictRetry[T any](fn func() (T, error)) (T, error) {
	result, err := fn()
	if err != nil && apperror.IsConflict(err) {
		log.WithError(err).Warn("Lost serialization race, retrying once")
		return fn()
	}
	return result, err
}
