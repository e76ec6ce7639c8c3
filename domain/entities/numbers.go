package entities

import (
	"slices"

	"deadpigeons/domain/apperror"
)

const (
	// NumberMin and NumberMax bound every playable number.
	NumberMin = 1
	NumberMax = 16

	// MinGuessCount and MaxGuessCount bound an entry's guessed set.
	MinGuessCount = 5
	MaxGuessCount = 8

	// WinningCount is the exact size of a declared winning set.
	WinningCount = 3
)

// ValidateGuessNumbers checks an entry's guessed number set: 5 to 8 values,
// all distinct, each within [1,16].
func ValidateGuessNumbers(numbers []int64) error {
	if len(numbers) < MinGuessCount || len(numbers) > MaxGuessCount {
		return apperror.NewValidation("guessed numbers must contain between %d and %d values, got %d", MinGuessCount, MaxGuessCount, len(numbers))
	}
	return validateDistinctInRange(numbers)
}

// ValidateWinningNumbers checks a declared winning set: exactly 3 values,
// all distinct, each within [1,16].
func ValidateWinningNumbers(numbers []int64) error {
	if len(numbers) != WinningCount {
		return apperror.NewValidation("winning numbers must contain exactly %d values, got %d", WinningCount, len(numbers))
	}
	return validateDistinctInRange(numbers)
}

func validateDistinctInRange(numbers []int64) error {
	seen := make(map[int64]bool, len(numbers))
	for _, n := range numbers {
		if n < NumberMin || n > NumberMax {
			return apperror.NewValidation("number %d is out of range [%d,%d]", n, NumberMin, NumberMax)
		}
		if seen[n] {
			return apperror.NewValidation("number %d appears more than once", n)
		}
		seen[n] = true
	}
	return nil
}

// NormalizeNumbers returns a sorted copy of numbers. Number sets are stored
// normalized so that equality checks are order-independent.
func NormalizeNumbers(numbers []int64) []int64 {
	normalized := slices.Clone(numbers)
	slices.Sort(normalized)
	return normalized
}

// SameNumberSet reports whether two number sets contain the same values,
// regardless of order.
func SameNumberSet(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	return slices.Equal(NormalizeNumbers(a), NormalizeNumbers(b))
}

// ContainsAll reports whether every value in subset occurs in set.
func ContainsAll(set, subset []int64) bool {
	members := make(map[int64]bool, len(set))
	for _, n := range set {
		members[n] = true
	}
	for _, n := range subset {
		if !members[n] {
			return false
		}
	}
	return true
}
