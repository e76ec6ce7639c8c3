package entities

import (
	"fmt"
	"sort"

	"deadpigeons/domain/apperror"
)

// PriceTable maps a guessed-set size to its entry fee.
type PriceTable map[int]int64

// DefaultPriceTable returns the standard fee tiers.
func DefaultPriceTable() PriceTable {
	return PriceTable{
		5: 20,
		6: 40,
		7: 80,
		8: 160,
	}
}

// PriceFor returns the fee for an entry of the given size. Sizes outside the
// table are unreachable for entries that passed ValidateGuessNumbers.
func (t PriceTable) PriceFor(size int) (int64, error) {
	price, ok := t[size]
	if !ok {
		return 0, apperror.NewValidation("no price defined for %d guessed numbers", size)
	}
	return price, nil
}

// Validate checks that the table covers every playable size with positive,
// strictly increasing prices.
func (t PriceTable) Validate() error {
	sizes := make([]int, 0, len(t))
	for size := range t {
		if size < MinGuessCount || size > MaxGuessCount {
			return fmt.Errorf("price table has size %d outside [%d,%d]", size, MinGuessCount, MaxGuessCount)
		}
		sizes = append(sizes, size)
	}
	if len(t) != MaxGuessCount-MinGuessCount+1 {
		return fmt.Errorf("price table must cover every size in [%d,%d]", MinGuessCount, MaxGuessCount)
	}
	sort.Ints(sizes)
	var prev int64
	for _, size := range sizes {
		if t[size] <= prev {
			return fmt.Errorf("price for size %d must exceed the price for smaller sizes", size)
		}
		prev = t[size]
	}
	return nil
}
