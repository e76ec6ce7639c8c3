package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntry_IsWinner(t *testing.T) {
	tests := []struct {
		name    string
		guessed []int64
		winning []int64
		want    bool
	}{
		{
			name:    "all winning numbers guessed",
			guessed: []int64{1, 2, 3, 4, 5},
			winning: []int64{1, 3, 5},
			want:    true,
		},
		{
			name:    "order does not matter",
			guessed: []int64{16, 2, 9, 7, 11},
			winning: []int64{11, 16, 2},
			want:    true,
		},
		{
			name:    "one winning number missing",
			guessed: []int64{1, 2, 3, 4, 5},
			winning: []int64{1, 2, 6},
			want:    false,
		},
		{
			name:    "no overlap",
			guessed: []int64{1, 2, 3, 4, 5},
			winning: []int64{6, 7, 8},
			want:    false,
		},
		{
			name:    "full board always wins when numbers overlap",
			guessed: []int64{1, 2, 3, 4, 5, 6, 7, 8},
			winning: []int64{2, 5, 8},
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &Entry{GuessedNumbers: tt.guessed}
			assert.Equal(t, tt.want, entry.IsWinner(tt.winning))
		})
	}
}
