package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func copenhagen(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Copenhagen")
	require.NoError(t, err)
	return loc
}

func TestWeekClock_WeekAt(t *testing.T) {
	loc := copenhagen(t)
	clock := NewWeekClock(loc, time.Saturday, 17)

	tests := []struct {
		name     string
		now      time.Time
		wantYear int
		wantWeek int
	}{
		{
			name:     "midweek",
			now:      time.Date(2026, time.January, 7, 12, 0, 0, 0, loc),
			wantYear: 2026,
			wantWeek: 2,
		},
		{
			name:     "one minute before cutover",
			now:      time.Date(2026, time.January, 10, 16, 59, 0, 0, loc),
			wantYear: 2026,
			wantWeek: 2,
		},
		{
			name:     "exactly at cutover",
			now:      time.Date(2026, time.January, 10, 17, 0, 0, 0, loc),
			wantYear: 2026,
			wantWeek: 3,
		},
		{
			name:     "one minute after cutover",
			now:      time.Date(2026, time.January, 10, 17, 1, 0, 0, loc),
			wantYear: 2026,
			wantWeek: 3,
		},
		{
			name:     "late saturday evening",
			now:      time.Date(2026, time.January, 10, 23, 59, 0, 0, loc),
			wantYear: 2026,
			wantWeek: 3,
		},
		{
			name:     "sunday is past the cutover window",
			now:      time.Date(2026, time.January, 11, 10, 0, 0, 0, loc),
			wantYear: 2026,
			wantWeek: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			year, week := clock.WeekAt(tt.now)
			assert.Equal(t, tt.wantYear, year)
			assert.Equal(t, tt.wantWeek, week)
		})
	}
}

func TestWeekClock_WeekAt_ConvertsTimezone(t *testing.T) {
	clock := NewWeekClock(copenhagen(t), time.Saturday, 17)

	// 16:30 UTC is 17:30 in Copenhagen during winter, past the cutover
	year, week := clock.WeekAt(time.Date(2026, time.January, 10, 16, 30, 0, 0, time.UTC))
	assert.Equal(t, 2026, year)
	assert.Equal(t, 3, week)

	// 15:30 UTC is 16:30 local, still before the cutover
	year, week = clock.WeekAt(time.Date(2026, time.January, 10, 15, 30, 0, 0, time.UTC))
	assert.Equal(t, 2026, year)
	assert.Equal(t, 2, week)
}

func TestWeekClock_WeekAt_YearWrap(t *testing.T) {
	loc := copenhagen(t)
	clock := NewWeekClock(loc, time.Saturday, 17)

	// Saturday 2027-01-02 still belongs to ISO week 53 of 2026
	year, week := clock.WeekAt(time.Date(2027, time.January, 2, 10, 0, 0, 0, loc))
	assert.Equal(t, 2026, year)
	assert.Equal(t, 53, week)

	// Past the cutover the identifier wraps to week 1 of the next year
	year, week = clock.WeekAt(time.Date(2027, time.January, 2, 18, 0, 0, 0, loc))
	assert.Equal(t, 2027, year)
	assert.Equal(t, 1, week)
}

func TestWeekClock_YearFor(t *testing.T) {
	loc := copenhagen(t)
	clock := NewWeekClock(loc, time.Saturday, 17)

	midweek := time.Date(2026, time.June, 10, 12, 0, 0, 0, loc)
	// Saturday 2027-01-02 18:00 is inside the year-end cutover window:
	// ISO week 53 of 2026, identifier already advanced to 2027 week 1
	cutoverWindow := time.Date(2027, time.January, 2, 18, 0, 0, 0, loc)
	january := time.Date(2027, time.January, 6, 12, 0, 0, 0, loc)

	tests := []struct {
		name string
		now  time.Time
		week int
		want int
	}{
		{"current week midyear", midweek, 24, 2026},
		{"earlier week midyear", midweek, 2, 2026},
		{"final week during year-end cutover window", cutoverWindow, 53, 2026},
		{"new week 1 during year-end cutover window", cutoverWindow, 1, 2027},
		{"earlier week during year-end cutover window", cutoverWindow, 52, 2026},
		{"last year's final week from january", january, 53, 2026},
		{"current week 1 in january", january, 1, 2027},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, clock.YearFor(tt.now, tt.week))
		})
	}
}

func TestWeekClock_WeekAt_ConfigurableCutover(t *testing.T) {
	loc := copenhagen(t)
	clock := NewWeekClock(loc, time.Wednesday, 12)

	year, week := clock.WeekAt(time.Date(2026, time.January, 7, 11, 59, 0, 0, loc))
	assert.Equal(t, 2026, year)
	assert.Equal(t, 2, week)

	year, week = clock.WeekAt(time.Date(2026, time.January, 7, 12, 0, 0, 0, loc))
	assert.Equal(t, 2026, year)
	assert.Equal(t, 3, week)
}
