package entities

import (
	"time"
)

// WeekClock derives the canonical week identifier from wall-clock time.
// The identifier is the ISO week number of the timestamp converted into the
// configured timezone, advanced by one once the weekly cutover has passed:
// entries placed on the cutover day at or after the cutover hour belong to
// the next week's board, because the current week's draw is about to close.
//
// WeekAt is a pure function of its input, so week arithmetic is reproducible
// in tests regardless of the host clock or timezone.
type WeekClock struct {
	loc         *time.Location
	cutoverDay  time.Weekday
	cutoverHour int
}

// NewWeekClock creates a clock for the given timezone and cutover rule.
func NewWeekClock(loc *time.Location, cutoverDay time.Weekday, cutoverHour int) *WeekClock {
	return &WeekClock{
		loc:         loc,
		cutoverDay:  cutoverDay,
		cutoverHour: cutoverHour,
	}
}

// WeekAt returns the board year and week identifier for the given timestamp.
func (c *WeekClock) WeekAt(now time.Time) (year, week int) {
	local := now.In(c.loc)
	year, week = local.ISOWeek()

	if local.Weekday() == c.cutoverDay && local.Hour() >= c.cutoverHour {
		week++
		if week > isoWeeksInYear(year) {
			week = 1
			year++
		}
	}
	return year, week
}

// YearFor resolves the board year for a caller-supplied week number. The
// current week identifier pins its own year, so week 1 refers to the next
// year's board during the year-end cutover window. Any other week number
// refers to a board of the timestamp's ISO year, except that a week number
// past the current ISO week can only mean the previous year's board: the
// final ISO week stays addressable while the cutover has already advanced
// the identifier into the new year.
func (c *WeekClock) YearFor(now time.Time, week int) int {
	currentYear, currentWeek := c.WeekAt(now)
	if week == currentWeek {
		return currentYear
	}

	isoYear, isoWeek := now.In(c.loc).ISOWeek()
	if week > isoWeek {
		return isoYear - 1
	}
	return isoYear
}

// isoWeeksInYear returns 52 or 53. December 28th always falls in the last
// ISO week of its year.
func isoWeeksInYear(year int) int {
	_, week := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return week
}
