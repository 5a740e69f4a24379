package core

import "time"

// All calendar arithmetic is done in UTC. Month filters and summary ranges
// use real month boundaries, never 30-day windows.

// Range is a half-open time interval [From, To).
type Range struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the range.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.From) && t.Before(r.To)
}

// MonthRange returns the full calendar month [first instant, next month's
// first instant). time.Date normalizes out-of-range months, so December
// rolls over to January of the next year on its own.
func MonthRange(year int, month time.Month) Range {
	return Range{
		From: time.Date(year, month, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// CurrentMonthRange returns the calendar month containing now.
func CurrentMonthRange(now time.Time) Range {
	now = now.UTC()
	return MonthRange(now.Year(), now.Month())
}

// PreviousMonthRange returns the calendar month before the one containing
// now. In January this is December of the prior year.
func PreviousMonthRange(now time.Time) Range {
	now = now.UTC()
	return MonthRange(now.Year(), now.Month()-1)
}

// YearToDateRange covers January 1 of now's year through the end of the
// current month.
func YearToDateRange(now time.Time) Range {
	now = now.UTC()
	return Range{
		From: time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// MonthKey formats a month as "YYYY-MM" with a zero-padded month, the key
// payments are recorded against.
func MonthKey(year int, month time.Month) string {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

// PreviousMonthKey returns the month key for the month before now.
// January rolls back to December of the prior year.
func PreviousMonthKey(now time.Time) string {
	now = now.UTC()
	return MonthKey(now.Year(), now.Month()-1)
}

// ParseMonthKey validates a "YYYY-MM" key and returns its parts.
func ParseMonthKey(key string) (int, time.Month, error) {
	t, err := time.ParseInLocation("2006-01", key, time.UTC)
	if err != nil {
		return 0, 0, ErrInvalidMonthKey
	}
	// time.Parse tolerates "2025-1"; require the zero-padded form.
	if t.Format("2006-01") != key {
		return 0, 0, ErrInvalidMonthKey
	}
	return t.Year(), t.Month(), nil
}
