package core

import (
	"testing"
	"time"
)

func TestPreviousMonthKey(t *testing.T) {
	tests := []struct {
		now  time.Time
		want string
	}{
		{time.Date(2025, time.August, 15, 12, 0, 0, 0, time.UTC), "2025-07"},
		// January must roll back to December of the prior year.
		{time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC), "2024-12"},
		{time.Date(2025, time.December, 31, 23, 59, 59, 0, time.UTC), "2025-11"},
	}

	for _, tt := range tests {
		if got := PreviousMonthKey(tt.now); got != tt.want {
			t.Errorf("PreviousMonthKey(%s) = %q, want %q", tt.now.Format("2006-01-02"), got, tt.want)
		}
	}
}

func TestMonthKeyZeroPadded(t *testing.T) {
	if got := MonthKey(2025, time.March); got != "2025-03" {
		t.Errorf("MonthKey(2025, March) = %q, want \"2025-03\"", got)
	}
}

func TestParseMonthKey(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		year, month, err := ParseMonthKey("2024-12")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if year != 2024 || month != time.December {
			t.Errorf("got %d-%d, want 2024-12", year, month)
		}
	})

	t.Run("rejects unpadded month", func(t *testing.T) {
		if _, _, err := ParseMonthKey("2025-1"); err == nil {
			t.Error("expected error for unpadded month")
		}
	})

	t.Run("rejects garbage", func(t *testing.T) {
		for _, key := range []string{"", "2025", "2025-13", "Jan 2025", "2025/01"} {
			if _, _, err := ParseMonthKey(key); err == nil {
				t.Errorf("expected error for %q", key)
			}
		}
	})
}

func TestMonthRangeBoundaries(t *testing.T) {
	now := time.Date(2025, time.August, 30, 10, 0, 0, 0, time.UTC)
	r := CurrentMonthRange(now)

	// A visit at month-end 23:59:59 belongs to the month.
	lastInstant := time.Date(2025, time.August, 31, 23, 59, 59, 0, time.UTC)
	if !r.Contains(lastInstant) {
		t.Error("month-end 23:59:59 should fall inside the month range")
	}

	// The next month's first instant does not.
	nextMonth := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)
	if r.Contains(nextMonth) {
		t.Error("next month 00:00:00 should fall outside the month range")
	}

	if r.Contains(r.From.Add(-time.Second)) {
		t.Error("instant before month start should fall outside the range")
	}
}

func TestPreviousMonthRangeAcrossYear(t *testing.T) {
	now := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)
	r := PreviousMonthRange(now)

	wantFrom := time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC)
	wantTo := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	if !r.From.Equal(wantFrom) || !r.To.Equal(wantTo) {
		t.Errorf("PreviousMonthRange(Jan 2025) = [%s, %s), want [%s, %s)",
			r.From, r.To, wantFrom, wantTo)
	}
}

func TestYearToDateRange(t *testing.T) {
	now := time.Date(2025, time.August, 30, 10, 0, 0, 0, time.UTC)
	r := YearToDateRange(now)

	if !r.From.Equal(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("YTD should start at January 1, got %s", r.From)
	}
	if !r.Contains(time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)) {
		t.Error("YTD should contain earlier months of the year")
	}
	if r.Contains(time.Date(2024, time.December, 31, 23, 0, 0, 0, time.UTC)) {
		t.Error("YTD must reset each January; prior year excluded")
	}
}
