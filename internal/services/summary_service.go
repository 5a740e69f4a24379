package services

import (
	"context"
	"fmt"
	"time"

	"tutortrack/internal/core"
	"tutortrack/internal/storage"
)

// SummaryService is the reporting aggregator. For one owner and one
// evaluation instant it produces the current-month, previous-month and
// year-to-date visit groupings plus the previous month's paid-tutor flags.
type SummaryService struct {
	storage *storage.SQLiteRepository

	// now is injectable for tests; defaults to time.Now.
	now func() time.Time
}

func NewSummaryService(storage *storage.SQLiteRepository) *SummaryService {
	return &SummaryService{storage: storage, now: time.Now}
}

// Summarize builds the combined reporting view. Writes elsewhere never
// invalidate anything; every call recomputes from the store.
func (s *SummaryService) Summarize(ctx context.Context, ownerID string) (core.Summary, error) {
	if err := core.ValidateOwnerID(ownerID); err != nil {
		return core.Summary{}, err
	}

	now := s.now().UTC()
	prevKey := core.PreviousMonthKey(now)

	current, err := s.storage.GroupVisits(ctx, ownerID, core.CurrentMonthRange(now))
	if err != nil {
		return core.Summary{}, fmt.Errorf("aggregate current month: %w", err)
	}
	previous, err := s.storage.GroupVisits(ctx, ownerID, core.PreviousMonthRange(now))
	if err != nil {
		return core.Summary{}, fmt.Errorf("aggregate previous month: %w", err)
	}
	ytd, err := s.storage.GroupVisits(ctx, ownerID, core.YearToDateRange(now))
	if err != nil {
		return core.Summary{}, fmt.Errorf("aggregate year to date: %w", err)
	}

	paid, err := s.storage.PaidTutors(ctx, ownerID, prevKey)
	if err != nil {
		return core.Summary{}, fmt.Errorf("lookup paid tutors: %w", err)
	}

	return core.Summary{
		CurrentMonth:        current,
		PreviousMonth:       previous,
		YearToDate:          ytd,
		PaidTutors:          paid,
		PreviousMonthString: prevKey,
	}, nil
}
