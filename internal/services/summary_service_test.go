package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tutortrack/internal/core"
	"tutortrack/internal/storage"
)

func newTestRepo(t *testing.T) *storage.SQLiteRepository {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "tutortrack-services-test-*")
	if err != nil {
		t.Fatalf("create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	repo, err := storage.NewSQLiteRepository(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("create repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seedVisit(t *testing.T, repo *storage.SQLiteRepository, owner, tutor string, cents int64, at time.Time) {
	t.Helper()
	if _, err := repo.CreateVisit(context.Background(), core.Visit{
		OwnerID: owner, TutorName: tutor, Cost: core.Money{Cents: cents}, VisitDate: at,
	}); err != nil {
		t.Fatalf("seed visit: %v", err)
	}
}

func TestSummarize(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	// Fixed evaluation instant: 2025-08-30.
	now := time.Date(2025, time.August, 30, 14, 0, 0, 0, time.UTC)
	svc := NewSummaryService(repo)
	svc.now = func() time.Time { return now }

	// Current month: Neill twice at 90, Will once at 68.
	seedVisit(t, repo, "alice", "Neill", 9000, time.Date(2025, time.August, 5, 10, 0, 0, 0, time.UTC))
	seedVisit(t, repo, "alice", "Neill", 9000, time.Date(2025, time.August, 12, 10, 0, 0, 0, time.UTC))
	seedVisit(t, repo, "alice", "Will", 6800, time.Date(2025, time.August, 20, 10, 0, 0, 0, time.UTC))
	// Previous month: one Neill visit.
	seedVisit(t, repo, "alice", "Neill", 9000, time.Date(2025, time.July, 15, 10, 0, 0, 0, time.UTC))
	// Earlier this year: counts toward YTD only.
	seedVisit(t, repo, "alice", "Will", 6800, time.Date(2025, time.February, 1, 10, 0, 0, 0, time.UTC))
	// Last year: excluded everywhere.
	seedVisit(t, repo, "alice", "Neill", 9000, time.Date(2024, time.December, 20, 10, 0, 0, 0, time.UTC))
	// Another owner: invisible to alice.
	seedVisit(t, repo, "bob", "Neill", 9000, time.Date(2025, time.August, 5, 10, 0, 0, 0, time.UTC))

	// Previous month paid for Neill only.
	if _, err := repo.CreatePayment(ctx, core.Payment{
		OwnerID: "alice", TutorName: "Neill", Amount: core.Money{Cents: 9000}, PaymentMonth: "2025-07",
	}); err != nil {
		t.Fatalf("seed payment: %v", err)
	}

	summary, err := svc.Summarize(ctx, "alice")
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	t.Run("current month grouping", func(t *testing.T) {
		if got := summary.CurrentMonth["Neill"]; got.Count != 2 || got.Total.String() != "180.00" {
			t.Errorf("Neill = %+v, want count 2 total 180.00", got)
		}
		if got := summary.CurrentMonth["Will"]; got.Count != 1 || got.Total.String() != "68.00" {
			t.Errorf("Will = %+v, want count 1 total 68.00", got)
		}
	})

	t.Run("previous month grouping", func(t *testing.T) {
		if got := summary.PreviousMonth["Neill"]; got.Count != 1 || got.Total.Cents != 9000 {
			t.Errorf("Neill = %+v, want count 1 total 9000", got)
		}
		// Absent means zero, not an error.
		if _, ok := summary.PreviousMonth["Will"]; ok {
			t.Error("Will had no July visits and must be absent")
		}
	})

	t.Run("year to date grouping", func(t *testing.T) {
		if got := summary.YearToDate["Neill"]; got.Count != 3 || got.Total.Cents != 27000 {
			t.Errorf("Neill YTD = %+v, want count 3 total 27000", got)
		}
		if got := summary.YearToDate["Will"]; got.Count != 2 || got.Total.Cents != 13600 {
			t.Errorf("Will YTD = %+v, want count 2 total 13600", got)
		}
	})

	t.Run("paid tutors and month key", func(t *testing.T) {
		if summary.PreviousMonthString != "2025-07" {
			t.Errorf("PreviousMonthString = %q, want 2025-07", summary.PreviousMonthString)
		}
		if !summary.PaidTutors["Neill"] {
			t.Error("Neill should be flagged paid for 2025-07")
		}
		if summary.PaidTutors["Will"] {
			t.Error("Will has no 2025-07 payment and must not be flagged")
		}
	})
}

func TestSummarizeJanuaryRollsBack(t *testing.T) {
	repo := newTestRepo(t)

	svc := NewSummaryService(repo)
	svc.now = func() time.Time {
		return time.Date(2025, time.January, 15, 9, 0, 0, 0, time.UTC)
	}

	seedVisit(t, repo, "alice", "Neill", 9000, time.Date(2024, time.December, 10, 10, 0, 0, 0, time.UTC))

	summary, err := svc.Summarize(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	if summary.PreviousMonthString != "2024-12" {
		t.Errorf("PreviousMonthString = %q, want 2024-12", summary.PreviousMonthString)
	}
	if got := summary.PreviousMonth["Neill"]; got.Count != 1 {
		t.Errorf("December visit missing from previous month: %+v", got)
	}
	// YTD resets each January: December is out.
	if _, ok := summary.YearToDate["Neill"]; ok {
		t.Error("prior-year visit must not count toward the new year's YTD")
	}
}

func TestSummarizeEmptyOwner(t *testing.T) {
	svc := NewSummaryService(newTestRepo(t))
	if _, err := svc.Summarize(context.Background(), "  "); err == nil {
		t.Error("expected validation error for blank owner")
	}
}

func TestSummarizeAfterTutorDeletion(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	now := time.Date(2025, time.August, 30, 14, 0, 0, 0, time.UTC)
	svc := NewSummaryService(repo)
	svc.now = func() time.Time { return now }

	tutor, err := repo.CreateTutor(ctx, core.Tutor{
		OwnerID: "alice", Name: "Neill", DefaultCost: core.Money{Cents: 9000},
	})
	if err != nil {
		t.Fatalf("seed tutor: %v", err)
	}
	seedVisit(t, repo, "alice", "Neill", 9000, time.Date(2025, time.August, 5, 10, 0, 0, 0, time.UTC))

	if _, err := repo.DeactivateTutor(ctx, "alice", tutor.ID); err != nil {
		t.Fatalf("deactivate tutor: %v", err)
	}

	summary, err := svc.Summarize(ctx, "alice")
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if _, ok := summary.CurrentMonth["Neill"]; ok {
		t.Error("cascade purge should leave zero totals for the deleted tutor")
	}
}
