package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tutortrack/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "tutortrack-test-*")
	if err != nil {
		t.Fatalf("create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	repo, err := NewSQLiteRepository(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("create repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestTutorLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	t.Run("create assigns id and activates", func(t *testing.T) {
		created, err := repo.CreateTutor(ctx, core.Tutor{
			OwnerID:     "alice",
			Name:        "Neill",
			DefaultCost: core.Money{Cents: 9000},
		})
		if err != nil {
			t.Fatalf("CreateTutor failed: %v", err)
		}
		if created.ID == 0 {
			t.Error("expected tutor id to be assigned")
		}
		if !created.IsActive {
			t.Error("new tutor should be active")
		}
	})

	t.Run("aliases round-trip through listing", func(t *testing.T) {
		_, err := repo.CreateTutor(ctx, core.Tutor{
			OwnerID:     "alice",
			Name:        "Miss Ford",
			DefaultCost: core.Money{Cents: 6800},
			Aliases:     []string{"Miss Ford - Gabriel", "Miss Ford - Wyatt"},
		})
		if err != nil {
			t.Fatalf("CreateTutor failed: %v", err)
		}

		tutors, err := repo.ListActiveTutors(ctx, "alice")
		if err != nil {
			t.Fatalf("ListActiveTutors failed: %v", err)
		}
		var ford *core.Tutor
		for i := range tutors {
			if tutors[i].Name == "Miss Ford" {
				ford = &tutors[i]
			}
		}
		if ford == nil {
			t.Fatal("Miss Ford missing from listing")
		}
		if len(ford.Aliases) != 2 {
			t.Errorf("expected 2 aliases, got %v", ford.Aliases)
		}
	})

	t.Run("update replaces fields and aliases", func(t *testing.T) {
		created, err := repo.CreateTutor(ctx, core.Tutor{
			OwnerID:     "alice",
			Name:        "Will",
			DefaultCost: core.Money{Cents: 6800},
			Aliases:     []string{"Will - Sr"},
		})
		if err != nil {
			t.Fatalf("CreateTutor failed: %v", err)
		}

		created.Name = "William"
		created.DefaultCost = core.Money{Cents: 7500}
		created.Aliases = nil
		updated, err := repo.UpdateTutor(ctx, created)
		if err != nil {
			t.Fatalf("UpdateTutor failed: %v", err)
		}
		if updated.Name != "William" || updated.DefaultCost.Cents != 7500 {
			t.Errorf("update not applied: %+v", updated)
		}
		if len(updated.Aliases) != 0 {
			t.Errorf("aliases should be cleared, got %v", updated.Aliases)
		}
	})

	t.Run("update of unknown id reports not found", func(t *testing.T) {
		_, err := repo.UpdateTutor(ctx, core.Tutor{
			ID: 9999, OwnerID: "alice", Name: "Ghost", DefaultCost: core.Money{Cents: 100},
		})
		if !errors.Is(err, core.ErrTutorNotFound) {
			t.Errorf("expected ErrTutorNotFound, got %v", err)
		}
	})

	t.Run("owners are isolated", func(t *testing.T) {
		tutors, err := repo.ListActiveTutors(ctx, "bob")
		if err != nil {
			t.Fatalf("ListActiveTutors failed: %v", err)
		}
		if len(tutors) != 0 {
			t.Errorf("bob should see no tutors, got %d", len(tutors))
		}
	})
}

func TestDeactivateTutorCascade(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.CreateTutor(ctx, core.Tutor{
		OwnerID: "alice", Name: "Neill", DefaultCost: core.Money{Cents: 9000},
	})
	if err != nil {
		t.Fatalf("CreateTutor failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := repo.CreateVisit(ctx, core.Visit{
			OwnerID: "alice", TutorName: "Neill", Cost: core.Money{Cents: 9000},
		}); err != nil {
			t.Fatalf("CreateVisit failed: %v", err)
		}
	}
	// A visit under a different name must survive the cascade.
	if _, err := repo.CreateVisit(ctx, core.Visit{
		OwnerID: "alice", TutorName: "Will", Cost: core.Money{Cents: 6800},
	}); err != nil {
		t.Fatalf("CreateVisit failed: %v", err)
	}

	purged, err := repo.DeactivateTutor(ctx, "alice", created.ID)
	if err != nil {
		t.Fatalf("DeactivateTutor failed: %v", err)
	}
	if purged != 3 {
		t.Errorf("expected 3 purged visits, got %d", purged)
	}

	tutors, err := repo.ListActiveTutors(ctx, "alice")
	if err != nil {
		t.Fatalf("ListActiveTutors failed: %v", err)
	}
	for _, tu := range tutors {
		if tu.ID == created.ID {
			t.Error("deactivated tutor still listed as active")
		}
	}

	visits, err := repo.ListVisits(ctx, "alice", nil)
	if err != nil {
		t.Fatalf("ListVisits failed: %v", err)
	}
	if len(visits) != 1 || visits[0].TutorName != "Will" {
		t.Errorf("expected only Will's visit to survive, got %+v", visits)
	}

	if _, err := repo.DeactivateTutor(ctx, "alice", created.ID); !errors.Is(err, core.ErrTutorNotFound) {
		t.Errorf("second deactivate should report not found, got %v", err)
	}
}

func TestGroupVisits(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	august := core.MonthRange(2025, time.August)
	mid := time.Date(2025, time.August, 15, 10, 0, 0, 0, time.UTC)

	seed := []struct {
		tutor string
		cents int64
		at    time.Time
	}{
		{"Neill", 9000, mid},
		{"Neill", 9000, mid.Add(24 * time.Hour)},
		{"Will", 6800, mid},
		// Boundary rows: last instant of the month counts, the next
		// month's first instant does not.
		{"Edge", 100, time.Date(2025, time.August, 31, 23, 59, 59, 0, time.UTC)},
		{"Edge", 100, time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, s := range seed {
		if _, err := repo.CreateVisit(ctx, core.Visit{
			OwnerID: "alice", TutorName: s.tutor, Cost: core.Money{Cents: s.cents}, VisitDate: s.at,
		}); err != nil {
			t.Fatalf("CreateVisit failed: %v", err)
		}
	}

	group, err := repo.GroupVisits(ctx, "alice", august)
	if err != nil {
		t.Fatalf("GroupVisits failed: %v", err)
	}

	if got := group["Neill"]; got.Count != 2 || got.Total.Cents != 18000 {
		t.Errorf("Neill = %+v, want count 2 total 18000", got)
	}
	if got := group["Will"]; got.Count != 1 || got.Total.Cents != 6800 {
		t.Errorf("Will = %+v, want count 1 total 6800", got)
	}
	if got := group["Edge"]; got.Count != 1 || got.Total.Cents != 100 {
		t.Errorf("Edge = %+v, want only the month-end visit counted", got)
	}
	if _, ok := group["Absent"]; ok {
		t.Error("tutor with no visits must be absent from the grouping")
	}
}

func TestListVisitsFilterAndOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	older := time.Date(2025, time.July, 10, 9, 0, 0, 0, time.UTC)
	newer := time.Date(2025, time.July, 20, 9, 0, 0, 0, time.UTC)
	outside := time.Date(2025, time.June, 5, 9, 0, 0, 0, time.UTC)

	for _, at := range []time.Time{older, newer, outside} {
		if _, err := repo.CreateVisit(ctx, core.Visit{
			OwnerID: "alice", TutorName: "Neill", Cost: core.Money{Cents: 9000}, VisitDate: at,
		}); err != nil {
			t.Fatalf("CreateVisit failed: %v", err)
		}
	}

	july := core.MonthRange(2025, time.July)
	visits, err := repo.ListVisits(ctx, "alice", &july)
	if err != nil {
		t.Fatalf("ListVisits failed: %v", err)
	}
	if len(visits) != 2 {
		t.Fatalf("expected 2 July visits, got %d", len(visits))
	}
	if !visits[0].VisitDate.Equal(newer) {
		t.Errorf("visits should be newest first, got %s first", visits[0].VisitDate)
	}
}

func TestPaymentUniqueness(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	p := core.Payment{
		OwnerID:      "alice",
		TutorName:    "Will",
		Amount:       core.Money{Cents: 6800},
		PaymentMonth: "2025-01",
	}

	first, err := repo.CreatePayment(ctx, p)
	if err != nil {
		t.Fatalf("first CreatePayment failed: %v", err)
	}
	if first.ID == 0 {
		t.Error("expected payment id to be assigned")
	}
	if first.PaymentDate.IsZero() {
		t.Error("expected payment date to be stamped")
	}

	// The unique index rejects the duplicate even without the
	// application-level existence check.
	if _, err := repo.CreatePayment(ctx, p); !errors.Is(err, core.ErrDuplicatePayment) {
		t.Fatalf("duplicate CreatePayment: got %v, want ErrDuplicatePayment", err)
	}

	payments, err := repo.ListPayments(ctx, "alice", "2025-01")
	if err != nil {
		t.Fatalf("ListPayments failed: %v", err)
	}
	if len(payments) != 1 {
		t.Errorf("expected the first payment to remain the only row, got %d", len(payments))
	}

	// Same tutor, different month is fine.
	p.PaymentMonth = "2025-02"
	if _, err := repo.CreatePayment(ctx, p); err != nil {
		t.Errorf("different month should be accepted: %v", err)
	}

	exists, err := repo.PaymentExists(ctx, "alice", "Will", "2025-01")
	if err != nil {
		t.Fatalf("PaymentExists failed: %v", err)
	}
	if !exists {
		t.Error("PaymentExists should report the recorded payment")
	}

	paid, err := repo.PaidTutors(ctx, "alice", "2025-01")
	if err != nil {
		t.Fatalf("PaidTutors failed: %v", err)
	}
	if !paid["Will"] || len(paid) != 1 {
		t.Errorf("PaidTutors = %v, want {Will: true}", paid)
	}
}
