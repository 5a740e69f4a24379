package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"tutortrack/internal/amqp"
	"tutortrack/internal/core"
	"tutortrack/internal/metrics"
	"tutortrack/internal/storage"
)

// VisitService records and lists visits. Visits are append-only.
type VisitService struct {
	storage *storage.SQLiteRepository
	events  *amqp.Client
}

func NewVisitService(storage *storage.SQLiteRepository, events *amqp.Client) *VisitService {
	return &VisitService{storage: storage, events: events}
}

// Record appends a visit. A zero cost falls back to the tutor's default
// cost; a zero visit date falls back to now.
func (s *VisitService) Record(ctx context.Context, v core.Visit) (core.Visit, error) {
	if v.Cost.Cents == 0 {
		tutor, err := s.storage.GetActiveTutorByName(ctx, v.OwnerID, v.TutorName)
		if errors.Is(err, core.ErrTutorNotFound) {
			return core.Visit{}, core.ErrInvalidAmount
		}
		if err != nil {
			return core.Visit{}, fmt.Errorf("resolve default cost: %w", err)
		}
		v.Cost = tutor.DefaultCost
	}
	if v.VisitDate.IsZero() {
		v.VisitDate = time.Now().UTC()
	}
	if err := v.Validate(); err != nil {
		return core.Visit{}, err
	}

	created, err := s.storage.CreateVisit(ctx, v)
	if err != nil {
		return core.Visit{}, fmt.Errorf("record visit: %w", err)
	}
	metrics.IncVisitRecorded()

	slog.InfoContext(ctx, "Visit recorded",
		"id", created.ID,
		"owner_id", created.OwnerID,
		"tutor_name", created.TutorName,
		"cost_cents", created.Cost.Cents)

	s.publishEvent(ctx, amqp.NewVisitRecordedEvent(created.ID, created.OwnerID, created.TutorName))
	return created, nil
}

// List returns the owner's visits newest first, optionally limited to one
// calendar month.
func (s *VisitService) List(ctx context.Context, ownerID string, period *core.Range) ([]core.Visit, error) {
	if err := core.ValidateOwnerID(ownerID); err != nil {
		return nil, err
	}
	visits, err := s.storage.ListVisits(ctx, ownerID, period)
	if err != nil {
		return nil, fmt.Errorf("list visits: %w", err)
	}
	return visits, nil
}

func (s *VisitService) publishEvent(ctx context.Context, event *amqp.TrackerEvent) {
	if s.events == nil {
		return
	}
	// Best-effort: the row is already persisted.
	if err := s.events.PublishEvent(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish visit event",
			"id", event.ID, "error", err)
	}
}
