// Package services orchestrates domain operations over the storage layer:
// the tutor registry, the visit recorder, the payment recorder and the
// summary aggregator.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"tutortrack/internal/core"
	"tutortrack/internal/storage"
)

// TutorService is the tutor registry: list, create, update, soft-delete.
type TutorService struct {
	storage *storage.SQLiteRepository
}

func NewTutorService(storage *storage.SQLiteRepository) *TutorService {
	return &TutorService{storage: storage}
}

// List returns the owner's active tutors.
func (s *TutorService) List(ctx context.Context, ownerID string) ([]core.Tutor, error) {
	if err := core.ValidateOwnerID(ownerID); err != nil {
		return nil, err
	}
	tutors, err := s.storage.ListActiveTutors(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tutors: %w", err)
	}
	return tutors, nil
}

// Create registers a new tutor.
func (s *TutorService) Create(ctx context.Context, t core.Tutor) (core.Tutor, error) {
	if err := t.Validate(); err != nil {
		return core.Tutor{}, err
	}
	created, err := s.storage.CreateTutor(ctx, t)
	if err != nil {
		return core.Tutor{}, fmt.Errorf("create tutor: %w", err)
	}
	slog.InfoContext(ctx, "Tutor created",
		"id", created.ID,
		"owner_id", created.OwnerID,
		"name", created.Name,
		"default_cost_cents", created.DefaultCost.Cents)
	return created, nil
}

// Update replaces the tutor's name, default cost and aliases.
func (s *TutorService) Update(ctx context.Context, t core.Tutor) (core.Tutor, error) {
	if t.ID <= 0 {
		return core.Tutor{}, core.ErrTutorNotFound
	}
	if err := t.Validate(); err != nil {
		return core.Tutor{}, err
	}
	updated, err := s.storage.UpdateTutor(ctx, t)
	if err != nil {
		return core.Tutor{}, err
	}
	slog.InfoContext(ctx, "Tutor updated",
		"id", updated.ID,
		"owner_id", updated.OwnerID,
		"name", updated.Name)
	return updated, nil
}

// Delete soft-deletes the tutor and purges its same-named visits.
// Payments are acknowledgements of money already handed over; they stay.
func (s *TutorService) Delete(ctx context.Context, ownerID string, id int64) (int64, error) {
	if err := core.ValidateOwnerID(ownerID); err != nil {
		return 0, err
	}
	purged, err := s.storage.DeactivateTutor(ctx, ownerID, id)
	if err != nil {
		return 0, err
	}
	slog.InfoContext(ctx, "Tutor deactivated",
		"id", id,
		"owner_id", ownerID,
		"purged_visits", purged)
	return purged, nil
}
