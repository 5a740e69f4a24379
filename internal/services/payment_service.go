package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tutortrack/internal/amqp"
	"tutortrack/internal/core"
	"tutortrack/internal/metrics"
	"tutortrack/internal/storage"
)

// PaymentService records per-tutor per-month "paid" acknowledgements.
// The at-most-one-payment invariant is checked here and backed by the
// storage unique index, so two racing submissions cannot both land.
type PaymentService struct {
	storage *storage.SQLiteRepository
	events  *amqp.Client
}

func NewPaymentService(storage *storage.SQLiteRepository, events *amqp.Client) *PaymentService {
	return &PaymentService{storage: storage, events: events}
}

// Record persists a payment acknowledgement. Returns
// core.ErrDuplicatePayment when one already exists for the
// (owner, tutor, month) triple.
func (s *PaymentService) Record(ctx context.Context, p core.Payment) (core.Payment, error) {
	if err := p.Validate(); err != nil {
		return core.Payment{}, err
	}

	exists, err := s.storage.PaymentExists(ctx, p.OwnerID, p.TutorName, p.PaymentMonth)
	if err != nil {
		return core.Payment{}, fmt.Errorf("check existing payment: %w", err)
	}
	if exists {
		metrics.IncDuplicatePayment()
		return core.Payment{}, core.ErrDuplicatePayment
	}

	created, err := s.storage.CreatePayment(ctx, p)
	if errors.Is(err, core.ErrDuplicatePayment) {
		// Lost the race between check and insert; the unique index caught it.
		metrics.IncDuplicatePayment()
		return core.Payment{}, err
	}
	if err != nil {
		return core.Payment{}, fmt.Errorf("record payment: %w", err)
	}
	metrics.IncPaymentRecorded()

	slog.InfoContext(ctx, "Payment recorded",
		"id", created.ID,
		"owner_id", created.OwnerID,
		"tutor_name", created.TutorName,
		"payment_month", created.PaymentMonth,
		"amount_cents", created.Amount.Cents)

	s.publishEvent(ctx, amqp.NewPaymentRecordedEvent(created.ID, created.OwnerID, created.TutorName))
	return created, nil
}

// List returns the owner's payments, optionally for one month key.
func (s *PaymentService) List(ctx context.Context, ownerID, monthKey string) ([]core.Payment, error) {
	if err := core.ValidateOwnerID(ownerID); err != nil {
		return nil, err
	}
	if monthKey != "" {
		if _, _, err := core.ParseMonthKey(monthKey); err != nil {
			return nil, err
		}
	}
	payments, err := s.storage.ListPayments(ctx, ownerID, monthKey)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}

func (s *PaymentService) publishEvent(ctx context.Context, event *amqp.TrackerEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishEvent(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish payment event",
			"id", event.ID, "error", err)
	}
}
