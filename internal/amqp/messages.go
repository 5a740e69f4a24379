package amqp

import (
	"encoding/json"
	"time"
)

// Event kinds published to the tracker events queue.
const (
	KindVisitRecorded   = "visit_recorded"
	KindPaymentRecorded = "payment_recorded"
)

// TrackerEvent is a lightweight notification that a row was written.
// Consumers fetch full details from the store by id; the message carries
// only what is needed to route and dedupe.
type TrackerEvent struct {
	Kind      string    `json:"kind"`
	ID        int64     `json:"id"`
	OwnerID   string    `json:"ownerId"`
	TutorName string    `json:"tutorName"`
	Timestamp time.Time `json:"timestamp"`
}

// NewVisitRecordedEvent builds the event for a freshly inserted visit.
func NewVisitRecordedEvent(id int64, ownerID, tutorName string) *TrackerEvent {
	return &TrackerEvent{
		Kind:      KindVisitRecorded,
		ID:        id,
		OwnerID:   ownerID,
		TutorName: tutorName,
		Timestamp: time.Now().UTC(),
	}
}

// NewPaymentRecordedEvent builds the event for a freshly inserted payment.
func NewPaymentRecordedEvent(id int64, ownerID, tutorName string) *TrackerEvent {
	return &TrackerEvent{
		Kind:      KindPaymentRecorded,
		ID:        id,
		OwnerID:   ownerID,
		TutorName: tutorName,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e *TrackerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// TrackerEventFromJSON decodes an event from JSON bytes.
func TrackerEventFromJSON(data []byte) (*TrackerEvent, error) {
	var e TrackerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
