package event

import (
	"encoding/json"
	"time"
)

const TypeBookingStatusChanged = "BookingStatusChanged"

// Message is the envelope published to Kafka.
// Payload is kept as raw JSON produced by the originating service.
type Message struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	CorrelationID string          `json:"correlation_id"`
	CausationID   string          `json:"causation_id,omitempty"`
	Producer      string          `json:"producer"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
}

// BookingStatusChanged is the payload carried for TypeBookingStatusChanged.
type BookingStatusChanged struct {
	BookingID  int64     `json:"booking_id"`
	CustomerID int64     `json:"customer_id"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	ActorID    int64     `json:"actor_id"`
	ActorRole  string    `json:"actor_role"`
	ChangedAt  time.Time `json:"changed_at"`
}
