package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/mae17roy/evento/internal/domain/booking"
)

// Timeline is the operator view of one booking: its current state, the audit
// trail, and the status events that left (or are leaving) through the outbox.
type Timeline struct {
	Booking *booking.Booking        `json:"booking"`
	History []*booking.HistoryEntry `json:"history"`
	Events  []TimelineEvent         `json:"events"`
}

type TimelineEvent struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	Producer  string    `json:"producer"`
	CreatedAt time.Time `json:"created_at"`
}

type GetTimeline struct {
	bookings    BookingStore
	history     HistoryStore
	outboxStore OutboxStore
}

func NewGetTimeline(bookings BookingStore, history HistoryStore, outboxStore OutboxStore) *GetTimeline {
	return &GetTimeline{
		bookings:    bookings,
		history:     history,
		outboxStore: outboxStore,
	}
}

func (uc *GetTimeline) Execute(ctx context.Context, bookingID int64) (*Timeline, error) {
	b, err := uc.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	entries, err := uc.history.ListByBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("list status history: %w", err)
	}

	events, err := uc.outboxStore.ListByCorrelationID(ctx, strconv.FormatInt(bookingID, 10))
	if err != nil {
		return nil, fmt.Errorf("list outbox trace: %w", err)
	}

	timeline := &Timeline{
		Booking: b,
		History: entries,
	}
	for _, e := range events {
		timeline.Events = append(timeline.Events, TimelineEvent{
			ID:        e.ID,
			Type:      e.EventType,
			Status:    e.Status,
			Producer:  e.Producer,
			CreatedAt: e.CreatedAt,
		})
	}

	return timeline, nil
}
