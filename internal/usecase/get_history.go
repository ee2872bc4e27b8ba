package usecase

import (
	"context"
	"fmt"

	"github.com/mae17roy/evento/internal/domain/booking"
)

type GetHistory struct {
	bookings BookingStore
	history  HistoryStore
}

func NewGetHistory(bookings BookingStore, history HistoryStore) *GetHistory {
	return &GetHistory{bookings: bookings, history: history}
}

func (uc *GetHistory) Execute(ctx context.Context, bookingID int64) ([]*booking.HistoryEntry, error) {
	// Surface NotFound for unknown bookings instead of an empty trail.
	if _, err := uc.bookings.GetByID(ctx, bookingID); err != nil {
		return nil, err
	}

	entries, err := uc.history.ListByBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("list status history: %w", err)
	}

	return entries, nil
}
