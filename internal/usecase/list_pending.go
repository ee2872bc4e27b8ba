package usecase

import (
	"context"
	"fmt"

	"github.com/mae17roy/evento/internal/domain/booking"
)

// ListPending is the provider dashboard projection: pending bookings that
// include at least one of the owner's services. No business rules of its own.
type ListPending struct {
	bookings BookingStore
}

func NewListPending(bookings BookingStore) *ListPending {
	return &ListPending{bookings: bookings}
}

func (uc *ListPending) Execute(ctx context.Context, ownerID int64) ([]*booking.Booking, error) {
	bookings, err := uc.bookings.ListPendingForOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list pending bookings: %w", err)
	}
	return bookings, nil
}
