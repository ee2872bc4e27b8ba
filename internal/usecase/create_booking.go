package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/mae17roy/evento/internal/domain/booking"
	"github.com/mae17roy/evento/internal/infrastructure/postgres"
)

type CreateBooking struct {
	txManager postgres.Transactor
	bookings  BookingStore
	services  ServiceStore
	history   HistoryStore
}

func NewCreateBooking(
	txManager postgres.Transactor,
	bookings BookingStore,
	services ServiceStore,
	history HistoryStore,
) *CreateBooking {
	return &CreateBooking{
		txManager: txManager,
		bookings:  bookings,
		services:  services,
		history:   history,
	}
}

type CreateBookingItem struct {
	ServiceID int64 `json:"service_id"`
	Quantity  int   `json:"quantity"`
}

type CreateBookingParams struct {
	CustomerID  int64               `json:"customer_id"`
	BookingDate string              `json:"booking_date"`
	BookingTime string              `json:"booking_time"`
	Items       []CreateBookingItem `json:"items"`
}

func (p *CreateBookingParams) validate() error {
	if p.CustomerID <= 0 {
		return fmt.Errorf("customer_id is required")
	}
	if len(p.Items) == 0 {
		return fmt.Errorf("at least one item is required")
	}
	for _, it := range p.Items {
		if it.ServiceID <= 0 {
			return fmt.Errorf("item service_id is required")
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("item quantity must be positive")
		}
	}
	if _, err := time.Parse("2006-01-02", p.BookingDate); err != nil {
		return fmt.Errorf("booking_date must be YYYY-MM-DD")
	}
	return nil
}

// Execute creates a booking in pending status. Item prices are snapshotted
// from the referenced services and the total is computed once, here, with
// the tax rate applied; transitions never recompute it.
func (uc *CreateBooking) Execute(ctx context.Context, params CreateBookingParams) (*booking.Booking, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	items := make([]booking.Item, 0, len(params.Items))
	for _, it := range params.Items {
		svc, err := uc.services.GetByID(ctx, it.ServiceID)
		if err != nil {
			return nil, fmt.Errorf("resolve service: %w", err)
		}
		items = append(items, booking.Item{
			ServiceID: svc.ID,
			Quantity:  it.Quantity,
			Price:     svc.Price,
		})
	}

	now := time.Now().UTC()
	newBooking := &booking.Booking{
		CustomerID:  params.CustomerID,
		Status:      booking.StatusPending,
		TotalAmount: booking.Total(items),
		BookingDate: params.BookingDate,
		BookingTime: params.BookingTime,
		Items:       items,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := uc.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.bookings.Create(txCtx, newBooking); err != nil {
			return err
		}

		changedBy := params.CustomerID
		entry := &booking.HistoryEntry{
			BookingID: newBooking.ID,
			Status:    booking.StatusPending,
			Notes:     "Booking created",
			ChangedBy: &changedBy,
		}
		return uc.history.Append(txCtx, entry)
	})
	if err != nil {
		return nil, fmt.Errorf("transaction failed: %w", err)
	}

	return newBooking, nil
}
