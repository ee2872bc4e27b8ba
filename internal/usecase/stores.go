package usecase

import (
	"context"
	"time"

	"github.com/mae17roy/evento/internal/domain/booking"
	"github.com/mae17roy/evento/internal/domain/notification"
	"github.com/mae17roy/evento/internal/domain/outbox"
)

// Store interfaces are declared on the consumer side so use cases can be
// exercised against fakes. The postgres repositories satisfy them.

type BookingStore interface {
	Create(ctx context.Context, b *booking.Booking) error
	GetByID(ctx context.Context, id int64) (*booking.Booking, error)
	// GetForUpdate reads the booking under a row-level lock and must be
	// called inside a transaction.
	GetForUpdate(ctx context.Context, id int64) (*booking.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status booking.Status) (time.Time, error)
	ListPendingForOwner(ctx context.Context, ownerID int64) ([]*booking.Booking, error)
	ListConfirmedBefore(ctx context.Context, cutoff time.Time, limit int) ([]int64, error)
}

type HistoryStore interface {
	Append(ctx context.Context, e *booking.HistoryEntry) error
	ListByBooking(ctx context.Context, bookingID int64) ([]*booking.HistoryEntry, error)
}

type NotificationStore interface {
	Create(ctx context.Context, n *notification.Notification) error
}

type UserNotificationStore interface {
	ListByUser(ctx context.Context, userID int64, limit int) ([]*notification.Notification, error)
	MarkRead(ctx context.Context, id, userID int64) error
}

type ServiceStore interface {
	GetByID(ctx context.Context, id int64) (*booking.Service, error)
	OwnsAnyItem(ctx context.Context, bookingID, ownerID int64) (bool, error)
}

type OutboxStore interface {
	Create(ctx context.Context, e *outbox.Event) error
	ListByCorrelationID(ctx context.Context, correlationID string) ([]*outbox.Event, error)
}
