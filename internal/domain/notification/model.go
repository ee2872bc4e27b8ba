package notification

import (
	"errors"
	"fmt"
	"time"

	"github.com/mae17roy/evento/internal/domain/booking"
)

const TypeBookingStatus = "booking_status"

var ErrNotFound = errors.New("notification not found")

type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	RelatedID int64     `json:"related_id"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// ForCustomer builds the in-app notification sent to the booking's customer
// when its status changes. Copy is status-specific with a generic fallback.
func ForCustomer(customerID, bookingID int64, status booking.Status) *Notification {
	n := &Notification{
		UserID:    customerID,
		Type:      TypeBookingStatus,
		RelatedID: bookingID,
		CreatedAt: time.Now().UTC(),
	}

	switch status {
	case booking.StatusConfirmed:
		n.Title = fmt.Sprintf("Booking #%d confirmed", bookingID)
		n.Message = "Your booking has been confirmed by the service provider."
	case booking.StatusCancelled:
		n.Title = fmt.Sprintf("Booking #%d cancelled", bookingID)
		n.Message = "Your booking has been cancelled."
	case booking.StatusCompleted:
		n.Title = fmt.Sprintf("Booking #%d completed", bookingID)
		n.Message = "Your booking has been completed. Thank you for using our services."
	default:
		n.Title = fmt.Sprintf("Booking #%d updated", bookingID)
		n.Message = fmt.Sprintf("Your booking status changed to %s.", status)
	}

	return n
}

// ForOwner builds the notification sent to a provider with items in the
// booking. Written by the status-event consumer, not by the engine.
func ForOwner(ownerID, bookingID int64, status booking.Status) *Notification {
	n := &Notification{
		UserID:    ownerID,
		Type:      TypeBookingStatus,
		RelatedID: bookingID,
		CreatedAt: time.Now().UTC(),
	}

	switch status {
	case booking.StatusConfirmed:
		n.Title = fmt.Sprintf("Booking #%d confirmed", bookingID)
		n.Message = "A booking that includes your services has been confirmed."
	case booking.StatusCancelled:
		n.Title = fmt.Sprintf("Booking #%d cancelled", bookingID)
		n.Message = "A booking that includes your services has been cancelled."
	case booking.StatusCompleted:
		n.Title = fmt.Sprintf("Booking #%d completed", bookingID)
		n.Message = "A booking that includes your services has been completed."
	default:
		n.Title = fmt.Sprintf("Booking #%d updated", bookingID)
		n.Message = fmt.Sprintf("A booking that includes your services changed to %s.", status)
	}

	return n
}
