package booking

import (
	"time"
)

// TaxRate is applied on top of the item subtotal when a booking is created.
// The total is snapshotted at creation time and never recomputed on transition.
const TaxRate = 0.10

type Booking struct {
	ID          int64     `json:"id"`
	CustomerID  int64     `json:"customer_id"`
	Status      Status    `json:"status"`
	TotalAmount float64   `json:"total_amount"`
	BookingDate string    `json:"booking_date"` // YYYY-MM-DD
	BookingTime string    `json:"booking_time"` // HH:MM
	Items       []Item    `json:"items,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Item is one line of a booking: a service at a quantity and a price
// snapshotted at creation time. Immutable once created.
type Item struct {
	ID        int64   `json:"id"`
	BookingID int64   `json:"booking_id"`
	ServiceID int64   `json:"service_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// HistoryEntry is an append-only audit record of a status change.
type HistoryEntry struct {
	ID        int64     `json:"id"`
	BookingID int64     `json:"booking_id"`
	Status    Status    `json:"status"`
	Notes     string    `json:"notes"`
	ChangedBy *int64    `json:"changed_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Service is an offering owned by exactly one provider. Only the fields the
// authorization chain needs are carried here.
type Service struct {
	ID      int64   `json:"id"`
	OwnerID int64   `json:"owner_id"`
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
}

// Subtotal returns the sum of price x quantity over the booking's items.
func Subtotal(items []Item) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Price * float64(it.Quantity)
	}
	return sum
}

// Total returns the subtotal plus tax, as stored on the booking at creation.
func Total(items []Item) float64 {
	return Subtotal(items) * (1 + TaxRate)
}
