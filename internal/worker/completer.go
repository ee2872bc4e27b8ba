package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mae17roy/evento/internal/domain/actor"
	"github.com/mae17roy/evento/internal/domain/booking"
	"github.com/mae17roy/evento/internal/usecase"
)

var bookingsCompleted = promauto.NewCounter(prometheus.CounterOpts{
	Name: "completer_bookings_completed_total",
	Help: "The total number of bookings auto-completed by the maintenance sweep",
})

const completerBatchSize = 100

// staleBookingLister is the slice of the booking store the sweep needs.
type staleBookingLister interface {
	ListConfirmedBefore(ctx context.Context, cutoff time.Time, limit int) ([]int64, error)
}

// transitioner applies one status transition; satisfied by the engine.
type transitioner interface {
	Execute(ctx context.Context, params usecase.TransitionParams) (*booking.Booking, error)
}

// Completer periodically completes confirmed bookings whose date has passed.
// It goes through the regular transition path per booking, never around it,
// so a booking cancelled between listing and completion is simply skipped.
type Completer struct {
	bookings   staleBookingLister
	transition transitioner
	interval   time.Duration
	after      time.Duration
}

func NewCompleter(bookings staleBookingLister, transition transitioner, interval, after time.Duration) *Completer {
	return &Completer{
		bookings:   bookings,
		transition: transition,
		interval:   interval,
		after:      after,
	}
}

func (c *Completer) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	slog.Info("completer started", "interval", c.interval, "after", c.after)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := c.Sweep(ctx); err != nil {
				slog.Error("completion sweep failed", "error", err)
			}
		}
	}
}

// Sweep runs one maintenance pass.
func (c *Completer) Sweep(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-c.after)

	ids, err := c.bookings.ListConfirmedBefore(ctx, cutoff, completerBatchSize)
	if err != nil {
		return err
	}

	for _, id := range ids {
		_, err := c.transition.Execute(ctx, usecase.TransitionParams{
			BookingID: id,
			Status:    booking.StatusCompleted,
			Actor:     actor.System,
		})
		if err != nil {
			// Someone beat us to a terminal state; not an error for the sweep.
			if booking.IsInvalidTransition(err) != nil || errors.Is(err, booking.ErrNotFound) {
				continue
			}
			slog.Error("auto-completion failed", "booking_id", id, "error", err)
			continue
		}
		bookingsCompleted.Inc()
	}

	return nil
}
