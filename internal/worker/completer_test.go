package worker

import (
	"context"
	"testing"
	"time"

	"github.com/mae17roy/evento/internal/domain/actor"
	"github.com/mae17roy/evento/internal/domain/booking"
	"github.com/mae17roy/evento/internal/usecase"
)

type fakeLister struct {
	ids []int64
}

func (f *fakeLister) ListConfirmedBefore(ctx context.Context, cutoff time.Time, limit int) ([]int64, error) {
	return f.ids, nil
}

type fakeTransitioner struct {
	calls  []usecase.TransitionParams
	reject map[int64]error
}

func (f *fakeTransitioner) Execute(ctx context.Context, params usecase.TransitionParams) (*booking.Booking, error) {
	f.calls = append(f.calls, params)
	if err, ok := f.reject[params.BookingID]; ok {
		return nil, err
	}
	return &booking.Booking{ID: params.BookingID, Status: params.Status}, nil
}

func TestSweepGoesThroughEngine(t *testing.T) {
	t.Parallel()

	lister := &fakeLister{ids: []int64{1, 2, 3}}
	transitioner := &fakeTransitioner{
		// Booking 2 was cancelled between listing and completion.
		reject: map[int64]error{
			2: &booking.InvalidTransitionError{From: booking.StatusCancelled, To: booking.StatusCompleted},
		},
	}

	c := NewCompleter(lister, transitioner, time.Hour, 24*time.Hour)
	if err := c.Sweep(context.Background()); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	if len(transitioner.calls) != 3 {
		t.Fatalf("transition calls: got %d, want 3", len(transitioner.calls))
	}
	for _, call := range transitioner.calls {
		if call.Status != booking.StatusCompleted {
			t.Errorf("booking %d: requested %s, want completed", call.BookingID, call.Status)
		}
		if call.Actor != actor.System {
			t.Errorf("booking %d: actor %+v, want system actor", call.BookingID, call.Actor)
		}
	}
}

func TestSweepSkipsRacedBookings(t *testing.T) {
	t.Parallel()

	lister := &fakeLister{ids: []int64{5}}
	transitioner := &fakeTransitioner{
		reject: map[int64]error{5: booking.ErrNotFound},
	}

	c := NewCompleter(lister, transitioner, time.Hour, 24*time.Hour)
	if err := c.Sweep(context.Background()); err != nil {
		t.Fatalf("sweep should tolerate skipped bookings, got %v", err)
	}
}
