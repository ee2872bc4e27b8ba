package api

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/mae17roy/evento/internal/domain/booking"
)

func TestWriteTransitionErrorMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", booking.ErrNotFound, 404},
		{"forbidden", booking.ErrForbidden, 403},
		{"invalid transition", &booking.InvalidTransitionError{From: booking.StatusCompleted, To: booking.StatusConfirmed}, 409},
		{"persistence", errors.New("tx failed"), 500},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeTransitionError(rec, tc.err)
			if rec.Code != tc.wantStatus {
				t.Errorf("status: got %d, want %d", rec.Code, tc.wantStatus)
			}
		})
	}
}

func TestWriteTransitionErrorConflictBody(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeTransitionError(rec, &booking.InvalidTransitionError{
		From: booking.StatusCompleted,
		To:   booking.StatusConfirmed,
	})

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["current_status"] != "completed" {
		t.Errorf("current_status: got %q", body["current_status"])
	}
	if body["attempted_status"] != "confirmed" {
		t.Errorf("attempted_status: got %q", body["attempted_status"])
	}
}

func TestWriteTransitionErrorHidesDetail(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeTransitionError(rec, errors.New("pq: connection reset on shard 3"))

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "could not apply transition" {
		t.Errorf("internal detail leaked: %q", body["error"])
	}
}
