package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mae17roy/evento/internal/domain/actor"
)

func TestActorMiddleware(t *testing.T) {
	t.Parallel()

	var got actor.Actor
	var called bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, called = actor.Actor{}, true
		if a, ok := ActorFrom(r.Context()); ok {
			got = a
		}
	})

	handler := Actor(next)

	req := httptest.NewRequest(http.MethodPost, "/bookings/42/status", nil)
	req.Header.Set("X-User-ID", "7")
	req.Header.Set("X-User-Role", "client")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !called {
		t.Fatal("next handler was not called")
	}
	if got.ID != 7 || got.Role != actor.RoleClient {
		t.Errorf("actor from context: got %+v", got)
	}
}

func TestActorMiddlewareRejectsInvalid(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not run")
	})
	handler := Actor(next)

	cases := []struct {
		name string
		id   string
		role string
	}{
		{"missing id", "", "client"},
		{"bad id", "abc", "client"},
		{"zero id", "0", "client"},
		{"missing role", "7", ""},
		{"unknown role", "7", "superuser"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/bookings/42", nil)
			if tc.id != "" {
				req.Header.Set("X-User-ID", tc.id)
			}
			if tc.role != "" {
				req.Header.Set("X-User-Role", tc.role)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status: got %d, want 401", rec.Code)
			}
		})
	}
}
