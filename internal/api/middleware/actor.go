package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/mae17roy/evento/internal/domain/actor"
)

type actorKey struct{}

// Actor extracts the authenticated identity set by the upstream auth layer
// (X-User-ID / X-User-Role headers) and puts an explicit actor.Actor into the
// request context. Requests without a valid identity are rejected here so
// handlers and the core never see ambient session state.
func Actor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.Header.Get("X-User-ID"), 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "missing or invalid identity", http.StatusUnauthorized)
			return
		}

		role, err := actor.ParseRole(r.Header.Get("X-User-Role"))
		if err != nil {
			http.Error(w, "missing or invalid role", http.StatusUnauthorized)
			return
		}

		a := actor.Actor{ID: id, Role: role}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorKey{}, a)))
	})
}

// ActorFrom returns the actor placed into the context by the Actor middleware.
func ActorFrom(ctx context.Context) (actor.Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(actor.Actor)
	return a, ok
}
