package usecase

import (
	"context"
	"fmt"

	"github.com/mae17roy/evento/internal/domain/actor"
	"github.com/mae17roy/evento/internal/domain/booking"
)

// OwnershipStore answers whether a provider has at least one item in a booking.
type OwnershipStore interface {
	OwnsAnyItem(ctx context.Context, bookingID, ownerID int64) (bool, error)
}

// Guard decides whether an actor may transition a booking. Denials carry no
// detail beyond booking.ErrForbidden.
type Guard struct {
	ownership OwnershipStore
}

func NewGuard(ownership OwnershipStore) *Guard {
	return &Guard{ownership: ownership}
}

// Authorize applies the role rules:
//   - clients may only cancel their own booking, and only while it is
//     pending or confirmed;
//   - owners need at least one item referencing a service they own;
//   - admins bypass ownership checks.
func (g *Guard) Authorize(ctx context.Context, b *booking.Booking, a actor.Actor, requested booking.Status) error {
	switch a.Role {
	case actor.RoleAdmin:
		return nil

	case actor.RoleClient:
		if b.CustomerID != a.ID {
			return booking.ErrForbidden
		}
		if requested != booking.StatusCancelled {
			return booking.ErrForbidden
		}
		if b.Status != booking.StatusPending && b.Status != booking.StatusConfirmed {
			return booking.ErrForbidden
		}
		return nil

	case actor.RoleOwner:
		owns, err := g.ownership.OwnsAnyItem(ctx, b.ID, a.ID)
		if err != nil {
			return fmt.Errorf("ownership check: %w", err)
		}
		if !owns {
			return booking.ErrForbidden
		}
		return nil

	default:
		return booking.ErrForbidden
	}
}
