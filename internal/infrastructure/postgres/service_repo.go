package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mae17roy/evento/internal/domain/booking"
)

type ServiceRepository struct {
	pool *pgxpool.Pool
}

func NewServiceRepository(pool *pgxpool.Pool) *ServiceRepository {
	return &ServiceRepository{pool: pool}
}

func (r *ServiceRepository) GetByID(ctx context.Context, id int64) (*booking.Service, error) {
	const sql = `
		SELECT id, owner_id, name, price
		FROM services
		WHERE id = $1
	`

	var s booking.Service
	err := executorFrom(ctx, r.pool).QueryRow(ctx, sql, id).Scan(&s.ID, &s.OwnerID, &s.Name, &s.Price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("service %d not found", id)
		}
		return nil, fmt.Errorf("get service by id: %w", err)
	}

	return &s, nil
}

// OwnsAnyItem reports whether the owner has at least one item in the booking.
// Existence-based on purpose: one owned item is enough to act on the
// booking-wide status.
func (r *ServiceRepository) OwnsAnyItem(ctx context.Context, bookingID, ownerID int64) (bool, error) {
	const sql = `
		SELECT EXISTS (
			SELECT 1
			FROM booking_items bi
			JOIN services s ON s.id = bi.service_id
			WHERE bi.booking_id = $1 AND s.owner_id = $2
		)
	`

	var owns bool
	err := executorFrom(ctx, r.pool).QueryRow(ctx, sql, bookingID, ownerID).Scan(&owns)
	if err != nil {
		return false, fmt.Errorf("check item ownership: %w", err)
	}

	return owns, nil
}

// OwnerIDs returns the distinct providers that have items in the booking.
func (r *ServiceRepository) OwnerIDs(ctx context.Context, bookingID int64) ([]int64, error) {
	const sql = `
		SELECT DISTINCT s.owner_id
		FROM booking_items bi
		JOIN services s ON s.id = bi.service_id
		WHERE bi.booking_id = $1
		ORDER BY s.owner_id ASC
	`

	rows, err := executorFrom(ctx, r.pool).Query(ctx, sql, bookingID)
	if err != nil {
		return nil, fmt.Errorf("query booking owners: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan owner id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
