package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mae17roy/evento/internal/domain/booking"
)

type HistoryRepository struct {
	pool *pgxpool.Pool
}

func NewHistoryRepository(pool *pgxpool.Pool) *HistoryRepository {
	return &HistoryRepository{pool: pool}
}

// Append inserts a status history entry. Entries are never updated or deleted.
func (r *HistoryRepository) Append(ctx context.Context, e *booking.HistoryEntry) error {
	const sql = `
		INSERT INTO booking_status_history (booking_id, status, notes, changed_by, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`

	err := executorFrom(ctx, r.pool).QueryRow(ctx, sql,
		e.BookingID, e.Status, e.Notes, e.ChangedBy,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert status history: %w", err)
	}

	return nil
}

func (r *HistoryRepository) ListByBooking(ctx context.Context, bookingID int64) ([]*booking.HistoryEntry, error) {
	const sql = `
		SELECT id, booking_id, status, COALESCE(notes, ''), changed_by, created_at
		FROM booking_status_history
		WHERE booking_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.pool.Query(ctx, sql, bookingID)
	if err != nil {
		return nil, fmt.Errorf("query status history: %w", err)
	}
	defer rows.Close()

	var entries []*booking.HistoryEntry
	for rows.Next() {
		e := &booking.HistoryEntry{}
		if err := rows.Scan(&e.ID, &e.BookingID, &e.Status, &e.Notes, &e.ChangedBy, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan status history: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
