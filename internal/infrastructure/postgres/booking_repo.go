package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mae17roy/evento/internal/domain/booking"
)

type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	const sql = `
		INSERT INTO bookings (
			customer_id, status, total_amount,
			booking_date, booking_time,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, NULLIF($4, '')::date, $5, $6, $7)
		RETURNING id
	`

	ex := executorFrom(ctx, r.pool)

	err := ex.QueryRow(ctx, sql,
		b.CustomerID, b.Status, b.TotalAmount,
		b.BookingDate, nullIfEmptyText(b.BookingTime),
		b.CreatedAt, b.UpdatedAt,
	).Scan(&b.ID)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}

	const itemSQL = `
		INSERT INTO booking_items (booking_id, service_id, quantity, price)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	for i := range b.Items {
		it := &b.Items[i]
		it.BookingID = b.ID
		if err := ex.QueryRow(ctx, itemSQL, it.BookingID, it.ServiceID, it.Quantity, it.Price).Scan(&it.ID); err != nil {
			return fmt.Errorf("insert booking item: %w", err)
		}
	}

	return nil
}

const bookingColumns = `
	id, customer_id, status, total_amount,
	COALESCE(to_char(booking_date, 'YYYY-MM-DD'), ''),
	COALESCE(booking_time, ''),
	created_at, updated_at
`

func scanBooking(row pgx.Row) (*booking.Booking, error) {
	var b booking.Booking
	err := row.Scan(
		&b.ID, &b.CustomerID, &b.Status, &b.TotalAmount,
		&b.BookingDate, &b.BookingTime,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, booking.ErrNotFound
		}
		return nil, fmt.Errorf("scan booking: %w", err)
	}
	return &b, nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*booking.Booking, error) {
	sql := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	ex := executorFrom(ctx, r.pool)

	b, err := scanBooking(ex.QueryRow(ctx, sql, id))
	if err != nil {
		return nil, err
	}

	items, err := r.ListItems(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	b.Items = items

	return b, nil
}

// GetForUpdate reads the booking row under a row-level lock. It must be
// called inside a transaction; the lock is held until commit or rollback so
// concurrent transitions on the same booking serialize.
func (r *BookingRepository) GetForUpdate(ctx context.Context, id int64) (*booking.Booking, error) {
	sql := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`

	return scanBooking(executorFrom(ctx, r.pool).QueryRow(ctx, sql, id))
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status booking.Status) (time.Time, error) {
	const sql = `
		UPDATE bookings
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	var updatedAt time.Time
	err := executorFrom(ctx, r.pool).QueryRow(ctx, sql, id, status).Scan(&updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, booking.ErrNotFound
		}
		return time.Time{}, fmt.Errorf("update booking status: %w", err)
	}

	return updatedAt, nil
}

func (r *BookingRepository) ListItems(ctx context.Context, bookingID int64) ([]booking.Item, error) {
	const sql = `
		SELECT id, booking_id, service_id, quantity, price
		FROM booking_items
		WHERE booking_id = $1
		ORDER BY id ASC
	`

	rows, err := executorFrom(ctx, r.pool).Query(ctx, sql, bookingID)
	if err != nil {
		return nil, fmt.Errorf("query booking items: %w", err)
	}
	defer rows.Close()

	var items []booking.Item
	for rows.Next() {
		var it booking.Item
		if err := rows.Scan(&it.ID, &it.BookingID, &it.ServiceID, &it.Quantity, &it.Price); err != nil {
			return nil, fmt.Errorf("scan booking item: %w", err)
		}
		items = append(items, it)
	}

	return items, rows.Err()
}

// ListPendingForOwner returns pending bookings that contain at least one item
// referencing a service owned by the given provider.
func (r *BookingRepository) ListPendingForOwner(ctx context.Context, ownerID int64) ([]*booking.Booking, error) {
	sql := `
		SELECT DISTINCT ` + qualifyBookingColumns("b") + `
		FROM bookings b
		JOIN booking_items bi ON bi.booking_id = b.id
		JOIN services s ON s.id = bi.service_id
		WHERE b.status = $1 AND s.owner_id = $2
		ORDER BY b.created_at ASC
	`

	rows, err := r.pool.Query(ctx, sql, booking.StatusPending, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query pending bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*booking.Booking
	for rows.Next() {
		var b booking.Booking
		if err := rows.Scan(
			&b.ID, &b.CustomerID, &b.Status, &b.TotalAmount,
			&b.BookingDate, &b.BookingTime,
			&b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, &b)
	}

	return bookings, rows.Err()
}

// ListConfirmedBefore returns ids of confirmed bookings whose booking date
// lies before the cutoff. Used by the auto-completion sweep, which feeds each
// id through the regular transition path.
func (r *BookingRepository) ListConfirmedBefore(ctx context.Context, cutoff time.Time, limit int) ([]int64, error) {
	const sql = `
		SELECT id
		FROM bookings
		WHERE status = $1 AND booking_date < $2::date
		ORDER BY booking_date ASC
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, sql, booking.StatusConfirmed, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("query confirmed bookings: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan booking id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func qualifyBookingColumns(alias string) string {
	return alias + `.id, ` + alias + `.customer_id, ` + alias + `.status, ` + alias + `.total_amount,
		COALESCE(to_char(` + alias + `.booking_date, 'YYYY-MM-DD'), ''),
		COALESCE(` + alias + `.booking_time, ''),
		` + alias + `.created_at, ` + alias + `.updated_at`
}

func nullIfEmptyText(s string) any {
	if s == "" {
		return nil
	}
	return s
}
