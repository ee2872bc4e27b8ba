package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mae17roy/evento/internal/domain/notification"
)

type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// Create inserts a notification record. It joins the caller's transaction
// when one is present in the context; it never opens its own.
func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	const sql = `
		INSERT INTO notifications (user_id, type, title, message, related_id, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, NOW())
		RETURNING id, created_at
	`

	err := executorFrom(ctx, r.pool).QueryRow(ctx, sql,
		n.UserID, n.Type, n.Title, n.Message, n.RelatedID,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}

	return nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*notification.Notification, error) {
	const sql = `
		SELECT id, user_id, type, title, message, COALESCE(related_id, 0), is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, sql, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	var items []*notification.Notification
	for rows.Next() {
		n := &notification.Notification{}
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.RelatedID, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		items = append(items, n)
	}

	return items, rows.Err()
}

// MarkRead flips is_read for one of the user's notifications.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID int64) error {
	const sql = `
		UPDATE notifications
		SET is_read = TRUE
		WHERE id = $1 AND user_id = $2
	`

	tag, err := r.pool.Exec(ctx, sql, id, userID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return notification.ErrNotFound
	}

	return nil
}
