package repository

import (
	"context"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// NotificationRepository reads and acknowledges admin notifications. Inserts happen
// alongside ticket creation in TicketRepository.Create.
type NotificationRepository interface {
	ListLatest(ctx context.Context, limit int) ([]domain.Notification, error)
	CountUnread(ctx context.Context) (int, error)
	MarkAllRead(ctx context.Context) (int64, error)
}

type notificationRepository struct {
	db DB
}

// NewNotificationRepository builds repository.
func NewNotificationRepository(db DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) ListLatest(ctx context.Context, limit int) ([]domain.Notification, error) {
	const query = `
        SELECT id, ticket_id, title, content, is_read, created_at
        FROM notifications
        ORDER BY created_at DESC
        LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.TicketID, &n.Title, &n.Content, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	return result, rows.Err()
}

func (r *notificationRepository) CountUnread(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE is_read = false`).Scan(&count)
	return count, err
}

func (r *notificationRepository) MarkAllRead(ctx context.Context) (int64, error) {
	cmd, err := r.db.Exec(ctx, `UPDATE notifications SET is_read = true WHERE is_read = false`)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
