package pg

import (
	"context"
	"database/sql"

	"pubhub/internal/domain/notification"
)

type NotificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Add(ctx context.Context, n notification.Notification) (bool, error) {
	res, err := exec(ctx, r.db,
		`INSERT INTO notifications (notification_id, recipient_id, kind, message, read, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (notification_id) DO NOTHING`,
		n.ID, n.RecipientID, string(n.Kind), n.Message, n.Read, n.CreatedAt,
	)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *NotificationRepository) List(ctx context.Context, recipientID string, unreadOnly bool) ([]notification.Notification, error) {
	rows, err := query(ctx, r.db,
		`SELECT notification_id, recipient_id, kind, message, read, created_at
		   FROM notifications
		  WHERE recipient_id = $1
		    AND (NOT $2::boolean OR read = FALSE)
		  ORDER BY seq DESC`,
		recipientID, unreadOnly,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []notification.Notification
	for rows.Next() {
		var (
			n    notification.Notification
			kind string
		)
		if err := rows.Scan(&n.ID, &n.RecipientID, &kind, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.Kind = notification.Kind(kind)
		n.CreatedAt = n.CreatedAt.UTC()
		res = append(res, n)
	}
	return res, rows.Err()
}

func (r *NotificationRepository) MarkRead(ctx context.Context, recipientID, id string) error {
	res, err := exec(ctx, r.db,
		`UPDATE notifications SET read = TRUE WHERE notification_id = $1 AND recipient_id = $2`,
		id, recipientID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound("notification")
	}
	return nil
}
