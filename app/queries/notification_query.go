package queries

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/wishfund/wishfund-backend/app/models"
)

type NotificationQueries struct {
	DB *sqlx.DB
}

const notificationColumns = `notification_id, user_id, type, message, link, is_read, created_at`

// CreateNotifications inserts all rows with a single statement.
func (q *NotificationQueries) CreateNotifications(ctx context.Context, ns []models.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	query := `INSERT INTO notifications (` + notificationColumns + `)
			  VALUES (:notification_id, :user_id, :type, :message, :link, :is_read, :created_at)`
	if _, err := q.DB.NamedExecContext(ctx, query, ns); err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("unable to create notifications: %w", err)
	}
	return nil
}

// ListForUser returns the user's notifications, unread first.
func (q *NotificationQueries) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	ns := []models.Notification{}
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id = $1 ORDER BY is_read ASC, created_at DESC LIMIT 200`
	if err := q.DB.SelectContext(ctx, &ns, query, userID); err != nil {
		return ns, fmt.Errorf("unable to list notifications: %w", err)
	}
	return ns, nil
}

func (q *NotificationQueries) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	res, err := q.DB.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE notification_id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("unable to update notification: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (q *NotificationQueries) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	res, err := q.DB.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`, userID)
	if err != nil {
		return 0, fmt.Errorf("unable to update notifications: %w", err)
	}
	return res.RowsAffected()
}

func (q *NotificationQueries) DeleteNotification(ctx context.Context, id, userID uuid.UUID) error {
	res, err := q.DB.ExecContext(ctx, `DELETE FROM notifications WHERE notification_id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("unable to delete notification: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
