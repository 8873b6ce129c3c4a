package queries

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/wishfund/wishfund-backend/app/models"
)

type MessageQueries struct {
	DB *sqlx.DB
}

const messageColumns = `message_id, sender_id, receiver_id, text, is_read, created_at`

func (q *MessageQueries) CreateMessage(ctx context.Context, m *models.Message) error {
	query := `INSERT INTO messages (` + messageColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := q.DB.ExecContext(ctx, query, m.ID, m.SenderID, m.ReceiverID, m.Text, m.IsRead, m.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("unable to create message: %w", err)
	}
	return nil
}

// Conversation returns the messages exchanged between two users, oldest first.
func (q *MessageQueries) Conversation(ctx context.Context, userID, otherID uuid.UUID, limit int) ([]models.Message, error) {
	res := []models.Message{}
	query := `SELECT ` + messageColumns + ` FROM (
				SELECT ` + messageColumns + ` FROM messages
				WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
				ORDER BY created_at DESC LIMIT $3
			  ) recent ORDER BY created_at ASC`
	if err := q.DB.SelectContext(ctx, &res, query, userID, otherID, limit); err != nil {
		return res, fmt.Errorf("unable to query messages: %w", err)
	}
	return res, nil
}

// MarkRead flags a message as read; only its receiver may do so.
func (q *MessageQueries) MarkRead(ctx context.Context, id, receiverID uuid.UUID) error {
	res, err := q.DB.ExecContext(ctx, `UPDATE messages SET is_read = TRUE WHERE message_id = $1 AND receiver_id = $2`, id, receiverID)
	if err != nil {
		return fmt.Errorf("unable to update message: %w", err)
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
