package queries

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/wishfund/wishfund-backend/app/models"
)

type VoteQueries struct {
	DB *sqlx.DB
}

// Vote records one vote per user and item. A second vote is ErrAlreadyExists.
func (q *VoteQueries) Vote(ctx context.Context, userID, itemID uuid.UUID) error {
	_, err := q.DB.ExecContext(ctx, `INSERT INTO voted_items (user_id, wishlist_item_id) VALUES ($1, $2)`, userID, itemID)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return ErrAlreadyExists
		case isForeignKeyViolation(err):
			return ErrNotFound
		}
		return fmt.Errorf("unable to vote: %w", err)
	}
	return nil
}

func (q *VoteQueries) Unvote(ctx context.Context, userID, itemID uuid.UUID) error {
	res, err := q.DB.ExecContext(ctx, `DELETE FROM voted_items WHERE user_id = $1 AND wishlist_item_id = $2`, userID, itemID)
	if err != nil {
		return fmt.Errorf("unable to remove vote: %w", err)
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

func (q *VoteQueries) Summary(ctx context.Context, itemID, userID uuid.UUID) (models.VoteSummary, error) {
	summary := models.VoteSummary{WishlistItemID: itemID}
	row := struct {
		Votes int  `db:"votes"`
		Voted bool `db:"voted"`
	}{}
	query := `SELECT COUNT(*) AS votes, COALESCE(BOOL_OR(user_id = $2), FALSE) AS voted FROM voted_items WHERE wishlist_item_id = $1`
	if err := q.DB.GetContext(ctx, &row, query, itemID, userID); err != nil {
		return summary, fmt.Errorf("unable to count votes: %w", err)
	}
	summary.Votes = row.Votes
	summary.Voted = row.Voted
	return summary, nil
}
