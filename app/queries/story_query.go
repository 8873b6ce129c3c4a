package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/wishfund/wishfund-backend/app/models"
)

type StoryQueries struct {
	DB *sqlx.DB
}

const storyColumns = `story_id, author_id, wishlist_id, title, content, image, created_at`

func (q *StoryQueries) CreateStory(ctx context.Context, s *models.Story) error {
	query := `INSERT INTO stories (` + storyColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := q.DB.ExecContext(ctx, query, s.ID, s.AuthorID, s.WishlistID, s.Title, s.Content, s.Image, s.CreatedAt); err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("unable to create story: %w", err)
	}
	return nil
}

func (q *StoryQueries) ListStories(ctx context.Context, limit, offset int) ([]models.Story, error) {
	stories := []models.Story{}
	query := `SELECT ` + storyColumns + ` FROM stories ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	if err := q.DB.SelectContext(ctx, &stories, query, limit, offset); err != nil {
		return stories, fmt.Errorf("unable to list stories: %w", err)
	}
	return stories, nil
}

func (q *StoryQueries) GetStory(ctx context.Context, id uuid.UUID) (models.Story, error) {
	s := models.Story{}
	if err := q.DB.GetContext(ctx, &s, `SELECT `+storyColumns+` FROM stories WHERE story_id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return s, ErrNotFound
		}
		return s, fmt.Errorf("unable to get story: %w", err)
	}
	return s, nil
}

func (q *StoryQueries) DeleteStory(ctx context.Context, id uuid.UUID) error {
	res, err := q.DB.ExecContext(ctx, `DELETE FROM stories WHERE story_id = $1`, id)
	if err != nil {
		return fmt.Errorf("unable to delete story: %w", err)
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
