package queries

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/wishfund/wishfund-backend/app/models"
)

type FavouriteQueries struct {
	DB *sqlx.DB
}

// AddItem is idempotent: favouriting an item twice keeps one row.
func (q *FavouriteQueries) AddItem(ctx context.Context, userID, itemID uuid.UUID) error {
	query := `INSERT INTO favourite_items (user_id, wishlist_item_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	if _, err := q.DB.ExecContext(ctx, query, userID, itemID); err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("unable to add favourite item: %w", err)
	}
	return nil
}

func (q *FavouriteQueries) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	res, err := q.DB.ExecContext(ctx, `DELETE FROM favourite_items WHERE user_id = $1 AND wishlist_item_id = $2`, userID, itemID)
	if err != nil {
		return fmt.Errorf("unable to remove favourite item: %w", err)
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

func (q *FavouriteQueries) ListItems(ctx context.Context, userID uuid.UUID) ([]models.FavouriteItem, error) {
	items := []models.FavouriteItem{}
	query := `SELECT w.wishlist_item_id, w.teacher_id, w.parent_id, w.title, w.description, w.image, w.goal_value, w.current_value,
			         w.status, w.deadline, w.platform_fulfillment, w.funds_transferred, w.is_money_withdrawn, w.is_item_bought,
			         w.is_underfunded, w.created_at, w.updated_at, f.created_at AS favourited_at
			  FROM favourite_items f
			  JOIN wishlist_items w ON w.wishlist_item_id = f.wishlist_item_id
			  WHERE f.user_id = $1
			  ORDER BY f.created_at DESC`
	if err := q.DB.SelectContext(ctx, &items, query, userID); err != nil {
		return items, fmt.Errorf("unable to list favourite items: %w", err)
	}
	return items, nil
}

func (q *FavouriteQueries) AddClassroom(ctx context.Context, userID, teacherID uuid.UUID) error {
	query := `INSERT INTO favourite_classrooms (user_id, teacher_id)
			  SELECT $1, uid FROM users WHERE uid = $2 AND account_type = 'teacher'
			  ON CONFLICT DO NOTHING`
	res, err := q.DB.ExecContext(ctx, query, userID, teacherID)
	if err != nil {
		return fmt.Errorf("unable to add favourite classroom: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		// either not a teacher or already a favourite
		var exists bool
		if err := q.DB.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM favourite_classrooms WHERE user_id = $1 AND teacher_id = $2)`, userID, teacherID); err != nil {
			return fmt.Errorf("unable to add favourite classroom: %w", err)
		}
		if !exists {
			return ErrNotFound
		}
	}
	return nil
}

func (q *FavouriteQueries) RemoveClassroom(ctx context.Context, userID, teacherID uuid.UUID) error {
	res, err := q.DB.ExecContext(ctx, `DELETE FROM favourite_classrooms WHERE user_id = $1 AND teacher_id = $2`, userID, teacherID)
	if err != nil {
		return fmt.Errorf("unable to remove favourite classroom: %w", err)
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

func (q *FavouriteQueries) ListClassrooms(ctx context.Context, userID uuid.UUID) ([]models.FavouriteClassroom, error) {
	classrooms := []models.FavouriteClassroom{}
	query := `SELECT u.uid AS teacher_id, u.username, u.school_name, u.avatar, f.created_at AS favourited_at
			  FROM favourite_classrooms f
			  JOIN users u ON u.uid = f.teacher_id
			  WHERE f.user_id = $1
			  ORDER BY f.created_at DESC`
	if err := q.DB.SelectContext(ctx, &classrooms, query, userID); err != nil {
		return classrooms, fmt.Errorf("unable to list favourite classrooms: %w", err)
	}
	return classrooms, nil
}
