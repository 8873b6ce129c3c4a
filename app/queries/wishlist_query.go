package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/wishfund/wishfund-backend/app/models"
)

type WishlistQueries struct {
	DB *sqlx.DB
}

const wishlistColumns = `wishlist_item_id, teacher_id, parent_id, title, description, image, goal_value, current_value, status, deadline,
	platform_fulfillment, funds_transferred, is_money_withdrawn, is_item_bought, is_underfunded, created_at, updated_at`

func (q *WishlistQueries) CreateItem(ctx context.Context, w *models.WishlistItem) error {
	query := `INSERT INTO wishlist_items (wishlist_item_id, teacher_id, parent_id, title, description, image, goal_value, current_value, status, deadline, platform_fulfillment, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8, $9, $10, $11, $12)`
	_, err := q.DB.ExecContext(ctx, query,
		w.ID, w.TeacherID, w.ParentID, w.Title, w.Description, w.Image, w.GoalValue,
		w.Status, w.Deadline, w.PlatformFulfillment, w.CreatedAt, w.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("unable to create wishlist item: %w", err)
	}
	return nil
}

func (q *WishlistQueries) GetItem(ctx context.Context, id uuid.UUID) (models.WishlistItem, error) {
	item := models.WishlistItem{}
	query := `SELECT ` + wishlistColumns + ` FROM wishlist_items WHERE wishlist_item_id = $1`
	if err := q.DB.GetContext(ctx, &item, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return item, ErrNotFound
		}
		return item, fmt.Errorf("unable to get wishlist item: %w", err)
	}
	return item, nil
}

// ListByTeacher returns a teacher's items except pending suggestions.
func (q *WishlistQueries) ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]models.WishlistItem, error) {
	items := []models.WishlistItem{}
	query := `SELECT ` + wishlistColumns + ` FROM wishlist_items WHERE teacher_id = $1 AND status <> 'suggestion' ORDER BY created_at DESC`
	if err := q.DB.SelectContext(ctx, &items, query, teacherID); err != nil {
		return items, fmt.Errorf("unable to list wishlist items: %w", err)
	}
	return items, nil
}

func (q *WishlistQueries) UpdateItem(ctx context.Context, id uuid.UUID, req *models.UpdateWishlistItemRequest) error {
	setClauses := []string{}
	args := []interface{}{}
	argID := 1

	if req.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", argID))
		args = append(args, *req.Title)
		argID++
	}
	if req.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", argID))
		args = append(args, *req.Description)
		argID++
	}
	if req.GoalValue != nil {
		setClauses = append(setClauses, fmt.Sprintf("goal_value = $%d", argID))
		args = append(args, *req.GoalValue)
		argID++
	}
	if req.Deadline != nil {
		setClauses = append(setClauses, fmt.Sprintf("deadline = $%d", argID))
		args = append(args, *req.Deadline)
		argID++
	}

	return q.update(ctx, id, setClauses, args, argID)
}

func (q *WishlistQueries) UpdateFulfillment(ctx context.Context, id uuid.UUID, req *models.FulfillmentRequest) error {
	setClauses := []string{}
	args := []interface{}{}
	argID := 1

	flags := []struct {
		column string
		value  *bool
	}{
		{"platform_fulfillment", req.PlatformFulfillment},
		{"funds_transferred", req.FundsTransferred},
		{"is_money_withdrawn", req.IsMoneyWithdrawn},
		{"is_item_bought", req.IsItemBought},
	}
	for _, f := range flags {
		if f.value == nil {
			continue
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", f.column, argID))
		args = append(args, *f.value)
		argID++
	}

	return q.update(ctx, id, setClauses, args, argID)
}

func (q *WishlistQueries) UpdateImage(ctx context.Context, id uuid.UUID, image string) error {
	return q.update(ctx, id, []string{"image = $1"}, []interface{}{image}, 2)
}

func (q *WishlistQueries) update(ctx context.Context, id uuid.UUID, setClauses []string, args []interface{}, argID int) error {
	if len(setClauses) == 0 {
		return ErrNoFieldsToUpdate
	}

	setClauses = append(setClauses, "updated_at = now()")
	query := fmt.Sprintf(`UPDATE wishlist_items SET %s WHERE wishlist_item_id = $%d`, strings.Join(setClauses, ", "), argID)
	args = append(args, id)

	res, err := q.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("unable to update wishlist item: %w", err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (q *WishlistQueries) DeleteItem(ctx context.Context, id uuid.UUID) error {
	res, err := q.DB.ExecContext(ctx, `DELETE FROM wishlist_items WHERE wishlist_item_id = $1`, id)
	if err != nil {
		return fmt.Errorf("unable to delete wishlist item: %w", err)
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

func (q *WishlistQueries) ListSuggestions(ctx context.Context, teacherID uuid.UUID) ([]models.WishlistItem, error) {
	items := []models.WishlistItem{}
	query := `SELECT ` + wishlistColumns + ` FROM wishlist_items WHERE teacher_id = $1 AND status = 'suggestion' ORDER BY created_at DESC`
	if err := q.DB.SelectContext(ctx, &items, query, teacherID); err != nil {
		return items, fmt.Errorf("unable to list suggestions: %w", err)
	}
	return items, nil
}

// AcceptSuggestion turns a parent's suggestion into an active item with the given deadline.
func (q *WishlistQueries) AcceptSuggestion(ctx context.Context, id, teacherID uuid.UUID, deadline time.Time) error {
	query := `UPDATE wishlist_items SET status = 'active', deadline = $3, updated_at = now()
			  WHERE wishlist_item_id = $1 AND teacher_id = $2 AND status = 'suggestion'`
	res, err := q.DB.ExecContext(ctx, query, id, teacherID, deadline)
	if err != nil {
		return fmt.Errorf("unable to accept suggestion: %w", err)
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

func (q *WishlistQueries) RejectSuggestion(ctx context.Context, id, teacherID uuid.UUID) error {
	query := `DELETE FROM wishlist_items WHERE wishlist_item_id = $1 AND teacher_id = $2 AND status = 'suggestion'`
	res, err := q.DB.ExecContext(ctx, query, id, teacherID)
	if err != nil {
		return fmt.Errorf("unable to reject suggestion: %w", err)
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

// Discover lists active items, soonest deadline first, optionally filtered by a search term.
func (q *WishlistQueries) Discover(ctx context.Context, search string, limit, offset int) ([]models.WishlistItem, error) {
	items := []models.WishlistItem{}
	query := `SELECT ` + wishlistColumns + ` FROM wishlist_items
			  WHERE status = 'active' AND ($1 = '' OR title ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%')
			  ORDER BY deadline ASC NULLS LAST, created_at DESC
			  LIMIT $2 OFFSET $3`
	if err := q.DB.SelectContext(ctx, &items, query, strings.TrimSpace(search), limit, offset); err != nil {
		return items, fmt.Errorf("unable to discover wishlist items: %w", err)
	}
	return items, nil
}

func (q *WishlistQueries) DiscoverClassrooms(ctx context.Context) ([]models.Classroom, error) {
	classrooms := []models.Classroom{}
	query := `SELECT u.uid AS teacher_id, u.username, u.school_name, u.avatar,
			         COUNT(w.wishlist_item_id) FILTER (WHERE w.status = 'active') AS active_items,
			         COALESCE(SUM(w.current_value), 0) AS total_raised
			  FROM users u
			  LEFT JOIN wishlist_items w ON w.teacher_id = u.uid
			  WHERE u.account_type = 'teacher' AND u.verified = TRUE
			  GROUP BY u.uid, u.username, u.school_name, u.avatar
			  ORDER BY active_items DESC, u.username`
	if err := q.DB.SelectContext(ctx, &classrooms, query); err != nil {
		return classrooms, fmt.Errorf("unable to discover classrooms: %w", err)
	}
	return classrooms, nil
}

// MarkOverdueUnderfunded flags every active item whose deadline is before now as underfunded
// and returns how many rows changed. Already flagged items do not match again.
// The status written is 'underfunded', the same literal the status CHECK constraint and
// models.WishlistUnderfunded use; the older misspelt 'undefunded' value is not written.
func (q *WishlistQueries) MarkOverdueUnderfunded(ctx context.Context, now time.Time) (int64, error) {
	query := `UPDATE wishlist_items SET status = 'underfunded', is_underfunded = TRUE, updated_at = now()
			  WHERE deadline < $1 AND status = 'active'`
	res, err := q.DB.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("unable to mark underfunded items: %w", err)
	}
	return res.RowsAffected()
}
