package queries

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/wishfund/wishfund-backend/app/models"
)

type MetricsQueries struct {
	DB *sqlx.DB
}

func (q *MetricsQueries) General(ctx context.Context) (models.GeneralMetrics, error) {
	m := models.GeneralMetrics{}
	query := `SELECT
				(SELECT COALESCE(SUM(donation_amount), 0) FROM donations) AS total_donated,
				(SELECT COUNT(*) FROM donations) AS donation_count,
				(SELECT COUNT(DISTINCT user_id) FROM donations) AS distinct_donors,
				(SELECT COUNT(*) FROM wishlist_items WHERE status = 'active') AS active_items,
				(SELECT COUNT(*) FROM wishlist_items WHERE status = 'completed') AS completed_items,
				(SELECT COUNT(*) FROM wishlist_items WHERE status = 'underfunded') AS underfunded_items`
	if err := q.DB.GetContext(ctx, &m, query); err != nil {
		return m, fmt.Errorf("unable to get general metrics: %w", err)
	}
	return m, nil
}

func (q *MetricsQueries) Teacher(ctx context.Context, teacherID uuid.UUID) (models.TeacherMetrics, error) {
	m := models.TeacherMetrics{}
	query := `SELECT
				COALESCE(SUM(w.current_value), 0) AS total_raised,
				COUNT(*) FILTER (WHERE w.status = 'active') AS active_items,
				COUNT(*) FILTER (WHERE w.status = 'completed') AS completed_items,
				COUNT(*) FILTER (WHERE w.status = 'underfunded') AS underfunded_items,
				COUNT(*) FILTER (WHERE w.status = 'suggestion') AS suggestions,
				(SELECT COUNT(DISTINCT d.user_id) FROM donations d
				 JOIN wishlist_items i ON i.wishlist_item_id = d.wishlist_id
				 WHERE i.teacher_id = $1) AS donors
			  FROM wishlist_items w WHERE w.teacher_id = $1`
	if err := q.DB.GetContext(ctx, &m, query, teacherID); err != nil {
		return m, fmt.Errorf("unable to get teacher metrics: %w", err)
	}
	return m, nil
}

func (q *MetricsQueries) Parent(ctx context.Context, parentID uuid.UUID) (models.ParentMetrics, error) {
	m := models.ParentMetrics{}
	query := `SELECT
				COALESCE(SUM(donation_amount), 0) AS total_donated,
				COUNT(*) AS donation_count,
				COUNT(DISTINCT wishlist_id) AS items_supported,
				(SELECT COUNT(*) FROM wishlist_items WHERE parent_id = $1) AS suggestions_made
			  FROM donations WHERE user_id = $1`
	if err := q.DB.GetContext(ctx, &m, query, parentID); err != nil {
		return m, fmt.Errorf("unable to get parent metrics: %w", err)
	}
	return m, nil
}
