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

type RefreshTokenQueries struct {
	DB *sqlx.DB
}

func (q *RefreshTokenQueries) CreateRefreshToken(ctx context.Context, rt *models.RefreshToken) error {
	query := `INSERT INTO refresh_tokens (id, user_id, token, expires_at, created_at, revoked) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := q.DB.ExecContext(ctx, query, rt.ID, rt.UserID, rt.Token, rt.ExpiresAt, rt.CreatedAt, rt.Revoked)
	if err != nil {
		return fmt.Errorf("unable to create refresh token: %w", err)
	}
	return nil
}

func (q *RefreshTokenQueries) GetRefreshTokenByToken(ctx context.Context, token string) (models.RefreshToken, error) {
	rt := models.RefreshToken{}
	query := `SELECT id, user_id, token, expires_at, created_at, revoked FROM refresh_tokens WHERE token = $1`
	if err := q.DB.GetContext(ctx, &rt, query, token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rt, ErrNotFound
		}
		return rt, fmt.Errorf("unable to get refresh token: %w", err)
	}
	return rt, nil
}

func (q *RefreshTokenQueries) RevokeRefreshToken(ctx context.Context, id uuid.UUID) error {
	res, err := q.DB.ExecContext(ctx, `UPDATE refresh_tokens SET revoked = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("unable to revoke refresh token: %w", err)
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

func (q *RefreshTokenQueries) RevokeRefreshTokenByToken(ctx context.Context, userID uuid.UUID, token string) error {
	res, err := q.DB.ExecContext(ctx, `UPDATE refresh_tokens SET revoked = TRUE WHERE token = $1 AND user_id = $2`, token, userID)
	if err != nil {
		return fmt.Errorf("unable to revoke refresh token: %w", err)
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

func (q *RefreshTokenQueries) RevokeRefreshTokensByUser(ctx context.Context, userID uuid.UUID) error {
	if _, err := q.DB.ExecContext(ctx, `UPDATE refresh_tokens SET revoked = TRUE WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("unable to revoke refresh tokens for user: %w", err)
	}
	return nil
}
