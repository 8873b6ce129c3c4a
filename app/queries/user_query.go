package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/wishfund/wishfund-backend/app/models"
)

type UserQueries struct {
	DB *sqlx.DB
}

const userColumns = `uid, username, email, password_hash, account_type, school_name, avatar, verified, otp, created_at, updated_at`

func (q *UserQueries) GetUserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	user := models.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE uid = $1`
	if err := q.DB.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user, ErrNotFound
		}
		return user, fmt.Errorf("unable to get user: %w", err)
	}
	return user, nil
}

func (q *UserQueries) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	user := models.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	if err := q.DB.GetContext(ctx, &user, query, strings.ToLower(email)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user, ErrNotFound
		}
		return user, fmt.Errorf("unable to get user: %w", err)
	}
	return user, nil
}

func (q *UserQueries) CreateUser(ctx context.Context, u *models.User) error {
	query := `INSERT INTO users (uid, username, email, password_hash, account_type, school_name, avatar, verified, otp, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := q.DB.ExecContext(ctx, query,
		u.ID,
		u.Username,
		strings.ToLower(u.Email),
		u.PasswordHash,
		u.AccountType,
		u.SchoolName,
		u.Avatar,
		u.Verified,
		u.OTP,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("unable to create user: %w", err)
	}
	return nil
}

func (q *UserQueries) VerifyOTPByEmail(ctx context.Context, email, otp string) error {
	query := `UPDATE users SET verified = TRUE, otp = '', updated_at = now() WHERE email = $1 AND otp = $2 AND verified = FALSE`
	res, err := q.DB.ExecContext(ctx, query, strings.ToLower(email), otp)
	if err != nil {
		return fmt.Errorf("unable to verify otp: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errors.New("invalid otp or already verified")
	}
	return nil
}

// UpdateOTPByEmail replaces the pending OTP of an unverified account.
func (q *UserQueries) UpdateOTPByEmail(ctx context.Context, email, otp string) error {
	query := `UPDATE users SET otp = $1, updated_at = now() WHERE email = $2`
	res, err := q.DB.ExecContext(ctx, query, otp, strings.ToLower(email))
	if err != nil {
		return fmt.Errorf("unable to update otp: %w", err)
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

func (q *UserQueries) UpdateUser(ctx context.Context, userID uuid.UUID, req *models.UpdateUserRequest) error {
	setClauses := []string{}
	args := []interface{}{}
	argID := 1

	if req.Username != nil {
		setClauses = append(setClauses, fmt.Sprintf("username = $%d", argID))
		args = append(args, *req.Username)
		argID++
	}
	if req.SchoolName != nil {
		setClauses = append(setClauses, fmt.Sprintf("school_name = $%d", argID))
		args = append(args, *req.SchoolName)
		argID++
	}
	if req.Avatar != nil {
		setClauses = append(setClauses, fmt.Sprintf("avatar = $%d", argID))
		args = append(args, *req.Avatar)
		argID++
	}

	if len(setClauses) == 0 {
		return ErrNoFieldsToUpdate
	}

	setClauses = append(setClauses, "updated_at = now()")
	query := fmt.Sprintf(`UPDATE users SET %s WHERE uid = $%d`, strings.Join(setClauses, ", "), argID)
	args = append(args, userID)

	res, err := q.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("unable to update user: %w", err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteProfile removes the user and the rows that only exist on their behalf in one
// transaction. Wishlist items, advertisements and bids keep their foreign keys, so a user who
// still owns any of them gets ErrInUse and nothing is deleted.
func (q *UserQueries) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	tx, err := q.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("unable to start transaction: %w", err)
	}
	defer tx.Rollback()

	cleanup := []string{
		`DELETE FROM favourite_items WHERE user_id = $1`,
		`DELETE FROM favourite_classrooms WHERE user_id = $1 OR teacher_id = $1`,
		`DELETE FROM voted_items WHERE user_id = $1`,
		`DELETE FROM notifications WHERE user_id = $1`,
		`DELETE FROM messages WHERE sender_id = $1 OR receiver_id = $1`,
		`DELETE FROM refresh_tokens WHERE user_id = $1`,
	}
	for _, stmt := range cleanup {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("unable to delete user data: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE uid = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrInUse
		}
		return fmt.Errorf("unable to delete user: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("unable to commit transaction: %w", err)
	}
	return nil
}

func (q *UserQueries) GetUsersByAccountType(ctx context.Context, accountType string) ([]models.User, error) {
	users := []models.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE account_type = $1 AND verified = TRUE ORDER BY username`
	if err := q.DB.SelectContext(ctx, &users, query, accountType); err != nil {
		return users, fmt.Errorf("unable to get users: %w", err)
	}
	return users, nil
}
