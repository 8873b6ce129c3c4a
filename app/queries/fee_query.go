package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/wishfund/wishfund-backend/app/models"
)

type FeeQueries struct {
	DB *sqlx.DB
}

const feeColumns = `transaction_fee_id, account_type, transaction_rate, updated_at`
const feeHistoryColumns = `fee_history_id, account_type, old_rate, new_rate, changed_by, changed_at`

func (q *FeeQueries) ListFees(ctx context.Context) ([]models.TransactionFee, error) {
	fees := []models.TransactionFee{}
	query := `SELECT ` + feeColumns + ` FROM transaction_fees ORDER BY account_type`
	if err := q.DB.SelectContext(ctx, &fees, query); err != nil {
		return fees, fmt.Errorf("unable to list transaction fees: %w", err)
	}
	return fees, nil
}

func (q *FeeQueries) GetFee(ctx context.Context, accountType string) (models.TransactionFee, error) {
	fee := models.TransactionFee{}
	query := `SELECT ` + feeColumns + ` FROM transaction_fees WHERE account_type = $1 ORDER BY updated_at DESC LIMIT 1`
	if err := q.DB.GetContext(ctx, &fee, query, accountType); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fee, ErrNotFound
		}
		return fee, fmt.Errorf("unable to get transaction fee: %w", err)
	}
	return fee, nil
}

// ListHistory returns fee changes newest first, optionally for one account type.
func (q *FeeQueries) ListHistory(ctx context.Context, accountType string) ([]models.FeeHistory, error) {
	history := []models.FeeHistory{}
	query := `SELECT ` + feeHistoryColumns + ` FROM fee_history WHERE ($1 = '' OR account_type = $1) ORDER BY changed_at DESC`
	if err := q.DB.SelectContext(ctx, &history, query, accountType); err != nil {
		return history, fmt.Errorf("unable to list fee history: %w", err)
	}
	return history, nil
}

// UpdateFee sets the current rate of an account type and appends one fee_history row.
// Both writes share a transaction.
func (q *FeeQueries) UpdateFee(ctx context.Context, accountType string, newRate decimal.Decimal, changedBy uuid.UUID) (models.TransactionFee, error) {
	fee := models.TransactionFee{}

	tx, err := q.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fee, fmt.Errorf("unable to start transaction: %w", err)
	}
	defer tx.Rollback()

	var oldRate decimal.NullDecimal
	err = tx.GetContext(ctx, &oldRate, `SELECT transaction_rate FROM transaction_fees WHERE account_type = $1 FOR UPDATE`, accountType)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fee, fmt.Errorf("unable to get transaction fee: %w", err)
	}

	now := time.Now().UTC()
	query := `INSERT INTO transaction_fees (` + feeColumns + `) VALUES ($1, $2, $3, $4)
			  ON CONFLICT (account_type) DO UPDATE SET transaction_rate = EXCLUDED.transaction_rate, updated_at = EXCLUDED.updated_at
			  RETURNING ` + feeColumns
	if err := tx.GetContext(ctx, &fee, query, uuid.New(), accountType, newRate, now); err != nil {
		return fee, fmt.Errorf("unable to update transaction fee: %w", err)
	}

	query = `INSERT INTO fee_history (` + feeHistoryColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := tx.ExecContext(ctx, query, uuid.New(), accountType, oldRate, newRate, changedBy, now); err != nil {
		return fee, fmt.Errorf("unable to record fee history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fee, fmt.Errorf("unable to commit transaction: %w", err)
	}
	return fee, nil
}
