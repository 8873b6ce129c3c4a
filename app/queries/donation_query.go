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
	"github.com/wishfund/wishfund-backend/pkg/utils"
)

type DonationQueries struct {
	DB *sqlx.DB
}

// CheckoutSettlement is a completed checkout session as delivered by the payment webhook.
type CheckoutSettlement struct {
	EventID     string
	EventType   string
	UserID      *uuid.UUID
	WishlistID  uuid.UUID
	AmountTotal int64
}

const donationColumns = `donate_id, user_id, wishlist_id, donation_amount, donation_time, stripe_event_id`

// SettleCheckout books a paid checkout session exactly once per event id. The event is
// recorded in stripe_events, the fee for the payer's account type (parent when unknown) is
// deducted and the net amount is credited to the wishlist item, all in one transaction.
// A redelivered event returns ErrDuplicateEvent and changes nothing.
func (q *DonationQueries) SettleCheckout(ctx context.Context, s CheckoutSettlement) (models.Donation, error) {
	d := models.Donation{}

	tx, err := q.DB.BeginTxx(ctx, nil)
	if err != nil {
		return d, fmt.Errorf("unable to start transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO stripe_events (event_id, event_type) VALUES ($1, $2) ON CONFLICT (event_id) DO NOTHING`,
		s.EventID, s.EventType)
	if err != nil {
		return d, fmt.Errorf("unable to record payment event: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return d, err
	}
	if rows == 0 {
		return d, ErrDuplicateEvent
	}

	payerID := s.UserID
	accountType := utils.AccountParent
	if payerID != nil {
		err := tx.GetContext(ctx, &accountType, `SELECT account_type FROM users WHERE uid = $1`, *payerID)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			payerID = nil
			accountType = utils.AccountParent
		case err != nil:
			return d, fmt.Errorf("unable to get payer account type: %w", err)
		}
	}

	rate, err := latestRate(ctx, tx, accountType)
	if err != nil {
		return d, err
	}

	eventID := s.EventID
	d = models.Donation{
		ID:             uuid.New(),
		UserID:         payerID,
		WishlistID:     s.WishlistID,
		DonationAmount: utils.NetDonationAmount(s.AmountTotal, rate),
		DonationTime:   time.Now().UTC(),
		StripeEventID:  &eventID,
	}
	if err := insertDonation(ctx, tx, &d); err != nil {
		return d, err
	}
	if err := creditWishlist(ctx, tx, d.WishlistID, d.DonationAmount); err != nil {
		return d, err
	}

	if err := tx.Commit(); err != nil {
		return d, fmt.Errorf("unable to commit transaction: %w", err)
	}
	return d, nil
}

// CreateDonation books a donation that did not go through checkout. No fee is deducted.
func (q *DonationQueries) CreateDonation(ctx context.Context, d *models.Donation) error {
	tx, err := q.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("unable to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertDonation(ctx, tx, d); err != nil {
		return err
	}
	if err := creditWishlist(ctx, tx, d.WishlistID, d.DonationAmount); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("unable to commit transaction: %w", err)
	}
	return nil
}

func latestRate(ctx context.Context, tx *sqlx.Tx, accountType string) (decimal.Decimal, error) {
	var rate decimal.Decimal
	query := `SELECT transaction_rate FROM transaction_fees WHERE account_type = $1 ORDER BY updated_at DESC LIMIT 1`
	if err := tx.GetContext(ctx, &rate, query, accountType); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rate, fmt.Errorf("%w: %s", ErrFeeNotConfigured, accountType)
		}
		return rate, fmt.Errorf("unable to get transaction fee: %w", err)
	}
	return rate, nil
}

func insertDonation(ctx context.Context, tx *sqlx.Tx, d *models.Donation) error {
	query := `INSERT INTO donations (` + donationColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := tx.ExecContext(ctx, query, d.ID, d.UserID, d.WishlistID, d.DonationAmount, d.DonationTime, d.StripeEventID); err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("unable to create donation: %w", err)
	}
	return nil
}

// creditWishlist adds amount to the item's current value. An active item that reaches its goal
// becomes completed in the same statement.
func creditWishlist(ctx context.Context, tx *sqlx.Tx, wishlistID uuid.UUID, amount decimal.Decimal) error {
	query := `UPDATE wishlist_items
			  SET current_value = current_value + $2,
			      status = CASE WHEN status = 'active' AND current_value + $2 >= goal_value THEN 'completed' ELSE status END,
			      updated_at = now()
			  WHERE wishlist_item_id = $1`
	res, err := tx.ExecContext(ctx, query, wishlistID, amount)
	if err != nil {
		return fmt.Errorf("unable to update wishlist value: %w", err)
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

func (q *DonationQueries) ListByWishlist(ctx context.Context, wishlistID uuid.UUID) ([]models.Donation, error) {
	donations := []models.Donation{}
	query := `SELECT ` + donationColumns + ` FROM donations WHERE wishlist_id = $1 ORDER BY donation_time DESC`
	if err := q.DB.SelectContext(ctx, &donations, query, wishlistID); err != nil {
		return donations, fmt.Errorf("unable to list donations: %w", err)
	}
	return donations, nil
}

func (q *DonationQueries) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Donation, error) {
	donations := []models.Donation{}
	query := `SELECT ` + donationColumns + ` FROM donations WHERE user_id = $1 ORDER BY donation_time DESC`
	if err := q.DB.SelectContext(ctx, &donations, query, userID); err != nil {
		return donations, fmt.Errorf("unable to list donations: %w", err)
	}
	return donations, nil
}
