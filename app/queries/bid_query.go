package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/wishfund/wishfund-backend/app/models"
)

// BidQueries keeps advertisements.highest_bidder_id/highest_bidding_price equal to the top bid.
// Every write locks the advertisement row first so concurrent bids serialise on it.
type BidQueries struct {
	DB *sqlx.DB
}

const bidColumns = `advertisement_bidder_id, advertisement_id, business_id, price, biding_date`

func lockAdvertisement(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (models.Advertisement, error) {
	ad := models.Advertisement{}
	query := `SELECT ` + advertisementColumns + ` FROM advertisements WHERE advertisement_id = $1 FOR UPDATE`
	if err := tx.GetContext(ctx, &ad, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ad, ErrNotFound
		}
		return ad, fmt.Errorf("unable to get advertisement: %w", err)
	}
	return ad, nil
}

// PlaceBid records the bid and, when it beats the current highest price, makes it the highest.
// A bid below the starting price is rejected without writing anything, whatever the
// advertisement's status. The returned
// advertisement reflects the state after the bid.
func (q *BidQueries) PlaceBid(ctx context.Context, bid *models.Bid) (models.Advertisement, error) {
	tx, err := q.DB.BeginTxx(ctx, nil)
	if err != nil {
		return models.Advertisement{}, fmt.Errorf("unable to start transaction: %w", err)
	}
	defer tx.Rollback()

	ad, err := lockAdvertisement(ctx, tx, bid.AdvertisementID)
	if err != nil {
		return ad, err
	}
	if bid.Price.LessThan(ad.StartingPrice) {
		return ad, ErrBelowStartingPrice
	}
	if ad.Status == models.AdvertisementClosed {
		return ad, ErrAdvertisementClosed
	}

	query := `INSERT INTO advertisement_bidders (` + bidColumns + `) VALUES ($1, $2, $3, $4, $5)`
	if _, err := tx.ExecContext(ctx, query, bid.ID, bid.AdvertisementID, bid.BusinessID, bid.Price, bid.BidingDate); err != nil {
		return ad, fmt.Errorf("unable to create bid: %w", err)
	}

	if bid.Price.GreaterThan(ad.HighestBiddingPrice) {
		query = `UPDATE advertisements SET highest_bidder_id = $2, highest_bidding_price = $3 WHERE advertisement_id = $1`
		if _, err := tx.ExecContext(ctx, query, ad.ID, bid.BusinessID, bid.Price); err != nil {
			return ad, fmt.Errorf("unable to update highest bid: %w", err)
		}
		businessID := bid.BusinessID
		ad.HighestBidderID = &businessID
		ad.HighestBiddingPrice = bid.Price
	}

	if err := tx.Commit(); err != nil {
		return ad, fmt.Errorf("unable to commit transaction: %w", err)
	}
	return ad, nil
}

// WithdrawBid deletes a bid. If it held the highest price the next best bid (earliest first on
// equal price) takes over, or the advertisement goes back to no bidder and price 0.
// Bids on a closed advertisement are frozen: withdrawing one returns ErrAdvertisementClosed so a
// selected winner cannot be changed after the fact.
func (q *BidQueries) WithdrawBid(ctx context.Context, bidID, callerID uuid.UUID, admin bool) (models.Advertisement, error) {
	tx, err := q.DB.BeginTxx(ctx, nil)
	if err != nil {
		return models.Advertisement{}, fmt.Errorf("unable to start transaction: %w", err)
	}
	defer tx.Rollback()

	bid := models.Bid{}
	query := `SELECT ` + bidColumns + ` FROM advertisement_bidders WHERE advertisement_bidder_id = $1`
	if err := tx.GetContext(ctx, &bid, query, bidID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Advertisement{}, ErrNotFound
		}
		return models.Advertisement{}, fmt.Errorf("unable to get bid: %w", err)
	}
	if !admin && bid.BusinessID != callerID {
		return models.Advertisement{}, ErrForbidden
	}

	ad, err := lockAdvertisement(ctx, tx, bid.AdvertisementID)
	if err != nil {
		return ad, err
	}
	if ad.Status == models.AdvertisementClosed {
		return ad, ErrAdvertisementClosed
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM advertisement_bidders WHERE advertisement_bidder_id = $1`, bidID)
	if err != nil {
		return ad, fmt.Errorf("unable to delete bid: %w", err)
	}
	if rows, err := res.RowsAffected(); err != nil {
		return ad, err
	} else if rows == 0 {
		return ad, ErrNotFound
	}

	if bid.Price.Equal(ad.HighestBiddingPrice) {
		next := models.Bid{}
		query = `SELECT ` + bidColumns + ` FROM advertisement_bidders WHERE advertisement_id = $1 ORDER BY price DESC, biding_date ASC LIMIT 1`
		err := tx.GetContext(ctx, &next, query, ad.ID)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			query = `UPDATE advertisements SET highest_bidder_id = NULL, highest_bidding_price = 0 WHERE advertisement_id = $1`
			if _, err := tx.ExecContext(ctx, query, ad.ID); err != nil {
				return ad, fmt.Errorf("unable to reset highest bid: %w", err)
			}
			ad.HighestBidderID = nil
			ad.HighestBiddingPrice = decimal.Zero
		case err != nil:
			return ad, fmt.Errorf("unable to get next highest bid: %w", err)
		default:
			query = `UPDATE advertisements SET highest_bidder_id = $2, highest_bidding_price = $3 WHERE advertisement_id = $1`
			if _, err := tx.ExecContext(ctx, query, ad.ID, next.BusinessID, next.Price); err != nil {
				return ad, fmt.Errorf("unable to update highest bid: %w", err)
			}
			ad.HighestBidderID = &next.BusinessID
			ad.HighestBiddingPrice = next.Price
		}
	}

	if err := tx.Commit(); err != nil {
		return ad, fmt.Errorf("unable to commit transaction: %w", err)
	}
	return ad, nil
}

func (q *BidQueries) GetBid(ctx context.Context, id uuid.UUID) (models.Bid, error) {
	bid := models.Bid{}
	query := `SELECT ` + bidColumns + ` FROM advertisement_bidders WHERE advertisement_bidder_id = $1`
	if err := q.DB.GetContext(ctx, &bid, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return bid, ErrNotFound
		}
		return bid, fmt.Errorf("unable to get bid: %w", err)
	}
	return bid, nil
}

// ListBidsByAdvertisement returns the bids highest first.
func (q *BidQueries) ListBidsByAdvertisement(ctx context.Context, advertisementID uuid.UUID) ([]models.Bid, error) {
	bids := []models.Bid{}
	query := `SELECT ` + bidColumns + ` FROM advertisement_bidders WHERE advertisement_id = $1 ORDER BY price DESC, biding_date ASC`
	if err := q.DB.SelectContext(ctx, &bids, query, advertisementID); err != nil {
		return bids, fmt.Errorf("unable to list bids: %w", err)
	}
	return bids, nil
}

func (q *BidQueries) ListBidsByBusiness(ctx context.Context, businessID uuid.UUID) ([]models.Bid, error) {
	bids := []models.Bid{}
	query := `SELECT ` + bidColumns + ` FROM advertisement_bidders WHERE business_id = $1 ORDER BY biding_date DESC`
	if err := q.DB.SelectContext(ctx, &bids, query, businessID); err != nil {
		return bids, fmt.Errorf("unable to list bids: %w", err)
	}
	return bids, nil
}
