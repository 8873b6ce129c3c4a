package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/wishfund/wishfund-backend/app/models"
)

type AdvertisementQueries struct {
	DB *sqlx.DB
}

const advertisementColumns = `advertisement_id, school_id, highest_bidder_id, highest_bidding_price, starting_price, status, image, details, title, creation_date, noti_sent`

func (q *AdvertisementQueries) CreateAdvertisement(ctx context.Context, ad *models.Advertisement) error {
	query := `INSERT INTO advertisements (advertisement_id, school_id, highest_bidder_id, highest_bidding_price, starting_price, status, image, details, title, creation_date, noti_sent)
			  VALUES ($1, $2, NULL, 0, $3, 'open', $4, $5, $6, $7, FALSE)`
	_, err := q.DB.ExecContext(ctx, query, ad.ID, ad.SchoolID, ad.StartingPrice, ad.Image, ad.Details, ad.Title, ad.CreationDate)
	if err != nil {
		return fmt.Errorf("unable to create advertisement: %w", err)
	}
	ad.HighestBidderID = nil
	ad.HighestBiddingPrice = decimal.Zero
	ad.Status = models.AdvertisementOpen
	ad.NotiSent = false
	return nil
}

func (q *AdvertisementQueries) GetAdvertisement(ctx context.Context, id uuid.UUID) (models.Advertisement, error) {
	ad := models.Advertisement{}
	query := `SELECT ` + advertisementColumns + ` FROM advertisements WHERE advertisement_id = $1`
	if err := q.DB.GetContext(ctx, &ad, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ad, ErrNotFound
		}
		return ad, fmt.Errorf("unable to get advertisement: %w", err)
	}
	return ad, nil
}

func (q *AdvertisementQueries) ListOpenAdvertisements(ctx context.Context) ([]models.Advertisement, error) {
	ads := []models.Advertisement{}
	query := `SELECT ` + advertisementColumns + ` FROM advertisements WHERE status = 'open' ORDER BY creation_date DESC`
	if err := q.DB.SelectContext(ctx, &ads, query); err != nil {
		return ads, fmt.Errorf("unable to list advertisements: %w", err)
	}
	return ads, nil
}

func (q *AdvertisementQueries) ListBySchool(ctx context.Context, schoolID uuid.UUID) ([]models.Advertisement, error) {
	ads := []models.Advertisement{}
	query := `SELECT ` + advertisementColumns + ` FROM advertisements WHERE school_id = $1 ORDER BY creation_date DESC`
	if err := q.DB.SelectContext(ctx, &ads, query, schoolID); err != nil {
		return ads, fmt.Errorf("unable to list advertisements: %w", err)
	}
	return ads, nil
}

func (q *AdvertisementQueries) DeleteAdvertisement(ctx context.Context, id uuid.UUID) error {
	res, err := q.DB.ExecContext(ctx, `DELETE FROM advertisements WHERE advertisement_id = $1`, id)
	if err != nil {
		return fmt.Errorf("unable to delete advertisement: %w", err)
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

// SelectWinner closes the advertisement with the given winner. The values are taken as given
// and are not checked against the bids.
func (q *AdvertisementQueries) SelectWinner(ctx context.Context, id, bidderID uuid.UUID, price decimal.Decimal) error {
	query := `UPDATE advertisements SET highest_bidder_id = $2, highest_bidding_price = $3, status = 'closed' WHERE advertisement_id = $1`
	res, err := q.DB.ExecContext(ctx, query, id, bidderID, price)
	if err != nil {
		return fmt.Errorf("unable to select winner: %w", err)
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

type closedAuction struct {
	ID              uuid.UUID  `db:"advertisement_id"`
	HighestBidderID *uuid.UUID `db:"highest_bidder_id"`
}

type auctionBidder struct {
	AdvertisementID uuid.UUID `db:"advertisement_id"`
	BusinessID      uuid.UUID `db:"business_id"`
}

// CollectClosedAuctionResults claims every closed advertisement whose outcome has not been
// announced yet, flags it noti_sent and returns the winner and losing bidders of each.
// A non-nil schoolID limits the sweep to that school's advertisements.
// Rows locked by a concurrent sweep are skipped, so each advertisement is returned once.
func (q *AdvertisementQueries) CollectClosedAuctionResults(ctx context.Context, schoolID *uuid.UUID) ([]models.AuctionResult, error) {
	results := []models.AuctionResult{}

	tx, err := q.DB.BeginTxx(ctx, nil)
	if err != nil {
		return results, fmt.Errorf("unable to start transaction: %w", err)
	}
	defer tx.Rollback()

	ads := []closedAuction{}
	query := `SELECT advertisement_id, highest_bidder_id FROM advertisements
			  WHERE status = 'closed' AND noti_sent = FALSE AND highest_bidding_price > starting_price
			  AND ($1::uuid IS NULL OR school_id = $1)
			  ORDER BY creation_date
			  FOR UPDATE SKIP LOCKED`
	if err := tx.SelectContext(ctx, &ads, query, schoolID); err != nil {
		return results, fmt.Errorf("unable to select closed advertisements: %w", err)
	}
	if len(ads) == 0 {
		return results, tx.Commit()
	}

	ids := pq.Array(lo.Map(ads, func(a closedAuction, _ int) string { return a.ID.String() }))

	bidders := []auctionBidder{}
	query = `SELECT advertisement_id, business_id FROM advertisement_bidders WHERE advertisement_id = ANY($1::uuid[]) ORDER BY biding_date`
	if err := tx.SelectContext(ctx, &bidders, query, ids); err != nil {
		return results, fmt.Errorf("unable to select bidders: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE advertisements SET noti_sent = TRUE WHERE advertisement_id = ANY($1::uuid[])`, ids); err != nil {
		return results, fmt.Errorf("unable to flag advertisements: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return results, fmt.Errorf("unable to commit transaction: %w", err)
	}

	byAd := lo.GroupBy(bidders, func(b auctionBidder) uuid.UUID { return b.AdvertisementID })
	results = lo.Map(ads, func(a closedAuction, _ int) models.AuctionResult {
		losers := lo.Uniq(lo.FilterMap(byAd[a.ID], func(b auctionBidder, _ int) (uuid.UUID, bool) {
			return b.BusinessID, a.HighestBidderID == nil || b.BusinessID != *a.HighestBidderID
		}))
		return models.AuctionResult{
			AdvertisementID:       a.ID,
			WinnerID:              a.HighestBidderID,
			UnsuccessfulBidderIDs: losers,
		}
	})
	return results, nil
}
