package queries

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectClosedAuctionResults(t *testing.T) {
	db, mock := newMockDB(t)
	q := AdvertisementQueries{DB: db}

	ad1, ad2 := uuid.New(), uuid.New()
	winner1, winner2 := uuid.New(), uuid.New()
	loserC, loserD := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FOR UPDATE SKIP LOCKED`)).
		WithArgs(nil).
		WillReturnRows(sqlmock.NewRows([]string{"advertisement_id", "highest_bidder_id"}).
			AddRow(ad1.String(), winner1.String()).
			AddRow(ad2.String(), winner2.String()))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM advertisement_bidders WHERE advertisement_id = ANY($1::uuid[])`)).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"advertisement_id", "business_id"}).
			AddRow(ad1.String(), winner1.String()).
			AddRow(ad1.String(), loserC.String()).
			AddRow(ad1.String(), loserC.String()).
			AddRow(ad1.String(), loserD.String()).
			AddRow(ad2.String(), winner2.String()))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE advertisements SET noti_sent = TRUE`)).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	results, err := q.CollectClosedAuctionResults(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, ad1, results[0].AdvertisementID)
	assert.Equal(t, winner1, *results[0].WinnerID)
	assert.ElementsMatch(t, []uuid.UUID{loserC, loserD}, results[0].UnsuccessfulBidderIDs)

	assert.Equal(t, ad2, results[1].AdvertisementID)
	assert.Empty(t, results[1].UnsuccessfulBidderIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollectClosedAuctionResultsScopedToSchool(t *testing.T) {
	db, mock := newMockDB(t)
	q := AdvertisementQueries{DB: db}
	schoolID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`AND ($1::uuid IS NULL OR school_id = $1)`)).
		WithArgs(schoolID).
		WillReturnRows(sqlmock.NewRows([]string{"advertisement_id", "highest_bidder_id"}))
	mock.ExpectCommit()

	results, err := q.CollectClosedAuctionResults(context.Background(), &schoolID)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSelectWinner(t *testing.T) {
	db, mock := newMockDB(t)
	q := AdvertisementQueries{DB: db}
	adID, bidder := uuid.New(), uuid.New()
	query := regexp.QuoteMeta(`SET highest_bidder_id = $2, highest_bidding_price = $3, status = 'closed'`)

	mock.ExpectExec(query).WithArgs(adID, bidder, "500").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, q.SelectWinner(context.Background(), adID, bidder, decimal.NewFromInt(500)))

	mock.ExpectExec(query).WithArgs(adID, bidder, "500").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, q.SelectWinner(context.Background(), adID, bidder, decimal.NewFromInt(500)), ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
