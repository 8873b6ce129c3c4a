package queries

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wishfund/wishfund-backend/app/models"
)

var (
	ledgerQuery         = regexp.QuoteMeta(`INSERT INTO stripe_events (event_id, event_type) VALUES ($1, $2) ON CONFLICT (event_id) DO NOTHING`)
	accountTypeQuery    = regexp.QuoteMeta(`SELECT account_type FROM users WHERE uid = $1`)
	rateQuery           = regexp.QuoteMeta(`SELECT transaction_rate FROM transaction_fees WHERE account_type = $1 ORDER BY updated_at DESC LIMIT 1`)
	insertDonationQuery = regexp.QuoteMeta(`INSERT INTO donations`)
	creditQuery         = regexp.QuoteMeta(`UPDATE wishlist_items`)
)

func TestSettleCheckoutAppliesPayerFee(t *testing.T) {
	db, mock := newMockDB(t)
	q := DonationQueries{DB: db}
	userID, wishlistID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(ledgerQuery).WithArgs("evt_1", "checkout.session.completed").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(accountTypeQuery).WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"account_type"}).AddRow("teacher"))
	mock.ExpectQuery(rateQuery).WithArgs("teacher").
		WillReturnRows(sqlmock.NewRows([]string{"transaction_rate"}).AddRow("0.05"))
	mock.ExpectExec(insertDonationQuery).
		WithArgs(sqlmock.AnyArg(), userID, wishlistID, "95", sqlmock.AnyArg(), "evt_1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(creditQuery).WithArgs(wishlistID, "95").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	d, err := q.SettleCheckout(context.Background(), CheckoutSettlement{
		EventID:     "evt_1",
		EventType:   "checkout.session.completed",
		UserID:      &userID,
		WishlistID:  wishlistID,
		AmountTotal: 10000,
	})
	require.NoError(t, err)
	assert.True(t, d.DonationAmount.Equal(decimal.NewFromInt(95)))
	assert.Equal(t, userID, *d.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettleCheckoutDefaultsToParentRate(t *testing.T) {
	db, mock := newMockDB(t)
	q := DonationQueries{DB: db}
	wishlistID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(ledgerQuery).WithArgs("evt_2", "checkout.session.completed").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(rateQuery).WithArgs("parent").
		WillReturnRows(sqlmock.NewRows([]string{"transaction_rate"}).AddRow("0.1"))
	mock.ExpectExec(insertDonationQuery).
		WithArgs(sqlmock.AnyArg(), nil, wishlistID, "22.5", sqlmock.AnyArg(), "evt_2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(creditQuery).WithArgs(wishlistID, "22.5").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	d, err := q.SettleCheckout(context.Background(), CheckoutSettlement{
		EventID:     "evt_2",
		EventType:   "checkout.session.completed",
		WishlistID:  wishlistID,
		AmountTotal: 2500,
	})
	require.NoError(t, err)
	assert.Nil(t, d.UserID)
	assert.Equal(t, "22.5", d.DonationAmount.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettleCheckoutDuplicateEvent(t *testing.T) {
	db, mock := newMockDB(t)
	q := DonationQueries{DB: db}

	mock.ExpectBegin()
	mock.ExpectExec(ledgerQuery).WithArgs("evt_1", "checkout.session.completed").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := q.SettleCheckout(context.Background(), CheckoutSettlement{
		EventID:     "evt_1",
		EventType:   "checkout.session.completed",
		WishlistID:  uuid.New(),
		AmountTotal: 10000,
	})
	assert.ErrorIs(t, err, ErrDuplicateEvent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettleCheckoutWithoutFeeRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	q := DonationQueries{DB: db}

	mock.ExpectBegin()
	mock.ExpectExec(ledgerQuery).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(rateQuery).WithArgs("parent").WillReturnRows(sqlmock.NewRows([]string{"transaction_rate"}))
	mock.ExpectRollback()

	_, err := q.SettleCheckout(context.Background(), CheckoutSettlement{
		EventID:     "evt_3",
		EventType:   "checkout.session.completed",
		WishlistID:  uuid.New(),
		AmountTotal: 10000,
	})
	assert.ErrorIs(t, err, ErrFeeNotConfigured)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettleCheckoutRollsBackWhenCreditFails(t *testing.T) {
	db, mock := newMockDB(t)
	q := DonationQueries{DB: db}
	wishlistID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(ledgerQuery).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(rateQuery).WillReturnRows(sqlmock.NewRows([]string{"transaction_rate"}).AddRow("0"))
	mock.ExpectExec(insertDonationQuery).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(creditQuery).WithArgs(wishlistID, "10").WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := q.SettleCheckout(context.Background(), CheckoutSettlement{
		EventID:     "evt_4",
		EventType:   "checkout.session.completed",
		WishlistID:  wishlistID,
		AmountTotal: 1000,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDonationUnknownWishlist(t *testing.T) {
	db, mock := newMockDB(t)
	q := DonationQueries{DB: db}
	d := &models.Donation{ID: uuid.New(), WishlistID: uuid.New(), DonationAmount: decimal.NewFromInt(20)}

	mock.ExpectBegin()
	mock.ExpectExec(insertDonationQuery).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(creditQuery).WithArgs(d.WishlistID, "20").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	assert.ErrorIs(t, q.CreateDonation(context.Background(), d), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
