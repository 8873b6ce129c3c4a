package queries

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

var advertisementRowColumns = []string{
	"advertisement_id", "school_id", "highest_bidder_id", "highest_bidding_price", "starting_price",
	"status", "image", "details", "title", "creation_date", "noti_sent",
}

func advertisementRow(id, schoolID uuid.UUID, bidder *uuid.UUID, highest, starting, status string) *sqlmock.Rows {
	var bidderValue interface{}
	if bidder != nil {
		bidderValue = bidder.String()
	}
	return sqlmock.NewRows(advertisementRowColumns).AddRow(
		id.String(), schoolID.String(), bidderValue, highest, starting,
		status, "", "details", "Banner slot", time.Now(), false,
	)
}

var bidRowColumns = []string{"advertisement_bidder_id", "advertisement_id", "business_id", "price", "biding_date"}
