package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wishfund/wishfund-backend/pkg/middleware"
	"github.com/wishfund/wishfund-backend/pkg/utils"
)

func TestVoteTwiceConflicts(t *testing.T) {
	mock := setupMockDB(t)
	userID, itemID := uuid.New(), uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO voted_items`)).
		WithArgs(userID, itemID).
		WillReturnError(&pq.Error{Code: "23505"})

	app := fiber.New()
	app.Post("/vote/:itemId", middleware.JWTProtected(), Vote)

	status, _ := doRequest(t, app, http.MethodPost, "/vote/"+itemID.String(), "",
		map[string]string{"Authorization": bearer(t, userID, utils.AccountParent)})
	assert.Equal(t, http.StatusConflict, status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVoteReturnsSummary(t *testing.T) {
	mock := setupMockDB(t)
	userID, itemID := uuid.New(), uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO voted_items`)).
		WithArgs(userID, itemID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM voted_items WHERE wishlist_item_id = $1`)).
		WithArgs(itemID, userID).
		WillReturnRows(sqlmock.NewRows([]string{"votes", "voted"}).AddRow(3, true))

	app := fiber.New()
	app.Post("/vote/:itemId", middleware.JWTProtected(), Vote)

	status, body := doRequest(t, app, http.MethodPost, "/vote/"+itemID.String(), "",
		map[string]string{"Authorization": bearer(t, userID, utils.AccountParent)})
	assert.Equal(t, http.StatusCreated, status)
	assert.EqualValues(t, 3, body["votes"])
	assert.Equal(t, true, body["voted"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendMessageToSelf(t *testing.T) {
	mock := setupMockDB(t)
	userID := uuid.New()

	app := fiber.New()
	app.Post("/messages", middleware.JWTProtected(), SendMessage)

	status, _ := doRequest(t, app, http.MethodPost, "/messages",
		fmt.Sprintf(`{"receiverId": %q, "text": "hello"}`, userID),
		map[string]string{"Authorization": bearer(t, userID, utils.AccountParent)})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendEmail(t *testing.T) {
	setupMockDB(t)
	app := fiber.New()
	app.Post("/email/send", middleware.JWTProtected(), SendEmail)
	auth := map[string]string{"Authorization": bearer(t, uuid.New(), utils.AccountSchool)}
	body := `{"to": "parent@example.com", "subject": "Field trip", "body": "<p>Bring a lunch</p><script>x()</script>"}`

	mailer := &recordingMailer{}
	withMailer(t, mailer)
	status, _ := doRequest(t, app, http.MethodPost, "/email/send", body, auth)
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "parent@example.com", mailer.sent[0].to)
	assert.NotContains(t, mailer.sent[0].body, "<script>")

	withMailer(t, &recordingMailer{err: errors.New("smtp: 421 try later")})
	status, _ = doRequest(t, app, http.MethodPost, "/email/send", body, auth)
	assert.Equal(t, http.StatusBadGateway, status)
}
