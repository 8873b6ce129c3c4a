package controllers

import (
	"net/http"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wishfund/wishfund-backend/pkg/middleware"
	"github.com/wishfund/wishfund-backend/pkg/utils"
)

func notificationApp() *fiber.App {
	app := fiber.New()
	app.Post("/dispatch", middleware.JWTProtected(), middleware.RequireAccountType(utils.AccountSchool), DispatchNotifications)
	n := app.Group("/notification", middleware.JWTProtected())
	n.Patch("/read-all", MarkAllNotificationsRead)
	n.Patch("/:id/read", MarkNotificationRead)
	n.Delete("/:id", DeleteNotification)
	return app
}

func drainPushes() []pushJob {
	var jobs []pushJob
	for {
		select {
		case job := <-pushChan:
			jobs = append(jobs, job)
		default:
			return jobs
		}
	}
}

func TestDispatchNotificationsBulkInsert(t *testing.T) {
	mock := setupMockDB(t)
	drainPushes()
	a, b := uuid.New(), uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO notifications`)).
		WithArgs(
			sqlmock.AnyArg(), a, "general", "Book fair on Friday", "", false, sqlmock.AnyArg(),
			sqlmock.AnyArg(), b, "general", "Book fair on Friday", "", false, sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 2))

	body := `{"userIds": ["` + a.String() + `", "` + b.String() + `", "` + a.String() + `"], "message": "Book fair on Friday"}`
	status, resp := doRequest(t, notificationApp(), http.MethodPost, "/dispatch", body,
		map[string]string{"Authorization": bearer(t, uuid.New(), utils.AccountSchool)})
	assert.Equal(t, http.StatusCreated, status)
	assert.EqualValues(t, 2, resp["dispatched"])
	assert.NoError(t, mock.ExpectationsWereMet())

	jobs := drainPushes()
	require.Len(t, jobs, 2)
	assert.Equal(t, a, jobs[0].userID)
	assert.Equal(t, b, jobs[1].userID)
	assert.Equal(t, "notification", jobs[0].event.Event)
}

func TestDispatchNotificationsRejections(t *testing.T) {
	mock := setupMockDB(t)
	app := notificationApp()

	status, _ := doRequest(t, app, http.MethodPost, "/dispatch", `{"userIds": [], "message": "hi"}`,
		map[string]string{"Authorization": bearer(t, uuid.New(), utils.AccountSchool)})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doRequest(t, app, http.MethodPost, "/dispatch", `{"userIds": ["`+uuid.NewString()+`"], "message": "hi"}`,
		map[string]string{"Authorization": bearer(t, uuid.New(), utils.AccountParent)})
	assert.Equal(t, http.StatusForbidden, status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkNotificationRead(t *testing.T) {
	mock := setupMockDB(t)
	userID, id := uuid.New(), uuid.New()
	auth := map[string]string{"Authorization": bearer(t, userID, utils.AccountParent)}

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE notifications SET is_read = TRUE WHERE notification_id = $1`)).
		WithArgs(id, userID).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE notifications SET is_read = TRUE WHERE notification_id = $1`)).
		WithArgs(id, userID).WillReturnResult(sqlmock.NewResult(0, 0))

	app := notificationApp()
	status, _ := doRequest(t, app, http.MethodPatch, "/notification/"+id.String()+"/read", "", auth)
	assert.Equal(t, http.StatusOK, status)
	status, _ = doRequest(t, app, http.MethodPatch, "/notification/"+id.String()+"/read", "", auth)
	assert.Equal(t, http.StatusNotFound, status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkAllNotificationsRead(t *testing.T) {
	mock := setupMockDB(t)
	userID := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`WHERE user_id = $1 AND is_read = FALSE`)).
		WithArgs(userID).WillReturnResult(sqlmock.NewResult(0, 3))

	status, body := doRequest(t, notificationApp(), http.MethodPatch, "/notification/read-all", "",
		map[string]string{"Authorization": bearer(t, userID, utils.AccountTeacher)})
	assert.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 3, body["updated"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteNotification(t *testing.T) {
	mock := setupMockDB(t)
	userID, id := uuid.New(), uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM notifications WHERE notification_id = $1 AND user_id = $2`)).
		WithArgs(id, userID).WillReturnResult(sqlmock.NewResult(0, 1))

	status, _ := doRequest(t, notificationApp(), http.MethodDelete, "/notification/"+id.String(), "",
		map[string]string{"Authorization": bearer(t, userID, utils.AccountParent)})
	assert.Equal(t, http.StatusOK, status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
