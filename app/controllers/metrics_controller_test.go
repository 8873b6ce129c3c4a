package controllers

import (
	"errors"
	"net/http"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/wishfund/wishfund-backend/pkg/middleware"
	"github.com/wishfund/wishfund-backend/pkg/utils"
)

func metricsApp() *fiber.App {
	app := fiber.New()
	app.Get("/generalmetrics", GetGeneralMetrics)
	app.Get("/teachermetrics", middleware.JWTProtected(), middleware.RequireAccountType(utils.AccountTeacher), GetTeacherMetrics)
	return app
}

func TestGetGeneralMetrics(t *testing.T) {
	mock := setupMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`AS total_donated`)).
		WillReturnRows(sqlmock.NewRows([]string{"total_donated", "donation_count", "distinct_donors", "active_items", "completed_items", "underfunded_items"}).
			AddRow("99.5", 3, 2, 5, 1, 0))

	status, body := doRequest(t, metricsApp(), http.MethodGet, "/generalmetrics", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "99.5", body["totalDonated"])
	assert.EqualValues(t, 3, body["donationCount"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetGeneralMetricsQueryFailure(t *testing.T) {
	mock := setupMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`AS total_donated`)).WillReturnError(errors.New("connection reset"))

	status, _ := doRequest(t, metricsApp(), http.MethodGet, "/generalmetrics", "", nil)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTeacherMetricsRequiresTeacher(t *testing.T) {
	mock := setupMockDB(t)
	teacherID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE w.teacher_id = $1`)).WithArgs(teacherID).
		WillReturnRows(sqlmock.NewRows([]string{"total_raised", "active_items", "completed_items", "underfunded_items", "suggestions", "donors"}).
			AddRow("40", 1, 0, 0, 2, 1))

	app := metricsApp()
	status, _ := doRequest(t, app, http.MethodGet, "/teachermetrics", "",
		map[string]string{"Authorization": bearer(t, uuid.New(), utils.AccountParent)})
	assert.Equal(t, http.StatusForbidden, status)

	status, body := doRequest(t, app, http.MethodGet, "/teachermetrics", "",
		map[string]string{"Authorization": bearer(t, teacherID, utils.AccountTeacher)})
	assert.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 2, body["suggestions"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
