package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/wishfund/wishfund-backend/pkg/config"
	"github.com/wishfund/wishfund-backend/pkg/middleware"
	"github.com/wishfund/wishfund-backend/pkg/payment"
	"github.com/wishfund/wishfund-backend/pkg/utils"
)

const testWebhookSecret = "whsec_controller_test"

var (
	ledgerQuery      = regexp.QuoteMeta(`INSERT INTO stripe_events (event_id, event_type) VALUES ($1, $2) ON CONFLICT (event_id) DO NOTHING`)
	accountTypeQuery = regexp.QuoteMeta(`SELECT account_type FROM users WHERE uid = $1`)
	rateQuery        = regexp.QuoteMeta(`SELECT transaction_rate FROM transaction_fees WHERE account_type = $1 ORDER BY updated_at DESC LIMIT 1`)
	insertDonation   = regexp.QuoteMeta(`INSERT INTO donations`)
	creditQuery      = regexp.QuoteMeta(`UPDATE wishlist_items`)
	getItemQuery     = regexp.QuoteMeta(`FROM wishlist_items WHERE wishlist_item_id = $1`)
)

func webhookApp(t *testing.T) *fiber.App {
	t.Helper()
	config.AppConfig.StripeWebhookSecret = testWebhookSecret
	app := fiber.New()
	app.Post("/webhook", StripeWebhook)
	return app
}

func checkoutEvent(eventID, eventType, metadata string, amount int64) string {
	return fmt.Sprintf(`{
		"id": %q,
		"object": "event",
		"type": %q,
		"data": {"object": {"id": "cs_test", "object": "checkout.session", "amount_total": %d, "metadata": %s}}
	}`, eventID, eventType, amount, metadata)
}

func signed(payload string) map[string]string {
	header := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: []byte(payload),
		Secret:  testWebhookSecret,
	}).Header
	return map[string]string{"Stripe-Signature": header}
}

func wishlistRow(id uuid.UUID, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"wishlist_item_id", "teacher_id", "parent_id", "title", "description", "image", "goal_value", "current_value",
		"status", "deadline", "platform_fulfillment", "funds_transferred", "is_money_withdrawn", "is_item_bought",
		"is_underfunded", "created_at", "updated_at",
	}).AddRow(id.String(), uuid.NewString(), nil, "Microscopes", "", "", "500", "0",
		status, nil, false, false, false, false, false, time.Now(), time.Now())
}

func TestStripeWebhookRejectsBadSignature(t *testing.T) {
	mock := setupMockDB(t)
	payload := checkoutEvent("evt_bad", "checkout.session.completed", fmt.Sprintf(`{"wishlistId": %q}`, uuid.New()), 1000)

	status, _ := doRequest(t, webhookApp(t), http.MethodPost, "/webhook", payload, map[string]string{"Stripe-Signature": "t=1,v1=deadbeef"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doRequest(t, webhookApp(t), http.MethodPost, "/webhook", payload, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStripeWebhookIgnoresOtherEvents(t *testing.T) {
	mock := setupMockDB(t)
	payload := checkoutEvent("evt_other", "payment_intent.succeeded", `{}`, 1000)

	status, body := doRequest(t, webhookApp(t), http.MethodPost, "/webhook", payload, signed(payload))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["received"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStripeWebhookSettlesCheckout(t *testing.T) {
	mock := setupMockDB(t)
	userID, wishlistID := uuid.New(), uuid.New()
	payload := checkoutEvent("evt_ok", "checkout.session.completed",
		fmt.Sprintf(`{"userId": %q, "wishlistId": %q}`, userID, wishlistID), 10000)

	mock.ExpectBegin()
	mock.ExpectExec(ledgerQuery).WithArgs("evt_ok", "checkout.session.completed").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(accountTypeQuery).WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"account_type"}).AddRow("parent"))
	mock.ExpectQuery(rateQuery).WithArgs("parent").
		WillReturnRows(sqlmock.NewRows([]string{"transaction_rate"}).AddRow("0.05"))
	mock.ExpectExec(insertDonation).
		WithArgs(sqlmock.AnyArg(), userID, wishlistID, "95", sqlmock.AnyArg(), "evt_ok").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(creditQuery).WithArgs(wishlistID, "95").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	status, body := doRequest(t, webhookApp(t), http.MethodPost, "/webhook", payload, signed(payload))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["received"])
	assert.Nil(t, body["duplicate"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStripeWebhookDuplicateEvent(t *testing.T) {
	mock := setupMockDB(t)
	payload := checkoutEvent("evt_dup", "checkout.session.completed", fmt.Sprintf(`{"wishlistId": %q}`, uuid.New()), 10000)

	mock.ExpectBegin()
	mock.ExpectExec(ledgerQuery).WithArgs("evt_dup", "checkout.session.completed").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	status, body := doRequest(t, webhookApp(t), http.MethodPost, "/webhook", payload, signed(payload))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["duplicate"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStripeWebhookFailureAsksForRetry(t *testing.T) {
	mock := setupMockDB(t)
	payload := checkoutEvent("evt_nofee", "checkout.session.completed", fmt.Sprintf(`{"wishlistId": %q}`, uuid.New()), 10000)

	mock.ExpectBegin()
	mock.ExpectExec(ledgerQuery).WithArgs("evt_nofee", "checkout.session.completed").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(rateQuery).WithArgs("parent").WillReturnRows(sqlmock.NewRows([]string{"transaction_rate"}))
	mock.ExpectRollback()

	status, _ := doRequest(t, webhookApp(t), http.MethodPost, "/webhook", payload, signed(payload))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStripeWebhookMissingWishlistMetadata(t *testing.T) {
	mock := setupMockDB(t)
	payload := checkoutEvent("evt_meta", "checkout.session.completed", `{}`, 10000)

	status, _ := doRequest(t, webhookApp(t), http.MethodPost, "/webhook", payload, signed(payload))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

type fakeCheckout struct {
	got     payment.CheckoutParams
	calls   int
	session payment.CheckoutSession
	err     error
}

func (f *fakeCheckout) CreateCheckoutSession(p payment.CheckoutParams) (payment.CheckoutSession, error) {
	f.calls++
	f.got = p
	return f.session, f.err
}

func withCheckout(t *testing.T, f *fakeCheckout) {
	t.Helper()
	prev := payment.Default
	payment.Default = f
	t.Cleanup(func() { payment.Default = prev })
}

func checkoutApp() *fiber.App {
	app := fiber.New()
	app.Post("/api/create-checkout-session", CreateCheckoutSession)
	return app
}

func TestCreateCheckoutSession(t *testing.T) {
	mock := setupMockDB(t)
	fake := &fakeCheckout{session: payment.CheckoutSession{ID: "cs_123", URL: "https://checkout.example/cs_123"}}
	withCheckout(t, fake)
	wishlistID, bodyUser, tokenUser := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectQuery(getItemQuery).WithArgs(wishlistID).WillReturnRows(wishlistRow(wishlistID, "active"))

	status, body := doRequest(t, checkoutApp(), http.MethodPost, "/api/create-checkout-session",
		fmt.Sprintf(`{"wishlistId": %q, "amount": "25.50", "userId": %q}`, wishlistID, bodyUser),
		map[string]string{"Authorization": bearer(t, tokenUser, utils.AccountTeacher)})

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "cs_123", body["id"])
	assert.Equal(t, "https://checkout.example/cs_123", body["url"])
	assert.EqualValues(t, 2550, fake.got.AmountMinor)
	assert.Equal(t, "Microscopes", fake.got.ItemTitle)
	require.NotNil(t, fake.got.UserID)
	assert.Equal(t, tokenUser, *fake.got.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCheckoutSessionRejectsInactiveItem(t *testing.T) {
	mock := setupMockDB(t)
	fake := &fakeCheckout{}
	withCheckout(t, fake)
	wishlistID := uuid.New()

	mock.ExpectQuery(getItemQuery).WithArgs(wishlistID).WillReturnRows(wishlistRow(wishlistID, "completed"))

	status, _ := doRequest(t, checkoutApp(), http.MethodPost, "/api/create-checkout-session",
		fmt.Sprintf(`{"wishlistId": %q, "amount": 10}`, wishlistID), nil)

	assert.Equal(t, http.StatusConflict, status)
	assert.Zero(t, fake.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCheckoutSessionProviderFailure(t *testing.T) {
	mock := setupMockDB(t)
	withCheckout(t, &fakeCheckout{err: errors.New("stripe down")})
	wishlistID := uuid.New()

	mock.ExpectQuery(getItemQuery).WithArgs(wishlistID).WillReturnRows(wishlistRow(wishlistID, "active"))

	status, _ := doRequest(t, checkoutApp(), http.MethodPost, "/api/create-checkout-session",
		fmt.Sprintf(`{"wishlistId": %q, "amount": 10}`, wishlistID), nil)
	assert.Equal(t, http.StatusBadGateway, status)

	status, _ = doRequest(t, checkoutApp(), http.MethodPost, "/api/create-checkout-session",
		fmt.Sprintf(`{"wishlistId": %q, "amount": 0}`, wishlistID), nil)
	assert.Equal(t, http.StatusBadRequest, status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDonationAnonymous(t *testing.T) {
	mock := setupMockDB(t)
	wishlistID := uuid.New()

	mock.ExpectQuery(getItemQuery).WithArgs(wishlistID).WillReturnRows(wishlistRow(wishlistID, "active"))
	mock.ExpectBegin()
	mock.ExpectExec(insertDonation).
		WithArgs(sqlmock.AnyArg(), nil, wishlistID, "20", sqlmock.AnyArg(), nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(creditQuery).WithArgs(wishlistID, "20").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	app := fiber.New()
	app.Post("/donations", middleware.JWTProtected(), CreateDonation)

	status, body := doRequest(t, app, http.MethodPost, "/donations",
		fmt.Sprintf(`{"wishlistId": %q, "donationAmount": 20, "anonymous": true}`, wishlistID),
		map[string]string{"Authorization": bearer(t, uuid.New(), utils.AccountParent)})

	assert.Equal(t, http.StatusCreated, status)
	assert.Nil(t, body["userId"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDonationRejectsSubCentAmount(t *testing.T) {
	mock := setupMockDB(t)

	app := fiber.New()
	app.Post("/donations", middleware.JWTProtected(), CreateDonation)

	status, _ := doRequest(t, app, http.MethodPost, "/donations",
		fmt.Sprintf(`{"wishlistId": %q, "donationAmount": "10.005"}`, uuid.New()),
		map[string]string{"Authorization": bearer(t, uuid.New(), utils.AccountParent)})

	assert.Equal(t, http.StatusBadRequest, status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
