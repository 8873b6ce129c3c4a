package payment

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76/webhook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test"

func checkoutEventPayload(eventID string, metadata string, amount int64) []byte {
	return []byte(fmt.Sprintf(`{
		"id": %q,
		"object": "event",
		"type": "checkout.session.completed",
		"data": {"object": {"id": "cs_test_1", "object": "checkout.session", "amount_total": %d, "metadata": %s}}
	}`, eventID, amount, metadata))
}

func sign(payload []byte, secret string) string {
	return webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{Payload: payload, Secret: secret}).Header
}

func TestVerifyEventAndParseCheckout(t *testing.T) {
	userID, wishlistID := uuid.New(), uuid.New()
	payload := checkoutEventPayload("evt_1", fmt.Sprintf(`{"userId": %q, "wishlistId": %q}`, userID, wishlistID), 4200)

	ev, err := VerifyEvent(payload, sign(payload, testSecret), testSecret)
	require.NoError(t, err)
	require.True(t, IsCheckoutCompleted(ev))

	cc, err := ParseCompletedCheckout(ev)
	require.NoError(t, err)
	assert.Equal(t, "evt_1", cc.EventID)
	assert.Equal(t, "cs_test_1", cc.SessionID)
	assert.Equal(t, wishlistID, cc.WishlistID)
	require.NotNil(t, cc.UserID)
	assert.Equal(t, userID, *cc.UserID)
	assert.EqualValues(t, 4200, cc.AmountTotal)
}

func TestVerifyEventRejectsWrongSecret(t *testing.T) {
	payload := checkoutEventPayload("evt_1", `{}`, 100)

	_, err := VerifyEvent(payload, sign(payload, "whsec_other"), testSecret)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	_, err = VerifyEvent(payload, "", testSecret)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestParseCompletedCheckoutAnonymousAndInvalid(t *testing.T) {
	wishlistID := uuid.New()
	payload := checkoutEventPayload("evt_2", fmt.Sprintf(`{"userId": "", "wishlistId": %q}`, wishlistID), 100)
	ev, err := VerifyEvent(payload, sign(payload, testSecret), testSecret)
	require.NoError(t, err)

	cc, err := ParseCompletedCheckout(ev)
	require.NoError(t, err)
	assert.Nil(t, cc.UserID)

	payload = checkoutEventPayload("evt_3", `{"wishlistId": "nope"}`, 100)
	ev, err = VerifyEvent(payload, sign(payload, testSecret), testSecret)
	require.NoError(t, err)

	_, err = ParseCompletedCheckout(ev)
	assert.ErrorIs(t, err, ErrInvalidMetadata)
}

func TestCheckoutRejectsNonPositiveAmount(t *testing.T) {
	c := NewStripeCheckout("sk_test_x", "", "http://localhost:3000/")
	assert.Equal(t, "usd", c.Currency)
	assert.Equal(t, "http://localhost:3000", c.ClientURL)

	_, err := c.CreateCheckoutSession(CheckoutParams{WishlistID: uuid.New(), AmountMinor: 0})
	assert.Error(t, err)
}
