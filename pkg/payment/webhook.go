package payment

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
)

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrInvalidMetadata  = errors.New("checkout session has no valid wishlistId metadata")
)

// CompletedCheckout is the data needed to book a paid checkout session.
type CompletedCheckout struct {
	EventID     string
	EventType   string
	SessionID   string
	UserID      *uuid.UUID
	WishlistID  uuid.UUID
	AmountTotal int64
}

// VerifyEvent checks the Stripe-Signature header against secret and decodes the event.
func VerifyEvent(payload []byte, signature, secret string) (stripe.Event, error) {
	ev, err := webhook.ConstructEventWithOptions(payload, signature, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return ev, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return ev, nil
}

func IsCheckoutCompleted(ev stripe.Event) bool {
	return ev.Type == stripe.EventTypeCheckoutSessionCompleted
}

// ParseCompletedCheckout reads the session of a checkout.session.completed event. A userId
// that is missing or not a uuid is treated as an anonymous payer.
func ParseCompletedCheckout(ev stripe.Event) (CompletedCheckout, error) {
	out := CompletedCheckout{EventID: ev.ID, EventType: string(ev.Type)}
	if ev.Data == nil {
		return out, errors.New("event has no data")
	}

	var cs stripe.CheckoutSession
	if err := json.Unmarshal(ev.Data.Raw, &cs); err != nil {
		return out, fmt.Errorf("unable to decode checkout session: %w", err)
	}
	out.SessionID = cs.ID
	out.AmountTotal = cs.AmountTotal

	wishlistID, err := uuid.Parse(cs.Metadata[MetadataWishlistID])
	if err != nil {
		return out, ErrInvalidMetadata
	}
	out.WishlistID = wishlistID

	if raw := cs.Metadata[MetadataUserID]; raw != "" {
		if userID, err := uuid.Parse(raw); err == nil {
			out.UserID = &userID
		}
	}
	return out, nil
}
