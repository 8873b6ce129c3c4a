package payment

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
)

// Metadata keys carried from checkout to the webhook.
const (
	MetadataUserID     = "userId"
	MetadataWishlistID = "wishlistId"
)

type CheckoutParams struct {
	WishlistID  uuid.UUID
	UserID      *uuid.UUID
	ItemTitle   string
	AmountMinor int64
}

type CheckoutSession struct {
	ID  string
	URL string
}

// CheckoutCreator opens a hosted payment page for a donation.
type CheckoutCreator interface {
	CreateCheckoutSession(p CheckoutParams) (CheckoutSession, error)
}

// Default is the checkout creator used by the handlers.
var Default CheckoutCreator

// StripeCheckout creates Stripe Checkout sessions in payment mode.
type StripeCheckout struct {
	Currency  string
	ClientURL string
}

func NewStripeCheckout(secretKey, currency, clientURL string) *StripeCheckout {
	stripe.Key = secretKey
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}
	return &StripeCheckout{Currency: strings.ToLower(currency), ClientURL: strings.TrimRight(clientURL, "/")}
}

func (s *StripeCheckout) CreateCheckoutSession(p CheckoutParams) (CheckoutSession, error) {
	if p.AmountMinor <= 0 {
		return CheckoutSession{}, errors.New("amount must be positive")
	}
	name := p.ItemTitle
	if name == "" {
		name = "Wishlist donation"
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(s.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(name),
					},
					UnitAmount: stripe.Int64(p.AmountMinor),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(fmt.Sprintf("%s/success?wishlistId=%s", s.ClientURL, p.WishlistID)),
		CancelURL:  stripe.String(fmt.Sprintf("%s/cancel?wishlistId=%s", s.ClientURL, p.WishlistID)),
	}
	params.AddMetadata(MetadataWishlistID, p.WishlistID.String())
	if p.UserID != nil {
		params.AddMetadata(MetadataUserID, p.UserID.String())
	}

	cs, err := session.New(params)
	if err != nil {
		return CheckoutSession{}, fmt.Errorf("unable to create checkout session: %w", err)
	}
	return CheckoutSession{ID: cs.ID, URL: cs.URL}, nil
}
