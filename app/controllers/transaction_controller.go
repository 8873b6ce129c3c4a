package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wishfund/wishfund-backend/app/models"
	"github.com/wishfund/wishfund-backend/app/queries"
	"github.com/wishfund/wishfund-backend/pkg/config"
	"github.com/wishfund/wishfund-backend/pkg/database"
	"github.com/wishfund/wishfund-backend/pkg/metrics"
	"github.com/wishfund/wishfund-backend/pkg/payment"
	"github.com/wishfund/wishfund-backend/pkg/utils"
)

// CreateCheckoutSession opens a hosted checkout for a donation to an active wishlist item.
// A valid bearer token takes precedence over the userId in the body.
func CreateCheckoutSession(c *fiber.Ctx) error {
	req := &models.CheckoutRequest{}
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	amountMinor := utils.ToMinorUnits(req.Amount)
	if amountMinor <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "amount must be greater than zero"})
	}
	if caller := optionalUser(c); caller != nil {
		req.UserID = caller
	}

	wq := queries.WishlistQueries{DB: database.DB}
	item, err := wq.GetItem(c.UserContext(), req.WishlistID)
	if err != nil {
		return queryError(c, err)
	}
	if item.Status != models.WishlistActive {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "wishlist item is not accepting donations"})
	}

	if payment.Default == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "payments are not configured"})
	}
	session, err := payment.Default.CreateCheckoutSession(payment.CheckoutParams{
		WishlistID:  item.ID,
		UserID:      req.UserID,
		ItemTitle:   item.Title,
		AmountMinor: amountMinor,
	})
	if err != nil {
		zap.L().Error("create checkout session", zap.String("wishlist", item.ID.String()), zap.Error(err))
		return c.Status(http.StatusBadGateway).JSON(fiber.Map{"error": "failed to create checkout session"})
	}

	return c.Status(fiber.StatusOK).JSON(models.CheckoutResponse{ID: session.ID, URL: session.URL})
}

// StripeWebhook books completed checkout sessions. Anything that is not a verified
// checkout.session.completed event leaves the database untouched.
func StripeWebhook(c *fiber.Ctx) error {
	ev, err := payment.VerifyEvent(c.Body(), c.Get("Stripe-Signature"), config.AppConfig.StripeWebhookSecret)
	if err != nil {
		zap.L().Warn("webhook: rejected event", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Webhook signature verification failed"})
	}

	if !payment.IsCheckoutCompleted(ev) {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"received": true})
	}

	checkout, err := payment.ParseCompletedCheckout(ev)
	if err != nil {
		zap.L().Error("webhook: unreadable checkout session", zap.String("event", ev.ID), zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	dq := queries.DonationQueries{DB: database.DB}
	donation, err := dq.SettleCheckout(c.UserContext(), queries.CheckoutSettlement{
		EventID:     checkout.EventID,
		EventType:   checkout.EventType,
		UserID:      checkout.UserID,
		WishlistID:  checkout.WishlistID,
		AmountTotal: checkout.AmountTotal,
	})
	if errors.Is(err, queries.ErrDuplicateEvent) {
		metrics.RecordDuplicateEvent()
		zap.L().Info("webhook: duplicate event", zap.String("event", checkout.EventID))
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"received": true, "duplicate": true})
	}
	if err != nil {
		zap.L().Error("webhook: settlement failed",
			zap.String("event", checkout.EventID),
			zap.String("session", checkout.SessionID),
			zap.String("wishlist", checkout.WishlistID.String()),
			zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	metrics.RecordDonation("checkout", donation.DonationAmount)
	zap.L().Info("webhook: donation settled",
		zap.String("event", checkout.EventID),
		zap.String("wishlist", donation.WishlistID.String()),
		zap.String("amount", donation.DonationAmount.String()))
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"received": true})
}

// CreateDonation books a donation made outside checkout. No fee is deducted.
func CreateDonation(c *fiber.Ctx) error {
	userID, _, err := utils.CurrentUser(c)
	if err != nil {
		return unauthorized(c, err)
	}

	req := &models.CreateDonationRequest{}
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if !req.DonationAmount.IsPositive() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "donationAmount must be greater than zero"})
	}
	if !req.DonationAmount.Equal(req.DonationAmount.Truncate(2)) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "donationAmount has more than 2 decimal places"})
	}

	ctx := c.UserContext()
	wq := queries.WishlistQueries{DB: database.DB}
	item, err := wq.GetItem(ctx, req.WishlistID)
	if err != nil {
		return queryError(c, err)
	}
	if item.Status != models.WishlistActive {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "wishlist item is not accepting donations"})
	}

	d := &models.Donation{
		ID:             uuid.New(),
		WishlistID:     item.ID,
		DonationAmount: req.DonationAmount,
		DonationTime:   time.Now().UTC(),
	}
	if !req.Anonymous {
		d.UserID = &userID
	}

	dq := queries.DonationQueries{DB: database.DB}
	if err := dq.CreateDonation(ctx, d); err != nil {
		return queryError(c, err)
	}
	metrics.RecordDonation("manual", d.DonationAmount)
	return c.Status(fiber.StatusCreated).JSON(d)
}

func GetWishlistDonations(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return invalidID(c, "wishlist")
	}

	dq := queries.DonationQueries{DB: database.DB}
	ds, err := dq.ListByWishlist(c.UserContext(), id)
	if err != nil {
		return queryError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(ds)
}

func GetMyDonations(c *fiber.Ctx) error {
	userID, _, err := utils.CurrentUser(c)
	if err != nil {
		return unauthorized(c, err)
	}

	dq := queries.DonationQueries{DB: database.DB}
	ds, err := dq.ListByUser(c.UserContext(), userID)
	if err != nil {
		return queryError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(ds)
}
