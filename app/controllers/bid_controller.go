package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/wishfund/wishfund-backend/app/models"
	"github.com/wishfund/wishfund-backend/app/queries"
	"github.com/wishfund/wishfund-backend/pkg/database"
	"github.com/wishfund/wishfund-backend/pkg/metrics"
	"github.com/wishfund/wishfund-backend/pkg/utils"
)

func bidResult(err error) string {
	switch {
	case err == nil:
		return "accepted"
	case errors.Is(err, queries.ErrBelowStartingPrice):
		return "below_start"
	case errors.Is(err, queries.ErrAdvertisementClosed):
		return "closed"
	case errors.Is(err, queries.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

// PlaceBid records a business's bid. The bidder is always the caller.
func PlaceBid(c *fiber.Ctx) error {
	userID, _, err := utils.CurrentUser(c)
	if err != nil {
		return unauthorized(c, err)
	}

	req := &models.PlaceBidRequest{}
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if !req.Price.IsPositive() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "price must be greater than zero"})
	}

	bid := &models.Bid{
		ID:              uuid.New(),
		AdvertisementID: req.AdvertisementID,
		BusinessID:      userID,
		Price:           req.Price,
		BidingDate:      time.Now(),
	}

	bq := queries.BidQueries{DB: database.DB}
	ad, err := bq.PlaceBid(c.UserContext(), bid)
	metrics.RecordBid(bidResult(err))
	if err != nil {
		if errors.Is(err, queries.ErrBelowStartingPrice) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":         err.Error(),
				"startingPrice": ad.StartingPrice,
			})
		}
		return queryError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"bid":           bid,
		"advertisement": ad,
	})
}

func WithdrawBid(c *fiber.Ctx) error {
	userID, claims, err := utils.CurrentUser(c)
	if err != nil {
		return unauthorized(c, err)
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return invalidID(c, "bid")
	}

	bq := queries.BidQueries{DB: database.DB}
	ad, err := bq.WithdrawBid(c.UserContext(), id, userID, utils.IsAdmin(claims))
	if err != nil {
		return queryError(c, err)
	}
	metrics.RecordBidWithdrawn()
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":       "Bid withdrawn",
		"advertisement": ad,
	})
}

func GetAdvertisementBids(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return invalidID(c, "advertisement")
	}

	bq := queries.BidQueries{DB: database.DB}
	bids, err := bq.ListBidsByAdvertisement(c.UserContext(), id)
	if err != nil {
		return queryError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(bids)
}

func GetMyBids(c *fiber.Ctx) error {
	userID, _, err := utils.CurrentUser(c)
	if err != nil {
		return unauthorized(c, err)
	}

	bq := queries.BidQueries{DB: database.DB}
	bids, err := bq.ListBidsByBusiness(c.UserContext(), userID)
	if err != nil {
		return queryError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(bids)
}
