package controllers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/wishfund/wishfund-backend/app/models"
	"github.com/wishfund/wishfund-backend/app/queries"
	"github.com/wishfund/wishfund-backend/pkg/database"
	"github.com/wishfund/wishfund-backend/pkg/storage"
	"github.com/wishfund/wishfund-backend/pkg/utils"
)

// CreateAdvertisement reads a multipart form with title, details, startingPrice and an optional image.
func CreateAdvertisement(c *fiber.Ctx) error {
	userID, _, err := utils.CurrentUser(c)
	if err != nil {
		return unauthorized(c, err)
	}

	startingPrice, err := decimal.NewFromString(c.FormValue("startingPrice"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "startingPrice must be a number"})
	}
	req := &models.CreateAdvertisementRequest{
		Title:         c.FormValue("title"),
		Details:       c.FormValue("details"),
		StartingPrice: startingPrice,
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.StartingPrice.IsNegative() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "startingPrice must not be negative"})
	}

	image, err := saveUpload(c, "image", storage.DirAds)
	if err != nil {
		return c.Status(uploadStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	ad := &models.Advertisement{
		ID:            uuid.New(),
		SchoolID:      userID,
		StartingPrice: req.StartingPrice,
		Image:         image,
		Details:       utils.SanitizeHTML(req.Details),
		Title:         utils.SanitizeText(req.Title),
		CreationDate:  time.Now(),
	}

	aq := queries.AdvertisementQueries{DB: database.DB}
	if err := aq.CreateAdvertisement(c.UserContext(), ad); err != nil {
		return queryError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(ad)
}

func GetAdvertisements(c *fiber.Ctx) error {
	aq := queries.AdvertisementQueries{DB: database.DB}
	ads, err := aq.ListOpenAdvertisements(c.UserContext())
	if err != nil {
		return queryError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(ads)
}

// GetAdvertisement returns the advertisement with its bids, highest first.
func GetAdvertisement(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return invalidID(c, "advertisement")
	}

	ctx := c.UserContext()
	aq := queries.AdvertisementQueries{DB: database.DB}
	ad, err := aq.GetAdvertisement(ctx, id)
	if err != nil {
		return queryError(c, err)
	}

	bq := queries.BidQueries{DB: database.DB}
	bids, err := bq.ListBidsByAdvertisement(ctx, id)
	if err != nil {
		return queryError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(models.AdvertisementWithBids{Advertisement: ad, Bids: bids})
}

func GetSchoolAdvertisements(c *fiber.Ctx) error {
	schoolID, ok := paramUUID(c, "schoolId")
	if !ok {
		return invalidID(c, "school")
	}

	aq := queries.AdvertisementQueries{DB: database.DB}
	ads, err := aq.ListBySchool(c.UserContext(), schoolID)
	if err != nil {
		return queryError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(ads)
}

// ownedAdvertisement loads the :id advertisement and checks the caller is its school or an admin.
func ownedAdvertisement(c *fiber.Ctx, aq *queries.AdvertisementQueries) (models.Advertisement, error) {
	userID, claims, err := utils.CurrentUser(c)
	if err != nil {
		return models.Advertisement{}, err
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return models.Advertisement{}, queries.ErrNotFound
	}
	ad, err := aq.GetAdvertisement(c.UserContext(), id)
	if err != nil {
		return ad, err
	}
	if ad.SchoolID != userID && !utils.IsAdmin(claims) {
		return ad, queries.ErrForbidden
	}
	return ad, nil
}

func DeleteAdvertisement(c *fiber.Ctx) error {
	aq := queries.AdvertisementQueries{DB: database.DB}
	ad, err := ownedAdvertisement(c, &aq)
	if err != nil {
		return queryError(c, err)
	}
	if err := aq.DeleteAdvertisement(c.UserContext(), ad.ID); err != nil {
		return queryError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Advertisement deleted"})
}

// SelectWinner closes the advertisement with the bidder and price chosen by the school.
func SelectWinner(c *fiber.Ctx) error {
	req := &models.SelectWinnerRequest{}
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.HighestBiddingPrice.IsNegative() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "highestBiddingPrice must not be negative"})
	}

	aq := queries.AdvertisementQueries{DB: database.DB}
	ad, err := ownedAdvertisement(c, &aq)
	if err != nil {
		return queryError(c, err)
	}
	if err := aq.SelectWinner(c.UserContext(), ad.ID, req.HighestBidderID, req.HighestBiddingPrice); err != nil {
		return queryError(c, err)
	}

	winner := req.HighestBidderID
	ad.HighestBidderID = &winner
	ad.HighestBiddingPrice = req.HighestBiddingPrice
	ad.Status = models.AdvertisementClosed
	return c.Status(fiber.StatusOK).JSON(ad)
}

// CheckUnsuccessfulBids collects the caller's closed advertisements that have not been
// announced yet, notifies their losing bidders and returns the results. Admins sweep every school.
func CheckUnsuccessfulBids(c *fiber.Ctx) error {
	userID, claims, err := utils.CurrentUser(c)
	if err != nil {
		return unauthorized(c, err)
	}
	var schoolID *uuid.UUID
	if !utils.IsAdmin(claims) {
		schoolID = &userID
	}

	ctx := c.UserContext()
	aq := queries.AdvertisementQueries{DB: database.DB}
	results, err := aq.CollectClosedAuctionResults(ctx, schoolID)
	if err != nil {
		return queryError(c, err)
	}

	now := time.Now()
	notifications := lo.FlatMap(results, func(r models.AuctionResult, _ int) []models.Notification {
		return lo.Map(r.UnsuccessfulBidderIDs, func(id uuid.UUID, _ int) models.Notification {
			return models.Notification{
				ID:        uuid.New(),
				UserID:    id,
				Type:      "bid",
				Message:   "Your bid was not successful",
				Link:      fmt.Sprintf("/advertisement/%s", r.AdvertisementID),
				CreatedAt: now,
			}
		})
	})
	if len(notifications) > 0 {
		nq := queries.NotificationQueries{DB: database.DB}
		if err := nq.CreateNotifications(ctx, notifications); err != nil {
			zap.L().Error("store unsuccessful bid notifications", zap.Error(err))
		} else {
			pushNotifications(notifications)
		}
	}

	return c.Status(fiber.StatusOK).JSON(results)
}
