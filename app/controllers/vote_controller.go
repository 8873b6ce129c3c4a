package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wishfund/wishfund-backend/app/queries"
	"github.com/wishfund/wishfund-backend/pkg/database"
	"github.com/wishfund/wishfund-backend/pkg/utils"
)

// Vote counts one vote of the caller for a wishlist item. A second vote is rejected.
func Vote(c *fiber.Ctx) error {
	userID, _, err := utils.CurrentUser(c)
	if err != nil {
		return unauthorized(c, err)
	}
	itemID, ok := paramUUID(c, "itemId")
	if !ok {
		return invalidID(c, "wishlist item")
	}

	ctx := c.UserContext()
	vq := queries.VoteQueries{DB: database.DB}
	if err := vq.Vote(ctx, userID, itemID); err != nil {
		return queryError(c, err)
	}
	summary, err := vq.Summary(ctx, itemID, userID)
	if err != nil {
		return queryError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(summary)
}

func Unvote(c *fiber.Ctx) error {
	userID, _, err := utils.CurrentUser(c)
	if err != nil {
		return unauthorized(c, err)
	}
	itemID, ok := paramUUID(c, "itemId")
	if !ok {
		return invalidID(c, "wishlist item")
	}

	vq := queries.VoteQueries{DB: database.DB}
	if err := vq.Unvote(c.UserContext(), userID, itemID); err != nil {
		return queryError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Vote removed"})
}

func GetVotes(c *fiber.Ctx) error {
	userID, _, err := utils.CurrentUser(c)
	if err != nil {
		return unauthorized(c, err)
	}
	itemID, ok := paramUUID(c, "itemId")
	if !ok {
		return invalidID(c, "wishlist item")
	}

	vq := queries.VoteQueries{DB: database.DB}
	summary, err := vq.Summary(c.UserContext(), itemID, userID)
	if err != nil {
		return queryError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(summary)
}
