package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/wishfund/wishfund-backend/app/models"
	"github.com/wishfund/wishfund-backend/app/queries"
	"github.com/wishfund/wishfund-backend/pkg/database"
	"github.com/wishfund/wishfund-backend/pkg/storage"
	"github.com/wishfund/wishfund-backend/pkg/utils"
)

// CreateStory reads a multipart form with title, content, an optional wishlistId and image.
func CreateStory(c *fiber.Ctx) error {
	userID, _, err := utils.CurrentUser(c)
	if err != nil {
		return unauthorized(c, err)
	}

	req := &models.CreateStoryRequest{
		Title:      c.FormValue("title"),
		Content:    c.FormValue("content"),
		WishlistID: c.FormValue("wishlistId"),
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	story := &models.Story{
		ID:        uuid.New(),
		AuthorID:  userID,
		Title:     utils.SanitizeText(req.Title),
		Content:   utils.SanitizeHTML(req.Content),
		CreatedAt: time.Now(),
	}
	if req.WishlistID != "" {
		id := uuid.MustParse(req.WishlistID)
		story.WishlistID = &id
	}

	image, err := saveUpload(c, "image", storage.DirStories)
	if err != nil {
		return c.Status(uploadStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	story.Image = image

	sq := queries.StoryQueries{DB: database.DB}
	if err := sq.CreateStory(c.UserContext(), story); err != nil {
		return queryError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(story)
}

func GetStories(c *fiber.Ctx) error {
	limit := queryInt(c, "limit", 20, 100)
	if limit == 0 {
		limit = 20
	}
	offset := queryInt(c, "offset", 0, 0)

	sq := queries.StoryQueries{DB: database.DB}
	stories, err := sq.ListStories(c.UserContext(), limit, offset)
	if err != nil {
		return queryError(c, err)
	}
	return c.JSON(stories)
}

func GetStory(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return invalidID(c, "story")
	}

	sq := queries.StoryQueries{DB: database.DB}
	story, err := sq.GetStory(c.UserContext(), id)
	if err != nil {
		return queryError(c, err)
	}
	return c.JSON(story)
}

func DeleteStory(c *fiber.Ctx) error {
	userID, claims, err := utils.CurrentUser(c)
	if err != nil {
		return unauthorized(c, err)
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return invalidID(c, "story")
	}

	ctx := c.UserContext()
	sq := queries.StoryQueries{DB: database.DB}
	story, err := sq.GetStory(ctx, id)
	if err != nil {
		return queryError(c, err)
	}
	if story.AuthorID != userID && !utils.IsAdmin(claims) {
		return queryError(c, queries.ErrForbidden)
	}
	if err := sq.DeleteStory(ctx, id); err != nil {
		return queryError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Story deleted"})
}
