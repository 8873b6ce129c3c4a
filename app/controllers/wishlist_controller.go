package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wishfund/wishfund-backend/app/models"
	"github.com/wishfund/wishfund-backend/app/queries"
	"github.com/wishfund/wishfund-backend/pkg/database"
	"github.com/wishfund/wishfund-backend/pkg/storage"
	"github.com/wishfund/wishfund-backend/pkg/utils"
)

const (
	defaultDiscoverLimit = 20
	maxDiscoverLimit     = 100
)

func CreateWishlistItem(c *fiber.Ctx) error {
	userID, _, err := utils.CurrentUser(c)
	if err != nil {
		return unauthorized(c, err)
	}

	req := &models.CreateWishlistItemRequest{}
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if !req.GoalValue.IsPositive() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "goalValue must be greater than zero"})
	}
	now := time.Now()
	if req.Deadline != nil && req.Deadline.Before(now) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "deadline must be in the future"})
	}

	item := &models.WishlistItem{
		ID:                  uuid.New(),
		TeacherID:           userID,
		Title:               utils.SanitizeText(req.Title),
		Description:         utils.SanitizeHTML(req.Description),
		GoalValue:           req.GoalValue,
		CurrentValue:        decimal.Zero,
		Status:              models.WishlistActive,
		Deadline:            req.Deadline,
		PlatformFulfillment: req.PlatformFulfillment,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	wq := queries.WishlistQueries{DB: database.DB}
	if err := wq.CreateItem(c.UserContext(), item); err != nil {
		return queryError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

func GetWishlistItem(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return invalidID(c, "wishlist item")
	}

	wq := queries.WishlistQueries{DB: database.DB}
	item, err := wq.GetItem(c.UserContext(), id)
	if err != nil {
		return queryError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(item)
}

func GetTeacherWishlist(c *fiber.Ctx) error {
	teacherID, ok := paramUUID(c, "teacherId")
	if !ok {
		return invalidID(c, "teacher")
	}

	wq := queries.WishlistQueries{DB: database.DB}
	items, err := wq.ListByTeacher(c.UserContext(), teacherID)
	if err != nil {
		return queryError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(items)
}

// ownedItem loads the item and checks the caller is its teacher or an admin.
func ownedItem(c *fiber.Ctx, wq *queries.WishlistQueries) (models.WishlistItem, error) {
	userID, claims, err := utils.CurrentUser(c)
	if err != nil {
		return models.WishlistItem{}, err
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return models.WishlistItem{}, queries.ErrNotFound
	}
	item, err := wq.GetItem(c.UserContext(), id)
	if err != nil {
		return item, err
	}
	if item.TeacherID != userID && !utils.IsAdmin(claims) {
		return item, queries.ErrForbidden
	}
	return item, nil
}

func UpdateWishlistItem(c *fiber.Ctx) error {
	req := &models.UpdateWishlistItemRequest{}
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.GoalValue != nil && !req.GoalValue.IsPositive() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "goalValue must be greater than zero"})
	}
	if req.Title != nil {
		v := utils.SanitizeText(*req.Title)
		req.Title = &v
	}
	if req.Description != nil {
		v := utils.SanitizeHTML(*req.Description)
		req.Description = &v
	}

	wq := queries.WishlistQueries{DB: database.DB}
	item, err := ownedItem(c, &wq)
	if err != nil {
		return queryError(c, err)
	}
	if err := wq.UpdateItem(c.UserContext(), item.ID, req); err != nil {
		return queryError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Wishlist item updated"})
}

func UpdateWishlistFulfillment(c *fiber.Ctx) error {
	req := &models.FulfillmentRequest{}
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	wq := queries.WishlistQueries{DB: database.DB}
	item, err := ownedItem(c, &wq)
	if err != nil {
		return queryError(c, err)
	}
	if err := wq.UpdateFulfillment(c.UserContext(), item.ID, req); err != nil {
		return queryError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Fulfillment updated"})
}

func UploadWishlistImage(c *fiber.Ctx) error {
	if _, err := c.FormFile("image"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "image file is required"})
	}

	wq := queries.WishlistQueries{DB: database.DB}
	item, err := ownedItem(c, &wq)
	if err != nil {
		return queryError(c, err)
	}

	url, err := saveUpload(c, "image", storage.DirItems)
	if err != nil {
		return c.Status(uploadStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	if err := wq.UpdateImage(c.UserContext(), item.ID, url); err != nil {
		return queryError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"image": url})
}

func DeleteWishlistItem(c *fiber.Ctx) error {
	wq := queries.WishlistQueries{DB: database.DB}
	item, err := ownedItem(c, &wq)
	if err != nil {
		return queryError(c, err)
	}
	if err := wq.DeleteItem(c.UserContext(), item.ID); err != nil {
		return queryError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Wishlist item deleted"})
}

// CreateSuggestion lets a parent propose an item for a teacher's wishlist.
func CreateSuggestion(c *fiber.Ctx) error {
	userID, _, err := utils.CurrentUser(c)
	if err != nil {
		return unauthorized(c, err)
	}

	req := &models.CreateSuggestionRequest{}
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if !req.GoalValue.IsPositive() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "goalValue must be greater than zero"})
	}

	ctx := c.UserContext()
	userQueries := queries.UserQueries{DB: database.DB}
	teacher, err := userQueries.GetUserByID(ctx, req.TeacherID)
	if err != nil {
		return queryError(c, err)
	}
	if teacher.AccountType != utils.AccountTeacher {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "teacherId does not belong to a teacher"})
	}

	now := time.Now()
	parentID := userID
	item := &models.WishlistItem{
		ID:           uuid.New(),
		TeacherID:    teacher.ID,
		ParentID:     &parentID,
		Title:        utils.SanitizeText(req.Title),
		Description:  utils.SanitizeHTML(req.Description),
		GoalValue:    req.GoalValue,
		CurrentValue: decimal.Zero,
		Status:       models.WishlistSuggestion,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	wq := queries.WishlistQueries{DB: database.DB}
	if err := wq.CreateItem(ctx, item); err != nil {
		return queryError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

func GetSuggestions(c *fiber.Ctx) error {
	userID, _, err := utils.CurrentUser(c)
	if err != nil {
		return unauthorized(c, err)
	}

	wq := queries.WishlistQueries{DB: database.DB}
	items, err := wq.ListSuggestions(c.UserContext(), userID)
	if err != nil {
		return queryError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(items)
}

func AcceptSuggestion(c *fiber.Ctx) error {
	userID, _, err := utils.CurrentUser(c)
	if err != nil {
		return unauthorized(c, err)
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return invalidID(c, "suggestion")
	}

	req := &models.AcceptSuggestionRequest{}
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.Deadline.Before(time.Now()) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "deadline must be in the future"})
	}

	wq := queries.WishlistQueries{DB: database.DB}
	if err := wq.AcceptSuggestion(c.UserContext(), id, userID, req.Deadline); err != nil {
		return queryError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Suggestion accepted"})
}

func RejectSuggestion(c *fiber.Ctx) error {
	userID, _, err := utils.CurrentUser(c)
	if err != nil {
		return unauthorized(c, err)
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return invalidID(c, "suggestion")
	}

	wq := queries.WishlistQueries{DB: database.DB}
	if err := wq.RejectSuggestion(c.UserContext(), id, userID); err != nil {
		return queryError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Suggestion rejected"})
}

func Discover(c *fiber.Ctx) error {
	limit := queryInt(c, "limit", defaultDiscoverLimit, maxDiscoverLimit)
	if limit == 0 {
		limit = defaultDiscoverLimit
	}
	offset := queryInt(c, "offset", 0, 0)

	wq := queries.WishlistQueries{DB: database.DB}
	items, err := wq.Discover(c.UserContext(), c.Query("search"), limit, offset)
	if err != nil {
		return queryError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(items)
}

func DiscoverClassrooms(c *fiber.Ctx) error {
	wq := queries.WishlistQueries{DB: database.DB}
	classrooms, err := wq.DiscoverClassrooms(c.UserContext())
	if err != nil {
		return queryError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(classrooms)
}
