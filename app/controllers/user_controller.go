package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wishfund/wishfund-backend/app/models"
	"github.com/wishfund/wishfund-backend/app/queries"
	"github.com/wishfund/wishfund-backend/pkg/database"
	"github.com/wishfund/wishfund-backend/pkg/storage"
	"github.com/wishfund/wishfund-backend/pkg/utils"
)

func UserProfile(c *fiber.Ctx) error {
	userID, _, err := utils.CurrentUser(c)
	if err != nil {
		return unauthorized(c, err)
	}

	userQueries := queries.UserQueries{DB: database.DB}
	user, err := userQueries.GetUserByID(c.UserContext(), userID)
	if err != nil {
		return queryError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(user)
}

// GetUserByID returns the public part of another account.
func GetUserByID(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return invalidID(c, "user")
	}

	userQueries := queries.UserQueries{DB: database.DB}
	user, err := userQueries.GetUserByID(c.UserContext(), id)
	if err != nil {
		return queryError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(user.Public())
}

func UpdateUser(c *fiber.Ctx) error {
	userID, _, err := utils.CurrentUser(c)
	if err != nil {
		return unauthorized(c, err)
	}

	payload := &models.UpdateUserRequest{}
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if payload.Username != nil {
		v := utils.SanitizeText(*payload.Username)
		payload.Username = &v
	}
	if payload.SchoolName != nil {
		v := utils.SanitizeText(*payload.SchoolName)
		payload.SchoolName = &v
	}

	userQueries := queries.UserQueries{DB: database.DB}
	if err := userQueries.UpdateUser(c.UserContext(), userID, payload); err != nil {
		return queryError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "User updated"})
}

// UploadAvatar stores the "avatar" form file and points the profile at it.
func UploadAvatar(c *fiber.Ctx) error {
	userID, _, err := utils.CurrentUser(c)
	if err != nil {
		return unauthorized(c, err)
	}

	if _, err := c.FormFile("avatar"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "avatar file is required"})
	}
	url, err := saveUpload(c, "avatar", storage.DirAvatars)
	if err != nil {
		return c.Status(uploadStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	userQueries := queries.UserQueries{DB: database.DB}
	if err := userQueries.UpdateUser(c.UserContext(), userID, &models.UpdateUserRequest{Avatar: &url}); err != nil {
		return queryError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"avatar": url})
}

func DeleteUser(c *fiber.Ctx) error {
	userID, _, err := utils.CurrentUser(c)
	if err != nil {
		return unauthorized(c, err)
	}

	userQueries := queries.UserQueries{DB: database.DB}
	if err := userQueries.DeleteProfile(c.UserContext(), userID); err != nil {
		return queryError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "User deleted"})
}

// ListTeachers lists verified teacher accounts for donors browsing classrooms.
func ListTeachers(c *fiber.Ctx) error {
	userQueries := queries.UserQueries{DB: database.DB}
	users, err := userQueries.GetUsersByAccountType(c.UserContext(), utils.AccountTeacher)
	if err != nil {
		return queryError(c, err)
	}

	out := make([]models.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return c.Status(fiber.StatusOK).JSON(out)
}
