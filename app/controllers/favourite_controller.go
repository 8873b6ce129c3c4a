package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wishfund/wishfund-backend/app/queries"
	"github.com/wishfund/wishfund-backend/pkg/database"
	"github.com/wishfund/wishfund-backend/pkg/utils"
)

func AddFavouriteItem(c *fiber.Ctx) error {
	userID, _, err := utils.CurrentUser(c)
	if err != nil {
		return unauthorized(c, err)
	}
	itemID, ok := paramUUID(c, "itemId")
	if !ok {
		return invalidID(c, "wishlist item")
	}

	fq := queries.FavouriteQueries{DB: database.DB}
	if err := fq.AddItem(c.UserContext(), userID, itemID); err != nil {
		return queryError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Item added to favourites"})
}

func RemoveFavouriteItem(c *fiber.Ctx) error {
	userID, _, err := utils.CurrentUser(c)
	if err != nil {
		return unauthorized(c, err)
	}
	itemID, ok := paramUUID(c, "itemId")
	if !ok {
		return invalidID(c, "wishlist item")
	}

	fq := queries.FavouriteQueries{DB: database.DB}
	if err := fq.RemoveItem(c.UserContext(), userID, itemID); err != nil {
		return queryError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Item removed from favourites"})
}

func GetFavouriteItems(c *fiber.Ctx) error {
	userID, _, err := utils.CurrentUser(c)
	if err != nil {
		return unauthorized(c, err)
	}

	fq := queries.FavouriteQueries{DB: database.DB}
	items, err := fq.ListItems(c.UserContext(), userID)
	if err != nil {
		return queryError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(items)
}

func AddFavouriteClassroom(c *fiber.Ctx) error {
	userID, _, err := utils.CurrentUser(c)
	if err != nil {
		return unauthorized(c, err)
	}
	teacherID, ok := paramUUID(c, "teacherId")
	if !ok {
		return invalidID(c, "teacher")
	}

	fq := queries.FavouriteQueries{DB: database.DB}
	if err := fq.AddClassroom(c.UserContext(), userID, teacherID); err != nil {
		return queryError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Classroom added to favourites"})
}

func RemoveFavouriteClassroom(c *fiber.Ctx) error {
	userID, _, err := utils.CurrentUser(c)
	if err != nil {
		return unauthorized(c, err)
	}
	teacherID, ok := paramUUID(c, "teacherId")
	if !ok {
		return invalidID(c, "teacher")
	}

	fq := queries.FavouriteQueries{DB: database.DB}
	if err := fq.RemoveClassroom(c.UserContext(), userID, teacherID); err != nil {
		return queryError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Classroom removed from favourites"})
}

func GetFavouriteClassrooms(c *fiber.Ctx) error {
	userID, _, err := utils.CurrentUser(c)
	if err != nil {
		return unauthorized(c, err)
	}

	fq := queries.FavouriteQueries{DB: database.DB}
	classrooms, err := fq.ListClassrooms(c.UserContext(), userID)
	if err != nil {
		return queryError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(classrooms)
}
