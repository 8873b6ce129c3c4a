package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wishfund/wishfund-backend/app/queries"
	"github.com/wishfund/wishfund-backend/pkg/database"
	"github.com/wishfund/wishfund-backend/pkg/utils"
)

func GetGeneralMetrics(c *fiber.Ctx) error {
	mq := queries.MetricsQueries{DB: database.DB}
	m, err := mq.General(c.UserContext())
	if err != nil {
		return queryError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(m)
}

func GetTeacherMetrics(c *fiber.Ctx) error {
	userID, _, err := utils.CurrentUser(c)
	if err != nil {
		return unauthorized(c, err)
	}

	mq := queries.MetricsQueries{DB: database.DB}
	m, err := mq.Teacher(c.UserContext(), userID)
	if err != nil {
		return queryError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(m)
}

func GetParentMetrics(c *fiber.Ctx) error {
	userID, _, err := utils.CurrentUser(c)
	if err != nil {
		return unauthorized(c, err)
	}

	mq := queries.MetricsQueries{DB: database.DB}
	m, err := mq.Parent(c.UserContext(), userID)
	if err != nil {
		return queryError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(m)
}
