package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/wishfund/wishfund-backend/app/models"
	"github.com/wishfund/wishfund-backend/app/queries"
	"github.com/wishfund/wishfund-backend/pkg/database"
	"github.com/wishfund/wishfund-backend/pkg/utils"
)

func GetTransactionFees(c *fiber.Ctx) error {
	fq := queries.FeeQueries{DB: database.DB}
	fees, err := fq.ListFees(c.UserContext())
	if err != nil {
		return queryError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fees)
}

func GetTransactionFee(c *fiber.Ctx) error {
	accountType := c.Params("accountType")
	if !lo.Contains(utils.ValidAccountTypes, accountType) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown account type"})
	}

	fq := queries.FeeQueries{DB: database.DB}
	fee, err := fq.GetFee(c.UserContext(), accountType)
	if err != nil {
		return queryError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fee)
}

func GetFeeHistory(c *fiber.Ctx) error {
	accountType := c.Query("accountType")
	if accountType != "" && !lo.Contains(utils.ValidAccountTypes, accountType) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown account type"})
	}

	fq := queries.FeeQueries{DB: database.DB}
	history, err := fq.ListHistory(c.UserContext(), accountType)
	if err != nil {
		return queryError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(history)
}

// UpdateTransactionFee sets the fee rate of one account type and records the change.
func UpdateTransactionFee(c *fiber.Ctx) error {
	adminID, _, err := utils.CurrentUser(c)
	if err != nil {
		return unauthorized(c, err)
	}

	req := &models.UpdateFeeRequest{}
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.NewRate.IsNegative() || req.NewRate.GreaterThan(decimal.NewFromInt(1)) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "newRate must be between 0 and 1"})
	}
	if !req.NewRate.Equal(req.NewRate.Truncate(utils.RateScale)) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "newRate has more than 5 decimal places"})
	}

	fq := queries.FeeQueries{DB: database.DB}
	fee, err := fq.UpdateFee(c.UserContext(), req.AccountType, req.NewRate, adminID)
	if err != nil {
		return queryError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fee)
}
