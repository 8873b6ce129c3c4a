package controllers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/wishfund/wishfund-backend/app/models"
	"github.com/wishfund/wishfund-backend/pkg/utils"
)

func SendEmail(c *fiber.Ctx) error {
	req := &models.SendEmailRequest{}
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := utils.DefaultMailer.Send(req.To, utils.SanitizeText(req.Subject), utils.SanitizeHTML(req.Body)); err != nil {
		zap.L().Error("send email", zap.String("to", req.To), zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "failed to send email"})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Email sent"})
}
