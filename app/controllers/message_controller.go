package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/wishfund/wishfund-backend/app/models"
	"github.com/wishfund/wishfund-backend/app/queries"
	"github.com/wishfund/wishfund-backend/pkg/database"
	"github.com/wishfund/wishfund-backend/pkg/utils"
)

const maxConversationMessages = 200

func SendMessage(c *fiber.Ctx) error {
	userID, _, err := utils.CurrentUser(c)
	if err != nil {
		return unauthorized(c, err)
	}

	req := &models.CreateMessageRequest{}
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.ReceiverID == userID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot message yourself"})
	}
	text := utils.SanitizeText(req.Text)
	if text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "text is empty"})
	}

	msg := &models.Message{
		ID:         uuid.New(),
		SenderID:   userID,
		ReceiverID: req.ReceiverID,
		Text:       text,
		CreatedAt:  time.Now(),
	}
	mq := queries.MessageQueries{DB: database.DB}
	if err := mq.CreateMessage(c.UserContext(), msg); err != nil {
		return queryError(c, err)
	}

	enqueuePush(msg.ReceiverID, "message", msg)
	return c.Status(fiber.StatusCreated).JSON(msg)
}

func GetConversation(c *fiber.Ctx) error {
	userID, _, err := utils.CurrentUser(c)
	if err != nil {
		return unauthorized(c, err)
	}
	otherID, ok := paramUUID(c, "userId")
	if !ok {
		return invalidID(c, "user")
	}

	limit := queryInt(c, "limit", 50, maxConversationMessages)
	mq := queries.MessageQueries{DB: database.DB}
	msgs, err := mq.Conversation(c.UserContext(), userID, otherID, limit)
	if err != nil {
		return queryError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(msgs)
}

func MarkMessageRead(c *fiber.Ctx) error {
	userID, _, err := utils.CurrentUser(c)
	if err != nil {
		return unauthorized(c, err)
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return invalidID(c, "message")
	}

	mq := queries.MessageQueries{DB: database.DB}
	if err := mq.MarkRead(c.UserContext(), id, userID); err != nil {
		return queryError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Message marked as read"})
}
