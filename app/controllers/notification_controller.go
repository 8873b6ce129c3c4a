package controllers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/wishfund/wishfund-backend/app/models"
	"github.com/wishfund/wishfund-backend/app/queries"
	"github.com/wishfund/wishfund-backend/pkg/config"
	"github.com/wishfund/wishfund-backend/pkg/database"
	"github.com/wishfund/wishfund-backend/pkg/utils"
)

func GetNotifications(c *fiber.Ctx) error {
	userID, _, err := utils.CurrentUser(c)
	if err != nil {
		return unauthorized(c, err)
	}

	nq := queries.NotificationQueries{DB: database.DB}
	ns, err := nq.ListForUser(c.UserContext(), userID)
	if err != nil {
		return queryError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(ns)
}

func MarkNotificationRead(c *fiber.Ctx) error {
	userID, _, err := utils.CurrentUser(c)
	if err != nil {
		return unauthorized(c, err)
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return invalidID(c, "notification")
	}

	nq := queries.NotificationQueries{DB: database.DB}
	if err := nq.MarkRead(c.UserContext(), id, userID); err != nil {
		return queryError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Notification marked as read"})
}

func MarkAllNotificationsRead(c *fiber.Ctx) error {
	userID, _, err := utils.CurrentUser(c)
	if err != nil {
		return unauthorized(c, err)
	}

	nq := queries.NotificationQueries{DB: database.DB}
	n, err := nq.MarkAllRead(c.UserContext(), userID)
	if err != nil {
		return queryError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"updated": n})
}

func DeleteNotification(c *fiber.Ctx) error {
	userID, _, err := utils.CurrentUser(c)
	if err != nil {
		return unauthorized(c, err)
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return invalidID(c, "notification")
	}

	nq := queries.NotificationQueries{DB: database.DB}
	if err := nq.DeleteNotification(c.UserContext(), id, userID); err != nil {
		return queryError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Notification deleted"})
}

// DispatchNotifications stores one notification per recipient and pushes it to connected users.
func DispatchNotifications(c *fiber.Ctx) error {
	req := &models.DispatchRequest{}
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	kind := strings.TrimSpace(req.Type)
	if kind == "" {
		kind = "general"
	}
	message := utils.SanitizeText(req.Message)
	now := time.Now()
	ns := lo.Map(lo.Uniq(req.UserIDs), func(id uuid.UUID, _ int) models.Notification {
		return models.Notification{
			ID:        uuid.New(),
			UserID:    id,
			Type:      kind,
			Message:   message,
			Link:      req.Link,
			CreatedAt: now,
		}
	})

	nq := queries.NotificationQueries{DB: database.DB}
	if err := nq.CreateNotifications(c.UserContext(), ns); err != nil {
		return queryError(c, err)
	}
	pushNotifications(ns)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"dispatched": len(ns)})
}

// WsHandler registers the connection of the user named by the token query parameter and keeps
// it until the client goes away. Incoming frames are ignored.
func WsHandler(c *websocket.Conn) {
	claims, err := utils.ParseToken(config.AppConfig.JWTSecret, c.Query("token"))
	if err != nil {
		_ = c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "invalid token"))
		_ = c.Close()
		return
	}
	userID, err := claims.UID()
	if err != nil {
		_ = c.Close()
		return
	}

	utils.DefaultNotifier.Register(userID, c)
	defer utils.DefaultNotifier.Unregister(userID, c)

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			zap.L().Debug("ws closed", zap.String("user", userID.String()), zap.Error(err))
			return
		}
	}
}
