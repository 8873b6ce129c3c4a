package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/wishfund/wishfund-backend/app/controllers"
	"github.com/wishfund/wishfund-backend/pkg/middleware"
	"github.com/wishfund/wishfund-backend/pkg/utils"
)

func RegisterNotificationRoutes(app *fiber.App) {
	auth := middleware.JWTProtected()

	notification := app.Group("/notification", auth)
	notification.Get("/", controllers.GetNotifications)
	notification.Patch("/read-all", controllers.MarkAllNotificationsRead)
	notification.Patch("/:id/read", controllers.MarkNotificationRead)
	notification.Delete("/:id", controllers.DeleteNotification)

	dispatch := app.Group("/dispatch")
	dispatch.Post("/", auth, middleware.RequireAccountType(utils.AccountSchool), controllers.DispatchNotifications)
	dispatch.Get("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}, websocket.New(controllers.WsHandler))

	messages := app.Group("/messages", auth)
	messages.Post("/", controllers.SendMessage)
	messages.Get("/:userId", controllers.GetConversation)
	messages.Patch("/:id/read", controllers.MarkMessageRead)
}
