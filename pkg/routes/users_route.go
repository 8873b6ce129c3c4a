package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wishfund/wishfund-backend/app/controllers"
	"github.com/wishfund/wishfund-backend/pkg/config"
	"github.com/wishfund/wishfund-backend/pkg/middleware"
)

func RegisterUserRoutes(app *fiber.App) {
	auth := middleware.JWTProtected()
	limit := middleware.RateLimit(config.AppConfig.RateLimitPerMin)

	users := app.Group("/users")

	// Public routes
	users.Post("/signup", limit, controllers.UserSignUp)
	users.Post("/verify-otp", limit, controllers.UserVerifyOTP)
	users.Post("/signin", limit, controllers.UserSignIn)
	users.Post("/refresh", controllers.RefreshToken)

	users.Post("/logout", auth, controllers.UserLogout)
	users.Get("/profile", auth, controllers.UserProfile)
	users.Put("/profile", auth, controllers.UpdateUser)
	users.Delete("/profile", auth, controllers.DeleteUser)
	users.Post("/avatar", auth, controllers.UploadAvatar)
	users.Get("/teachers", controllers.ListTeachers)
	users.Get("/:id", controllers.GetUserByID)
}
