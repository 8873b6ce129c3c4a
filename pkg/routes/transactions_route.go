package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wishfund/wishfund-backend/app/controllers"
	"github.com/wishfund/wishfund-backend/pkg/config"
	"github.com/wishfund/wishfund-backend/pkg/middleware"
	"github.com/wishfund/wishfund-backend/pkg/utils"
)

func RegisterTransactionRoutes(app *fiber.App) {
	auth := middleware.JWTProtected()
	admin := middleware.RequireAccountType(utils.AccountAdmin)

	api := app.Group("/api")
	api.Post("/create-checkout-session", middleware.RateLimit(config.AppConfig.RateLimitPerMin), controllers.CreateCheckoutSession)

	// Stripe calls this with a signed raw body.
	app.Post("/webhook", controllers.StripeWebhook)

	donations := app.Group("/donations")
	donations.Post("/", auth, controllers.CreateDonation)
	donations.Get("/me", auth, controllers.GetMyDonations)
	donations.Get("/wishlist/:id", controllers.GetWishlistDonations)

	fees := app.Group("/transaction-fee")
	fees.Get("/", controllers.GetTransactionFees)
	fees.Get("/history", auth, admin, controllers.GetFeeHistory)
	fees.Get("/:accountType", controllers.GetTransactionFee)
	fees.Put("/", auth, admin, controllers.UpdateTransactionFee)
}
