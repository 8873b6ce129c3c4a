package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wishfund/wishfund-backend/app/controllers"
	"github.com/wishfund/wishfund-backend/pkg/config"
	"github.com/wishfund/wishfund-backend/pkg/middleware"
	"github.com/wishfund/wishfund-backend/pkg/utils"
)

func RegisterAdvertisementRoutes(app *fiber.App) {
	auth := middleware.JWTProtected()
	school := middleware.RequireAccountType(utils.AccountSchool)
	business := middleware.RequireAccountType(utils.AccountBusiness)

	ads := app.Group("/advertisement")
	ads.Post("/", auth, school, controllers.CreateAdvertisement)
	ads.Get("/", controllers.GetAdvertisements)
	ads.Get("/check-unsuccessful", auth, school, controllers.CheckUnsuccessfulBids)
	ads.Get("/school/:schoolId", controllers.GetSchoolAdvertisements)
	ads.Get("/:id", controllers.GetAdvertisement)
	ads.Delete("/:id", auth, school, controllers.DeleteAdvertisement)
	ads.Put("/:id/winner", auth, school, controllers.SelectWinner)

	bids := app.Group("/bids", auth)
	bids.Post("/", business, middleware.RateLimit(config.AppConfig.RateLimitPerMin), controllers.PlaceBid)
	bids.Get("/me", business, controllers.GetMyBids)
	bids.Get("/advertisement/:id", controllers.GetAdvertisementBids)
	bids.Delete("/:id", business, controllers.WithdrawBid)
}
