package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wishfund/wishfund-backend/app/controllers"
	"github.com/wishfund/wishfund-backend/pkg/middleware"
	"github.com/wishfund/wishfund-backend/pkg/utils"
)

func RegisterWishlistRoutes(app *fiber.App) {
	auth := middleware.JWTProtected()
	teacher := middleware.RequireAccountType(utils.AccountTeacher)
	parent := middleware.RequireAccountType(utils.AccountParent)

	wishlists := app.Group("/wishlists")
	wishlists.Post("/", auth, teacher, controllers.CreateWishlistItem)
	wishlists.Get("/teacher/:teacherId", controllers.GetTeacherWishlist)
	wishlists.Get("/:id", controllers.GetWishlistItem)
	wishlists.Put("/:id", auth, teacher, controllers.UpdateWishlistItem)
	wishlists.Delete("/:id", auth, teacher, controllers.DeleteWishlistItem)
	wishlists.Post("/:id/image", auth, teacher, controllers.UploadWishlistImage)
	wishlists.Patch("/:id/fulfillment", auth, teacher, controllers.UpdateWishlistFulfillment)

	suggestions := app.Group("/suggestions", auth)
	suggestions.Post("/", parent, controllers.CreateSuggestion)
	suggestions.Get("/", teacher, controllers.GetSuggestions)
	suggestions.Post("/:id/accept", teacher, controllers.AcceptSuggestion)
	suggestions.Delete("/:id", teacher, controllers.RejectSuggestion)

	discover := app.Group("/discover")
	discover.Get("/", controllers.Discover)
	discover.Get("/classrooms", controllers.DiscoverClassrooms)
}
