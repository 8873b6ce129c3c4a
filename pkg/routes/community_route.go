package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wishfund/wishfund-backend/app/controllers"
	"github.com/wishfund/wishfund-backend/pkg/config"
	"github.com/wishfund/wishfund-backend/pkg/middleware"
	"github.com/wishfund/wishfund-backend/pkg/utils"
)

// RegisterCommunityRoutes wires stories, favourites, votes, metrics and email.
func RegisterCommunityRoutes(app *fiber.App) {
	auth := middleware.JWTProtected()

	stories := app.Group("/success-stories")
	stories.Post("/", auth, middleware.RequireAccountType(utils.AccountTeacher, utils.AccountSchool), controllers.CreateStory)
	stories.Get("/", controllers.GetStories)
	stories.Get("/:id", controllers.GetStory)
	stories.Delete("/:id", auth, controllers.DeleteStory)

	favourites := app.Group("/favourites", auth)
	favourites.Get("/items", controllers.GetFavouriteItems)
	favourites.Post("/items/:itemId", controllers.AddFavouriteItem)
	favourites.Delete("/items/:itemId", controllers.RemoveFavouriteItem)
	favourites.Get("/classrooms", controllers.GetFavouriteClassrooms)
	favourites.Post("/classrooms/:teacherId", controllers.AddFavouriteClassroom)
	favourites.Delete("/classrooms/:teacherId", controllers.RemoveFavouriteClassroom)

	vote := app.Group("/vote", auth)
	vote.Get("/:itemId", controllers.GetVotes)
	vote.Post("/:itemId", controllers.Vote)
	vote.Delete("/:itemId", controllers.Unvote)

	app.Get("/generalmetrics", controllers.GetGeneralMetrics)
	app.Get("/teachermetrics", auth, middleware.RequireAccountType(utils.AccountTeacher), controllers.GetTeacherMetrics)
	app.Get("/parent-metrics", auth, middleware.RequireAccountType(utils.AccountParent), controllers.GetParentMetrics)

	app.Post("/email/send", auth, middleware.RateLimit(config.AppConfig.RateLimitPerMin), controllers.SendEmail)
}
