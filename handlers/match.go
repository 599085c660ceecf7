package handlers

import (
	"match-journal/middleware"
	"match-journal/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupMatchRoutes(app *fiber.App, db *gorm.DB, matchService *services.MatchService, summaryService *services.SummaryService) {
	secured := app.Group("/", middleware.RequireAuth(db))

	secured.Get("/matches", matchService.ListMatches)
	secured.Post("/matches", matchService.CreateMatch)
	secured.Get("/matches/:id", matchService.GetMatch)
	secured.Patch("/matches/:id", matchService.UpdateMatch)

	secured.Post("/matches-with-ratings", matchService.CreateMatchWithRatings)

	secured.Get("/daily-summary", summaryService.GetDailySummary)
}
