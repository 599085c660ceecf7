package handlers

import (
	"match-journal/middleware"
	"match-journal/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupExportRoutes(app *fiber.App, db *gorm.DB, exportService *services.ExportService) {
	secured := app.Group("/", middleware.RequireAuth(db))
	secured.Post("/exports", exportService.CreateExport)
}
