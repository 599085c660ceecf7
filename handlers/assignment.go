package handlers

import (
	"match-journal/middleware"
	"match-journal/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupAssignmentRoutes(app *fiber.App, db *gorm.DB, assignmentService *services.AssignmentService) {
	secured := app.Group("/", middleware.RequireAuth(db))
	secured.Get("/daily-task-assignments", assignmentService.ListAssignments)
	secured.Put("/daily-task-assignments", assignmentService.UpsertAssignment)
}
