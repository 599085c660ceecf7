package handlers

import (
	"match-journal/middleware"
	"match-journal/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupTaskRoutes(app *fiber.App, db *gorm.DB, taskService *services.TaskService) {
	secured := app.Group("/", middleware.RequireAuth(db))
	secured.Get("/tasks", taskService.ListTasks)
	secured.Post("/tasks", taskService.CreateTask)
}
