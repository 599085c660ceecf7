package handlers

import (
	"match-journal/middleware"
	"match-journal/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupAuthRoutes(app *fiber.App, db *gorm.DB, authService *services.AuthService) {
	app.Post("/register", authService.Register)
	app.Post("/login", authService.Login)

	secured := app.Group("/", middleware.RequireAuth(db))
	secured.Post("/logout", authService.Logout)
	secured.Get("/me", authService.Me)
	secured.Get("/user", authService.Me)
}
