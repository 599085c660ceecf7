package middleware

import (
	"errors"
	"log"
	"strings"
	"time"

	"match-journal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RequireAuth validates the Bearer token against stored access tokens and
// attaches the owning user to the request context.
func RequireAuth(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "authentication token missing",
			})
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader || token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid authorization header",
			})
		}

		var at models.AccessToken
		err := db.Preload("User").
			Where("token_hash = ?", models.HashToken(token)).
			First(&at).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid authentication token",
			})
		}
		if err != nil {
			log.Printf("[AUTH] token lookup failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "authentication lookup failed",
			})
		}
		if time.Now().After(at.ExpiresAt) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "authentication token expired",
			})
		}

		c.Locals("user_id", at.User.ID)
		c.Locals("user", &at.User)
		c.Locals("token_id", at.ID)
		return c.Next()
	}
}
