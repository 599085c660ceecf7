package services

import (
	"fmt"
	"log"

	"match-journal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ratingEntry struct {
	TaskID string `json:"task_id"`
	Rating string `json:"rating"`
}

type matchWithRatingsRequest struct {
	matchPayload
	Ratings []ratingEntry `json:"ratings"`
}

func ratingsError(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"error":  "validation failed",
		"errors": fiber.Map{"ratings": []string{msg}},
	})
}

// CreateMatchWithRatings persists one match and its task ratings atomically.
// All validation runs before the transaction opens: a rejected submission
// leaves zero rows behind.
func (s *MatchService) CreateMatchWithRatings(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req matchWithRatingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if len(req.Ratings) == 0 {
		return ratingsError(c, "ratings must contain at least one entry")
	}
	for i, entry := range req.Ratings {
		if entry.TaskID == "" {
			return ratingsError(c, fmt.Sprintf("ratings[%d].task_id is required", i))
		}
		if _, ok := models.ParseRating(entry.Rating); !ok {
			return ratingsError(c, fmt.Sprintf("ratings[%d].rating must be one of ○, △, ×", i))
		}
	}

	distinct := make([]string, 0, len(req.Ratings))
	seen := make(map[string]struct{}, len(req.Ratings))
	for _, entry := range req.Ratings {
		if _, dup := seen[entry.TaskID]; dup {
			continue
		}
		seen[entry.TaskID] = struct{}{}
		distinct = append(distinct, entry.TaskID)
	}

	var owned int64
	err := s.DB.Model(&models.Task{}).
		Where("user_id = ? AND id IN ?", userID, distinct).
		Count(&owned).Error
	if err != nil {
		log.Printf("[MATCHES] task ownership check failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save match"})
	}
	if owned < int64(len(distinct)) {
		return ratingsError(c, "ratings reference a task that does not belong to you")
	}
	if len(distinct) != len(req.Ratings) {
		return ratingsError(c, "ratings contain a duplicated task_id")
	}

	match, err := s.buildMatch(userID, req.matchPayload)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  "validation failed",
			"errors": fiber.Map{"played_at": []string{err.Error()}},
		})
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(match).Error; err != nil {
			return err
		}
		rows := make([]models.MatchRating, 0, len(req.Ratings))
		for _, entry := range req.Ratings {
			rows = append(rows, models.MatchRating{
				ID:      uuid.NewString(),
				MatchID: match.ID,
				TaskID:  entry.TaskID,
				Rating:  models.Rating(entry.Rating),
			})
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		log.Printf("[MATCHES] match+ratings insert failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save match"})
	}

	if err := s.DB.Preload("Ratings.Task").First(match, "id = ?", match.ID).Error; err != nil {
		log.Printf("[MATCHES] reload after insert failed: %v", err)
	}
	return c.Status(fiber.StatusCreated).JSON(match)
}
