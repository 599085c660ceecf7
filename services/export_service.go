package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"match-journal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// ExportService writes a JSON backup of the caller's data to object
// storage. Upload is nil until storage is configured; tests inject a fake.
type ExportService struct {
	DB     *gorm.DB
	Now    func() time.Time
	Upload func(key string, data []byte, contentType string) (string, error)
}

func NewExportService(db *gorm.DB) *ExportService {
	return &ExportService{DB: db, Now: time.Now}
}

type exportDocument struct {
	ExportedAt time.Time      `json:"exported_at"`
	User       models.User    `json:"user"`
	Tasks      []models.Task  `json:"tasks"`
	Matches    []models.Match `json:"matches"`
}

// CreateExport serializes the caller's tasks, matches and ratings and
// uploads the document under a per-user prefix.
func (s *ExportService) CreateExport(c *fiber.Ctx) error {
	if s.Upload == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "object storage is not configured",
		})
	}

	user := c.Locals("user").(*models.User)

	doc := exportDocument{ExportedAt: s.Now().UTC(), User: *user}
	if err := s.DB.Where("user_id = ?", user.ID).Order("sort_order ASC").Find(&doc.Tasks).Error; err != nil {
		log.Printf("[EXPORT] task query failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to build export"})
	}
	err := s.DB.Preload("Ratings.Task").
		Where("user_id = ?", user.ID).
		Order("created_at ASC").
		Find(&doc.Matches).Error
	if err != nil {
		log.Printf("[EXPORT] match query failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to build export"})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to build export"})
	}

	key := fmt.Sprintf("exports/%s/%s.json", slug.Make(user.Name), doc.ExportedAt.Format("20060102T150405Z"))
	url, err := s.Upload(key, data, "application/json")
	if err != nil {
		log.Printf("[EXPORT] upload failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to upload export"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"key": key, "url": url})
}
