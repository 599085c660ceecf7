package services

import (
	"errors"
	"log"
	"time"

	"match-journal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AssignmentService manages the per-day A/B focus slots: each day a player
// picks up to two of their tasks to concentrate on.
type AssignmentService struct {
	DB  *gorm.DB
	Loc *time.Location
	Now func() time.Time
}

func NewAssignmentService(db *gorm.DB, loc *time.Location) *AssignmentService {
	return &AssignmentService{DB: db, Loc: loc, Now: time.Now}
}

// ListAssignments returns the caller's slot assignments for one date,
// defaulting to today.
func (s *AssignmentService) ListAssignments(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	date := c.Query("date")
	if date == "" {
		date = s.Now().In(s.Loc).Format("2006-01-02")
	}
	if _, err := time.ParseInLocation("2006-01-02", date, s.Loc); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  "validation failed",
			"errors": fiber.Map{"date": []string{"date must be formatted YYYY-MM-DD"}},
		})
	}

	var assignments []models.DailyTaskAssignment
	err := s.DB.Preload("Task").
		Where("user_id = ? AND date = ?", userID, date).
		Order("slot ASC").
		Find(&assignments).Error
	if err != nil {
		log.Printf("[ASSIGNMENTS] list failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch assignments"})
	}
	return c.JSON(assignments)
}

type upsertAssignmentRequest struct {
	Date   string  `json:"date"`
	Slot   int     `json:"slot"`
	TaskID string  `json:"task_id"`
	Memo   *string `json:"memo"`
}

// UpsertAssignment sets the task (and memo) for one (date, slot) pair,
// replacing whatever was assigned there before.
func (s *AssignmentService) UpsertAssignment(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req upsertAssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	fieldErrors := fiber.Map{}
	if _, err := time.ParseInLocation("2006-01-02", req.Date, s.Loc); err != nil {
		fieldErrors["date"] = []string{"date must be formatted YYYY-MM-DD"}
	}
	if req.Slot != models.SlotA && req.Slot != models.SlotB {
		fieldErrors["slot"] = []string{"slot must be 1 (A) or 2 (B)"}
	}
	if req.TaskID == "" {
		fieldErrors["task_id"] = []string{"task_id is required"}
	}
	if len(fieldErrors) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  "validation failed",
			"errors": fieldErrors,
		})
	}

	var owned int64
	err := s.DB.Model(&models.Task{}).
		Where("user_id = ? AND id = ?", userID, req.TaskID).
		Count(&owned).Error
	if err != nil {
		log.Printf("[ASSIGNMENTS] task ownership check failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save assignment"})
	}
	if owned == 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  "validation failed",
			"errors": fiber.Map{"task_id": []string{"task_id does not reference one of your tasks"}},
		})
	}

	var assignment models.DailyTaskAssignment
	err = s.DB.Where("user_id = ? AND date = ? AND slot = ?", userID, req.Date, req.Slot).
		First(&assignment).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		assignment = models.DailyTaskAssignment{
			ID:     uuid.NewString(),
			UserID: userID,
			Date:   req.Date,
			Slot:   req.Slot,
			TaskID: req.TaskID,
			Memo:   req.Memo,
		}
		err = s.DB.Create(&assignment).Error
	case err == nil:
		assignment.TaskID = req.TaskID
		assignment.Memo = req.Memo
		err = s.DB.Save(&assignment).Error
	}
	if err != nil {
		log.Printf("[ASSIGNMENTS] save failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save assignment"})
	}

	if err := s.DB.Preload("Task").First(&assignment, "id = ?", assignment.ID).Error; err != nil {
		log.Printf("[ASSIGNMENTS] reload failed: %v", err)
	}
	return c.JSON(assignment)
}
