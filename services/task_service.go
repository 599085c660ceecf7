package services

import (
	"log"
	"strings"

	"match-journal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskService struct {
	DB *gorm.DB
}

func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{DB: db}
}

// ListTasks returns the caller's tasks ordered for display.
func (s *TaskService) ListTasks(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var tasks []models.Task
	err := s.DB.Where("user_id = ?", userID).
		Order("sort_order ASC, created_at ASC").
		Find(&tasks).Error
	if err != nil {
		log.Printf("[TASKS] list failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch tasks"})
	}
	return c.JSON(tasks)
}

type createTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

// CreateTask creates a task for the caller. New tasks land at sort_order 0
// and active; reordering is a client concern.
func (s *TaskService) CreateTask(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req createTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || len(req.Title) > 255 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  "validation failed",
			"errors": fiber.Map{"title": []string{"title is required and must be at most 255 characters"}},
		})
	}

	task := models.Task{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		SortOrder:   0,
		IsActive:    true,
	}
	if err := s.DB.Create(&task).Error; err != nil {
		log.Printf("[TASKS] insert failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create task"})
	}

	return c.Status(fiber.StatusCreated).JSON(task)
}
