package services

import (
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"match-journal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/text/width"
	"gorm.io/gorm"
)

type MatchService struct {
	DB  *gorm.DB
	Loc *time.Location
}

// NewMatchService binds the service to the timezone used for all
// calendar-day interpretation (date filters and played_at parsing).
func NewMatchService(db *gorm.DB, loc *time.Location) *MatchService {
	return &MatchService{DB: db, Loc: loc}
}

type matchPayload struct {
	PlayedAt *string `json:"played_at"`
	Mode     *string `json:"mode"`
	Rule     *string `json:"rule"`
	Stage    *string `json:"stage"`
	Weapon   *string `json:"weapon"`
	IsWin    *bool   `json:"is_win"`
	Note     *string `json:"note"`
}

// playedAtLayouts accepts the datetime-local formats the client sends, with
// or without seconds or a zone offset.
var playedAtLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

func (s *MatchService) parsePlayedAt(raw string) (*time.Time, error) {
	for _, layout := range playedAtLayouts {
		if t, err := time.ParseInLocation(layout, raw, s.Loc); err == nil {
			return &t, nil
		}
	}
	return nil, errors.New("played_at must be an ISO 8601 datetime")
}

// foldText trims and width-folds free-text input so full-width and
// half-width spellings of the same mode/stage/weapon land in one bucket.
func foldText(s *string) *string {
	if s == nil {
		return nil
	}
	folded := width.Fold.String(strings.TrimSpace(*s))
	if folded == "" {
		return nil
	}
	return &folded
}

func (s *MatchService) buildMatch(userID string, req matchPayload) (*models.Match, error) {
	match := &models.Match{
		ID:     uuid.NewString(),
		UserID: userID,
		Mode:   foldText(req.Mode),
		Rule:   foldText(req.Rule),
		Stage:  foldText(req.Stage),
		Weapon: foldText(req.Weapon),
		IsWin:  req.IsWin,
		Note:   req.Note,
	}
	if req.PlayedAt != nil && *req.PlayedAt != "" {
		playedAt, err := s.parsePlayedAt(*req.PlayedAt)
		if err != nil {
			return nil, err
		}
		match.PlayedAt = playedAt
	}
	return match, nil
}

// ListMatches returns the caller's matches, filtered to one calendar day
// when ?date= is given, newest first, paginated.
func (s *MatchService) ListMatches(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	perPage, err := strconv.Atoi(c.Query("per_page", "20"))
	if err != nil || perPage < 1 {
		perPage = 1
	}
	if perPage > 100 {
		perPage = 100
	}

	q := s.DB.Where("user_id = ?", userID)
	if date := c.Query("date"); date != "" {
		day, err := time.ParseInLocation("2006-01-02", date, s.Loc)
		if err != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":  "validation failed",
				"errors": fiber.Map{"date": []string{"date must be formatted YYYY-MM-DD"}},
			})
		}
		q = q.Where("played_at >= ? AND played_at < ?", day, day.AddDate(0, 0, 1))
	}

	var matches []models.Match
	err = q.Order("played_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&matches).Error
	if err != nil {
		log.Printf("[MATCHES] list failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch matches"})
	}
	return c.JSON(matches)
}

// CreateMatch creates a single match without ratings.
func (s *MatchService) CreateMatch(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req matchPayload
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	match, err := s.buildMatch(userID, req)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  "validation failed",
			"errors": fiber.Map{"played_at": []string{err.Error()}},
		})
	}

	if err := s.DB.Create(match).Error; err != nil {
		log.Printf("[MATCHES] insert failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create match"})
	}
	return c.Status(fiber.StatusCreated).JSON(match)
}

// GetMatch returns one match with its ratings and their task names.
// A match owned by someone else is indistinguishable from a missing one.
func (s *MatchService) GetMatch(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var match models.Match
	err := s.DB.Preload("Ratings.Task").
		Where("id = ? AND user_id = ?", c.Params("id"), userID).
		First(&match).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "match not found"})
	}
	if err != nil {
		log.Printf("[MATCHES] fetch failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch match"})
	}
	return c.JSON(match)
}

type updateMatchRequest struct {
	Note *string `json:"note"`
}

// UpdateMatch mutates only the note. Ownership is checked explicitly so a
// non-owner writing to an existing match sees 403, not 404.
func (s *MatchService) UpdateMatch(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var match models.Match
	err := s.DB.Where("id = ?", c.Params("id")).First(&match).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "match not found"})
	}
	if err != nil {
		log.Printf("[MATCHES] fetch failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch match"})
	}
	if match.UserID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
	}

	var req updateMatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	match.Note = req.Note
	if err := s.DB.Model(&match).Select("Note").Updates(models.Match{Note: req.Note}).Error; err != nil {
		log.Printf("[MATCHES] note update failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update match"})
	}
	return c.JSON(match)
}
