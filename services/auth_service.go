package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"strings"
	"time"

	"match-journal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	DB       *gorm.DB
	TokenTTL time.Duration
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{DB: db, TokenTTL: 30 * 24 * time.Hour}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Register creates a new user account.
func (s *AuthService) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	fieldErrors := fiber.Map{}
	if req.Name == "" || len(req.Name) > 255 {
		fieldErrors["name"] = []string{"name is required and must be at most 255 characters"}
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		fieldErrors["email"] = []string{"a valid email is required"}
	}
	if len(req.Password) < 8 {
		fieldErrors["password"] = []string{"password must be at least 8 characters"}
	}
	if len(fieldErrors) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  "validation failed",
			"errors": fieldErrors,
		})
	}

	var existing models.User
	err := s.DB.Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "email is already registered"})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[AUTH] email lookup failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create user"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create user"})
	}

	user := models.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := s.DB.Create(&user).Error; err != nil {
		log.Printf("[AUTH] user insert failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create user"})
	}

	return c.Status(fiber.StatusCreated).JSON(userResponse{ID: user.ID, Name: user.Name, Email: user.Email})
}

// Login verifies credentials, revokes the user's existing tokens and issues
// a fresh one. The plaintext token is returned only here.
func (s *AuthService) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	var user models.User
	err := s.DB.Where("email = ?", strings.TrimSpace(strings.ToLower(req.Email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) ||
		(err == nil && bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "email or password is incorrect",
		})
	}
	if err != nil {
		log.Printf("[AUTH] login lookup failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "login failed"})
	}

	plain, err := generateToken()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "login failed"})
	}

	token := models.AccessToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: models.HashToken(plain),
		ExpiresAt: time.Now().Add(s.TokenTTL),
	}

	// One live token per user: revoke the rest before issuing.
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.AccessToken{}).Error; err != nil {
			return err
		}
		return tx.Create(&token).Error
	})
	if err != nil {
		log.Printf("[AUTH] token issue failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "login failed"})
	}

	return c.JSON(fiber.Map{
		"token": plain,
		"user":  userResponse{ID: user.ID, Name: user.Name, Email: user.Email},
	})
}

// Logout revokes the token the request authenticated with.
func (s *AuthService) Logout(c *fiber.Ctx) error {
	tokenID := c.Locals("token_id").(string)
	if err := s.DB.Where("id = ?", tokenID).Delete(&models.AccessToken{}).Error; err != nil {
		log.Printf("[AUTH] token revoke failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "logout failed"})
	}
	return c.JSON(fiber.Map{"message": "logged out"})
}

// Me returns the caller's identity.
func (s *AuthService) Me(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	return c.JSON(userResponse{ID: user.ID, Name: user.Name, Email: user.Email})
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
