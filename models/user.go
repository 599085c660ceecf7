package models

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// User owns tasks, matches and access tokens.
type User struct {
	ID           string `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"not null" json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Tasks   []Task  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Matches []Match `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// AccessToken is a personal API token. Only the sha256 hash of the plaintext
// token is stored; the plaintext is returned once at login and never again.
type AccessToken struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"index;not null" json:"user_id"`
	TokenHash string    `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`

	User User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// HashToken maps a plaintext bearer token to its stored hash.
func HashToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
