package models

import "time"

// Rating is the closed three-value evaluation attached to a (match, task)
// pair. Any other symbol is rejected at the API boundary.
type Rating string

const (
	RatingCircle   Rating = "○" // good
	RatingTriangle Rating = "△" // neutral
	RatingCross    Rating = "×" // bad
)

// ParseRating validates a raw rating symbol.
func ParseRating(s string) (Rating, bool) {
	switch Rating(s) {
	case RatingCircle, RatingTriangle, RatingCross:
		return Rating(s), true
	}
	return "", false
}

// Match records one played game session. Everything except the owner is
// optional: players often log a result with no metadata at all.
type Match struct {
	ID       string     `gorm:"primaryKey" json:"id"`
	UserID   string     `gorm:"index:idx_matches_user_played;not null" json:"user_id"`
	PlayedAt *time.Time `gorm:"index:idx_matches_user_played" json:"played_at"`
	Mode     *string    `json:"mode"`
	Rule     *string    `json:"rule"`
	Stage    *string    `json:"stage"`
	Weapon   *string    `json:"weapon"`
	IsWin    *bool      `json:"is_win"` // true=win, false=loss, nil=unknown
	Note     *string    `json:"note"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Ratings []MatchRating `json:"ratings,omitempty" gorm:"foreignKey:MatchID;constraint:OnDelete:CASCADE"`
}

// MatchRating evaluates one task within one match. A task is rated at most
// once per match; the referenced task must belong to the match owner,
// enforced by the writer rather than the schema.
type MatchRating struct {
	ID      string `gorm:"primaryKey" json:"id"`
	MatchID string `gorm:"uniqueIndex:idx_ratings_match_task;not null" json:"match_id"`
	TaskID  string `gorm:"uniqueIndex:idx_ratings_match_task;index:idx_ratings_task_rating;not null" json:"task_id"`
	Rating  Rating `gorm:"type:varchar(4);index:idx_ratings_task_rating;not null" json:"rating"`

	CreatedAt time.Time `json:"created_at"`

	Task Task `json:"task" gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
}
