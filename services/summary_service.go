package services

import (
	"log"
	"math"
	"time"

	"match-journal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SummaryService produces the 7-day rolling report. Now is injectable so
// the window reference date can be pinned in tests.
type SummaryService struct {
	DB  *gorm.DB
	Loc *time.Location
	Now func() time.Time
}

func NewSummaryService(db *gorm.DB, loc *time.Location) *SummaryService {
	return &SummaryService{DB: db, Loc: loc, Now: time.Now}
}

type ratingCounts struct {
	Circle   int `json:"circle"`
	Triangle int `json:"triangle"`
	Cross    int `json:"cross"`
}

type dailyCounts struct {
	Date    string       `json:"date,omitempty"`
	Matches int          `json:"matches"`
	Wins    int          `json:"wins"`
	Losses  int          `json:"losses"`
	WinRate float64      `json:"win_rate"`
	Ratings ratingCounts `json:"ratings"`
}

type summaryRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type dailySummaryResponse struct {
	Range  summaryRange  `json:"range"`
	Totals dailyCounts   `json:"totals"`
	Days   []dailyCounts `json:"days"`
}

func winRate(wins, matches int) float64 {
	if matches == 0 {
		return 0.0
	}
	return math.Round(float64(wins)/float64(matches)*1000) / 10
}

// GetDailySummary reports per-day and total match/win/loss and rating
// counts for the 7 calendar days ending today, zero-filling empty days.
// Day bucketing happens in Go so the configured timezone applies uniformly
// instead of whatever the database session happens to use.
func (s *SummaryService) GetDailySummary(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	now := s.Now().In(s.Loc)
	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.Loc)
	from := to.AddDate(0, 0, -6)
	windowEnd := to.AddDate(0, 0, 1)

	var matches []models.Match
	err := s.DB.Where("user_id = ? AND played_at >= ? AND played_at < ?", userID, from, windowEnd).
		Find(&matches).Error
	if err != nil {
		log.Printf("[SUMMARY] match query failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to build summary"})
	}

	type ratingRow struct {
		Rating   models.Rating
		PlayedAt time.Time
	}
	var ratingRows []ratingRow
	err = s.DB.Model(&models.MatchRating{}).
		Select("match_ratings.rating, matches.played_at").
		Joins("JOIN matches ON matches.id = match_ratings.match_id").
		Where("matches.user_id = ? AND matches.played_at >= ? AND matches.played_at < ?", userID, from, windowEnd).
		Scan(&ratingRows).Error
	if err != nil {
		log.Printf("[SUMMARY] rating query failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to build summary"})
	}

	byDate := make(map[string]*dailyCounts)
	for _, m := range matches {
		if m.PlayedAt == nil {
			continue
		}
		key := m.PlayedAt.In(s.Loc).Format("2006-01-02")
		day, ok := byDate[key]
		if !ok {
			day = &dailyCounts{}
			byDate[key] = day
		}
		day.Matches++
		if m.IsWin != nil {
			if *m.IsWin {
				day.Wins++
			} else {
				day.Losses++
			}
		}
	}
	for _, r := range ratingRows {
		key := r.PlayedAt.In(s.Loc).Format("2006-01-02")
		day, ok := byDate[key]
		if !ok {
			day = &dailyCounts{}
			byDate[key] = day
		}
		switch r.Rating {
		case models.RatingCircle:
			day.Ratings.Circle++
		case models.RatingTriangle:
			day.Ratings.Triangle++
		case models.RatingCross:
			day.Ratings.Cross++
		}
	}

	days := make([]dailyCounts, 0, 7)
	totals := dailyCounts{}
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		date := d.Format("2006-01-02")
		day := dailyCounts{Date: date}
		if counts, ok := byDate[date]; ok {
			day.Matches = counts.Matches
			day.Wins = counts.Wins
			day.Losses = counts.Losses
			day.Ratings = counts.Ratings
		}
		day.WinRate = winRate(day.Wins, day.Matches)
		days = append(days, day)

		totals.Matches += day.Matches
		totals.Wins += day.Wins
		totals.Losses += day.Losses
		totals.Ratings.Circle += day.Ratings.Circle
		totals.Ratings.Triangle += day.Ratings.Triangle
		totals.Ratings.Cross += day.Ratings.Cross
	}
	// Aggregate rate from totals, not an average of daily rates.
	totals.WinRate = winRate(totals.Wins, totals.Matches)

	return c.JSON(dailySummaryResponse{
		Range:  summaryRange{From: from.Format("2006-01-02"), To: to.Format("2006-01-02")},
		Totals: totals,
		Days:   days,
	})
}
