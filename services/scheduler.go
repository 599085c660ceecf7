package services

import (
	"log"
	"time"

	"match-journal/models"

	"github.com/go-co-op/gocron/v2"
)

// StartTokenCleanupScheduler purges expired access tokens in the background
// so revoked sessions do not accumulate forever.
func (s *AuthService) StartTokenCleanupScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			res := s.DB.Where("expires_at <= ?", time.Now()).Delete(&models.AccessToken{})
			if res.Error != nil {
				log.Printf("[Scheduler] token cleanup failed: %v", res.Error)
				return
			}
			if res.RowsAffected > 0 {
				log.Printf("🧹 Purged %d expired access tokens", res.RowsAffected)
			}
		}),
	)
}
