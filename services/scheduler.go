// services/scheduler.go
package services

import (
	"context"
	"errors"
	"log"
	"time"

	"task-earn-system/models"

	"github.com/go-co-op/gocron/v2"
)

// StartPendingFinalizer runs the background jobs around pending
// verifications: finalizing countdowns that outlived their request (the
// process restarted mid-delay, or the client vanished) and pruning old
// resolved rows.
func (s *VerificationService) StartPendingFinalizer() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Every 30s: resolve any countdown whose deadline has passed.
	_, _ = sched.NewJob(
		gocron.DurationJob(30*time.Second),
		gocron.NewTask(func() {
			var overdue []models.PendingVerification
			err := s.DB.Where("resolved = ? AND deadline <= ?", false, time.Now()).
				Limit(100).
				Find(&overdue).Error
			if err != nil {
				log.Printf("[Scheduler] DB error fetching overdue verifications: %v", err)
				return
			}

			for _, p := range overdue {
				result, err := s.FinalizePending(context.Background(), p.ID)
				if errors.Is(err, ErrAlreadyFinalized) {
					continue
				}
				if err != nil {
					log.Printf("[Scheduler] Failed to finalize verification %s: %v", p.ID, err)
					continue
				}
				log.Printf("✅ Finalized orphaned verification %s (task %s → %s)", p.ID, p.TaskID, result.Outcome)
			}
		}),
	)

	// Hourly: prune resolved rows older than 24h.
	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			cutoff := time.Now().Add(-24 * time.Hour)
			res := s.DB.Unscoped().
				Where("resolved = ? AND updated_at < ?", true, cutoff).
				Delete(&models.PendingVerification{})
			if res.Error != nil {
				log.Printf("[Scheduler] Failed to prune pending verifications: %v", res.Error)
			} else if res.RowsAffected > 0 {
				log.Printf("🧹 Pruned %d resolved verification row(s)", res.RowsAffected)
			}
		}),
	)
}
