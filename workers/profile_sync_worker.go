// workers/profile_sync_worker.go
package workers

import (
	"context"
	"log"
	"strings"
	"time"

	"task-earn-system/models"
	"task-earn-system/services"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileSyncWorker mirrors Redis-held profiles into the relational
// profiles table. Runs only when the Redis store is the active profile
// collaborator, so reporting queries and the sync of record both keep
// working off Postgres.
type ProfileSyncWorker struct {
	db       *gorm.DB
	store    *services.RedisProfileStore
	interval time.Duration
}

func NewProfileSyncWorker(db *gorm.DB, store *services.RedisProfileStore) *ProfileSyncWorker {
	return &ProfileSyncWorker{
		db:       db,
		store:    store,
		interval: 1 * time.Minute,
	}
}

func (w *ProfileSyncWorker) Start(ctx context.Context) {
	log.Println("🔁 Starting Profile Sync Worker (redis → profiles)…")
	go w.run(ctx)
}

func (w *ProfileSyncWorker) run(ctx context.Context) {
	if err := w.syncBatch(ctx); err != nil {
		log.Printf("⚠️ Initial profile sync failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Profile sync worker stopped.")
			return
		case <-ticker.C:
			if err := w.syncBatch(ctx); err != nil {
				log.Printf("❌ Profile sync error: %v", err)
			}
		}
	}
}

func (w *ProfileSyncWorker) syncBatch(ctx context.Context) error {
	var profiles []models.Profile

	iter := w.store.Client.Scan(ctx, 0, "profile:*", 100).Iterator()
	for iter.Next(ctx) {
		userID := strings.TrimPrefix(iter.Val(), "profile:")
		prof, err := w.store.Load(ctx, userID)
		if err != nil {
			log.Printf("⚠️ Skipping profile %s: %v", userID, err)
			continue
		}
		if prof.ID == "" {
			// hash predates the id field
			prof.ID = uuid.NewString()
		}
		profiles = append(profiles, *prof)
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(profiles) == 0 {
		return nil
	}

	// Bulk upsert keyed by external_user_id; the redis copy wins.
	if err := w.db.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns: []clause.Column{{Name: "external_user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"username",
				"avatar",
				"balance",
				"total_earned",
				"tasks_completed",
				"level",
				"referral_code",
				"congratulated",
				"has_given_reward",
				"joined_at",
				"updated_at",
			}),
		},
	).Create(&profiles).Error; err != nil {
		return err
	}

	log.Printf("📥 Mirrored %d profile(s) into the profiles table.", len(profiles))
	return nil
}
