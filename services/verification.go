package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"task-earn-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrNoUser means no authenticated user context exists; every engine
	// operation is a failing no-op without one.
	ErrNoUser = errors.New("no authenticated user")
	// ErrUnknownTask means the task id is not in the catalog.
	ErrUnknownTask = errors.New("unknown task")
	// ErrAlreadyFinalized means a pending verification was resolved by a
	// concurrent finalizer (request path vs. scheduler).
	ErrAlreadyFinalized = errors.New("verification already finalized")
	// ErrSurveyIncomplete means the survey payload did not answer every
	// question.
	ErrSurveyIncomplete = errors.New("survey answers incomplete")
)

// Delayer simulates the external "checking" latency before a verdict is
// revealed. The decision itself is pure and instantaneous; the delay is
// UX theater kept out of the decision path so tests run without waiting.
type Delayer interface {
	Wait(ctx context.Context) error
}

// FixedDelay waits a constant duration, honoring cancellation.
type FixedDelay struct {
	D time.Duration
}

func (d FixedDelay) Wait(ctx context.Context) error {
	timer := time.NewTimer(d.D)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// NoDelay resolves immediately.
type NoDelay struct{}

func (NoDelay) Wait(context.Context) error { return nil }

// Proof is the (never validated) payload attached to a submission.
type Proof struct {
	Text       *string `json:"text,omitempty"`
	Screenshot *string `json:"screenshot,omitempty"`
}

// SubmitResult reports one finished verification attempt.
type SubmitResult struct {
	TaskID             string                     `json:"task_id"`
	Outcome            models.VerificationOutcome `json:"outcome"`
	RewardCredited     float64                    `json:"reward_credited"`
	GlobalAttemptCount int                        `json:"global_attempt_count"`
	FailAttemptCount   int                        `json:"fail_attempt_count"`
	TasksCompleted     int                        `json:"tasks_completed"`
}

// VerificationService runs the verification flow end to end: progress
// bookkeeping and submission rows in Postgres, profile mutations through
// the pluggable ProfileStore, and the simulated delay through a Delayer.
type VerificationService struct {
	DB        *gorm.DB
	Store     ProfileStore
	Referrals *ReferralService
	Delay     Delayer
}

func NewVerificationService(db *gorm.DB, store ProfileStore, referrals *ReferralService, delay Delayer) *VerificationService {
	return &VerificationService{DB: db, Store: store, Referrals: referrals, Delay: delay}
}

// SubmitTask runs one verification attempt for the user. Onboarding tasks
// resolve immediately; catalog tasks persist a pending row, sit through
// the simulated check, then resolve. The pending row lets the scheduler
// finish countdowns orphaned by a restart.
func (s *VerificationService) SubmitTask(ctx context.Context, userID, taskID string, proof Proof) (*SubmitResult, error) {
	if userID == "" {
		return nil, ErrNoUser
	}
	task, ok := models.TaskByID(taskID)
	if !ok {
		return nil, ErrUnknownTask
	}

	if models.IsOnboarding(task.ID) {
		return s.resolve(ctx, userID, task, proof)
	}

	pending := models.PendingVerification{
		ID:         uuid.NewString(),
		UserID:     userID,
		TaskID:     task.ID,
		Text:       proof.Text,
		Screenshot: proof.Screenshot,
		Deadline:   time.Now().Add(s.delayDuration()),
	}
	if err := s.DB.WithContext(ctx).Create(&pending).Error; err != nil {
		return nil, fmt.Errorf("failed to record pending verification: %w", err)
	}

	if err := s.Delay.Wait(ctx); err != nil {
		// Caller went away mid-countdown; the scheduler will finalize
		// the row once the deadline passes.
		return nil, err
	}

	return s.FinalizePending(ctx, pending.ID)
}

// SubmitSurvey validates the 5-answer payload and runs the survey rule.
func (s *VerificationService) SubmitSurvey(ctx context.Context, userID string, answers []int) (*SubmitResult, error) {
	if len(answers) != len(models.SurveyQuestions) {
		return nil, ErrSurveyIncomplete
	}
	for i, a := range answers {
		if a < 0 || a >= len(models.SurveyQuestions[i].Options) {
			return nil, ErrSurveyIncomplete
		}
	}
	return s.SubmitTask(ctx, userID, models.TaskSurvey, Proof{})
}

// FinalizePending claims and resolves one pending verification. The claim
// is a conditional update so the request path and the scheduler can never
// both resolve the same attempt.
func (s *VerificationService) FinalizePending(ctx context.Context, pendingID string) (*SubmitResult, error) {
	res := s.DB.WithContext(ctx).Model(&models.PendingVerification{}).
		Where("id = ? AND resolved = ?", pendingID, false).
		Update("resolved", true)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrAlreadyFinalized
	}

	var pending models.PendingVerification
	if err := s.DB.WithContext(ctx).First(&pending, "id = ?", pendingID).Error; err != nil {
		return nil, err
	}
	task, ok := models.TaskByID(pending.TaskID)
	if !ok {
		return nil, ErrUnknownTask
	}
	return s.resolve(ctx, pending.UserID, task, Proof{Text: pending.Text, Screenshot: pending.Screenshot})
}

// resolve applies the decision rule and its side effects. Counter
// mutations and the decision read happen inside one row-locked
// transaction (increment-then-read, strictly sequential per user);
// ProfileStore mutations are sequenced after commit since the store may
// not share the database.
func (s *VerificationService) resolve(ctx context.Context, userID string, task models.Task, proof Proof) (*SubmitResult, error) {
	var (
		d    Decision
		prog models.UserProgress
	)

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := ensureProgressTx(tx, userID)
		if err != nil {
			return err
		}

		if !models.IsOnboarding(task.ID) {
			p.GlobalAttemptCount++
		}

		d = Decide(task.ID, AttemptContext{
			GlobalAttempt: p.GlobalAttemptCount,
			FirstFailSeen: p.CompletedFirstClick[models.FailedKey(task.ID)],
			AlreadyDone:   p.CompletedTasks[task.ID],
		})

		if d.MarkFirstFail {
			p.CompletedFirstClick[models.FailedKey(task.ID)] = true
		}
		if d.CountFailure {
			p.FailAttemptCount++
		}
		if d.MarkCompleted {
			p.CompletedTasks[task.ID] = true
		}

		if err := tx.Save(p).Error; err != nil {
			return fmt.Errorf("failed to save progress: %w", err)
		}

		if d.WriteSubmission {
			sub := models.TaskSubmission{
				ID:          uuid.NewString(),
				UserID:      userID,
				TaskID:      task.ID,
				Status:      models.StatusApproved,
				Text:        proof.Text,
				Screenshot:  proof.Screenshot,
				SubmittedAt: time.Now(),
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "user_id"}, {Name: "task_id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"status", "text", "screenshot", "submitted_at", "updated_at",
				}),
			}).Create(&sub).Error; err != nil {
				return fmt.Errorf("failed to upsert submission: %w", err)
			}
		}

		prog = *p
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &SubmitResult{
		TaskID:             task.ID,
		Outcome:            d.Outcome,
		GlobalAttemptCount: prog.GlobalAttemptCount,
		FailAttemptCount:   prog.FailAttemptCount,
	}

	if _, err := LoadOrCreateProfile(ctx, s.Store, userID); err != nil {
		return nil, fmt.Errorf("profile store unavailable: %w", err)
	}

	if d.CreditReward {
		if err := s.Store.ApplyBalanceCredit(ctx, userID, task.Reward); err != nil {
			return nil, fmt.Errorf("failed to credit reward: %w", err)
		}
		result.RewardCredited = task.Reward

		if s.Referrals != nil {
			if err := s.Referrals.ShareReward(ctx, userID, task.Reward); err != nil {
				log.Printf("⚠️ Referral share failed for %s: %v", userID, err)
			}
		}
	}

	if d.RecountCompleted {
		count, err := s.countCompleted(ctx, userID)
		if err != nil {
			return nil, err
		}
		if err := s.Store.SetTasksCompletedCount(ctx, userID, count); err != nil {
			return nil, fmt.Errorf("failed to update completed count: %w", err)
		}
		result.TasksCompleted = count
	}

	// The bonus check runs only at the point completed_tasks changed, not
	// on every read.
	if d.MarkCompleted && models.IsOnboarding(task.ID) {
		if err := s.evaluateOnboardingBonus(ctx, userID, &prog); err != nil {
			return nil, err
		}
	}

	if d.Outcome == models.OutcomeRejected {
		s.emitEvent(userID, task.ID, models.OutcomeRejected)
	}

	return result, nil
}

// evaluateOnboardingBonus grants the one-time bonus once telegram,
// instagram and survey are all complete. Idempotent: the flag pair guards
// re-evaluation.
func (s *VerificationService) evaluateOnboardingBonus(ctx context.Context, userID string, prog *models.UserProgress) error {
	if !prog.CompletedTasks[models.TaskTelegram] ||
		!prog.CompletedTasks[models.TaskInstagram] ||
		!prog.CompletedTasks[models.TaskSurvey] {
		return nil
	}

	prof, err := s.Store.Load(ctx, userID)
	if err != nil {
		return err
	}
	if prof.Congratulated || prof.HasGivenReward {
		return nil
	}

	if err := s.Store.ApplyBalanceCredit(ctx, userID, models.OnboardingBonusAmount); err != nil {
		return fmt.Errorf("failed to credit onboarding bonus: %w", err)
	}
	if err := s.Store.SetOnboardingGranted(ctx, userID); err != nil {
		return fmt.Errorf("failed to set onboarding flags: %w", err)
	}
	log.Printf("🎉 Onboarding bonus granted: %s (+%.2f)", userID, models.OnboardingBonusAmount)
	return nil
}

// countCompleted returns the number of distinct approved catalog tasks,
// excluding the two social onboarding ids. The survey never writes a
// submission row, so it is excluded implicitly.
func (s *VerificationService) countCompleted(ctx context.Context, userID string) (int, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.TaskSubmission{}).
		Where("user_id = ? AND status = ?", userID, models.StatusApproved).
		Where("task_id NOT IN ?", []string{models.TaskTelegram, models.TaskInstagram}).
		Count(&count).Error
	return int(count), err
}

// emitEvent writes a fire-and-forget verification event for the SSE
// stream. Failures are logged, never propagated.
func (s *VerificationService) emitEvent(userID, taskID string, outcome models.VerificationOutcome) {
	event := models.VerificationEvent{
		ID:      uuid.NewString(),
		UserID:  userID,
		TaskID:  taskID,
		Outcome: outcome,
	}
	if err := s.DB.Create(&event).Error; err != nil {
		log.Printf("⚠️ Failed to emit verification event for %s/%s: %v", userID, taskID, err)
	}
}

func (s *VerificationService) delayDuration() time.Duration {
	if fd, ok := s.Delay.(FixedDelay); ok {
		return fd.D
	}
	return 0
}

// lockForUpdate takes the row lock that serializes a user's attempts.
// Only postgres understands FOR UPDATE; sqlite serializes writers
// globally, so the clause would be a syntax error there.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// ensureProgressTx loads the caller's progress row FOR UPDATE, creating
// it on first use. The lock serializes concurrent attempts per user so
// the attempt counter can never double-increment under a race. Two
// first-ever attempts can race the insert; DoNothing lets the loser fall
// through to the locked read of the winner's row.
func ensureProgressTx(tx *gorm.DB, userID string) (*models.UserProgress, error) {
	blank := models.UserProgress{
		ID:                  uuid.NewString(),
		ExternalUserID:      userID,
		CompletedTasks:      models.BoolMap{},
		CompletedFirstClick: models.BoolMap{},
		VisitedTasks:        models.BoolMap{},
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_user_id"}},
		DoNothing: true,
	}).Create(&blank).Error; err != nil {
		return nil, err
	}

	var prog models.UserProgress
	if err := lockForUpdate(tx).
		Where("external_user_id = ?", userID).
		First(&prog).Error; err != nil {
		return nil, err
	}
	if prog.CompletedTasks == nil {
		prog.CompletedTasks = models.BoolMap{}
	}
	if prog.CompletedFirstClick == nil {
		prog.CompletedFirstClick = models.BoolMap{}
	}
	if prog.VisitedTasks == nil {
		prog.VisitedTasks = models.BoolMap{}
	}
	return &prog, nil
}

// GetProgress returns the user's progress snapshot, creating the row on
// first access.
func (s *VerificationService) GetProgress(ctx context.Context, userID string) (*models.UserProgress, error) {
	if userID == "" {
		return nil, ErrNoUser
	}
	var prog *models.UserProgress
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := ensureProgressTx(tx, userID)
		if err != nil {
			return err
		}
		prog = p
		return nil
	})
	return prog, err
}

// MarkVisited records that the user opened the task's external link.
func (s *VerificationService) MarkVisited(ctx context.Context, userID, taskID string) error {
	if userID == "" {
		return ErrNoUser
	}
	if _, ok := models.TaskByID(taskID); !ok {
		return ErrUnknownTask
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		prog, err := ensureProgressTx(tx, userID)
		if err != nil {
			return err
		}
		if prog.VisitedTasks[taskID] {
			return nil
		}
		prog.VisitedTasks[taskID] = true
		return tx.Save(prog).Error
	})
}

// ListSubmissions returns the user's submission records, newest first.
func (s *VerificationService) ListSubmissions(ctx context.Context, userID string) ([]models.TaskSubmission, error) {
	if userID == "" {
		return nil, ErrNoUser
	}
	var subs []models.TaskSubmission
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("submitted_at DESC").
		Find(&subs).Error
	return subs, err
}
