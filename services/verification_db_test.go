package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"task-earn-system/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// The model tags carry postgres column defaults (gen_random_uuid), so the
// test schema is written out explicitly instead of via AutoMigrate.
var engineSchema = []string{
	`CREATE TABLE user_progresses (
		id text PRIMARY KEY,
		external_user_id text NOT NULL UNIQUE,
		completed_tasks jsonb DEFAULT '{}',
		completed_first_click jsonb DEFAULT '{}',
		visited_tasks jsonb DEFAULT '{}',
		global_attempt_count integer DEFAULT 0,
		fail_attempt_count integer DEFAULT 0,
		created_at datetime,
		updated_at datetime,
		deleted_at datetime
	)`,
	`CREATE TABLE task_submissions (
		id text PRIMARY KEY,
		user_id text NOT NULL,
		task_id text NOT NULL,
		status text NOT NULL DEFAULT 'Pending',
		screenshot text,
		text text,
		submitted_at datetime,
		created_at datetime,
		updated_at datetime,
		deleted_at datetime,
		UNIQUE (user_id, task_id)
	)`,
	`CREATE TABLE pending_verifications (
		id text PRIMARY KEY,
		user_id text NOT NULL,
		task_id text NOT NULL,
		screenshot text,
		text text,
		deadline datetime NOT NULL,
		resolved boolean DEFAULT false,
		created_at datetime,
		updated_at datetime,
		deleted_at datetime
	)`,
	`CREATE TABLE verification_events (
		id text PRIMARY KEY,
		user_id text NOT NULL,
		task_id text NOT NULL,
		outcome text NOT NULL,
		created_at datetime
	)`,
}

func newEngineDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "engine.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	for _, ddl := range engineSchema {
		if err := db.Exec(ddl).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}

func newEngineService(t *testing.T) (*VerificationService, *fakeProfileStore) {
	t.Helper()
	store := newFakeProfileStore()
	svc := &VerificationService{DB: newEngineDB(t), Store: store, Delay: NoDelay{}}
	return svc, store
}

// The counter must be incremented before the decision reads it: the
// user's first-ever catalog attempt is attempt 1 and rejects. If the
// decision read the pre-increment value it would see 0 and approve.
func TestSubmitTask_FirstAttemptIncrementsBeforeDecision(t *testing.T) {
	svc, store := newEngineService(t)

	res, err := svc.SubmitTask(context.Background(), "u1", "3", Proof{})
	if err != nil {
		t.Fatalf("SubmitTask() error = %v", err)
	}
	if res.GlobalAttemptCount != 1 {
		t.Errorf("GlobalAttemptCount = %d, want 1", res.GlobalAttemptCount)
	}
	if res.Outcome != models.OutcomeRejected {
		t.Errorf("outcome = %s, want rejected", res.Outcome)
	}
	if res.FailAttemptCount != 1 {
		t.Errorf("FailAttemptCount = %d, want 1", res.FailAttemptCount)
	}
	if bal := store.profiles["u1"].Balance; bal != 0 {
		t.Errorf("balance after rejected attempt = %.2f, want 0", bal)
	}
}

func TestSubmitTask_CounterIsSharedAcrossTasks(t *testing.T) {
	svc, store := newEngineService(t)
	ctx := context.Background()

	if _, err := svc.SubmitTask(ctx, "u1", "3", Proof{}); err != nil {
		t.Fatalf("first attempt: %v", err)
	}

	res, err := svc.SubmitTask(ctx, "u1", "7", Proof{})
	if err != nil {
		t.Fatalf("second attempt: %v", err)
	}
	if res.GlobalAttemptCount != 2 {
		t.Errorf("GlobalAttemptCount = %d, want 2 (counter spans tasks)", res.GlobalAttemptCount)
	}
	if res.Outcome != models.OutcomeApproved {
		t.Fatalf("outcome = %s, want approved", res.Outcome)
	}

	task, _ := models.TaskByID("7")
	if res.RewardCredited != task.Reward {
		t.Errorf("RewardCredited = %.2f, want %.2f", res.RewardCredited, task.Reward)
	}
	if bal := store.profiles["u1"].Balance; bal != task.Reward {
		t.Errorf("balance = %.2f, want %.2f", bal, task.Reward)
	}
	if res.TasksCompleted != 1 {
		t.Errorf("TasksCompleted = %d, want 1", res.TasksCompleted)
	}
}

func TestFinalizePending_ResolvesAtMostOnce(t *testing.T) {
	svc, _ := newEngineService(t)
	ctx := context.Background()

	pending := models.PendingVerification{
		ID:       uuid.NewString(),
		UserID:   "u1",
		TaskID:   "7",
		Deadline: time.Now(),
	}
	if err := svc.DB.Create(&pending).Error; err != nil {
		t.Fatalf("seed pending row: %v", err)
	}

	if _, err := svc.FinalizePending(ctx, pending.ID); err != nil {
		t.Fatalf("first FinalizePending() error = %v", err)
	}

	if _, err := svc.FinalizePending(ctx, pending.ID); !errors.Is(err, ErrAlreadyFinalized) {
		t.Errorf("second FinalizePending() error = %v, want ErrAlreadyFinalized", err)
	}
}

func TestSubmitTask_SocialOnboardingFlowPersists(t *testing.T) {
	svc, store := newEngineService(t)
	ctx := context.Background()

	first, err := svc.SubmitTask(ctx, "u1", models.TaskTelegram, Proof{})
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	if first.Outcome != models.OutcomeRejected {
		t.Fatalf("first outcome = %s, want rejected", first.Outcome)
	}
	if first.GlobalAttemptCount != 0 {
		t.Errorf("onboarding attempt bumped the catalog counter to %d", first.GlobalAttemptCount)
	}

	prog, err := svc.GetProgress(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if !prog.CompletedFirstClick[models.FailedKey(models.TaskTelegram)] {
		t.Error("scripted failure sentinel not persisted")
	}

	second, err := svc.SubmitTask(ctx, "u1", models.TaskTelegram, Proof{})
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if second.Outcome != models.OutcomeApproved {
		t.Fatalf("second outcome = %s, want approved", second.Outcome)
	}
	if second.TasksCompleted != 0 {
		t.Errorf("TasksCompleted = %d, want 0 (telegram excluded)", second.TasksCompleted)
	}
	if bal := store.profiles["u1"].Balance; bal != 0 {
		t.Errorf("balance = %.2f, want 0 (no individual reward)", bal)
	}

	var subs int64
	svc.DB.Model(&models.TaskSubmission{}).Where("user_id = ?", "u1").Count(&subs)
	if subs != 1 {
		t.Fatalf("submission rows = %d, want 1", subs)
	}

	third, err := svc.SubmitTask(ctx, "u1", models.TaskTelegram, Proof{})
	if err != nil {
		t.Fatalf("third call: %v", err)
	}
	if third.Outcome != models.OutcomeApproved {
		t.Errorf("third outcome = %s, want approved", third.Outcome)
	}
	svc.DB.Model(&models.TaskSubmission{}).Where("user_id = ?", "u1").Count(&subs)
	if subs != 1 {
		t.Errorf("submission rows after repeat = %d, want 1", subs)
	}
}

func TestSubmitTask_RejectedAttemptEmitsEvent(t *testing.T) {
	svc, _ := newEngineService(t)
	ctx := context.Background()

	if _, err := svc.SubmitTask(ctx, "u1", "3", Proof{}); err != nil {
		t.Fatalf("rejected attempt: %v", err)
	}

	var events int64
	svc.DB.Model(&models.VerificationEvent{}).Where("user_id = ?", "u1").Count(&events)
	if events != 1 {
		t.Fatalf("event rows after reject = %d, want 1", events)
	}

	if _, err := svc.SubmitTask(ctx, "u1", "3", Proof{}); err != nil {
		t.Fatalf("approved attempt: %v", err)
	}
	svc.DB.Model(&models.VerificationEvent{}).Where("user_id = ?", "u1").Count(&events)
	if events != 1 {
		t.Errorf("event rows after approve = %d, want 1 (approvals are silent)", events)
	}
}

func TestEnsureProgress_SingleRowPerUser(t *testing.T) {
	svc, _ := newEngineService(t)

	var firstID, secondID string
	err := svc.DB.Transaction(func(tx *gorm.DB) error {
		p1, err := ensureProgressTx(tx, "u1")
		if err != nil {
			return err
		}
		firstID = p1.ID
		p2, err := ensureProgressTx(tx, "u1")
		if err != nil {
			return err
		}
		secondID = p2.ID
		return nil
	})
	if err != nil {
		t.Fatalf("ensureProgressTx: %v", err)
	}
	if firstID != secondID {
		t.Errorf("row ids differ across calls: %q vs %q", firstID, secondID)
	}

	var rows int64
	svc.DB.Model(&models.UserProgress{}).Where("external_user_id = ?", "u1").Count(&rows)
	if rows != 1 {
		t.Errorf("progress rows = %d, want 1", rows)
	}
}

func TestMarkVisited_Persists(t *testing.T) {
	svc, _ := newEngineService(t)
	ctx := context.Background()

	if err := svc.MarkVisited(ctx, "u1", "3"); err != nil {
		t.Fatalf("MarkVisited() error = %v", err)
	}
	if err := svc.MarkVisited(ctx, "u1", "3"); err != nil {
		t.Fatalf("repeat MarkVisited() error = %v", err)
	}

	prog, err := svc.GetProgress(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if !prog.VisitedTasks["3"] {
		t.Error("visit flag not persisted")
	}
}

func TestOnboardingBonus_EndToEnd(t *testing.T) {
	svc, store := newEngineService(t)
	ctx := context.Background()

	for _, id := range []string{models.TaskTelegram, models.TaskInstagram} {
		if _, err := svc.SubmitTask(ctx, "u1", id, Proof{}); err != nil {
			t.Fatalf("%s first call: %v", id, err)
		}
		res, err := svc.SubmitTask(ctx, "u1", id, Proof{})
		if err != nil {
			t.Fatalf("%s second call: %v", id, err)
		}
		if res.Outcome != models.OutcomeApproved {
			t.Fatalf("%s second outcome = %s, want approved", id, res.Outcome)
		}
	}
	if bal := store.profiles["u1"].Balance; bal != 0 {
		t.Fatalf("balance before survey = %.2f, want 0", bal)
	}

	res, err := svc.SubmitSurvey(ctx, "u1", []int{0, 1, 2, 0, 3})
	if err != nil {
		t.Fatalf("SubmitSurvey() error = %v", err)
	}
	if res.Outcome != models.OutcomeApproved {
		t.Fatalf("survey outcome = %s, want approved", res.Outcome)
	}

	prof := store.profiles["u1"]
	if prof.Balance != models.OnboardingBonusAmount {
		t.Errorf("balance = %.2f, want %.2f", prof.Balance, models.OnboardingBonusAmount)
	}
	if !prof.Congratulated || !prof.HasGivenReward {
		t.Errorf("flags = (%v, %v), want both true", prof.Congratulated, prof.HasGivenReward)
	}

	// Repeating the survey must not pay the bonus again.
	if _, err := svc.SubmitSurvey(ctx, "u1", []int{0, 0, 0, 0, 0}); err != nil {
		t.Fatalf("repeat survey: %v", err)
	}
	if bal := store.profiles["u1"].Balance; bal != models.OnboardingBonusAmount {
		t.Errorf("balance after repeat = %.2f, want %.2f", bal, models.OnboardingBonusAmount)
	}
}
