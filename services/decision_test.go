package services

import (
	"testing"

	"task-earn-system/models"
)

// --- Catalog rule (shared attempt counter) ---

func TestDecide_CatalogAttemptTable(t *testing.T) {
	tests := []struct {
		attempt int
		want    models.VerificationOutcome
	}{
		{1, models.OutcomeRejected},
		{2, models.OutcomeApproved},
		{3, models.OutcomeApproved},
		{4, models.OutcomeRejected},
		{5, models.OutcomeRejected},
		{6, models.OutcomeApproved},
		{7, models.OutcomeApproved},
		{42, models.OutcomeApproved},
	}

	for _, tt := range tests {
		d := Decide("3", AttemptContext{GlobalAttempt: tt.attempt})
		if d.Outcome != tt.want {
			t.Errorf("attempt %d: outcome = %s, want %s", tt.attempt, d.Outcome, tt.want)
		}
	}
}

func TestDecide_CatalogRejectSideEffects(t *testing.T) {
	d := Decide("7", AttemptContext{GlobalAttempt: 1})
	if d.Outcome != models.OutcomeRejected {
		t.Fatalf("outcome = %s, want rejected", d.Outcome)
	}
	if !d.CountFailure {
		t.Error("rejected catalog attempt must count a failure")
	}
	if d.CreditReward || d.WriteSubmission || d.MarkCompleted {
		t.Error("rejected catalog attempt must not credit, write or complete")
	}
}

func TestDecide_CatalogAcceptSideEffects(t *testing.T) {
	d := Decide("7", AttemptContext{GlobalAttempt: 2})
	if d.Outcome != models.OutcomeApproved {
		t.Fatalf("outcome = %s, want approved", d.Outcome)
	}
	if !d.CreditReward || !d.WriteSubmission || !d.MarkCompleted || !d.RecountCompleted {
		t.Errorf("approved catalog attempt missing side effects: %+v", d)
	}
	if d.CountFailure || d.MarkFirstFail {
		t.Errorf("approved catalog attempt must not fail-count: %+v", d)
	}
}

// The counter is global: the same attempt number decides identically for
// any catalog task id.
func TestDecide_CatalogCounterIsSharedAcrossTasks(t *testing.T) {
	for _, id := range []string{"1", "2", "11"} {
		d := Decide(id, AttemptContext{GlobalAttempt: 4})
		if d.Outcome != models.OutcomeRejected {
			t.Errorf("task %s attempt 4: outcome = %s, want rejected", id, d.Outcome)
		}
	}
}

// Scenario: new user attempts task "1" twice. First-ever attempt rejects
// with a counted failure; the retry (attempt 2) approves and credits.
func TestDecide_RetryAfterFirstAttempt(t *testing.T) {
	first := Decide("1", AttemptContext{GlobalAttempt: 1})
	if first.Outcome != models.OutcomeRejected || !first.CountFailure {
		t.Fatalf("first attempt = %+v, want rejected with counted failure", first)
	}

	second := Decide("1", AttemptContext{GlobalAttempt: 2})
	if second.Outcome != models.OutcomeApproved || !second.CreditReward {
		t.Fatalf("second attempt = %+v, want approved with credit", second)
	}
}

// --- Social onboarding rule (scripted first failure) ---

func TestDecide_SocialFirstCallAlwaysRejects(t *testing.T) {
	for _, id := range []string{models.TaskTelegram, models.TaskInstagram} {
		d := Decide(id, AttemptContext{})
		if d.Outcome != models.OutcomeRejected {
			t.Errorf("%s first call: outcome = %s, want rejected", id, d.Outcome)
		}
		if !d.MarkFirstFail {
			t.Errorf("%s first call must set the _failed sentinel", id)
		}
		if d.CountFailure {
			t.Errorf("%s first call must not touch fail_attempt_count", id)
		}
	}
}

func TestDecide_SocialSecondCallApproves(t *testing.T) {
	d := Decide(models.TaskTelegram, AttemptContext{FirstFailSeen: true})
	if d.Outcome != models.OutcomeApproved {
		t.Fatalf("outcome = %s, want approved", d.Outcome)
	}
	if !d.WriteSubmission || !d.MarkCompleted || !d.RecountCompleted {
		t.Errorf("second call missing side effects: %+v", d)
	}
	if d.CreditReward {
		t.Error("social onboarding tasks carry no individual reward")
	}
}

func TestDecide_SocialThirdCallIsNoOp(t *testing.T) {
	d := Decide(models.TaskInstagram, AttemptContext{FirstFailSeen: true, AlreadyDone: true})
	if d.Outcome != models.OutcomeApproved {
		t.Fatalf("outcome = %s, want approved", d.Outcome)
	}
	if d.WriteSubmission || d.MarkCompleted || d.CreditReward || d.RecountCompleted {
		t.Errorf("repeat call must not mutate anything: %+v", d)
	}
}

// --- Survey rule ---

func TestDecide_SurveyApprovesImmediately(t *testing.T) {
	d := Decide(models.TaskSurvey, AttemptContext{})
	if d.Outcome != models.OutcomeApproved {
		t.Fatalf("outcome = %s, want approved", d.Outcome)
	}
	if !d.MarkCompleted {
		t.Error("survey approval must set the completion flag")
	}
	if d.WriteSubmission {
		t.Error("survey completion is flag-only, no submission row")
	}
	if d.CreditReward {
		t.Error("survey carries no individual reward")
	}
}

func TestDecide_SurveyRepeatIsNoOp(t *testing.T) {
	d := Decide(models.TaskSurvey, AttemptContext{AlreadyDone: true})
	if d.Outcome != models.OutcomeApproved || d.MarkCompleted {
		t.Errorf("repeat survey call = %+v, want bare approval", d)
	}
}
