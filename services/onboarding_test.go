package services

import (
	"context"
	"testing"

	"task-earn-system/models"
)

// fakeProfileStore is an in-memory ProfileStore for exercising the
// profile-side flows without a database.
type fakeProfileStore struct {
	profiles map[string]*models.Profile
	credits  int
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{profiles: map[string]*models.Profile{}}
}

func (f *fakeProfileStore) Load(ctx context.Context, userID string) (*models.Profile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfileStore) Create(ctx context.Context, userID string) (*models.Profile, error) {
	p := &models.Profile{
		ExternalUserID: userID,
		Username:       "Web3 User",
		Level:          1,
		ReferralCode:   newReferralCode("Web3 User"),
	}
	f.profiles[userID] = p
	cp := *p
	return &cp, nil
}

func (f *fakeProfileStore) FindByReferralCode(ctx context.Context, code string) (*models.Profile, error) {
	for _, p := range f.profiles {
		if p.ReferralCode == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrProfileNotFound
}

func (f *fakeProfileStore) ApplyBalanceCredit(ctx context.Context, userID string, amount float64) error {
	p, ok := f.profiles[userID]
	if !ok {
		return ErrProfileNotFound
	}
	p.Balance += amount
	p.TotalEarned += amount
	f.credits++
	return nil
}

func (f *fakeProfileStore) ApplyWithdrawal(ctx context.Context, userID string, amount float64) error {
	p, ok := f.profiles[userID]
	if !ok {
		return ErrProfileNotFound
	}
	if p.Balance < amount {
		return ErrInsufficientBalance
	}
	p.Balance -= amount
	return nil
}

func (f *fakeProfileStore) SetTasksCompletedCount(ctx context.Context, userID string, count int) error {
	p, ok := f.profiles[userID]
	if !ok {
		return ErrProfileNotFound
	}
	p.TasksCompleted = count
	return nil
}

func (f *fakeProfileStore) UpdateDisplayFields(ctx context.Context, userID string, fields DisplayFields) error {
	if err := validateDisplayFields(fields); err != nil {
		return err
	}
	p, ok := f.profiles[userID]
	if !ok {
		return ErrProfileNotFound
	}
	if fields.Username != nil {
		p.Username = *fields.Username
	}
	if fields.Avatar != nil {
		p.Avatar = fields.Avatar
	}
	return nil
}

func (f *fakeProfileStore) SetOnboardingGranted(ctx context.Context, userID string) error {
	p, ok := f.profiles[userID]
	if !ok {
		return ErrProfileNotFound
	}
	p.Congratulated = true
	p.HasGivenReward = true
	return nil
}

func allOnboardingDone() *models.UserProgress {
	return &models.UserProgress{
		CompletedTasks: models.BoolMap{
			models.TaskTelegram:  true,
			models.TaskInstagram: true,
			models.TaskSurvey:    true,
		},
	}
}

func TestOnboardingBonus_GrantedWhenAllComplete(t *testing.T) {
	store := newFakeProfileStore()
	if _, err := store.Create(context.Background(), "u1"); err != nil {
		t.Fatal(err)
	}
	svc := &VerificationService{Store: store}

	if err := svc.evaluateOnboardingBonus(context.Background(), "u1", allOnboardingDone()); err != nil {
		t.Fatalf("evaluateOnboardingBonus() error = %v", err)
	}

	p := store.profiles["u1"]
	if p.Balance != models.OnboardingBonusAmount {
		t.Errorf("balance = %.2f, want %.2f", p.Balance, models.OnboardingBonusAmount)
	}
	if !p.Congratulated || !p.HasGivenReward {
		t.Errorf("flags = (%v, %v), want both true", p.Congratulated, p.HasGivenReward)
	}
}

func TestOnboardingBonus_GrantedExactlyOnce(t *testing.T) {
	store := newFakeProfileStore()
	if _, err := store.Create(context.Background(), "u1"); err != nil {
		t.Fatal(err)
	}
	svc := &VerificationService{Store: store}

	prog := allOnboardingDone()
	for i := 0; i < 3; i++ {
		if err := svc.evaluateOnboardingBonus(context.Background(), "u1", prog); err != nil {
			t.Fatalf("call %d: error = %v", i+1, err)
		}
	}

	if got := store.profiles["u1"].Balance; got != models.OnboardingBonusAmount {
		t.Errorf("balance after repeat evaluation = %.2f, want %.2f", got, models.OnboardingBonusAmount)
	}
	if store.credits != 1 {
		t.Errorf("credit calls = %d, want 1", store.credits)
	}
}

func TestOnboardingBonus_NotGrantedWhilePartial(t *testing.T) {
	tests := []struct {
		name string
		done []string
	}{
		{"none", nil},
		{"telegram only", []string{models.TaskTelegram}},
		{"social pair without survey", []string{models.TaskTelegram, models.TaskInstagram}},
		{"survey only", []string{models.TaskSurvey}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeProfileStore()
			if _, err := store.Create(context.Background(), "u1"); err != nil {
				t.Fatal(err)
			}
			svc := &VerificationService{Store: store}

			prog := &models.UserProgress{CompletedTasks: models.BoolMap{}}
			for _, id := range tt.done {
				prog.CompletedTasks[id] = true
			}

			if err := svc.evaluateOnboardingBonus(context.Background(), "u1", prog); err != nil {
				t.Fatalf("evaluateOnboardingBonus() error = %v", err)
			}
			if got := store.profiles["u1"].Balance; got != 0 {
				t.Errorf("balance = %.2f, want 0", got)
			}
		})
	}
}
