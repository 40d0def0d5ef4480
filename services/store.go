package services

import (
	"context"
	"errors"
	"strings"

	"task-earn-system/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

var (
	// ErrProfileNotFound is returned by Load when no profile row exists.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrInsufficientBalance is returned by ApplyWithdrawal when the
	// balance cannot cover the amount.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrUsernameTooLong is returned when a display name exceeds the cap.
	ErrUsernameTooLong = errors.New("username exceeds 12 characters")
)

// DisplayFields are the owner-mutable profile fields. Nil means unchanged.
type DisplayFields struct {
	Username *string
	Avatar   *string
}

// ProfileStore is the persistence collaborator behind the verification
// engine. Two interchangeable implementations exist: a Postgres-backed
// store (profiles table) and a Redis-backed store (one hash per user,
// fixed field names). Each mutator is atomic with respect to the fields it
// touches; callers sequence multi-call transactions themselves. No
// multi-field transaction is guaranteed across calls.
type ProfileStore interface {
	Load(ctx context.Context, userID string) (*models.Profile, error)
	Create(ctx context.Context, userID string) (*models.Profile, error)
	FindByReferralCode(ctx context.Context, code string) (*models.Profile, error)

	// ApplyBalanceCredit increments balance and total_earned together.
	ApplyBalanceCredit(ctx context.Context, userID string, amount float64) error
	// ApplyWithdrawal decrements balance only; total_earned is untouched.
	ApplyWithdrawal(ctx context.Context, userID string, amount float64) error
	SetTasksCompletedCount(ctx context.Context, userID string, count int) error
	UpdateDisplayFields(ctx context.Context, userID string, fields DisplayFields) error
	// SetOnboardingGranted sets congratulated and has_given_reward in one
	// mutation.
	SetOnboardingGranted(ctx context.Context, userID string) error
}

// LoadOrCreateProfile resolves a profile, creating the default row on
// first sign-in.
func LoadOrCreateProfile(ctx context.Context, store ProfileStore, userID string) (*models.Profile, error) {
	prof, err := store.Load(ctx, userID)
	if errors.Is(err, ErrProfileNotFound) {
		return store.Create(ctx, userID)
	}
	if err != nil {
		return nil, err
	}
	return prof, nil
}

// newReferralCode builds a short, readable, unique code from the default
// username plus a uuid fragment.
func newReferralCode(username string) string {
	base := slug.Make(username)
	if base == "" {
		base = "user"
	}
	frag := strings.Split(uuid.NewString(), "-")[0]
	return base + "-" + frag
}

func validateDisplayFields(fields DisplayFields) error {
	if fields.Username != nil && len([]rune(*fields.Username)) > models.MaxUsernameLen {
		return ErrUsernameTooLong
	}
	return nil
}
