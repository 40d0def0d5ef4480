package services

import (
	"context"
	"errors"
	"fmt"

	"task-earn-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrBelowMinimum rejects a withdrawal under the level's payout floor.
var ErrBelowMinimum = errors.New("amount below minimum withdrawal")

// ProfileService fronts the ProfileStore for the HTTP layer and owns the
// withdrawal flow.
type ProfileService struct {
	DB    *gorm.DB
	Store ProfileStore
}

func NewProfileService(db *gorm.DB, store ProfileStore) *ProfileService {
	return &ProfileService{DB: db, Store: store}
}

// Get returns the caller's profile, creating the default row on first
// sign-in.
func (s *ProfileService) Get(ctx context.Context, userID string) (*models.Profile, error) {
	if userID == "" {
		return nil, ErrNoUser
	}
	return LoadOrCreateProfile(ctx, s.Store, userID)
}

// UpdateDisplay changes the owner-mutable fields (username, avatar).
func (s *ProfileService) UpdateDisplay(ctx context.Context, userID string, fields DisplayFields) (*models.Profile, error) {
	if userID == "" {
		return nil, ErrNoUser
	}
	if _, err := LoadOrCreateProfile(ctx, s.Store, userID); err != nil {
		return nil, err
	}
	if err := s.Store.UpdateDisplayFields(ctx, userID, fields); err != nil {
		return nil, err
	}
	return s.Store.Load(ctx, userID)
}

// Withdraw validates the level-dependent minimum, deducts the balance and
// records the payout request. TotalEarned is never reduced.
func (s *ProfileService) Withdraw(ctx context.Context, userID string, amount float64) (*models.WithdrawalRequest, error) {
	if userID == "" {
		return nil, ErrNoUser
	}
	if amount <= 0 {
		return nil, ErrBelowMinimum
	}

	prof, err := LoadOrCreateProfile(ctx, s.Store, userID)
	if err != nil {
		return nil, err
	}

	if min := models.MinWithdrawalFor(prof.Level); amount < min {
		return nil, fmt.Errorf("%w: minimum is %.2f at level %d", ErrBelowMinimum, min, prof.Level)
	}

	if err := s.Store.ApplyWithdrawal(ctx, userID, amount); err != nil {
		return nil, err
	}

	req := models.WithdrawalRequest{
		ID:     uuid.NewString(),
		UserID: userID,
		Amount: amount,
		Status: models.WithdrawalPending,
	}
	if err := s.DB.WithContext(ctx).Create(&req).Error; err != nil {
		return nil, fmt.Errorf("balance deducted but request not recorded: %w", err)
	}
	return &req, nil
}
