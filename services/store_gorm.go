package services

import (
	"context"
	"errors"
	"time"

	"task-earn-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProfileStore persists profiles in the relational `profiles` table.
type GormProfileStore struct {
	DB *gorm.DB
}

func NewGormProfileStore(db *gorm.DB) *GormProfileStore {
	return &GormProfileStore{DB: db}
}

func (s *GormProfileStore) Load(ctx context.Context, userID string) (*models.Profile, error) {
	var prof models.Profile
	err := s.DB.WithContext(ctx).Where("external_user_id = ?", userID).First(&prof).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &prof, nil
}

func (s *GormProfileStore) Create(ctx context.Context, userID string) (*models.Profile, error) {
	prof := models.Profile{
		ID:             uuid.NewString(),
		ExternalUserID: userID,
		Username:       "Web3 User",
		Level:          1,
		ReferralCode:   newReferralCode("Web3 User"),
		JoinedAt:       time.Now(),
	}
	if err := s.DB.WithContext(ctx).Create(&prof).Error; err != nil {
		return nil, err
	}
	return &prof, nil
}

func (s *GormProfileStore) FindByReferralCode(ctx context.Context, code string) (*models.Profile, error) {
	var prof models.Profile
	err := s.DB.WithContext(ctx).Where("referral_code = ?", code).First(&prof).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &prof, nil
}

// ApplyBalanceCredit bumps balance and total_earned in a single UPDATE so
// the two never drift apart.
func (s *GormProfileStore) ApplyBalanceCredit(ctx context.Context, userID string, amount float64) error {
	res := s.DB.WithContext(ctx).Model(&models.Profile{}).
		Where("external_user_id = ?", userID).
		Updates(map[string]interface{}{
			"balance":      gorm.Expr("balance + ?", amount),
			"total_earned": gorm.Expr("total_earned + ?", amount),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// ApplyWithdrawal deducts from balance with an in-statement guard against
// overdraw.
func (s *GormProfileStore) ApplyWithdrawal(ctx context.Context, userID string, amount float64) error {
	res := s.DB.WithContext(ctx).Model(&models.Profile{}).
		Where("external_user_id = ? AND balance >= ?", userID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientBalance
	}
	return nil
}

func (s *GormProfileStore) SetTasksCompletedCount(ctx context.Context, userID string, count int) error {
	res := s.DB.WithContext(ctx).Model(&models.Profile{}).
		Where("external_user_id = ?", userID).
		Update("tasks_completed", count)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (s *GormProfileStore) UpdateDisplayFields(ctx context.Context, userID string, fields DisplayFields) error {
	if err := validateDisplayFields(fields); err != nil {
		return err
	}
	updates := map[string]interface{}{}
	if fields.Username != nil {
		updates["username"] = *fields.Username
	}
	if fields.Avatar != nil {
		updates["avatar"] = *fields.Avatar
	}
	if len(updates) == 0 {
		return nil
	}
	res := s.DB.WithContext(ctx).Model(&models.Profile{}).
		Where("external_user_id = ?", userID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (s *GormProfileStore) SetOnboardingGranted(ctx context.Context, userID string) error {
	res := s.DB.WithContext(ctx).Model(&models.Profile{}).
		Where("external_user_id = ?", userID).
		Updates(map[string]interface{}{
			"congratulated":    true,
			"has_given_reward": true,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}
