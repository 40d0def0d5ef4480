package services

import (
	"context"
	"errors"
	"time"

	"task-earn-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrSelfReferral rejects attaching your own code.
	ErrSelfReferral = errors.New("cannot use your own referral code")
	// ErrAlreadyReferred rejects a second attach for the same user.
	ErrAlreadyReferred = errors.New("referral already attached")
	// ErrInvalidReferralCode means no profile owns the code.
	ErrInvalidReferralCode = errors.New("invalid referral code")
)

// ReferralStats summarizes a referrer's program standing.
type ReferralStats struct {
	TotalReferrals  int64   `json:"total_referrals"`
	ActiveReferrals int64   `json:"active_referrals"`
	Earnings        float64 `json:"earnings"`
	Unlocked        bool    `json:"unlocked"`
}

// ReferralService binds referred users to referrers and pays the 5%
// earnings share. The program is locked until the referrer reaches
// level 2; shares for locked referrers are simply skipped.
type ReferralService struct {
	DB    *gorm.DB
	Store ProfileStore
}

func NewReferralService(db *gorm.DB, store ProfileStore) *ReferralService {
	return &ReferralService{DB: db, Store: store}
}

// Attach binds userID to the owner of code. One referral per referred
// user, self-referral rejected.
func (s *ReferralService) Attach(ctx context.Context, userID, code string) (*models.Referral, error) {
	if userID == "" {
		return nil, ErrNoUser
	}

	referrer, err := s.Store.FindByReferralCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, ErrInvalidReferralCode
		}
		return nil, err
	}
	if referrer.ExternalUserID == userID {
		return nil, ErrSelfReferral
	}

	var existing models.Referral
	err = s.DB.WithContext(ctx).Where("referred_id = ?", userID).First(&existing).Error
	if err == nil {
		return nil, ErrAlreadyReferred
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	ref := models.Referral{
		ID:               uuid.NewString(),
		ReferrerID:       referrer.ExternalUserID,
		ReferredID:       userID,
		ReferralCodeUsed: code,
	}
	if err := s.DB.WithContext(ctx).Create(&ref).Error; err != nil {
		return nil, err
	}
	return &ref, nil
}

// ShareReward credits the referrer their cut of a reward just credited to
// the referred user. No referral row or a locked referrer is not an
// error; there is simply nothing to pay.
func (s *ReferralService) ShareReward(ctx context.Context, referredID string, reward float64) error {
	if reward <= 0 {
		return nil
	}

	var ref models.Referral
	err := s.DB.WithContext(ctx).Where("referred_id = ?", referredID).First(&ref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	referrer, err := s.Store.Load(ctx, ref.ReferrerID)
	if err != nil {
		return err
	}
	if referrer.Level < 2 {
		return nil
	}

	share := reward * models.ReferralSharePercent
	if err := s.Store.ApplyBalanceCredit(ctx, ref.ReferrerID, share); err != nil {
		return err
	}

	now := time.Now()
	return s.DB.WithContext(ctx).Model(&models.Referral{}).
		Where("id = ?", ref.ID).
		Updates(map[string]interface{}{
			"share_earned":  gorm.Expr("share_earned + ?", share),
			"last_share_at": now,
		}).Error
}

// Stats aggregates a referrer's totals.
func (s *ReferralService) Stats(ctx context.Context, userID string) (*ReferralStats, error) {
	if userID == "" {
		return nil, ErrNoUser
	}

	prof, err := LoadOrCreateProfile(ctx, s.Store, userID)
	if err != nil {
		return nil, err
	}

	stats := &ReferralStats{Unlocked: prof.Level >= 2}

	if err := s.DB.WithContext(ctx).Model(&models.Referral{}).
		Where("referrer_id = ?", userID).
		Count(&stats.TotalReferrals).Error; err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Model(&models.Referral{}).
		Where("referrer_id = ? AND share_earned > 0", userID).
		Count(&stats.ActiveReferrals).Error; err != nil {
		return nil, err
	}

	var earnings struct{ Total float64 }
	if err := s.DB.WithContext(ctx).Model(&models.Referral{}).
		Select("COALESCE(SUM(share_earned), 0) AS total").
		Where("referrer_id = ?", userID).
		Scan(&earnings).Error; err != nil {
		return nil, err
	}
	stats.Earnings = earnings.Total

	return stats, nil
}
