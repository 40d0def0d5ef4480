package models

import (
	"time"

	"gorm.io/gorm"
)

// Profile is the authoritative account row for a user: balance, lifetime
// earnings and the onboarding flags. One row per external user id.
// Balance and TotalEarned move in lockstep on task credits; only a
// withdrawal deducts Balance.
type Profile struct {
	ID             string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string  `gorm:"uniqueIndex;not null" json:"external_user_id"` // gateway user id
	Username       string  `gorm:"size:12;not null;default:'Web3 User'" json:"username"`
	Avatar         *string `gorm:"type:text" json:"avatar,omitempty"`

	Balance        float64 `gorm:"default:0" json:"balance"`
	TotalEarned    float64 `gorm:"default:0" json:"total_earned"`
	TasksCompleted int     `gorm:"default:0" json:"tasks_completed"`
	Level          int     `gorm:"default:1" json:"level"`

	ReferralCode string `gorm:"uniqueIndex;not null" json:"referral_code"`

	// Congratulated and HasGivenReward guard the one-time onboarding bonus.
	// Both are set in the same mutation; the pair exists because historical
	// clients checked them independently.
	Congratulated  bool `gorm:"default:false" json:"congratulated"`
	HasGivenReward bool `gorm:"default:false" json:"has_given_reward"`

	JoinedAt time.Time `json:"joined_at"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// MaxUsernameLen caps display names (mirrors the profiles column size).
const MaxUsernameLen = 12

// Withdrawal minimums by level. Level 1 users must accumulate $30 before a
// payout; from level 2 the floor drops to $1.
const (
	MinWithdrawalLevel1 = 30.0
	MinWithdrawalLevel2 = 1.0
)

// MinWithdrawalFor returns the payout floor for a given level.
func MinWithdrawalFor(level int) float64 {
	if level >= 2 {
		return MinWithdrawalLevel2
	}
	return MinWithdrawalLevel1
}
