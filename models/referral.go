package models

import "time"

// Referral binds a referred user to their referrer. One row per referred
// user; created when the referred user attaches a referral code. The
// referrer earns a 5% share of every catalog reward credited to the
// referred user, but only while the referrer is level 2 or above (the
// program is locked at level 1).
type Referral struct {
	ID         string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ReferrerID string `gorm:"index;not null" json:"referrer_id"`       // ExternalUserID
	ReferredID string `gorm:"uniqueIndex;not null" json:"referred_id"` // ExternalUserID

	ReferralCodeUsed string     `gorm:"not null" json:"referral_code_used"`
	ShareEarned      float64    `gorm:"default:0" json:"share_earned"`
	LastShareAt      *time.Time `json:"last_share_at,omitempty"`

	Timestamps
}

// ReferralSharePercent of each referred catalog reward paid to the referrer.
const ReferralSharePercent = 0.05
