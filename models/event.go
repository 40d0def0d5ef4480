package models

import "time"

// VerificationOutcome of a finished attempt
type VerificationOutcome string

const (
	OutcomeApproved VerificationOutcome = "approved"
	OutcomeRejected VerificationOutcome = "rejected"
)

// VerificationEvent is a fire-and-forget notification row consumed by the
// SSE stream. A rejected attempt always emits one; write failures are
// logged and ignored.
type VerificationEvent struct {
	ID      string              `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID  string              `gorm:"index;not null" json:"user_id"`
	TaskID  string              `gorm:"not null" json:"task_id"`
	Outcome VerificationOutcome `gorm:"not null" json:"outcome"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
