package models

import "time"

// SubmissionStatus is the review state of a task submission
type SubmissionStatus string

const (
	StatusPending  SubmissionStatus = "Pending"
	StatusApproved SubmissionStatus = "Approved"
	StatusRejected SubmissionStatus = "Rejected"
)

// TaskSubmission is the durable record of an approved task. At most one
// live row per (user_id, task_id) — resubmission upserts over the prior
// row. Rejected attempts never persist a row; they only bump the fail
// counter on UserProgress.
type TaskSubmission struct {
	ID     string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID string `gorm:"uniqueIndex:idx_submissions_user_task;not null" json:"user_id"`
	TaskID string `gorm:"uniqueIndex:idx_submissions_user_task;not null" json:"task_id"`

	Status     SubmissionStatus `gorm:"not null;default:'Pending'" json:"status"`
	Screenshot *string          `gorm:"type:text" json:"screenshot,omitempty"`
	Text       *string          `gorm:"type:text" json:"text,omitempty"`

	SubmittedAt time.Time `json:"submitted_at"`

	Timestamps
}
