package models

import "time"

// PendingVerification persists an in-flight verification attempt and its
// reveal deadline. Written before the simulated-check delay starts so that
// a countdown survives a process restart: the scheduler finalizes any
// unresolved row whose deadline has passed.
type PendingVerification struct {
	ID     string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID string `gorm:"index;not null" json:"user_id"`
	TaskID string `gorm:"not null" json:"task_id"`

	Screenshot *string `gorm:"type:text" json:"screenshot,omitempty"`
	Text       *string `gorm:"type:text" json:"text,omitempty"`

	Deadline time.Time `gorm:"index;not null" json:"deadline"`
	Resolved bool      `gorm:"default:false;index" json:"resolved"`

	Timestamps
}
