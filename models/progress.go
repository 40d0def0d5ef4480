package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// BoolMap is a string→bool map persisted as a JSONB column.
type BoolMap map[string]bool

// Value implements driver.Valuer.
func (m BoolMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *BoolMap) Scan(src interface{}) error {
	if src == nil {
		*m = BoolMap{}
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into BoolMap", src)
	}
	if len(data) == 0 {
		*m = BoolMap{}
		return nil
	}
	return json.Unmarshal(data, m)
}

// FailedKey is the sentinel progress key recording the scripted first
// failure of a social onboarding task ("telegram_failed", "instagram_failed").
func FailedKey(taskID string) string {
	return taskID + "_failed"
}

// UserProgress tracks per-user verification bookkeeping: the three boolean
// maps plus the two counters driving the attempt decision table. One row
// per user.
//
// GlobalAttemptCount is shared across ALL catalog tasks, not per task: the
// Nth catalog verification a user ever runs is attempt N regardless of
// which task it targets. It is incremented before the decision table is
// read and never reset.
type UserProgress struct {
	ID             string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string `gorm:"uniqueIndex;not null" json:"external_user_id"`

	CompletedTasks      BoolMap `gorm:"type:jsonb;default:'{}'" json:"completed_tasks"`
	CompletedFirstClick BoolMap `gorm:"type:jsonb;default:'{}'" json:"completed_first_click"`
	VisitedTasks        BoolMap `gorm:"type:jsonb;default:'{}'" json:"visited_tasks"`

	GlobalAttemptCount int `gorm:"default:0" json:"global_attempt_count"`
	FailAttemptCount   int `gorm:"default:0" json:"fail_attempt_count"`

	Timestamps
}
