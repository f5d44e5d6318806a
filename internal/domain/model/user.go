package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// JSONB represents a JSONB database type
type JSONB map[string]interface{}

// Value implements driver.Valuer interface
func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner interface
func (j *JSONB) Scan(src interface{}) error {
	if src == nil {
		*j = nil
		return nil
	}

	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		*j = make(JSONB)
		return nil
	}
}

// User is the slice of the profile record this service reads. Profile
// storage is owned by another subsystem; the billing service only needs
// onboarding state for cohort classification and the first-touch UTM for
// purchase attribution.
type User struct {
	ID                    int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID                string     `gorm:"size:64;not null;uniqueIndex" json:"user_id"`
	OnboardingCompletedAt *time.Time `json:"onboarding_completed_at,omitempty"`
	FirstUTM              JSONB      `gorm:"column:first_utm;type:jsonb" json:"first_utm,omitempty"`
	CreatedAt             time.Time  `gorm:"default:now()" json:"created_at"`
	UpdatedAt             time.Time  `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// LessonProgress mirrors the progress subsystem's per-lesson completion
// rows; read-only here, used to count completed lessons for cohort
// classification.
type LessonProgress struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"size:64;not null;index" json:"user_id"`
	LessonID  string    `gorm:"size:64;not null" json:"lesson_id"`
	Status    string    `gorm:"size:20;not null" json:"status"`
	CreatedAt time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (LessonProgress) TableName() string {
	return "user_lesson_progress"
}

// LessonStatusCompleted marks a finished lesson in the progress rows.
const LessonStatusCompleted = "completed"
