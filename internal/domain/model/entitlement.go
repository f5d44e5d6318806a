package model

import (
	"time"
)

// Entitlement is the single source of truth for "does this user have
// access to this product until when". At most one row exists per
// (user_id, product); ends_at only ever moves forward and starts_at is
// immutable once set. Rows with ends_at in the past are kept to detect
// lapsed subscribers.
type Entitlement struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"size:64;not null;uniqueIndex:uniq_user_product" json:"user_id"`
	Product   Product   `gorm:"size:20;not null;uniqueIndex:uniq_user_product" json:"product"`
	StartsAt  time.Time `gorm:"not null" json:"starts_at"`
	EndsAt    time.Time `gorm:"not null;index" json:"ends_at"`
	CreatedAt time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:now()" json:"updated_at"`
}

// Active reports whether the entitlement grants access at the given time.
func (e *Entitlement) Active(at time.Time) bool {
	return e.EndsAt.After(at)
}

// TableName specifies the table name for GORM
func (Entitlement) TableName() string {
	return "entitlements"
}
