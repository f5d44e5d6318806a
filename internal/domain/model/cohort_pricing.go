package model

import (
	"time"
)

// Cohort is a classification label used to select a discount policy for
// a user on the paywall.
type Cohort string

const (
	CohortDefault        Cohort = "default"
	CohortNewUser        Cohort = "new_user"
	CohortPremiumTrial   Cohort = "premium_trial"
	CohortHighEngagement Cohort = "high_engagement"
	CohortTestPayment    Cohort = "test_payment"
)

// CohortPricing holds the persisted per-cohort discount configuration.
// At most one active row exists per cohort name; when no row exists the
// pricing engine falls back to hard-coded defaults.
type CohortPricing struct {
	ID                       int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CohortName               Cohort    `gorm:"size:40;not null;uniqueIndex" json:"cohort_name"`
	MonthlyDiscountPercent   int       `gorm:"default:0" json:"monthly_discount_percent"`
	QuarterlyDiscountPercent int       `gorm:"default:0" json:"quarterly_discount_percent"`
	YearlyDiscountPercent    int       `gorm:"default:0" json:"yearly_discount_percent"`
	PromoCode                string    `gorm:"size:40" json:"promo_code,omitempty"`
	IsActive                 bool      `gorm:"default:true" json:"is_active"`
	Description              string    `json:"description,omitempty"`
	UpdatedBy                string    `gorm:"size:64;default:'system'" json:"updated_by"`
	CreatedAt                time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt                time.Time `gorm:"default:now()" json:"updated_at"`
}

// DiscountPercent returns the configured discount for the given product.
func (c *CohortPricing) DiscountPercent(p Product) int {
	switch p {
	case ProductQuarterly:
		return c.QuarterlyDiscountPercent
	case ProductYearly:
		return c.YearlyDiscountPercent
	default:
		return c.MonthlyDiscountPercent
	}
}

// TableName specifies the table name for GORM
func (CohortPricing) TableName() string {
	return "cohort_pricing"
}
