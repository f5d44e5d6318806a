package repository

import (
	"context"

	"github.com/lingvoapp/lingvo-backend/internal/domain/model"
)

// PricingRepository is the persisted cohort discount configuration.
type PricingRepository interface {
	// GetActiveByCohort returns the active pricing row for the cohort, or
	// nil when none exists.
	GetActiveByCohort(ctx context.Context, cohort model.Cohort) (*model.CohortPricing, error)

	// ListActive returns all active pricing rows.
	ListActive(ctx context.Context) ([]model.CohortPricing, error)

	// Upsert creates or replaces the pricing row for its cohort name.
	Upsert(ctx context.Context, pricing *model.CohortPricing) error
}
