package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lingvoapp/lingvo-backend/internal/domain/model"
	"github.com/lingvoapp/lingvo-backend/internal/domain/repository"
)

type pricingRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewPricingRepository creates the GORM-backed cohort pricing store.
func NewPricingRepository(db *gorm.DB, logger *zap.Logger) repository.PricingRepository {
	return &pricingRepository{db: db, logger: logger}
}

// GetActiveByCohort returns the active pricing row for the cohort, or nil.
func (r *pricingRepository) GetActiveByCohort(ctx context.Context, cohort model.Cohort) (*model.CohortPricing, error) {
	var pricing model.CohortPricing
	err := r.db.WithContext(ctx).
		Where("cohort_name = ? AND is_active = ?", cohort, true).
		First(&pricing).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get cohort pricing",
			zap.String("cohort", string(cohort)),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get cohort pricing: %w", err)
	}
	return &pricing, nil
}

// ListActive returns all active pricing rows.
func (r *pricingRepository) ListActive(ctx context.Context) ([]model.CohortPricing, error) {
	var rows []model.CohortPricing
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("cohort_name").
		Find(&rows).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list cohort pricing: %w", err)
	}
	return rows, nil
}

// Upsert creates or replaces the configuration for a cohort name.
func (r *pricingRepository) Upsert(ctx context.Context, pricing *model.CohortPricing) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cohort_name"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"monthly_discount_percent",
				"quarterly_discount_percent",
				"yearly_discount_percent",
				"promo_code",
				"is_active",
				"description",
				"updated_by",
				"updated_at",
			}),
		}).
		Create(pricing).Error

	if err != nil {
		r.logger.Error("Failed to upsert cohort pricing",
			zap.String("cohort", string(pricing.CohortName)),
			zap.Error(err))
		return fmt.Errorf("failed to upsert cohort pricing: %w", err)
	}
	return nil
}
