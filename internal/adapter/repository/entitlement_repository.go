package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lingvoapp/lingvo-backend/internal/domain/model"
	"github.com/lingvoapp/lingvo-backend/internal/domain/repository"
)

type entitlementRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewEntitlementRepository creates the GORM-backed entitlement store.
func NewEntitlementRepository(db *gorm.DB, logger *zap.Logger) repository.EntitlementRepository {
	return &entitlementRepository{db: db, logger: logger}
}

// GetForUpdate reads the (userID, product) row with FOR UPDATE. Inside a
// transaction the lock is held until commit, which serializes concurrent
// extensions against the same row.
func (r *entitlementRepository) GetForUpdate(ctx context.Context, userID string, product model.Product) (*model.Entitlement, error) {
	var ent model.Entitlement
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND product = ?", userID, product).
		First(&ent).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get entitlement",
			zap.String("user_id", userID),
			zap.String("product", string(product)),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get entitlement: %w", err)
	}
	return &ent, nil
}

// Create inserts a new entitlement row; a losing racer gets created=false
// instead of a unique-violation error.
func (r *entitlementRepository) Create(ctx context.Context, ent *model.Entitlement) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"},
				{Name: "product"},
			},
			DoNothing: true,
		}).
		Create(ent)

	if result.Error != nil {
		r.logger.Error("Failed to create entitlement",
			zap.String("user_id", ent.UserID),
			zap.String("product", string(ent.Product)),
			zap.Error(result.Error))
		return false, fmt.Errorf("failed to create entitlement: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// UpdateEndsAt moves ends_at forward; starts_at is never part of the
// update set.
func (r *entitlementRepository) UpdateEndsAt(ctx context.Context, userID string, product model.Product, endsAt time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&model.Entitlement{}).
		Where("user_id = ? AND product = ?", userID, product).
		Updates(map[string]interface{}{
			"ends_at":    endsAt,
			"updated_at": time.Now(),
		}).Error

	if err != nil {
		r.logger.Error("Failed to update entitlement",
			zap.String("user_id", userID),
			zap.String("product", string(product)),
			zap.Error(err))
		return fmt.Errorf("failed to update entitlement: %w", err)
	}
	return nil
}

// GetActive returns any of the user's entitlements active at the given
// time, or nil.
func (r *entitlementRepository) GetActive(ctx context.Context, userID string, at time.Time) (*model.Entitlement, error) {
	var ent model.Entitlement
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND ends_at > ?", userID, at).
		First(&ent).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active entitlement: %w", err)
	}
	return &ent, nil
}

// HasLapsed reports whether the user has at least one expired entitlement.
func (r *entitlementRepository) HasLapsed(ctx context.Context, userID string, at time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Entitlement{}).
		Where("user_id = ? AND ends_at < ?", userID, at).
		Count(&count).Error

	if err != nil {
		return false, fmt.Errorf("failed to count lapsed entitlements: %w", err)
	}
	return count > 0, nil
}

// ListByUser returns all entitlement rows of the user.
func (r *entitlementRepository) ListByUser(ctx context.Context, userID string) ([]model.Entitlement, error) {
	var ents []model.Entitlement
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("ends_at DESC").
		Find(&ents).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list entitlements: %w", err)
	}
	return ents, nil
}
