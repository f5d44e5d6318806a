package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/lingvoapp/lingvo-backend/internal/domain/model"
)

// Migrate runs database migrations
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	err := db.AutoMigrate(
		&model.Payment{},
		&model.Entitlement{},
		&model.CohortPricing{},
		&model.User{},
		&model.LessonProgress{},
	)
	if err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return err
	}

	if err := createCustomIndexes(db); err != nil {
		logger.Error("Failed to create custom indexes", zap.Error(err))
		return err
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// createCustomIndexes creates indexes GORM's auto-migration doesn't cover.
// The two composite unique indexes are load-bearing: the payments one is
// the webhook idempotency mechanism, the entitlements one enforces at
// most one row per (user, product).
func createCustomIndexes(db *gorm.DB) error {
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS uniq_provider_txn_idem ON payments (provider_transaction_id, idempotency_key)`).Error; err != nil {
		return err
	}

	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS uniq_user_product ON entitlements (user_id, product)`).Error; err != nil {
		return err
	}

	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_payments_user_pending ON payments (user_id, created_at) WHERE status = 'pending'`).Error; err != nil {
		return err
	}

	return nil
}
