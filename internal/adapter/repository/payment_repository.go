package repository

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lingvoapp/lingvo-backend/internal/domain/model"
	"github.com/lingvoapp/lingvo-backend/internal/domain/repository"
)

type paymentRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewPaymentRepository creates the GORM-backed payment ledger.
func NewPaymentRepository(db *gorm.DB, logger *zap.Logger) repository.PaymentRepository {
	return &paymentRepository{db: db, logger: logger}
}

// Insert appends a ledger row. The composite unique index on
// (provider_transaction_id, idempotency_key) plus ON CONFLICT DO NOTHING
// turn duplicate delivery into created=false instead of an error, so the
// caller branches on a typed signal rather than sniffing error strings.
func (r *paymentRepository) Insert(ctx context.Context, payment *model.Payment) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "provider_transaction_id"},
				{Name: "idempotency_key"},
			},
			DoNothing: true,
		}).
		Create(payment)

	if result.Error != nil {
		r.logger.Error("Failed to insert payment",
			zap.String("provider_transaction_id", payment.ProviderTransactionID),
			zap.String("idempotency_key", payment.IdempotencyKey),
			zap.Error(result.Error))
		return false, fmt.Errorf("failed to insert payment: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

// CountPendingSince counts the user's pending payments created after the
// given time.
func (r *paymentRepository) CountPendingSince(ctx context.Context, userID string, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Payment{}).
		Where("user_id = ? AND status = ? AND created_at > ?", userID, model.PaymentStatusPending, since).
		Count(&count).Error

	if err != nil {
		return 0, fmt.Errorf("failed to count pending payments: %w", err)
	}
	return count, nil
}

// ListRecentByUser returns the user's most recent ledger rows.
func (r *paymentRepository) ListRecentByUser(ctx context.Context, userID string, limit int) ([]model.Payment, error) {
	var payments []model.Payment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&payments).Error

	if err != nil {
		r.logger.Error("Failed to list payments",
			zap.String("user_id", userID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}
