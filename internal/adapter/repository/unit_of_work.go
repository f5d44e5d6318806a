package repository

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/lingvoapp/lingvo-backend/internal/domain/repository"
)

type gormUnitOfWork struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewUnitOfWork creates a GORM-transaction-backed unit of work.
func NewUnitOfWork(db *gorm.DB, logger *zap.Logger) repository.UnitOfWork {
	return &gormUnitOfWork{db: db, logger: logger}
}

// Do runs fn inside one database transaction. The repositories handed to
// fn are bound to that transaction, so row locks taken through them are
// held until commit or rollback.
func (u *gormUnitOfWork) Do(ctx context.Context, fn func(tx repository.TxRepositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&txRepositories{tx: tx, logger: u.logger})
	})
}

type txRepositories struct {
	tx     *gorm.DB
	logger *zap.Logger
}

func (t *txRepositories) Payments() repository.PaymentRepository {
	return NewPaymentRepository(t.tx, t.logger)
}

func (t *txRepositories) Entitlements() repository.EntitlementRepository {
	return NewEntitlementRepository(t.tx, t.logger)
}

func (t *txRepositories) Users() repository.UserRepository {
	return NewUserRepository(t.tx, t.logger)
}
