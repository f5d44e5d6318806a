package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	adapterRepo "github.com/lingvoapp/lingvo-backend/internal/adapter/repository"
	domainRepo "github.com/lingvoapp/lingvo-backend/internal/domain/repository"
)

// Repositories holds all repository instances
type Repositories struct {
	Payment     domainRepo.PaymentRepository
	Entitlement domainRepo.EntitlementRepository
	Pricing     domainRepo.PricingRepository
	User        domainRepo.UserRepository
	Progress    domainRepo.ProgressRepository
	UnitOfWork  domainRepo.UnitOfWork
}

// NewRepositories creates new repository instances with database connection
func NewRepositories(db *gorm.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		Payment:     adapterRepo.NewPaymentRepository(db, logger),
		Entitlement: adapterRepo.NewEntitlementRepository(db, logger),
		Pricing:     adapterRepo.NewPricingRepository(db, logger),
		User:        adapterRepo.NewUserRepository(db, logger),
		Progress:    adapterRepo.NewProgressRepository(db),
		UnitOfWork:  adapterRepo.NewUnitOfWork(db, logger),
	}
}
