package repository

import (
	"context"
	"time"

	"github.com/lingvoapp/lingvo-backend/internal/domain/model"
)

// EntitlementRepository owns the (user_id, product) access rows. Extension
// is the only permitted mutation; callers extend inside a transaction where
// GetForUpdate holds the row lock until commit.
type EntitlementRepository interface {
	// GetForUpdate reads the entitlement for (userID, product) with a
	// row-level lock when running inside a transaction. Returns nil when
	// no row exists.
	GetForUpdate(ctx context.Context, userID string, product model.Product) (*model.Entitlement, error)

	// Create inserts a new entitlement row. created is false when another
	// transaction created the (userID, product) row first.
	Create(ctx context.Context, ent *model.Entitlement) (created bool, err error)

	// UpdateEndsAt moves ends_at forward for an existing row. starts_at is
	// never touched.
	UpdateEndsAt(ctx context.Context, userID string, product model.Product, endsAt time.Time) error

	// GetActive returns any entitlement of the user that is active at the
	// given time, or nil.
	GetActive(ctx context.Context, userID string, at time.Time) (*model.Entitlement, error)

	// HasLapsed reports whether the user has at least one entitlement that
	// ended before the given time.
	HasLapsed(ctx context.Context, userID string, at time.Time) (bool, error)

	// ListByUser returns all entitlement rows of the user.
	ListByUser(ctx context.Context, userID string) ([]model.Entitlement, error)
}
