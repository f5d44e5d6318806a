package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lingvoapp/lingvo-backend/internal/domain/model"
	"github.com/lingvoapp/lingvo-backend/internal/domain/repository"
)

// EntitlementService owns the entitlement extension rule: a successful
// payment pushes ends_at forward by the product duration, counted from
// whichever is later — the current expiry or now. An active subscription
// is never shortened and never silently restarted.
type EntitlementService struct {
	logger *zap.Logger
}

// NewEntitlementService creates a new entitlement service instance
func NewEntitlementService(logger *zap.Logger) *EntitlementService {
	return &EntitlementService{logger: logger}
}

// Extend applies one paid duration to the (userID, product) entitlement.
// It must run against transaction-scoped repositories: the locked read
// serializes concurrent extensions against the same row, so two payments
// can never both extend from the same stale ends_at. The first-creation
// race between distinct transactions is resolved by a conflict-tolerant
// insert followed by one locked re-read.
func (s *EntitlementService) Extend(ctx context.Context, entitlements repository.EntitlementRepository, userID string, product model.Product, now time.Time) (*model.Entitlement, error) {
	duration := time.Duration(product.DurationDays()) * 24 * time.Hour

	existing, err := entitlements.GetForUpdate(ctx, userID, product)
	if err != nil {
		return nil, fmt.Errorf("failed to read entitlement: %w", err)
	}

	if existing == nil {
		ent := &model.Entitlement{
			UserID:   userID,
			Product:  product,
			StartsAt: now,
			EndsAt:   now.Add(duration),
		}
		created, err := entitlements.Create(ctx, ent)
		if err != nil {
			return nil, fmt.Errorf("failed to create entitlement: %w", err)
		}
		if created {
			s.logger.Info("Entitlement created",
				zap.String("user_id", userID),
				zap.String("product", string(product)),
				zap.Time("ends_at", ent.EndsAt))
			return ent, nil
		}

		// Another transaction created the row between our read and the
		// insert; re-read under lock and fall through to the extension.
		existing, err = entitlements.GetForUpdate(ctx, userID, product)
		if err != nil {
			return nil, fmt.Errorf("failed to re-read entitlement: %w", err)
		}
		if existing == nil {
			return nil, fmt.Errorf("entitlement insert conflict for user %s product %s but row not visible", userID, product)
		}
	}

	// Never shorten an active subscription; an expired one restarts from
	// now rather than the stale expiry.
	base := now
	if existing.EndsAt.After(now) {
		base = existing.EndsAt
	}
	newEndsAt := base.Add(duration)

	if err := entitlements.UpdateEndsAt(ctx, userID, product, newEndsAt); err != nil {
		return nil, fmt.Errorf("failed to extend entitlement: %w", err)
	}

	s.logger.Info("Entitlement extended",
		zap.String("user_id", userID),
		zap.String("product", string(product)),
		zap.Time("previous_ends_at", existing.EndsAt),
		zap.Time("ends_at", newEndsAt))

	existing.EndsAt = newEndsAt
	return existing, nil
}
