package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lingvoapp/lingvo-backend/internal/domain/event"
	"github.com/lingvoapp/lingvo-backend/internal/domain/model"
	"github.com/lingvoapp/lingvo-backend/internal/domain/provider"
	"github.com/lingvoapp/lingvo-backend/internal/domain/repository"
	"github.com/lingvoapp/lingvo-backend/internal/metrics"
)

// WebhookProcessor orchestrates one webhook delivery: idempotent ledger
// insert, entitlement extension and purchase-event emission, all inside a
// single transaction. Duplicate delivery is the expected case, not an
// error: every downstream effect happens only on the first insert of a
// given (transaction, idempotency-key) pair.
type WebhookProcessor struct {
	uow            repository.UnitOfWork
	entitlementSvc *EntitlementService
	publisher      event.Publisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewWebhookProcessor creates a webhook processor. A nil clock falls back
// to time.Now.
func NewWebhookProcessor(
	uow repository.UnitOfWork,
	entitlementSvc *EntitlementService,
	publisher event.Publisher,
	logger *zap.Logger,
	now func() time.Time,
) *WebhookProcessor {
	if now == nil {
		now = time.Now
	}
	return &WebhookProcessor{
		uow:            uow,
		entitlementSvc: entitlementSvc,
		publisher:      publisher,
		logger:         logger,
		now:            now,
	}
}

// Process handles one canonical webhook event. A nil return means the
// delivery is settled and the provider must not redeliver; an error means
// a transient fault and the caller should answer non-success so the
// provider's retry mechanism redelivers.
func (p *WebhookProcessor) Process(ctx context.Context, evt *provider.CanonicalWebhookEvent) error {
	// Malformed or non-actionable deliveries (test pings, events without
	// metadata) are settled without side effects; surfacing them as
	// failures would only turn provider retries into alert noise.
	if evt.UserID == "" {
		p.logger.Warn("Webhook without user metadata accepted as no-op",
			zap.String("provider", evt.Provider),
			zap.String("event_type", evt.RawEventType),
			zap.String("transaction_id", evt.ProviderTransactionID))
		metrics.WebhookEvents.WithLabelValues("skipped").Inc()
		return nil
	}

	duplicate := false

	err := p.uow.Do(ctx, func(tx repository.TxRepositories) error {
		record := &model.Payment{
			UserID:                evt.UserID,
			Provider:              evt.Provider,
			ProviderTransactionID: evt.ProviderTransactionID,
			IdempotencyKey:        evt.IdempotencyKey,
			Product:               evt.Product,
			AmountMinorUnits:      evt.AmountMinorUnits,
			Currency:              evt.Currency,
			Status:                evt.Status,
		}

		created, err := tx.Payments().Insert(ctx, record)
		if err != nil {
			return fmt.Errorf("failed to record payment: %w", err)
		}
		if !created {
			// Idempotency boundary: this exact event was already
			// processed, so all remaining steps are skipped.
			duplicate = true
			return nil
		}

		if evt.Status != model.PaymentStatusSucceeded {
			return nil
		}

		if !evt.Product.Valid() {
			// The ledger row is kept for audit, but an unknown product
			// cannot be granted.
			p.logger.Warn("Succeeded payment with unknown product, entitlement not extended",
				zap.String("user_id", evt.UserID),
				zap.String("product", string(evt.Product)),
				zap.String("transaction_id", evt.ProviderTransactionID))
			return nil
		}

		now := p.now()
		if _, err := p.entitlementSvc.Extend(ctx, tx.Entitlements(), evt.UserID, evt.Product, now); err != nil {
			return err
		}
		metrics.EntitlementExtensions.WithLabelValues(string(evt.Product)).Inc()

		return p.emitPurchaseEvent(ctx, tx, evt, now)
	})

	if err != nil {
		metrics.WebhookEvents.WithLabelValues("error").Inc()
		return err
	}

	if duplicate {
		p.logger.Warn("Idempotent duplicate webhook",
			zap.String("transaction_id", evt.ProviderTransactionID),
			zap.String("idempotency_key", evt.IdempotencyKey))
		metrics.WebhookEvents.WithLabelValues("duplicate").Inc()
		return nil
	}

	metrics.WebhookEvents.WithLabelValues("ok").Inc()
	return nil
}

// emitPurchaseEvent publishes the canonical purchase event, attaching the
// user's first-touch attribution when the profile record carries one.
// Runs inside the transaction: a failed publish rolls everything back and
// the provider redelivers.
func (p *WebhookProcessor) emitPurchaseEvent(ctx context.Context, tx repository.TxRepositories, evt *provider.CanonicalWebhookEvent, now time.Time) error {
	purchase := event.PurchaseEvent{
		Name:             "purchase_success",
		UserID:           evt.UserID,
		Product:          string(evt.Product),
		AmountMinorUnits: evt.AmountMinorUnits,
		Currency:         evt.Currency,
		Provider:         evt.Provider,
		ProviderID:       evt.ProviderTransactionID,
		OccurredAt:       now,
	}

	user, err := tx.Users().GetByUserID(ctx, evt.UserID)
	if err != nil {
		return fmt.Errorf("failed to read user for attribution: %w", err)
	}
	if user != nil && len(user.FirstUTM) > 0 {
		purchase.UTM = user.FirstUTM
	}

	if err := p.publisher.Publish(ctx, event.PurchaseChannel, purchase); err != nil {
		return fmt.Errorf("failed to publish purchase event: %w", err)
	}
	return nil
}
