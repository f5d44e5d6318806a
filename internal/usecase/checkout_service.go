package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainErrors "github.com/lingvoapp/lingvo-backend/internal/domain/errors"
	"github.com/lingvoapp/lingvo-backend/internal/domain/model"
	"github.com/lingvoapp/lingvo-backend/internal/domain/provider"
	"github.com/lingvoapp/lingvo-backend/internal/domain/repository"
	"github.com/lingvoapp/lingvo-backend/internal/metrics"
)

const (
	// maxPendingPayments caps how many recently created pending payments a
	// user may hold; a runaway duplicate-tab flow is rejected beyond it.
	maxPendingPayments = 3
	// pendingWindow is the trailing window the rate guard counts over.
	pendingWindow = 15 * time.Minute
)

// CheckoutResult is the acknowledgement returned to the client after the
// provider accepted a payment creation.
type CheckoutResult struct {
	PaymentURL        string        `json:"payment_url"`
	ProviderPaymentID string        `json:"provider_payment_id"`
	Product           model.Product `json:"product"`
	AmountMinorUnits  int64         `json:"amount_minor_units"`
	Currency          string        `json:"currency"`
	Cohort            model.Cohort  `json:"cohort"`
}

// CheckoutService translates an internal "create payment" request into a
// provider call, priced for the user's live cohort, and records the
// pending ledger row as soon as the provider acknowledges.
type CheckoutService struct {
	paymentProvider provider.Provider
	pricingSvc      *PricingService
	payments        repository.PaymentRepository
	users           repository.UserRepository
	progress        repository.ProgressRepository
	entitlements    repository.EntitlementRepository
	defaultReturn   string
	logger          *zap.Logger
	now             func() time.Time
}

// NewCheckoutService creates a checkout service. A nil clock falls back
// to time.Now.
func NewCheckoutService(
	paymentProvider provider.Provider,
	pricingSvc *PricingService,
	payments repository.PaymentRepository,
	users repository.UserRepository,
	progress repository.ProgressRepository,
	entitlements repository.EntitlementRepository,
	defaultReturn string,
	logger *zap.Logger,
	now func() time.Time,
) *CheckoutService {
	if now == nil {
		now = time.Now
	}
	return &CheckoutService{
		paymentProvider: paymentProvider,
		pricingSvc:      pricingSvc,
		payments:        payments,
		users:           users,
		progress:        progress,
		entitlements:    entitlements,
		defaultReturn:   defaultReturn,
		logger:          logger,
		now:             now,
	}
}

// CreatePayment prices the product for the user's cohort, creates the
// provider payment and persists a pending ledger row. Each attempt gets a
// fresh idempotence token: retries of the creation call deliberately
// produce distinct payments, only the webhook path deduplicates.
func (s *CheckoutService) CreatePayment(ctx context.Context, userID string, product model.Product, returnURL string) (*CheckoutResult, error) {
	if !s.paymentProvider.Configured() {
		return nil, domainErrors.ErrProviderNotConfigured
	}
	if !product.Valid() {
		return nil, domainErrors.ErrUnknownProduct
	}

	now := s.now()

	pending, err := s.payments.CountPendingSince(ctx, userID, now.Add(-pendingWindow))
	if err != nil {
		return nil, fmt.Errorf("failed to count pending payments: %w", err)
	}
	if pending >= maxPendingPayments {
		metrics.PaymentCreations.WithLabelValues("rejected").Inc()
		return nil, domainErrors.ErrTooManyPendingPayments
	}

	signals, _, err := CollectSignals(ctx, s.users, s.progress, s.entitlements, userID, now)
	if err != nil {
		return nil, err
	}
	cohort := DetermineCohort(signals)
	quote := s.pricingSvc.GetPricing(ctx, cohort)
	amount := quote.Price(product)

	if returnURL == "" {
		returnURL = s.defaultReturn
	}

	req := &provider.CreatePaymentRequest{
		AmountMinorUnits: amount,
		Currency:         quote.Currency,
		Description:      fmt.Sprintf("Subscription: %s", product),
		ReturnURL:        returnURL,
		IdempotenceKey:   uuid.New().String(),
		Metadata: provider.Metadata{
			UserID:  userID,
			Product: string(product),
			Cohort:  string(cohort),
		},
	}

	resp, err := s.paymentProvider.CreatePayment(ctx, req)
	if err != nil {
		metrics.PaymentCreations.WithLabelValues("error").Inc()
		return nil, err
	}

	// Persist the pending row immediately so an abandoned payment is
	// still auditable.
	record := &model.Payment{
		UserID:                userID,
		Provider:              s.paymentProvider.Name(),
		ProviderTransactionID: resp.PaymentID,
		IdempotencyKey:        req.IdempotenceKey,
		Product:               product,
		AmountMinorUnits:      amount,
		Currency:              quote.Currency,
		Status:                model.PaymentStatusPending,
	}
	if _, err := s.payments.Insert(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record pending payment: %w", err)
	}

	s.logger.Info("Payment created",
		zap.String("user_id", userID),
		zap.String("product", string(product)),
		zap.String("cohort", string(cohort)),
		zap.Int64("amount_minor_units", amount),
		zap.String("provider_payment_id", resp.PaymentID))
	metrics.PaymentCreations.WithLabelValues("ok").Inc()

	return &CheckoutResult{
		PaymentURL:        resp.ConfirmationURL,
		ProviderPaymentID: resp.PaymentID,
		Product:           product,
		AmountMinorUnits:  amount,
		Currency:          quote.Currency,
		Cohort:            cohort,
	}, nil
}

// RecentPayments returns the user's latest ledger rows for the payment
// history endpoint.
func (s *CheckoutService) RecentPayments(ctx context.Context, userID string, limit int) ([]model.Payment, error) {
	if limit < 1 {
		limit = 10
	} else if limit > 100 {
		limit = 100
	}
	return s.payments.ListRecentByUser(ctx, userID, limit)
}
