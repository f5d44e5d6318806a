package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/lingvoapp/lingvo-backend/internal/domain/model"
	"github.com/lingvoapp/lingvo-backend/internal/domain/repository"
)

// Paywall is the full render payload for the client paywall screen.
type Paywall struct {
	Cohort    model.Cohort     `json:"cohort"`
	Pricing   *PricingQuote    `json:"pricing"`
	Products  []PaywallProduct `json:"products"`
	UserStats PaywallUserStats `json:"user_stats"`
}

// PaywallUserStats summarizes the signals the paywall was priced from.
type PaywallUserStats struct {
	LessonCount           int64 `json:"lesson_count"`
	HasActiveSubscription bool  `json:"has_active_subscription"`
	SubscriptionExpired   bool  `json:"subscription_expired"`
}

// PaywallService assembles the priced paywall for a user: collaborator
// reads, cohort classification, pricing.
type PaywallService struct {
	pricingSvc   *PricingService
	users        repository.UserRepository
	progress     repository.ProgressRepository
	entitlements repository.EntitlementRepository
	logger       *zap.Logger
	now          func() time.Time
}

// NewPaywallService creates a paywall service. A nil clock falls back to
// time.Now.
func NewPaywallService(
	pricingSvc *PricingService,
	users repository.UserRepository,
	progress repository.ProgressRepository,
	entitlements repository.EntitlementRepository,
	logger *zap.Logger,
	now func() time.Time,
) *PaywallService {
	if now == nil {
		now = time.Now
	}
	return &PaywallService{
		pricingSvc:   pricingSvc,
		users:        users,
		progress:     progress,
		entitlements: entitlements,
		logger:       logger,
		now:          now,
	}
}

// GetPaywall builds the paywall payload for the user.
func (s *PaywallService) GetPaywall(ctx context.Context, userID string) (*Paywall, error) {
	signals, _, err := CollectSignals(ctx, s.users, s.progress, s.entitlements, userID, s.now())
	if err != nil {
		return nil, err
	}

	cohort := DetermineCohort(signals)
	quote := s.pricingSvc.GetPricing(ctx, cohort)

	return &Paywall{
		Cohort:   cohort,
		Pricing:  quote,
		Products: s.pricingSvc.GetProducts(quote),
		UserStats: PaywallUserStats{
			LessonCount:           signals.CompletedLessons,
			HasActiveSubscription: signals.HasActiveSubscription,
			SubscriptionExpired:   signals.SubscriptionLapsed,
		},
	}, nil
}

// ListEntitlements returns the user's entitlement rows, active and
// expired alike.
func (s *PaywallService) ListEntitlements(ctx context.Context, userID string) ([]model.Entitlement, error) {
	return s.entitlements.ListByUser(ctx, userID)
}
