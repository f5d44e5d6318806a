package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	domainErrors "github.com/lingvoapp/lingvo-backend/internal/domain/errors"
	"github.com/lingvoapp/lingvo-backend/internal/domain/model"
	"github.com/lingvoapp/lingvo-backend/internal/domain/provider"
	"github.com/lingvoapp/lingvo-backend/internal/usecase"
)

type checkoutFixture struct {
	provider     *MockProvider
	pricing      *MockPricingRepository
	payments     *MockPaymentRepository
	users        *MockUserRepository
	progress     *MockProgressRepository
	entitlements *MockEntitlementRepository
	service      *usecase.CheckoutService
}

func newCheckoutFixture(now time.Time) *checkoutFixture {
	f := &checkoutFixture{
		provider:     new(MockProvider),
		pricing:      new(MockPricingRepository),
		payments:     new(MockPaymentRepository),
		users:        new(MockUserRepository),
		progress:     new(MockProgressRepository),
		entitlements: new(MockEntitlementRepository),
	}
	logger := zap.NewNop()
	cache := usecase.NewSettingsCache(usecase.SettingsCacheTTL, nil)
	pricingSvc := usecase.NewPricingService(f.pricing, cache, logger)
	f.service = usecase.NewCheckoutService(
		f.provider,
		pricingSvc,
		f.payments,
		f.users,
		f.progress,
		f.entitlements,
		"https://app.example.com/return",
		logger,
		func() time.Time { return now },
	)
	return f
}

func (f *checkoutFixture) expectSignals(ctx context.Context, userID string) {
	onboarded := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	f.users.On("GetByUserID", ctx, userID).Return(&model.User{
		UserID:                userID,
		OnboardingCompletedAt: &onboarded,
	}, nil)
	f.progress.On("CountCompletedLessons", ctx, userID).Return(int64(5), nil)
	f.entitlements.On("GetActive", ctx, userID, mock.Anything).Return(nil, nil)
	f.entitlements.On("HasLapsed", ctx, userID, mock.Anything).Return(false, nil)
}

func TestCheckoutService_CreatePayment(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("successful checkout records a pending row", func(t *testing.T) {
		f := newCheckoutFixture(now)
		f.provider.On("Configured").Return(true)
		f.provider.On("Name").Return("yookassa")
		f.payments.On("CountPendingSince", ctx, "user-1", now.Add(-15*time.Minute)).
			Return(int64(0), nil)
		f.expectSignals(ctx, "user-1")
		f.pricing.On("GetActiveByCohort", ctx, model.CohortDefault).Return(nil, nil)

		f.provider.On("CreatePayment", ctx, mock.MatchedBy(func(req *provider.CreatePaymentRequest) bool {
			return req.AmountMinorUnits == int64(89900) &&
				req.Currency == "RUB" &&
				req.ReturnURL == "https://app.example.com/return" &&
				req.IdempotenceKey != "" &&
				req.Metadata.UserID == "user-1" &&
				req.Metadata.Product == "monthly" &&
				req.Metadata.Cohort == "default"
		})).Return(&provider.CreatePaymentResponse{
			PaymentID:       "pay-123",
			ConfirmationURL: "https://yookassa.example/confirm/pay-123",
			Status:          "pending",
		}, nil)

		f.payments.On("Insert", ctx, mock.MatchedBy(func(p *model.Payment) bool {
			return p.UserID == "user-1" &&
				p.Provider == "yookassa" &&
				p.ProviderTransactionID == "pay-123" &&
				p.Status == model.PaymentStatusPending &&
				p.AmountMinorUnits == int64(89900)
		})).Return(true, nil)

		result, err := f.service.CreatePayment(ctx, "user-1", model.ProductMonthly, "")

		assert.NoError(t, err)
		assert.Equal(t, "https://yookassa.example/confirm/pay-123", result.PaymentURL)
		assert.Equal(t, "pay-123", result.ProviderPaymentID)
		assert.Equal(t, model.CohortDefault, result.Cohort)
		f.provider.AssertExpectations(t)
		f.payments.AssertExpectations(t)
	})

	t.Run("unconfigured provider rejects immediately", func(t *testing.T) {
		f := newCheckoutFixture(now)
		f.provider.On("Configured").Return(false)

		_, err := f.service.CreatePayment(ctx, "user-1", model.ProductMonthly, "")

		assert.ErrorIs(t, err, domainErrors.ErrProviderNotConfigured)
		f.payments.AssertNotCalled(t, "CountPendingSince", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown product is rejected", func(t *testing.T) {
		f := newCheckoutFixture(now)
		f.provider.On("Configured").Return(true)

		_, err := f.service.CreatePayment(ctx, "user-1", model.Product("weekly"), "")

		assert.ErrorIs(t, err, domainErrors.ErrUnknownProduct)
	})

	t.Run("too many pending payments trips the guard", func(t *testing.T) {
		f := newCheckoutFixture(now)
		f.provider.On("Configured").Return(true)
		f.payments.On("CountPendingSince", ctx, "user-1", mock.Anything).
			Return(int64(3), nil)

		_, err := f.service.CreatePayment(ctx, "user-1", model.ProductMonthly, "")

		assert.ErrorIs(t, err, domainErrors.ErrTooManyPendingPayments)
		f.provider.AssertNotCalled(t, "CreatePayment", mock.Anything, mock.Anything)
	})

	t.Run("unknown user is rejected", func(t *testing.T) {
		f := newCheckoutFixture(now)
		f.provider.On("Configured").Return(true)
		f.payments.On("CountPendingSince", ctx, "ghost", mock.Anything).Return(int64(0), nil)
		f.users.On("GetByUserID", ctx, "ghost").Return(nil, nil)

		_, err := f.service.CreatePayment(ctx, "ghost", model.ProductMonthly, "")

		assert.ErrorIs(t, err, domainErrors.ErrUserNotFound)
	})

	t.Run("test account is charged the nominal amount", func(t *testing.T) {
		f := newCheckoutFixture(now)
		f.provider.On("Configured").Return(true)
		f.provider.On("Name").Return("yookassa")
		f.payments.On("CountPendingSince", ctx, "test_7", mock.Anything).Return(int64(0), nil)
		f.expectSignals(ctx, "test_7")

		f.provider.On("CreatePayment", ctx, mock.MatchedBy(func(req *provider.CreatePaymentRequest) bool {
			return req.AmountMinorUnits == int64(1000) && req.Metadata.Cohort == "test_payment"
		})).Return(&provider.CreatePaymentResponse{
			PaymentID:       "pay-test",
			ConfirmationURL: "https://yookassa.example/confirm/pay-test",
		}, nil)
		f.payments.On("Insert", ctx, mock.Anything).Return(true, nil)

		result, err := f.service.CreatePayment(ctx, "test_7", model.ProductYearly, "")

		assert.NoError(t, err)
		assert.Equal(t, int64(1000), result.AmountMinorUnits)
		assert.Equal(t, model.CohortTestPayment, result.Cohort)
	})

	t.Run("explicit return URL overrides the default", func(t *testing.T) {
		f := newCheckoutFixture(now)
		f.provider.On("Configured").Return(true)
		f.provider.On("Name").Return("yookassa")
		f.payments.On("CountPendingSince", ctx, "user-1", mock.Anything).Return(int64(0), nil)
		f.expectSignals(ctx, "user-1")
		f.pricing.On("GetActiveByCohort", ctx, model.CohortDefault).Return(nil, nil)

		f.provider.On("CreatePayment", ctx, mock.MatchedBy(func(req *provider.CreatePaymentRequest) bool {
			return req.ReturnURL == "https://other.example.com/done"
		})).Return(&provider.CreatePaymentResponse{PaymentID: "pay-9"}, nil)
		f.payments.On("Insert", ctx, mock.Anything).Return(true, nil)

		_, err := f.service.CreatePayment(ctx, "user-1", model.ProductMonthly, "https://other.example.com/done")

		assert.NoError(t, err)
		f.provider.AssertExpectations(t)
	})
}

func TestCheckoutService_RecentPayments(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("limit defaults and clamps", func(t *testing.T) {
		f := newCheckoutFixture(now)
		f.payments.On("ListRecentByUser", ctx, "user-1", 10).Return([]model.Payment{}, nil).Once()
		f.payments.On("ListRecentByUser", ctx, "user-1", 100).Return([]model.Payment{}, nil).Once()

		_, err := f.service.RecentPayments(ctx, "user-1", 0)
		assert.NoError(t, err)
		_, err = f.service.RecentPayments(ctx, "user-1", 500)
		assert.NoError(t, err)

		f.payments.AssertExpectations(t)
	})
}
