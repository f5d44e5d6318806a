package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/lingvoapp/lingvo-backend/internal/domain/model"
	"github.com/lingvoapp/lingvo-backend/internal/usecase"
)

func newPricingService(repo *MockPricingRepository, now func() time.Time) *usecase.PricingService {
	cache := usecase.NewSettingsCache(usecase.SettingsCacheTTL, now)
	return usecase.NewPricingService(repo, cache, zap.NewNop())
}

func TestPricingService_GetPricing(t *testing.T) {
	ctx := context.Background()

	t.Run("default discounts when no config row exists", func(t *testing.T) {
		mockRepo := new(MockPricingRepository)
		mockRepo.On("GetActiveByCohort", ctx, model.CohortDefault).Return(nil, nil)
		service := newPricingService(mockRepo, nil)

		quote := service.GetPricing(ctx, model.CohortDefault)

		assert.Equal(t, model.CohortDefault, quote.Cohort)
		assert.Equal(t, "RUB", quote.Currency)
		assert.Equal(t, int64(99000), quote.MonthlyOriginalPrice)
		// 10% off 990.00 is 891.00, rounded to a selling price of 899.00
		assert.Equal(t, int64(89900), quote.MonthlyPrice)
		// 20% off 1490.00 is 1192.00 -> 1199.00
		assert.Equal(t, int64(119900), quote.QuarterlyPrice)
		// 17% off 2990.00 is 2481.70 -> 2489.00
		assert.Equal(t, int64(248900), quote.YearlyPrice)
		assert.Equal(t, 10, quote.MonthlyDiscountPercent)
		assert.Equal(t, 20, quote.QuarterlyDiscountPercent)
		assert.Equal(t, 17, quote.YearlyDiscountPercent)
		assert.Equal(t, "DEFAULT10", quote.PromoCode)

		mockRepo.AssertExpectations(t)
	})

	t.Run("configured discounts from the store", func(t *testing.T) {
		mockRepo := new(MockPricingRepository)
		mockRepo.On("GetActiveByCohort", ctx, model.CohortNewUser).Return(&model.CohortPricing{
			CohortName:               model.CohortNewUser,
			MonthlyDiscountPercent:   25,
			QuarterlyDiscountPercent: 30,
			YearlyDiscountPercent:    35,
			PromoCode:                "WELCOME25",
			IsActive:                 true,
		}, nil)
		service := newPricingService(mockRepo, nil)

		quote := service.GetPricing(ctx, model.CohortNewUser)

		// 25% off 990.00 is 742.50 -> 749.00
		assert.Equal(t, int64(74900), quote.MonthlyPrice)
		// 30% off 1490.00 is 1043.00 -> 1049.00
		assert.Equal(t, int64(104900), quote.QuarterlyPrice)
		// 35% off 2990.00 is 1943.50 -> 1949.00
		assert.Equal(t, int64(194900), quote.YearlyPrice)
		assert.Equal(t, "WELCOME25", quote.PromoCode)

		mockRepo.AssertExpectations(t)
	})

	t.Run("test cohort bypasses configuration", func(t *testing.T) {
		// No repository expectation set: the store must not be touched.
		mockRepo := new(MockPricingRepository)
		service := newPricingService(mockRepo, nil)

		quote := service.GetPricing(ctx, model.CohortTestPayment)

		assert.Equal(t, int64(1000), quote.MonthlyPrice)
		assert.Equal(t, int64(1000), quote.QuarterlyPrice)
		assert.Equal(t, int64(1000), quote.YearlyPrice)
		assert.Equal(t, 99, quote.MonthlyDiscountPercent)
		assert.Equal(t, "TEST10", quote.PromoCode)
		assert.Equal(t, int64(99000), quote.MonthlyOriginalPrice)

		mockRepo.AssertExpectations(t)
	})

	t.Run("store error falls back to defaults", func(t *testing.T) {
		mockRepo := new(MockPricingRepository)
		mockRepo.On("GetActiveByCohort", ctx, model.CohortHighEngagement).
			Return(nil, errors.New("connection refused"))
		service := newPricingService(mockRepo, nil)

		quote := service.GetPricing(ctx, model.CohortHighEngagement)

		assert.Equal(t, int64(89900), quote.MonthlyPrice)
		assert.Equal(t, 10, quote.MonthlyDiscountPercent)
		// The default promo code is reserved for the default cohort.
		assert.Empty(t, quote.PromoCode)

		mockRepo.AssertExpectations(t)
	})

	t.Run("settings are cached within the TTL", func(t *testing.T) {
		current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		clock := func() time.Time { return current }

		mockRepo := new(MockPricingRepository)
		mockRepo.On("GetActiveByCohort", ctx, model.CohortDefault).Return(&model.CohortPricing{
			CohortName:             model.CohortDefault,
			MonthlyDiscountPercent: 50,
			IsActive:               true,
		}, nil).Once()
		service := newPricingService(mockRepo, clock)

		first := service.GetPricing(ctx, model.CohortDefault)
		current = current.Add(4 * time.Minute)
		second := service.GetPricing(ctx, model.CohortDefault)

		// 50% off 990.00 is 495.00 -> 499.00
		assert.Equal(t, int64(49900), first.MonthlyPrice)
		assert.Equal(t, first.MonthlyPrice, second.MonthlyPrice)

		mockRepo.AssertExpectations(t)
	})

	t.Run("expired cache entry triggers a re-read", func(t *testing.T) {
		current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		clock := func() time.Time { return current }

		mockRepo := new(MockPricingRepository)
		mockRepo.On("GetActiveByCohort", ctx, model.CohortDefault).Return(&model.CohortPricing{
			CohortName:             model.CohortDefault,
			MonthlyDiscountPercent: 50,
			IsActive:               true,
		}, nil).Twice()
		service := newPricingService(mockRepo, clock)

		service.GetPricing(ctx, model.CohortDefault)
		current = current.Add(5 * time.Minute)
		service.GetPricing(ctx, model.CohortDefault)

		mockRepo.AssertExpectations(t)
	})

	t.Run("missing row is cached too", func(t *testing.T) {
		mockRepo := new(MockPricingRepository)
		mockRepo.On("GetActiveByCohort", ctx, model.CohortPremiumTrial).Return(nil, nil).Once()
		service := newPricingService(mockRepo, nil)

		first := service.GetPricing(ctx, model.CohortPremiumTrial)
		second := service.GetPricing(ctx, model.CohortPremiumTrial)

		assert.Equal(t, first.MonthlyPrice, second.MonthlyPrice)
		mockRepo.AssertExpectations(t)
	})
}

func TestPricingService_GetProducts(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockPricingRepository)
	mockRepo.On("GetActiveByCohort", ctx, model.CohortDefault).Return(nil, nil)
	service := newPricingService(mockRepo, nil)

	quote := service.GetPricing(ctx, model.CohortDefault)
	products := service.GetProducts(quote)

	assert.Len(t, products, 3)

	monthly := products[0]
	assert.Equal(t, model.ProductMonthly, monthly.ID)
	assert.Equal(t, int64(89900), monthly.Price)
	assert.Equal(t, int64(99000), monthly.OriginalPrice)
	assert.True(t, monthly.IsPopular)
	assert.Zero(t, monthly.MonthlyEquivalent)

	quarterly := products[1]
	assert.Equal(t, model.ProductQuarterly, quarterly.ID)
	// 1199.00 over three months
	assert.Equal(t, int64(39967), quarterly.MonthlyEquivalent)
	assert.Equal(t, 56, quarterly.SavingsPercent)

	yearly := products[2]
	assert.Equal(t, model.ProductYearly, yearly.ID)
	// 2489.00 over twelve months
	assert.Equal(t, int64(20742), yearly.MonthlyEquivalent)
	assert.Equal(t, 77, yearly.SavingsPercent)
}

func TestPricingService_SavingsNeverNegative(t *testing.T) {
	ctx := context.Background()

	// A configuration where monthly is discounted far deeper than the
	// longer products would otherwise display negative savings.
	mockRepo := new(MockPricingRepository)
	mockRepo.On("GetActiveByCohort", ctx, mock.Anything).Return(&model.CohortPricing{
		CohortName:               model.CohortDefault,
		MonthlyDiscountPercent:   90,
		QuarterlyDiscountPercent: 0,
		YearlyDiscountPercent:    0,
		IsActive:                 true,
	}, nil)
	service := newPricingService(mockRepo, nil)

	quote := service.GetPricing(ctx, model.CohortDefault)
	products := service.GetProducts(quote)

	assert.GreaterOrEqual(t, products[1].SavingsPercent, 0)
	assert.GreaterOrEqual(t, products[2].SavingsPercent, 0)
}
