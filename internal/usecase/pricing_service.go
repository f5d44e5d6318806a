package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/lingvoapp/lingvo-backend/internal/domain/model"
	"github.com/lingvoapp/lingvo-backend/internal/domain/repository"
)

// Base prices in minor units (kopecks), shown as the struck-through
// "was" price on the paywall.
const (
	baseMonthlyPrice   int64 = 99000
	baseQuarterlyPrice int64 = 149000
	baseYearlyPrice    int64 = 299000

	priceCurrency = "RUB"

	// testPaymentPrice is the nominal charge for the test cohort: every
	// product collapses to this amount so the payment flow can be walked
	// without a real charge.
	testPaymentPrice    int64 = 1000
	testPaymentDiscount       = 99
	testPaymentPromo          = "TEST10"

	// charmThreshold is the minor-unit price above which selling-price
	// rounding applies; below it prices are left as computed.
	charmThreshold int64 = 1000
	// charmOffset is added after rounding down to a ten-major-unit
	// boundary, so displayed prices end in 9 major units.
	charmOffset int64 = 9
)

// Default discount percentages used when no cohort config row exists.
const (
	defaultMonthlyDiscount   = 10
	defaultQuarterlyDiscount = 20
	defaultYearlyDiscount    = 17
	defaultPromoCode         = "DEFAULT10"
)

// PricingQuote is the priced view of the catalog for one cohort.
type PricingQuote struct {
	Cohort                   model.Cohort `json:"cohort"`
	Currency                 string       `json:"currency"`
	MonthlyOriginalPrice     int64        `json:"monthly_original_price"`
	QuarterlyOriginalPrice   int64        `json:"quarterly_original_price"`
	YearlyOriginalPrice      int64        `json:"yearly_original_price"`
	MonthlyPrice             int64        `json:"monthly_price"`
	QuarterlyPrice           int64        `json:"quarterly_price"`
	YearlyPrice              int64        `json:"yearly_price"`
	MonthlyDiscountPercent   int          `json:"monthly_discount_percent"`
	QuarterlyDiscountPercent int          `json:"quarterly_discount_percent"`
	YearlyDiscountPercent    int          `json:"yearly_discount_percent"`
	PromoCode                string       `json:"promo_code,omitempty"`
}

// Price returns the quoted price for the given product.
func (q *PricingQuote) Price(p model.Product) int64 {
	switch p {
	case model.ProductQuarterly:
		return q.QuarterlyPrice
	case model.ProductYearly:
		return q.YearlyPrice
	default:
		return q.MonthlyPrice
	}
}

// PaywallProduct is one purchasable entry of the priced catalog.
type PaywallProduct struct {
	ID                model.Product `json:"id"`
	Name              string        `json:"name"`
	Description       string        `json:"description,omitempty"`
	Price             int64         `json:"price"`
	OriginalPrice     int64         `json:"original_price"`
	Currency          string        `json:"currency"`
	DiscountPercent   int           `json:"discount_percent"`
	IsPopular         bool          `json:"is_popular,omitempty"`
	MonthlyEquivalent int64         `json:"monthly_equivalent,omitempty"`
	SavingsPercent    int           `json:"savings_percent,omitempty"`
}

// PricingService combines the cohort classifier output with the persisted
// discount configuration to produce a priced catalog.
type PricingService struct {
	pricingRepo repository.PricingRepository
	cache       *SettingsCache
	logger      *zap.Logger
}

// NewPricingService creates a pricing service. The cache is passed by
// reference so callers (and tests) own its clock and invalidation.
func NewPricingService(pricingRepo repository.PricingRepository, cache *SettingsCache, logger *zap.Logger) *PricingService {
	return &PricingService{
		pricingRepo: pricingRepo,
		cache:       cache,
		logger:      logger,
	}
}

// cohortSettings returns the discount configuration for the cohort,
// reading through the cache. Store errors are swallowed: pricing must
// never hard-fail a paywall render, so a failed read behaves like a
// missing row and the defaults apply.
func (s *PricingService) cohortSettings(ctx context.Context, cohort model.Cohort) *model.CohortPricing {
	if settings, ok := s.cache.Get(cohort); ok {
		if settings != nil {
			return settings
		}
		return s.defaultSettings(cohort)
	}

	settings, err := s.pricingRepo.GetActiveByCohort(ctx, cohort)
	if err != nil {
		s.logger.Error("Failed to load cohort pricing settings, using defaults",
			zap.String("cohort", string(cohort)),
			zap.Error(err))
		return s.defaultSettings(cohort)
	}

	s.cache.Put(cohort, settings)
	if settings == nil {
		return s.defaultSettings(cohort)
	}
	return settings
}

func (s *PricingService) defaultSettings(cohort model.Cohort) *model.CohortPricing {
	settings := &model.CohortPricing{
		CohortName:               cohort,
		MonthlyDiscountPercent:   defaultMonthlyDiscount,
		QuarterlyDiscountPercent: defaultQuarterlyDiscount,
		YearlyDiscountPercent:    defaultYearlyDiscount,
		IsActive:                 true,
	}
	if cohort == model.CohortDefault {
		settings.PromoCode = defaultPromoCode
	}
	return settings
}

// GetPricing produces the priced catalog for a cohort.
func (s *PricingService) GetPricing(ctx context.Context, cohort model.Cohort) *PricingQuote {
	quote := &PricingQuote{
		Cohort:                 cohort,
		Currency:               priceCurrency,
		MonthlyOriginalPrice:   baseMonthlyPrice,
		QuarterlyOriginalPrice: baseQuarterlyPrice,
		YearlyOriginalPrice:    baseYearlyPrice,
	}

	// The test cohort bypasses configured discounts entirely.
	if cohort == model.CohortTestPayment {
		quote.MonthlyPrice = testPaymentPrice
		quote.QuarterlyPrice = testPaymentPrice
		quote.YearlyPrice = testPaymentPrice
		quote.MonthlyDiscountPercent = testPaymentDiscount
		quote.QuarterlyDiscountPercent = testPaymentDiscount
		quote.YearlyDiscountPercent = testPaymentDiscount
		quote.PromoCode = testPaymentPromo
		return quote
	}

	settings := s.cohortSettings(ctx, cohort)

	quote.MonthlyPrice = discountedPrice(baseMonthlyPrice, settings.MonthlyDiscountPercent)
	quote.QuarterlyPrice = discountedPrice(baseQuarterlyPrice, settings.QuarterlyDiscountPercent)
	quote.YearlyPrice = discountedPrice(baseYearlyPrice, settings.YearlyDiscountPercent)
	quote.MonthlyDiscountPercent = settings.MonthlyDiscountPercent
	quote.QuarterlyDiscountPercent = settings.QuarterlyDiscountPercent
	quote.YearlyDiscountPercent = settings.YearlyDiscountPercent
	quote.PromoCode = settings.PromoCode

	return quote
}

// GetProducts derives the displayable catalog from a quote, including
// monthly-equivalent prices and savings versus the monthly product.
func (s *PricingService) GetProducts(quote *PricingQuote) []PaywallProduct {
	quarterlyEquivalent := roundDiv(quote.QuarterlyPrice, int64(model.ProductQuarterly.Months()))
	yearlyEquivalent := roundDiv(quote.YearlyPrice, int64(model.ProductYearly.Months()))

	return []PaywallProduct{
		{
			ID:              model.ProductMonthly,
			Name:            "1 month",
			Description:     "Full access to all lessons",
			Price:           quote.MonthlyPrice,
			OriginalPrice:   quote.MonthlyOriginalPrice,
			Currency:        quote.Currency,
			DiscountPercent: quote.MonthlyDiscountPercent,
			IsPopular:       true,
		},
		{
			ID:                model.ProductQuarterly,
			Name:              "3 months",
			Price:             quote.QuarterlyPrice,
			OriginalPrice:     quote.QuarterlyOriginalPrice,
			Currency:          quote.Currency,
			DiscountPercent:   quote.QuarterlyDiscountPercent,
			MonthlyEquivalent: quarterlyEquivalent,
			SavingsPercent:    savingsPercent(quote.MonthlyPrice, quarterlyEquivalent),
		},
		{
			ID:                model.ProductYearly,
			Name:              "12 months",
			Price:             quote.YearlyPrice,
			OriginalPrice:     quote.YearlyOriginalPrice,
			Currency:          quote.Currency,
			DiscountPercent:   quote.YearlyDiscountPercent,
			MonthlyEquivalent: yearlyEquivalent,
			SavingsPercent:    savingsPercent(quote.MonthlyPrice, yearlyEquivalent),
		},
	}
}

// discountedPrice applies the percentage discount and the selling-price
// rounding rule.
func discountedPrice(originalPrice int64, discountPercent int) int64 {
	discounted := originalPrice * int64(100-discountPercent) / 100
	return roundToSellingPrice(discounted)
}

// roundToSellingPrice rounds a minor-unit price so the displayed amount
// ends in 9 major units: 89100 -> 89900, 119200 -> 119900. Amounts below
// the threshold are left untouched.
func roundToSellingPrice(price int64) int64 {
	if price < charmThreshold {
		return price
	}
	majorUnits := price / 100
	tens := majorUnits / 10 * 10
	return (tens + charmOffset) * 100
}

// savingsPercent compares a monthly-equivalent price to the monthly
// product price, clamped to never show a negative saving.
func savingsPercent(monthlyPrice, monthlyEquivalent int64) int {
	if monthlyPrice <= 0 {
		return 0
	}
	savings := roundDiv((monthlyPrice-monthlyEquivalent)*100, monthlyPrice)
	if savings < 0 {
		return 0
	}
	return int(savings)
}

// roundDiv divides with round-half-up semantics for non-negative
// numerators and round-half-down for negative ones.
func roundDiv(numerator, denominator int64) int64 {
	if denominator == 0 {
		return 0
	}
	if numerator >= 0 {
		return (numerator + denominator/2) / denominator
	}
	return (numerator - denominator/2) / denominator
}
