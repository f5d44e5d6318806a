package model

// Product identifies a purchasable subscription period.
type Product string

const (
	ProductMonthly   Product = "monthly"
	ProductQuarterly Product = "quarterly"
	ProductYearly    Product = "yearly"
)

// Valid reports whether p is one of the known products.
func (p Product) Valid() bool {
	switch p {
	case ProductMonthly, ProductQuarterly, ProductYearly:
		return true
	}
	return false
}

// DurationDays returns the fixed entitlement duration granted by one
// successful payment for the product. Discounting affects price, never
// duration.
func (p Product) DurationDays() int {
	switch p {
	case ProductQuarterly:
		return 90
	case ProductYearly:
		return 365
	default:
		return 30
	}
}

// Months returns the product length in months, used for the
// monthly-equivalent price on the paywall.
func (p Product) Months() int {
	switch p {
	case ProductQuarterly:
		return 3
	case ProductYearly:
		return 12
	default:
		return 1
	}
}
