package errors

import "errors"

var (
	// ErrProviderNotConfigured indicates that payment-provider credentials
	// are missing; fatal to payment creation, never hit on the webhook path
	ErrProviderNotConfigured = errors.New("payment provider credentials not configured")

	// ErrTooManyPendingPayments indicates that the user already has too many
	// recently created pending payments
	ErrTooManyPendingPayments = errors.New("too many pending payments")

	// ErrUserNotFound indicates that the referenced user record does not exist
	ErrUserNotFound = errors.New("user not found")

	// ErrUnknownProduct indicates a product identifier outside the catalog
	ErrUnknownProduct = errors.New("unknown product")
)
