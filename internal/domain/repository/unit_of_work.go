package repository

import (
	"context"
)

// TxRepositories provides transaction-scoped repositories to a unit of
// work callback. Every call made through them participates in the same
// database transaction.
type TxRepositories interface {
	Payments() PaymentRepository
	Entitlements() EntitlementRepository
	Users() UserRepository
}

// UnitOfWork runs a callback inside one atomic transaction. The webhook
// processor uses it to couple the ledger insert, the entitlement extension
// and the purchase-event emission: either all of them commit or none do.
type UnitOfWork interface {
	// Do begins a transaction, invokes fn with transaction-scoped
	// repositories, and commits when fn returns nil. Any error from fn
	// rolls the whole transaction back and is returned unchanged.
	Do(ctx context.Context, fn func(tx TxRepositories) error) error
}
