package repository

import (
	"context"
	"time"

	"github.com/lingvoapp/lingvo-backend/internal/domain/model"
)

// PaymentRepository is the append-only payment ledger. Insert is the only
// write; rows are never updated or deleted.
type PaymentRepository interface {
	// Insert appends a ledger row. created is false when a row with the
	// same (provider_transaction_id, idempotency_key) already exists —
	// that is the idempotent-replay signal, not an error.
	Insert(ctx context.Context, payment *model.Payment) (created bool, err error)

	// CountPendingSince counts the user's pending payments created after
	// the given time; used by the creation rate guard.
	CountPendingSince(ctx context.Context, userID string, since time.Time) (int64, error)

	// ListRecentByUser returns the user's most recent ledger rows.
	ListRecentByUser(ctx context.Context, userID string, limit int) ([]model.Payment, error)
}
