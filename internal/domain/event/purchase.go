package event

import (
	"context"
	"time"
)

// PurchaseChannel is the channel purchase events are published on.
const PurchaseChannel = "billing.purchase_success"

// PurchaseEvent is the canonical "purchase succeeded" notification handed
// to the analytics collaborator. Produced exactly once per successful
// webhook transaction; not persisted by this service.
type PurchaseEvent struct {
	Name             string                 `json:"name"`
	UserID           string                 `json:"user_id"`
	Product          string                 `json:"product"`
	AmountMinorUnits int64                  `json:"amount_minor_units"`
	Currency         string                 `json:"currency"`
	Provider         string                 `json:"provider"`
	ProviderID       string                 `json:"provider_id"`
	UTM              map[string]interface{} `json:"utm,omitempty"`
	OccurredAt       time.Time              `json:"occurred_at"`
}

// Publisher hands domain events to the external event log. Publishing
// happens inside the webhook transaction: a failed publish rolls the
// transaction back so provider redelivery retries the whole unit.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) error
}
