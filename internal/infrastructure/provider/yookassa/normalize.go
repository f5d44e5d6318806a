package yookassa

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/lingvoapp/lingvo-backend/internal/domain/model"
	"github.com/lingvoapp/lingvo-backend/internal/domain/provider"
)

// webhookEnvelope is the notification body YooKassa posts:
// {"event": "payment.succeeded", "object": {...full payment object...}}.
// The body is treated as partially untrusted; every field is optional.
type webhookEnvelope struct {
	Event  string        `json:"event"`
	Object webhookObject `json:"object"`
}

type webhookObject struct {
	ID       string            `json:"id"`
	Amount   amountBody        `json:"amount"`
	Metadata map[string]string `json:"metadata"`
}

// NormalizeWebhook maps a raw YooKassa notification into the canonical
// event. It never fails: malformed input degrades to zero-valued fields
// and validation is left to the webhook processor. Unknown event types
// map to pending rather than failed, so a provider-side event-catalog
// change can never silently mark a real payment as failed.
func (c *Client) NormalizeWebhook(body []byte, idempotencyKey string) *provider.CanonicalWebhookEvent {
	var envelope webhookEnvelope
	// Best effort: partial decoding still fills whatever fields parsed.
	json.Unmarshal(body, &envelope)

	meta := provider.MetadataFromMap(envelope.Object.Metadata)

	return &provider.CanonicalWebhookEvent{
		Provider:              providerName,
		ProviderTransactionID: envelope.Object.ID,
		IdempotencyKey:        idempotencyKey,
		UserID:                meta.UserID,
		Product:               model.Product(meta.Product),
		Cohort:                meta.Cohort,
		AmountMinorUnits:      parseMajorUnits(envelope.Object.Amount.Value),
		Currency:              envelope.Object.Amount.Currency,
		Status:                mapEventStatus(envelope.Event),
		RawEventType:          envelope.Event,
	}
}

// mapEventStatus maps YooKassa event types onto the canonical status.
func mapEventStatus(event string) model.PaymentStatus {
	switch event {
	case "payment.succeeded":
		return model.PaymentStatusSucceeded
	case "payment.canceled", "payment.payment_failed":
		return model.PaymentStatusFailed
	case "payment.waiting_for_capture":
		return model.PaymentStatusPending
	default:
		return model.PaymentStatusPending
	}
}

// parseMajorUnits converts a major-unit decimal string ("990.00") into
// minor units. Unparseable input yields zero.
func parseMajorUnits(value string) int64 {
	if value == "" {
		return 0
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0
	}
	return d.Mul(decimal.NewFromInt(100)).IntPart()
}
