package provider

import (
	"context"

	"github.com/lingvoapp/lingvo-backend/internal/domain/model"
)

// Metadata is the closed set of fields round-tripped through the payment
// provider: attached opaquely on payment creation and echoed back verbatim
// on webhook delivery. A fixed struct rather than an open map so the field
// names cannot silently drift between the creation and webhook paths.
type Metadata struct {
	UserID  string
	Product string
	Cohort  string
}

// ToMap serializes the metadata into the provider's string map.
func (m Metadata) ToMap() map[string]string {
	return map[string]string{
		"userId":  m.UserID,
		"product": m.Product,
		"cohort":  m.Cohort,
	}
}

// MetadataFromMap deserializes provider metadata, tolerating missing keys.
func MetadataFromMap(raw map[string]string) Metadata {
	if raw == nil {
		return Metadata{}
	}
	return Metadata{
		UserID:  raw["userId"],
		Product: raw["product"],
		Cohort:  raw["cohort"],
	}
}

// CreatePaymentRequest describes an internal "create payment" request
// before it is translated into a provider-specific API call.
type CreatePaymentRequest struct {
	AmountMinorUnits int64
	Currency         string
	Description      string
	ReturnURL        string
	IdempotenceKey   string
	Metadata         Metadata
}

// CreatePaymentResponse carries the provider acknowledgement.
type CreatePaymentResponse struct {
	PaymentID       string
	ConfirmationURL string
	Status          string
}

// CanonicalWebhookEvent is the provider-agnostic representation of one
// webhook delivery, produced by a provider's normalizer.
type CanonicalWebhookEvent struct {
	Provider              string
	ProviderTransactionID string
	IdempotencyKey        string
	UserID                string
	Product               model.Product
	Cohort                string
	AmountMinorUnits      int64
	Currency              string
	Status                model.PaymentStatus
	RawEventType          string
}

// Provider abstracts the external payment provider.
type Provider interface {
	// Name returns the provider tag stored on ledger rows.
	Name() string

	// Configured reports whether credentials are present.
	Configured() bool

	// CreatePayment calls the provider's payment-creation endpoint.
	CreatePayment(ctx context.Context, req *CreatePaymentRequest) (*CreatePaymentResponse, error)

	// NormalizeWebhook maps a raw webhook body into the canonical event.
	// It is total: malformed input yields zero-valued fields, never an
	// error; validation is the webhook processor's job.
	NormalizeWebhook(body []byte, idempotencyKey string) *CanonicalWebhookEvent

	// VerifyWebhookSignature checks the webhook body against the provider
	// signature header. A nil error means the delivery is authentic (or
	// verification is not configured).
	VerifyWebhookSignature(body []byte, signature string) error
}

// ProviderError represents an error returned by the payment provider API.
type ProviderError struct {
	Code    string
	Message string
	Details string
}

func (e *ProviderError) Error() string {
	if e.Details != "" {
		return e.Code + ": " + e.Message + " (" + e.Details + ")"
	}
	return e.Code + ": " + e.Message
}
