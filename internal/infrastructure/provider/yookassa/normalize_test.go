package yookassa_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/lingvoapp/lingvo-backend/internal/domain/model"
	"github.com/lingvoapp/lingvo-backend/internal/infrastructure/provider/yookassa"
)

func TestClient_NormalizeWebhook(t *testing.T) {
	client := yookassa.NewClient("", "", "", zap.NewNop())

	t.Run("succeeded payment", func(t *testing.T) {
		body := []byte(`{
			"event": "payment.succeeded",
			"object": {
				"id": "2f4b1a-000f-5000-8000-1f66e0a1c0a1",
				"amount": {"value": "899.00", "currency": "RUB"},
				"metadata": {"userId": "user-1", "product": "monthly", "cohort": "default"}
			}
		}`)

		evt := client.NormalizeWebhook(body, "idem-1")

		assert.Equal(t, "yookassa", evt.Provider)
		assert.Equal(t, "2f4b1a-000f-5000-8000-1f66e0a1c0a1", evt.ProviderTransactionID)
		assert.Equal(t, "idem-1", evt.IdempotencyKey)
		assert.Equal(t, "user-1", evt.UserID)
		assert.Equal(t, model.ProductMonthly, evt.Product)
		assert.Equal(t, "default", evt.Cohort)
		assert.Equal(t, int64(89900), evt.AmountMinorUnits)
		assert.Equal(t, "RUB", evt.Currency)
		assert.Equal(t, model.PaymentStatusSucceeded, evt.Status)
		assert.Equal(t, "payment.succeeded", evt.RawEventType)
	})

	t.Run("event type mapping", func(t *testing.T) {
		tests := []struct {
			event string
			want  model.PaymentStatus
		}{
			{"payment.succeeded", model.PaymentStatusSucceeded},
			{"payment.canceled", model.PaymentStatusFailed},
			{"payment.payment_failed", model.PaymentStatusFailed},
			{"payment.waiting_for_capture", model.PaymentStatusPending},
			{"refund.succeeded", model.PaymentStatusPending},
			{"", model.PaymentStatusPending},
		}
		for _, tt := range tests {
			evt := client.NormalizeWebhook([]byte(`{"event": "`+tt.event+`"}`), "k")
			assert.Equal(t, tt.want, evt.Status, "event %q", tt.event)
		}
	})

	t.Run("malformed body degrades to zero values", func(t *testing.T) {
		evt := client.NormalizeWebhook([]byte(`not json at all`), "k")

		assert.Equal(t, "yookassa", evt.Provider)
		assert.Empty(t, evt.ProviderTransactionID)
		assert.Empty(t, evt.UserID)
		assert.Zero(t, evt.AmountMinorUnits)
		assert.Equal(t, model.PaymentStatusPending, evt.Status)
	})

	t.Run("missing metadata", func(t *testing.T) {
		body := []byte(`{
			"event": "payment.succeeded",
			"object": {"id": "tx-1", "amount": {"value": "10.00", "currency": "RUB"}}
		}`)

		evt := client.NormalizeWebhook(body, "k")

		assert.Equal(t, "tx-1", evt.ProviderTransactionID)
		assert.Empty(t, evt.UserID)
		assert.Equal(t, int64(1000), evt.AmountMinorUnits)
	})

	t.Run("amount parsing", func(t *testing.T) {
		tests := []struct {
			value string
			want  int64
		}{
			{"990.00", 99000},
			{"10.00", 1000},
			{"0.50", 50},
			{"1199.90", 119990},
			{"", 0},
			{"abc", 0},
		}
		for _, tt := range tests {
			body := []byte(`{"object": {"amount": {"value": "` + tt.value + `"}}}`)
			evt := client.NormalizeWebhook(body, "k")
			assert.Equal(t, tt.want, evt.AmountMinorUnits, "value %q", tt.value)
		}
	})
}

func TestClient_VerifyWebhookSignature(t *testing.T) {
	body := []byte(`{"event": "payment.succeeded"}`)

	sign := func(secret string, body []byte) string {
		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write(body)
		return hex.EncodeToString(mac.Sum(nil))
	}

	t.Run("valid signature", func(t *testing.T) {
		client := yookassa.NewClient("shop", "key", "whsec", zap.NewNop())
		assert.NoError(t, client.VerifyWebhookSignature(body, sign("whsec", body)))
	})

	t.Run("tampered body", func(t *testing.T) {
		client := yookassa.NewClient("shop", "key", "whsec", zap.NewNop())
		err := client.VerifyWebhookSignature([]byte(`{"event": "payment.canceled"}`), sign("whsec", body))
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		client := yookassa.NewClient("shop", "key", "whsec", zap.NewNop())
		err := client.VerifyWebhookSignature(body, sign("other", body))
		assert.Error(t, err)
	})

	t.Run("no secret configured disables verification", func(t *testing.T) {
		client := yookassa.NewClient("shop", "key", "", zap.NewNop())
		assert.NoError(t, client.VerifyWebhookSignature(body, "anything"))
	})
}

func TestClient_Configured(t *testing.T) {
	assert.True(t, yookassa.NewClient("shop", "key", "", zap.NewNop()).Configured())
	assert.False(t, yookassa.NewClient("", "key", "", zap.NewNop()).Configured())
	assert.False(t, yookassa.NewClient("shop", "", "", zap.NewNop()).Configured())
}
