package http

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/lingvoapp/lingvo-backend/internal/domain/provider"
	"github.com/lingvoapp/lingvo-backend/internal/usecase"
)

// Header names on inbound provider notifications.
const (
	idempotenceKeyHeader   = "Idempotence-Key"
	webhookSignatureHeader = "X-Webhook-Signature"
)

// WebhookHandler receives provider webhook deliveries. It answers 200 for
// everything that is settled — processed, duplicate or non-actionable —
// and non-success only for transient faults, so the provider's retry
// mechanism redelivers exactly the deliveries that need it.
type WebhookHandler struct {
	processor       *usecase.WebhookProcessor
	paymentProvider provider.Provider
	logger          *zap.Logger
}

func NewWebhookHandler(processor *usecase.WebhookProcessor, paymentProvider provider.Provider, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		processor:       processor,
		paymentProvider: paymentProvider,
		logger:          logger,
	}
}

// HandleYooKassaWebhook processes one YooKassa notification.
func (h *WebhookHandler) HandleYooKassaWebhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		h.logger.Error("Error reading webhook body", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Error reading request body"})
	}

	// Authenticity check comes before any other processing.
	sig := c.Request().Header.Get(webhookSignatureHeader)
	if err := h.paymentProvider.VerifyWebhookSignature(body, sig); err != nil {
		h.logger.Warn("Webhook signature verification failed",
			zap.String("remote_ip", c.RealIP()),
			zap.Error(err))
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid signature"})
	}

	evt := h.paymentProvider.NormalizeWebhook(body, c.Request().Header.Get(idempotenceKeyHeader))
	if evt.IdempotencyKey == "" {
		// Some deliveries arrive without the idempotence header; the event
		// type still distinguishes status transitions of one transaction.
		evt.IdempotencyKey = evt.RawEventType
	}

	if err := h.processor.Process(c.Request().Context(), evt); err != nil {
		h.logger.Error("Webhook processing failed",
			zap.String("transaction_id", evt.ProviderTransactionID),
			zap.String("event_type", evt.RawEventType),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"ok": false})
	}

	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}
