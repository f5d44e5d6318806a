package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// WebhookEvents counts processed provider webhook deliveries by outcome:
// ok, duplicate, skipped, error.
var WebhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "billing",
	Name:      "webhook_events_total",
	Help:      "Provider webhook deliveries by processing outcome.",
}, []string{"result"})

// PaymentCreations counts outbound payment-creation attempts by outcome:
// ok, rejected, error.
var PaymentCreations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "billing",
	Name:      "payment_creations_total",
	Help:      "Payment creation attempts by outcome.",
}, []string{"result"})

// EntitlementExtensions counts applied entitlement extensions by product.
var EntitlementExtensions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "billing",
	Name:      "entitlement_extensions_total",
	Help:      "Entitlement extensions applied, by product.",
}, []string{"product"})
