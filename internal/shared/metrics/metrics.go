package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus metrics for webhook intake and outbound delivery
var (
	WebhookEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_webhook_events_total",
			Help: "Inbound webhook deliveries by source and classified kind",
		},
		[]string{"source", "kind"},
	)

	SignatureFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_signature_failures_total",
			Help: "Inbound webhook deliveries rejected by signature verification",
		},
		[]string{"source", "reason"},
	)

	OutboundMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_outbound_messages_total",
			Help: "Messages sent through the WhatsApp Cloud API by template and result",
		},
		[]string{"template", "result"},
	)

	PaymentLinksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_payment_links_total",
			Help: "Checkout sessions created for incoming orders",
		},
		[]string{"result"},
	)

	OutboundRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "relay_outbound_request_duration_seconds",
			Help:    "Duration of calls to external providers",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)
)

// Register registers all collectors with the given registerer.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		WebhookEventsTotal,
		SignatureFailuresTotal,
		OutboundMessagesTotal,
		PaymentLinksTotal,
		OutboundRequestDuration,
	)
}
