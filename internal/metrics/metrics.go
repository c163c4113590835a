package metrics

import "github.com/prometheus/client_golang/prometheus"

// Outcome label values shared by the counters below.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeIgnored  = "ignored"
	OutcomeFailed   = "failed"
	OutcomeSkipped  = "skipped"
	OutcomeDropped  = "dropped"
	OutcomeRequeued = "requeued"
)

// Prometheus metrics for monitoring order coordination
var (
	QueueMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orderapi_queue_messages_total",
			Help: "Total number of broker messages consumed, by queue and outcome",
		},
		[]string{"queue", "outcome"},
	)

	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orderapi_notifications_total",
			Help: "Total number of real-time deliveries attempted, by role and outcome",
		},
		[]string{"role", "outcome"},
	)

	ConnectedSubscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "orderapi_connected_subscribers",
			Help: "Number of registered real-time channels",
		},
	)

	GeocodingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orderapi_geocoding_requests_total",
			Help: "Total number of geocoding lookups, by outcome",
		},
		[]string{"outcome"},
	)

	OrderOffersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orderapi_order_offers_total",
			Help: "Total number of prepared orders re-offered, by source",
		},
		[]string{"source"},
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orderapi_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "orderapi_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// Register registers all Prometheus metrics with reg.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		QueueMessagesTotal,
		NotificationsTotal,
		ConnectedSubscribers,
		GeocodingRequestsTotal,
		OrderOffersTotal,
		HTTPRequestsTotal,
		HTTPRequestDuration,
	)
}
