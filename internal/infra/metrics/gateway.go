package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		gatewayRequestsTotal,
		gatewayLatency,
	)
}

var (
	gatewayRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_gateway_requests_total",
			Help: "Payment gateway API calls by operation and outcome.",
		},
		[]string{"op", "outcome"}, // outcome: 'ok', 'business_error', 'transport_error'
	)

	gatewayLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "payment_gateway_latency_seconds",
			Help:    "Payment gateway API call latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)
)

func ObserveGatewayCall(op, outcome string, seconds float64) {
	gatewayRequestsTotal.WithLabelValues(norm(op), norm(outcome)).Inc()
	gatewayLatency.WithLabelValues(norm(op)).Observe(seconds)
}
