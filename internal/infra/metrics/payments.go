package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(paymentStatusTotal) }

var paymentStatusTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "payments_status_total",
		Help: "Payment settlements by final status (paid/failed/refunded/canceled).",
	},
	[]string{"status"},
)

func IncPaymentStatus(status string) {
	paymentStatusTotal.WithLabelValues(norm(status)).Inc()
}
