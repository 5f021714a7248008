package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		billingRunsTotal,
		billingOutcomesTotal,
		chargesCreatedTotal,
		billingChargeFailuresTotal,
		billingPhantomBackfillsTotal,
	)
}

var (
	billingRunsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "billing_runs_total",
			Help: "Completed billing engine runs.",
		},
	)

	billingOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "billing_outcomes_total",
			Help: "Per-subscription outcomes of billing runs.",
		},
		[]string{"outcome"}, // 'succeeded', 'failed', 'skipped'
	)

	chargesCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "billing_charges_created_total",
			Help: "Charges successfully created at the gateway and persisted.",
		},
	)

	billingChargeFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "billing_charge_failures_total",
			Help: "Gateway charge creation failures by retry classification.",
		},
		[]string{"retryable"},
	)

	billingPhantomBackfillsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "billing_phantom_backfills_total",
			Help: "Gateway charges recovered into local payments by the reconciler.",
		},
	)
)

func IncBillingRun(succeeded, failed, skipped int) {
	billingRunsTotal.Inc()
	billingOutcomesTotal.WithLabelValues("succeeded").Add(float64(succeeded))
	billingOutcomesTotal.WithLabelValues("failed").Add(float64(failed))
	billingOutcomesTotal.WithLabelValues("skipped").Add(float64(skipped))
}

func IncChargeCreated() {
	chargesCreatedTotal.Inc()
}

func IncChargeFailure(retryable bool) {
	v := "false"
	if retryable {
		v = "true"
	}
	billingChargeFailuresTotal.WithLabelValues(v).Inc()
}

func IncPhantomBackfill() {
	billingPhantomBackfillsTotal.Inc()
}
