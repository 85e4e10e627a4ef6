package donation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	paymentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "donation_payments_total",
			Help: "Total number of gateway payment attempts",
		},
		[]string{"provider", "outcome"}, // outcome: success|payment_failure|system_error
	)

	paymentDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "donation_payment_duration_seconds",
			Help:    "Gateway payment duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"provider"},
	)

	rejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "donation_rejected_total",
			Help: "Total number of submissions rejected before reaching a gateway",
		},
		[]string{"reason"}, // reason: configuration|validation
	)
)
