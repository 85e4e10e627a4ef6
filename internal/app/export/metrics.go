package export

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	submissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "export_submissions_total",
			Help: "Total number of export submissions by outcome",
		},
		[]string{"outcome"}, // outcome: ok|disabled_handler|invalid_environment|generic
	)

	submissionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "export_submission_duration_seconds",
			Help:    "Export store write duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)
)
