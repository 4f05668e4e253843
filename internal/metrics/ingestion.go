// Package metrics exposes application metrics collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ingestionSubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sensorledger",
		Subsystem: "ingestion",
		Name:      "submissions_total",
		Help:      "Count of block submissions by outcome and reason code.",
	}, []string{"outcome", "code"})

	ingestionSubmitDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sensorledger",
		Subsystem: "ingestion",
		Name:      "submit_duration_seconds",
		Help:      "Duration of handling a single block submission.",
		Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
	}, []string{"outcome"})

	ingestionLinkageMismatchTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sensorledger",
		Subsystem: "ingestion",
		Name:      "linkage_mismatch_total",
		Help:      "Count of blocks accepted with a prev hash that does not match the chain tip.",
	})
)

// Ingestion tracks metrics for the ingestion service.
type Ingestion struct{}

// NewIngestion constructs an Ingestion metrics collector.
func NewIngestion() *Ingestion {
	return &Ingestion{}
}

// ObserveSubmission records the outcome of one submission.
func (m Ingestion) ObserveSubmission(outcome, code string, started time.Time) {
	if code == "" {
		code = "none"
	}
	ingestionSubmissionsTotal.WithLabelValues(outcome, code).Inc()
	ingestionSubmitDuration.WithLabelValues(outcome).Observe(time.Since(started).Seconds())
}

// ObserveLinkageMismatch records a block accepted under permissive linkage.
func (m Ingestion) ObserveLinkageMismatch() {
	ingestionLinkageMismatchTotal.Inc()
}
