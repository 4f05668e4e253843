package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	archiveRepositoryRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sensorledger",
		Subsystem: "archive_repository",
		Name:      "operations_total",
		Help:      "Count of archive repository operations.",
	}, []string{"operation", "status"})
	archiveRepositoryRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sensorledger",
		Subsystem: "archive_repository",
		Name:      "operation_duration_seconds",
		Help:      "Duration of archive repository operations.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 15, 20, 30},
	}, []string{"operation", "status"})

	archiveBatchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "sensorledger",
		Subsystem: "archive",
		Name:      "flush_batch_size",
		Help:      "Number of blocks written per archive flush.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1..2048
	})
	archiveEnqueueTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sensorledger",
		Subsystem: "archive",
		Name:      "enqueue_total",
		Help:      "Count of blocks handed to the archive writer.",
	}, []string{"status"})
)

// ArchiveRepository tracks metrics for archive repository operations.
type ArchiveRepository struct{}

// NewArchiveRepository creates an ArchiveRepository metrics collector.
func NewArchiveRepository() *ArchiveRepository {
	return &ArchiveRepository{}
}

// Observe records duration and status of a repository operation.
func (m ArchiveRepository) Observe(operation string, err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	archiveRepositoryRequestsTotal.WithLabelValues(operation, status).Inc()
	archiveRepositoryRequestDuration.WithLabelValues(operation, status).Observe(time.Since(started).Seconds())
}

// Archive tracks the batching writer in front of the repository.
type Archive struct{}

// NewArchive creates an Archive metrics collector.
func NewArchive() *Archive {
	return &Archive{}
}

// ObserveEnqueue records whether a block was queued for archiving.
func (m Archive) ObserveEnqueue(err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	archiveEnqueueTotal.WithLabelValues(status).Inc()
}

// ObserveFlush records the size of a flushed batch.
func (m Archive) ObserveFlush(size int) {
	archiveBatchSize.Observe(float64(size))
}
