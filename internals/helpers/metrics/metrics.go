// file: internals/helpers/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ImagesUploaded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tamilvalam",
		Subsystem: "initiatives",
		Name:      "images_uploaded_total",
		Help:      "The total number of initiative images stored",
	})

	ImagesDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tamilvalam",
		Subsystem: "initiatives",
		Name:      "images_deleted_total",
		Help:      "The total number of initiative images deleted",
	})

	PrimaryReassigned = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tamilvalam",
		Subsystem: "initiatives",
		Name:      "primary_reassigned_total",
		Help:      "The total number of primary image changes, explicit or by promotion",
	})

	FileRemoveFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tamilvalam",
		Subsystem: "storage",
		Name:      "file_remove_failures_total",
		Help:      "The total number of image files that could not be removed",
	})

	CountersRepaired = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tamilvalam",
		Subsystem: "initiatives",
		Name:      "counters_repaired_total",
		Help:      "The total number of initiatives whose cached image fields were corrected",
	})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tamilvalam",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "The total number of HTTP requests",
	}, []string{"method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tamilvalam",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})
)
