// Package metrics exposes Prometheus instrumentation for the tracker.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tutortrack_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tutortrack_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	visitsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tutortrack_visits_recorded_total",
		Help: "Count of visit rows recorded",
	})

	paymentsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tutortrack_payments_recorded_total",
		Help: "Count of payment acknowledgements recorded",
	})

	duplicatePayments = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tutortrack_duplicate_payments_total",
		Help: "Count of payment submissions rejected as duplicates",
	})
)

// ObserveHTTPRequest records one completed HTTP request.
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// IncVisitRecorded increments the visit counter.
func IncVisitRecorded() {
	visitsRecorded.Inc()
}

// IncPaymentRecorded increments the payment counter.
func IncPaymentRecorded() {
	paymentsRecorded.Inc()
}

// IncDuplicatePayment increments the rejected-duplicate counter.
func IncDuplicatePayment() {
	duplicatePayments.Inc()
}

// Handler returns the Prometheus scrape endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
