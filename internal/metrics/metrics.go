package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tailorder_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tailorder_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Order lifecycle metrics
	OrderOperationsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tailorder_order_operations_total",
			Help: "Total number of order operations",
		},
		[]string{"operation"},
	)

	// Document export metrics
	ExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tailorder_exports_total",
			Help: "Total number of document exports",
		},
		[]string{"format", "outcome"},
	)

	ExportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tailorder_export_duration_seconds",
			Help:    "Duration of document rendering in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"format"},
	)
)

// RecordOrderOperation increments the counter for order operations.
func RecordOrderOperation(operation string) {
	OrderOperationsCounter.WithLabelValues(operation).Inc()
}

// TrackExport returns a function that records one export attempt.
// Call it with the outcome once rendering finishes.
func TrackExport(format string) func(err error) {
	start := time.Now()
	return func(err error) {
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		ExportsTotal.WithLabelValues(format, outcome).Inc()
		ExportDuration.WithLabelValues(format).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the registry for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware tracks request counts and latencies per method, route and
// status. The route label is the matched mux pattern so per-order URLs
// collapse into one series instead of one per id.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, req)

		route := req.Pattern
		if route == "" {
			route = req.URL.Path
		}

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rec.status)
		HttpRequestsTotal.WithLabelValues(req.Method, route, status).Inc()
		HttpRequestDuration.WithLabelValues(req.Method, route, status).Observe(duration)
	})
}
