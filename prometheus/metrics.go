package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// Client registry operation counter
	ClientOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gst_client_operations_total",
			Help: "Total number of client registry operations",
		},
		[]string{"operation"}, // "create", "list", "update", "delete", ...
	)

	// Record operation counter by collection
	RecordOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gst_record_operations_total",
			Help: "Total number of record operations by collection",
		},
		[]string{"collection", "operation"},
	)

	// Bulk insert row outcomes by collection
	BulkRowCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gst_bulk_rows_total",
			Help: "Total number of bulk insert rows by outcome",
		},
		[]string{"collection", "outcome"}, // outcome is "inserted" or "failed"
	)

	// Provisioning counter
	ProvisionCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gst_database_provisions_total",
			Help: "Total number of client database provisioning runs",
		},
	)

	// Error counter by taxonomy
	ErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gst_errors_total",
			Help: "Total number of errors by type",
		},
		[]string{"type"}, // "validation", "not_found", "storage", "duplicate_key"
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gst_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gst_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gst_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

// Gauge metrics
var (
	// Registered clients
	RegisteredClientsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "gst_registered_clients",
			Help: "Number of clients currently in the registry",
		},
	)

	// System info
	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gst_info",
			Help: "Information about the GST backend service",
		},
		[]string{"version"},
	)
)

func init() {
	prometheus.MustRegister(ClientOperationCounter)
	prometheus.MustRegister(RecordOperationCounter)
	prometheus.MustRegister(BulkRowCounter)
	prometheus.MustRegister(ProvisionCounter)
	prometheus.MustRegister(ErrorCounter)
	prometheus.MustRegister(HTTPRequestCounter)

	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)

	prometheus.MustRegister(RegisteredClientsGauge)
	prometheus.MustRegister(InfoGauge)

	InfoGauge.With(prometheus.Labels{"version": "1.0.0"}).Set(1)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation measures database operation durations
func TrackDBOperation(operation string) func(time.Time) {
	startTime := time.Now()
	return func(endTime time.Time) {
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(time.Since(startTime).Seconds())
	}
}

// RecordClientOperation records a registry operation
func RecordClientOperation(operation string) {
	ClientOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordRecordOperation records a record operation for a collection
func RecordRecordOperation(collection, operation string) {
	RecordOperationCounter.With(prometheus.Labels{
		"collection": collection,
		"operation":  operation,
	}).Inc()
}

// RecordBulkRows records bulk insert outcomes for a collection
func RecordBulkRows(collection string, inserted, failed int) {
	BulkRowCounter.With(prometheus.Labels{
		"collection": collection,
		"outcome":    "inserted",
	}).Add(float64(inserted))
	BulkRowCounter.With(prometheus.Labels{
		"collection": collection,
		"outcome":    "failed",
	}).Add(float64(failed))
}

// RecordError records an error by taxonomy type
func RecordError(errorType string) {
	ErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// UpdateRegisteredClients updates the registered clients gauge
func UpdateRegisteredClients(count int64) {
	RegisteredClientsGauge.Set(float64(count))
}

// MetricsMiddleware creates a middleware function that captures metrics for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			RequestDuration.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Observe(duration)

			HTTPRequestCounter.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Inc()

			return err
		}
	}
}
