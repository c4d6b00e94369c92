// Package metrics provides Prometheus metrics for the Confluence uploader.
// It tracks Confluence API calls, page outcomes, content sizes and MCP tool calls.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace for all metrics
const (
	Namespace = "confluence_upload"
)

var (
	// RequestsTotal counts total MCP tool calls by tool name and status
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "requests_total",
		Help:      "Total number of MCP tool calls",
	}, []string{"tool", "status"})

	// RequestDuration measures tool call latency distribution
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "request_duration_seconds",
		Help:      "Request latency distribution by tool",
		Buckets:   []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60, 300},
	}, []string{"tool"})

	// RequestInFlight tracks currently executing tool calls
	RequestInFlight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "requests_in_flight",
		Help:      "Number of requests currently being processed",
	}, []string{"tool"})

	// PanicsRecovered counts recovered panics
	PanicsRecovered = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "panics_recovered_total",
		Help:      "Number of panics recovered in tool handlers",
	}, []string{"tool"})

	// APILatency measures Confluence API call latency by operation
	APILatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "api_latency_seconds",
		Help:      "Confluence API call latency by operation",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})

	// APIRequestsTotal counts Confluence API requests
	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "api_requests_total",
		Help:      "Total Confluence API requests by operation and status",
	}, []string{"operation", "status"})

	// APIErrors counts non-success API responses by HTTP status code.
	// Transport failures are recorded with status_code "0".
	APIErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "api_errors_total",
		Help:      "Confluence API errors by operation and HTTP status code",
	}, []string{"operation", "status_code"})

	// PageOutcomes counts page results (created, skipped, simulated, failed, deleted, not_found)
	PageOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "page_outcomes_total",
		Help:      "Page operation outcomes",
	}, []string{"outcome"})

	// ContentSize tracks converted body sizes
	ContentSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "content_size_bytes",
		Help:      "Storage body size distribution in bytes",
		Buckets:   []float64{100, 1000, 10000, 50000, 100000, 250000, 500000, 1000000},
	}, []string{"kind"})

	// PaceWaits counts pacing pauses between mutating operations
	PaceWaits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "pace_waits_total",
		Help:      "Fixed pacing pauses inserted between page operations",
	})
)

// RecordRequest records a completed tool call with its duration and status
func RecordRequest(tool string, duration float64, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	RequestsTotal.WithLabelValues(tool, status).Inc()
	RequestDuration.WithLabelValues(tool).Observe(duration)
}

// RecordAPICall records a Confluence API call. statusCode is the HTTP status,
// or 0 when the request never got a response.
func RecordAPICall(operation string, duration float64, success bool, statusCode int) {
	status := "success"
	if !success {
		status = "error"
	}
	APIRequestsTotal.WithLabelValues(operation, status).Inc()
	APILatency.WithLabelValues(operation).Observe(duration)
	if !success {
		APIErrors.WithLabelValues(operation, strconv.Itoa(statusCode)).Inc()
	}
}

// RecordOutcome records a single page outcome
func RecordOutcome(outcome string) {
	PageOutcomes.WithLabelValues(outcome).Inc()
}

// RecordContentSize records the size of a converted page body
func RecordContentSize(kind string, size int) {
	ContentSize.WithLabelValues(kind).Observe(float64(size))
}

// WriteTextfile writes all registered metrics to path in the Prometheus text
// format, suitable for the node_exporter textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
