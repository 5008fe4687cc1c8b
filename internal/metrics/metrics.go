// Package metrics defines the Prometheus metrics exported at /metrics and
// decorators that record them around the QA capabilities and the ask service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics register on the default registry through promauto.
var (
	// HTTPRequestsTotal counts served requests by method, path and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "askdoc_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures server response time.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "askdoc_http_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
			// Multi-page PDFs on a cold model can take minutes.
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 180},
		},
		[]string{"method", "path"},
	)

	// AskTotal counts dispatcher outcomes by source kind and outcome.
	// outcome is "ok" or a failure kind.
	AskTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "askdoc_ask_total",
			Help: "Total number of questions answered or rejected",
		},
		[]string{"source", "outcome"},
	)

	// InferenceCallsTotal counts calls into a QA capability.
	InferenceCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "askdoc_inference_calls_total",
			Help: "Total number of inference calls",
		},
		[]string{"capability", "model", "outcome"},
	)

	// InferenceDuration measures inference latency.
	InferenceDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "askdoc_inference_duration_seconds",
			Help:    "Duration of inference calls in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"capability", "model"},
	)
)

// Capability label values.
const (
	CapabilityText     = "text_qa"
	CapabilityDocument = "document_qa"
)

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
