// Package metrics defines prometheus metrics to expose
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "classifier_api_request_duration_seconds",
			Help:    "Total time taken for requests in seconds",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"method", "path"},
	)

	ResponseCodes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classifier_api_status_code",
			Help: "Status Codes",
		},
		[]string{"path", "status_code"},
	)

	InferenceDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "classifier_api_inference_duration_seconds",
			Help:    "Time spent inside the model per call",
			Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
		},
		[]string{"endpoint"},
	)

	Predictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classifier_api_predictions_total",
			Help: "Predictions returned, by label",
		},
		[]string{"endpoint", "label"},
	)

	BatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "classifier_api_batch_size",
			Help:    "Items per batch prediction request",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classifier_api_cache_lookups_total",
			Help: "Prediction cache lookups",
		},
		[]string{"tier", "result"},
	)

	ErrorCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classifier_api_error_count",
			Help: "Error responses by error name",
		},
		[]string{"path", "error"},
	)

	PanicRecoveries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "classifier_api_panic_recoveries_total",
			Help: "Total number of panics recovered in HTTP handlers",
		},
	)

	RateLimitRejects = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "classifier_api_rate_limit_rejects_total",
			Help: "Total number of requests rejected due to rate limiting",
		},
	)
)
