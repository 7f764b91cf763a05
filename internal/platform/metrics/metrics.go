package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PermutationsEvaluated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tour_permutations_evaluated_total",
			Help: "Total number of waypoint orderings scored",
		},
	)

	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tour_searches_total",
			Help: "Exhaustive tour searches by outcome",
		},
		[]string{"outcome"}, // ok, error
	)

	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tour_search_duration_seconds",
			Help:    "Wall-clock duration of exhaustive tour searches",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 15, 60, 300},
		},
	)

	BestComparison = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tour_best_comparison_seconds",
			Help: "Comparison metric of the most recently completed search",
		},
	)

	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "digitransit_requests_total",
			Help: "Requests sent to the Digitransit API by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 60},
		},
		[]string{"method", "path"},
	)
)
