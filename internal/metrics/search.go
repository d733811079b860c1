package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Search outcomes.
const (
	OutcomeOK        = "ok"
	OutcomeNoResults = "no_results"
	OutcomeError     = "error"
)

// Search backend Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_requests_total",
			Help:      "Total number of search backend requests",
		},
		[]string{"backend", "index", "kind", "outcome"},
	)

	SearchRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_request_duration_seconds",
			Help:      "Search backend request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"backend", "index", "kind"},
	)

	SearchHits = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_hits",
			Help:      "Number of hits returned per search",
			Buckets:   []float64{0, 1, 5, 10, 20, 50, 100},
		},
		[]string{"backend", "index", "kind"},
	)
)

var registerSearchOnce sync.Once

// RegisterSearchMetrics registers the search backend metrics. Safe to call more than once.
func RegisterSearchMetrics() {
	registerSearchOnce.Do(func() {
		prometheus.MustRegister(SearchRequestsTotal, SearchRequestDuration, SearchHits)
	})
}

// ObserveSearch records one completed search call.
func ObserveSearch(backend, index, kind, outcome string, took time.Duration, hits int) {
	SearchRequestsTotal.WithLabelValues(backend, index, kind, outcome).Inc()
	SearchRequestDuration.WithLabelValues(backend, index, kind).Observe(took.Seconds())
	if outcome != OutcomeError {
		SearchHits.WithLabelValues(backend, index, kind).Observe(float64(hits))
	}
}
