package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "boardsearch",
			Name:      "search_duration_seconds",
			Help:      "End-to-end search duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"status"},
	)

	SearchCandidates = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "boardsearch",
			Name:      "search_candidates",
			Help:      "Candidates returned by the gateway per entity type",
			Buckets:   []float64{0, 1, 5, 10, 20, 50, 100},
		},
		[]string{"type"},
	)

	SearchResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "boardsearch",
			Name:      "search_results",
			Help:      "Merged results per search before pagination",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 170},
		},
	)

	HistoryWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "boardsearch",
			Name:      "history_writes_total",
			Help:      "Search history writes by operation and status",
		},
		[]string{"op", "status"}, // op: insert/save/unsave/delete
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SearchCandidates)
	prometheus.MustRegister(SearchResults)
	prometheus.MustRegister(HistoryWritesTotal)
	searchMetricsRegistered = true
}

// StatusLabel maps an error to the "ok"/"error" status label.
func StatusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
