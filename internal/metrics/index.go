package metrics

import "github.com/prometheus/client_golang/prometheus"

// Index and query Prometheus metrics.
var (
	IndexDocuments = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "jobrank",
			Name:      "index_documents",
			Help:      "Number of documents in the live index",
		},
	)

	IndexVocabularySize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "jobrank",
			Name:      "index_vocabulary_size",
			Help:      "Number of terms in the live vocabulary",
		},
	)

	TrainingDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "jobrank",
			Name:      "training_duration_seconds",
			Help:      "Index training duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	TrainingTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jobrank",
			Name:      "training_total",
			Help:      "Training runs by outcome",
		},
		[]string{"status"}, // "success" / "error"
	)

	ModelLoadTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jobrank",
			Name:      "model_load_total",
			Help:      "Persisted model load attempts by outcome",
		},
		[]string{"status"}, // loaded / absent / corrupt / io_error
	)

	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "jobrank",
			Name:      "search_duration_seconds",
			Help:      "Search ranking duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		},
	)

	SearchResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "jobrank",
			Name:      "search_results",
			Help:      "Number of results returned per search",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		},
	)
)

var indexMetricsRegistered bool

// RegisterIndexMetrics registers index and search metrics. Must be called once from main.
func RegisterIndexMetrics() {
	if indexMetricsRegistered {
		return
	}
	prometheus.MustRegister(IndexDocuments)
	prometheus.MustRegister(IndexVocabularySize)
	prometheus.MustRegister(TrainingDuration)
	prometheus.MustRegister(TrainingTotal)
	prometheus.MustRegister(ModelLoadTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SearchResults)
	indexMetricsRegistered = true
}
