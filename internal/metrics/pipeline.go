package metrics

import "github.com/prometheus/client_golang/prometheus"

// Pipeline Prometheus metrics.
var (
	EncodeRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cardex",
			Name:      "encode_requests_total",
			Help:      "Total number of query encoding requests",
		},
		[]string{"encoder", "model", "status"},
	)

	EncodeRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cardex",
			Name:      "encode_request_duration_seconds",
			Help:      "Query encoding duration in seconds",
			Buckets:   []float64{0.005, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"encoder", "model"},
	)

	EncodeTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cardex",
			Name:      "encode_tokens_total",
			Help:      "Total embedding tokens consumed",
		},
		[]string{"encoder", "model", "type"},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cardex",
			Name:      "embedding_cache_total",
			Help:      "Embedding cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	CatalogQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cardex",
			Name:      "catalog_queries_total",
			Help:      "Total fused queries issued to the catalog index",
		},
		[]string{"status"},
	)

	CatalogQueryDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "cardex",
			Name:      "catalog_query_duration_seconds",
			Help:      "Catalog index query duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		},
	)

	GenerationRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cardex",
			Name:      "generation_requests_total",
			Help:      "Total generative ranker invocations",
		},
		[]string{"model", "status"},
	)

	GenerationRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cardex",
			Name:      "generation_request_duration_seconds",
			Help:      "Generative ranker call duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		},
		[]string{"model"},
	)

	RecommendationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cardex",
			Name:      "recommendations_total",
			Help:      "Recommendation requests by outcome",
		},
		[]string{"outcome"}, // "matched" / "no_match" / "error"
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers Prometheus pipeline metrics. Must be called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(EncodeRequestsTotal)
	prometheus.MustRegister(EncodeRequestDuration)
	prometheus.MustRegister(EncodeTokensTotal)
	prometheus.MustRegister(EmbeddingCacheTotal)
	prometheus.MustRegister(CatalogQueriesTotal)
	prometheus.MustRegister(CatalogQueryDuration)
	prometheus.MustRegister(GenerationRequestsTotal)
	prometheus.MustRegister(GenerationRequestDuration)
	prometheus.MustRegister(RecommendationsTotal)
	pipelineMetricsRegistered = true
}
