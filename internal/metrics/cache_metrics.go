package metrics

import "github.com/prometheus/client_golang/prometheus"

// Cache metrics by category (odds, game_data, standings)
var (
	CacheLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Cache lookups by category and result",
	}, []string{"category", "result"})
	CacheHitRatio = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cache_hit_ratio",
		Help:      "Fraction of cache lookups served from a fresh entry",
	}, []string{"category"})
	CacheRecomputesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_recomputes_total",
		Help:      "Cache entries recomputed by category",
	}, []string{"category"})
	StaleResultsServedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stale_results_served_total",
		Help:      "Results served past their freshness window by category",
	}, []string{"category"})
)

// RecordCacheLookup records a hit or miss and refreshes the hit ratio.
func RecordCacheLookup(category string, hit bool, hits, misses uint64) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookupsTotal.WithLabelValues(category, result).Inc()
	if total := hits + misses; total > 0 {
		CacheHitRatio.WithLabelValues(category).Set(float64(hits) / float64(total))
	}
}

// RecordCacheRecompute records a cache fill.
func RecordCacheRecompute(category string) {
	CacheRecomputesTotal.WithLabelValues(category).Inc()
}

// RecordStaleServed records a stale result returned to a caller.
func RecordStaleServed(category string) {
	StaleResultsServedTotal.WithLabelValues(category).Inc()
}
