package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(cacheRequestsTotal, cacheErrorsTotal) }

var (
	cacheRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_requests_total",
			Help: "Tracks cache hits and misses for gateway reference data.",
		},
		[]string{"cache", "result"}, // e.g., cache="output_payways", result="hit"
	)

	cacheErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_errors_total",
			Help: "Cache backend failures by operation (get/set).",
		},
		[]string{"cache", "op"},
	)
)

func IncCacheRequest(cacheName, result string) {
	cacheRequestsTotal.WithLabelValues(norm(cacheName), norm(result)).Inc()
}

func IncCacheError(cacheName, op string) {
	cacheErrorsTotal.WithLabelValues(norm(cacheName), norm(op)).Inc()
}
