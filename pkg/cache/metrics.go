package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks responses served from Redis
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "steamharvest_cache_hits_total",
			Help: "Total number of API responses served from cache",
		},
	)

	// CacheMisses tracks requests that went to the network
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "steamharvest_cache_misses_total",
			Help: "Total number of cache misses",
		},
	)

	// CacheErrors tracks cache operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "steamharvest_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete"
	)
)
