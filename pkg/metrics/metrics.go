// Package metrics provides the centralized Prometheus metrics registry for
// the collector. All metrics are defined in their respective packages
// (client, cache, collector) to maintain modularity and avoid circular
// dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the collector.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - steamharvest_requests_total{source, status} (Counter): Requests by source and HTTP status
//   - steamharvest_request_duration_seconds{source} (Histogram): Request duration by source
//   - steamharvest_request_retries_total{source, error_class} (Counter): Retry waits by failure class
//   - steamharvest_retries_exhausted_total{source} (Counter): Requests that hit the attempt bound
//
// Cache Metrics (pkg/cache):
//   - steamharvest_cache_hits_total (Counter): Responses served from Redis
//   - steamharvest_cache_misses_total (Counter): Requests that went to the network
//   - steamharvest_cache_errors_total{operation} (Counter): Cache operation errors
//
// Collection Metrics (pkg/collector):
//   - steamharvest_batches_written_total{source} (Counter): Batches durably appended
//   - steamharvest_batch_duration_seconds{source} (Histogram): Wall time per batch
//   - steamharvest_records_written_total{source} (Counter): Records appended to the sink
//   - steamharvest_placeholders_total{source} (Counter): Placeholder rows written for failed items
//   - steamharvest_checkpoint_value{source} (Gauge): Cursor after the last completed batch
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(steamharvest_cache_hits_total[5m])) /
//   (sum(rate(steamharvest_cache_hits_total[5m])) + sum(rate(steamharvest_cache_misses_total[5m])))
//
//   # Collection Throughput (records/s)
//   rate(steamharvest_records_written_total[5m])
//
//   # Retry Pressure by Failure Class
//   rate(steamharvest_request_retries_total[5m])
//
//   # P95 Batch Latency
//   histogram_quantile(0.95, rate(steamharvest_batch_duration_seconds_bucket[5m]))
