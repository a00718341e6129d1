// Package metrics provides the centralized Prometheus metrics registry for
// the GBIF records module. Metrics are defined in the packages that own them
// (client, occurrence, epochs) to maintain modularity and avoid circular
// dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the module. All metrics
// are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - gbif_requests_total{endpoint, status} (Counter): Total requests by endpoint and HTTP status
//   - gbif_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - gbif_errors_total{class} (Counter): Errors by class (client, server, network)
//
// Fetch Metrics (pkg/occurrence):
//   - gbif_pages_fetched_total (Counter): Occurrence search pages fetched
//   - gbif_records_fetched_total (Counter): Occurrence records fetched
//
// Aggregation Metrics (pkg/epochs):
//   - gbif_epoch_fetches_total (Counter): Completed per-epoch fetches
//
// Example Prometheus Queries:
//
//   # Request Error Rate
//   rate(gbif_errors_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(gbif_request_duration_seconds_bucket[5m]))
//
//   # Mean Records Per Page
//   rate(gbif_records_fetched_total[5m]) / rate(gbif_pages_fetched_total[5m])
