// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
exposed at /metrics:

	curl http://localhost:8080/metrics

# Available Metrics

HTTP API:
  - api_requests_total{method, endpoint, status_code}
  - api_request_duration_seconds{method, endpoint}
  - api_active_requests
  - api_rate_limit_hits_total{endpoint}

Upstream sources:
  - source_fetch_duration_seconds{backend, source}
  - source_fetch_errors_total{backend, source, kind}
  - source_rows_fetched_total{source}

Aggregation:
  - aggregation_duration_seconds{operation}
  - aggregation_rows{operation}

Instagram sync:
  - sync_duration_seconds, sync_posts_processed_total
  - sync_errors_total{error_type}, sync_degraded_metrics_total{metric}
  - sync_last_success_timestamp

Cache, circuit breakers, and auth:
  - cache_hits_total, cache_misses_total, cache_invalidations_total{namespace}
  - circuit_breaker_state, circuit_breaker_requests_total,
    circuit_breaker_consecutive_failures, circuit_breaker_state_transitions_total
  - auth_logins_total{result}, authz_denied_total{role}

Endpoint labels use chi route patterns ("/api/v1/dashboard/series"), never
raw paths, to keep label cardinality bounded.
*/
package metrics
