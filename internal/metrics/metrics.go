// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Source Metrics (Google Sheets, Instagram Graph API)
	SourceFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "source_fetch_duration_seconds",
			Help:    "Duration of upstream row and insight fetches in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		},
		[]string{"backend", "source"},
	)

	SourceFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_fetch_errors_total",
			Help: "Total number of failed upstream fetches by error kind",
		},
		[]string{"backend", "source", "kind"}, // kind: credentials_missing, permission_denied, not_found, timeout, upstream
	)

	SourceRowsFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_rows_fetched_total",
			Help: "Total number of data rows read from upstream sources",
		},
		[]string{"source"},
	)

	// Aggregation Metrics
	AggregationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aggregation_duration_seconds",
			Help:    "Duration of in-memory aggregation passes in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{"operation"}, // kpis, series, distribution, customers, insights
	)

	AggregationRows = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aggregation_rows",
			Help:    "Number of rows per aggregation pass",
			Buckets: []float64{10, 50, 100, 500, 1000, 5000, 10000, 50000},
		},
		[]string{"operation"},
	)

	// Sync Metrics
	SyncDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sync_duration_seconds",
			Help:    "Duration of Instagram insights sync runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	SyncPostsProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sync_posts_processed_total",
			Help: "Total number of posts written to the insights sheet",
		},
	)

	SyncErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_errors_total",
			Help: "Total number of sync errors",
		},
		[]string{"error_type"}, // "instagram", "sheets", "cancelled", "other"
	)

	SyncDegradedMetrics = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_degraded_metrics_total",
			Help: "Insight metrics written as empty cells because the token lacks permission",
		},
		[]string{"metric"},
	)

	SyncLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sync_last_success_timestamp",
			Help: "Unix timestamp of last successful sync",
		},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of response cache hits",
		},
		[]string{"namespace"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of response cache misses",
		},
		[]string{"namespace"},
	)

	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_invalidations_total",
			Help: "Total number of cache entries removed by invalidation",
		},
		[]string{"namespace"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Auth Metrics
	AuthLogins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Total number of login attempts",
		},
		[]string{"result"}, // "success", "failure"
	)

	AuthzDenied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_denied_total",
			Help: "Total number of requests rejected by the authorization policy",
		},
		[]string{"role"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordSourceFetch records one upstream fetch. errKind is empty on success.
func RecordSourceFetch(backend, source string, duration time.Duration, rows int, errKind string) {
	SourceFetchDuration.WithLabelValues(backend, source).Observe(duration.Seconds())
	if errKind != "" {
		SourceFetchErrors.WithLabelValues(backend, source, errKind).Inc()
		return
	}
	if rows > 0 {
		SourceRowsFetched.WithLabelValues(source).Add(float64(rows))
	}
}

// RecordAggregation records the cost of one aggregation pass.
func RecordAggregation(operation string, rows int, duration time.Duration) {
	AggregationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	AggregationRows.WithLabelValues(operation).Observe(float64(rows))
}

// RecordSyncRun records a sync run. errorType is empty on success.
func RecordSyncRun(duration time.Duration, posts int, errorType string) {
	SyncDuration.Observe(duration.Seconds())
	SyncPostsProcessed.Add(float64(posts))
	if errorType != "" {
		SyncErrors.WithLabelValues(errorType).Inc()
		return
	}
	SyncLastSuccess.Set(float64(time.Now().Unix()))
}

// RecordDegradedMetric counts an insight metric written as an empty cell.
func RecordDegradedMetric(metric string) {
	SyncDegradedMetrics.WithLabelValues(metric).Inc()
}

// RecordCacheLookup records a cache hit or miss for namespace.
func RecordCacheLookup(namespace string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(namespace).Inc()
	} else {
		CacheMisses.WithLabelValues(namespace).Inc()
	}
}

// RecordCacheInvalidation records entries removed under namespace.
func RecordCacheInvalidation(namespace string, removed int) {
	CacheInvalidations.WithLabelValues(namespace).Add(float64(removed))
}

// RecordLogin records a login attempt.
func RecordLogin(success bool) {
	if success {
		AuthLogins.WithLabelValues("success").Inc()
	} else {
		AuthLogins.WithLabelValues("failure").Inc()
	}
}

// RecordAuthzDenied records a request rejected for role.
func RecordAuthzDenied(role string) {
	AuthzDenied.WithLabelValues(role).Inc()
}
