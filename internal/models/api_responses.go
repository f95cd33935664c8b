// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

package models

import (
	"time"

	"github.com/tomtom215/doorly/internal/analytics"
	"github.com/tomtom215/doorly/internal/audit"
)

// APIResponse is the envelope of every JSON endpoint.
//
// Status is "success" or "error". Data is set on success and Error on
// failure.
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"totalRequests": 120, ...},
//	  "metadata": {
//	    "timestamp": "2025-11-28T12:00:00Z",
//	    "query_time_ms": 45,
//	    "cached": false
//	  }
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "data": null,
//	  "metadata": {"timestamp": "2025-11-28T12:00:00Z", "query_time_ms": 0, "cached": false},
//	  "error": {
//	    "code": "SOURCE_PERMISSION_DENIED",
//	    "message": "The service account cannot read this spreadsheet. Share it with the service account email.",
//	    "details": {"source": "requests", "kind": "permission_denied"}
//	  }
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata describes how a response was produced. QueryTimeMS is 0 for
// responses served from cache.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms"`
	Cached      bool      `json:"cached"`
}

// APIError is a machine-readable code with a message meant for users.
//
// Common error codes:
//   - VALIDATION_ERROR: invalid query parameters or body
//   - UNAUTHORIZED, FORBIDDEN, INVALID_CREDENTIALS
//   - SOURCE_NOT_CONFIGURED, SOURCE_PERMISSION_DENIED, SOURCE_NOT_FOUND,
//     SOURCE_TIMEOUT, SOURCE_UNAVAILABLE: upstream data source failures
//   - SYNC_IN_PROGRESS, SYNC_DISABLED
//   - RATE_LIMIT_EXCEEDED
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is returned by GET /api/v1/health.
type HealthStatus struct {
	Status           string            `json:"status"`
	Version          string            `json:"version"`
	Uptime           float64           `json:"uptime"`
	AuthMode         string            `json:"auth_mode"`
	Sources          []string          `json:"sources"`
	InstagramEnabled bool              `json:"instagram_enabled"`
	SyncEnabled      bool              `json:"sync_enabled"`
	LastSync         *SyncStatus       `json:"last_sync,omitempty"`
	CircuitBreakers  map[string]string `json:"circuit_breakers,omitempty"`
	Cache            CacheStatus       `json:"cache"`
}

// CacheStatus summarizes response cache effectiveness.
type CacheStatus struct {
	Entries int64   `json:"entries"`
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

// ReadinessStatus is returned by GET /api/v1/health/ready. Each dependency
// maps to "ok" or the reason it failed.
type ReadinessStatus struct {
	Ready        bool              `json:"ready"`
	Dependencies map[string]string `json:"dependencies"`
}

// SyncStatus describes the most recent insights sync.
type SyncStatus struct {
	RunID           string    `json:"run_id,omitempty"`
	StartedAt       time.Time `json:"started_at"`
	DurationMS      int64     `json:"duration_ms"`
	Posts           int       `json:"posts"`
	DegradedMetrics []string  `json:"degraded_metrics,omitempty"`
	FailedPosts     []string  `json:"failed_posts,omitempty"`
	Invalidated     int       `json:"invalidated_cache_entries"`
	Error           string    `json:"error,omitempty"`
}

// SeriesResponse is a time series for one date field.
type SeriesResponse struct {
	Source      string            `json:"source"`
	Field       string            `json:"field"`
	Metric      string            `json:"metric,omitempty"`
	Granularity string            `json:"granularity"`
	Year        int               `json:"year,omitempty"`
	Points      []analytics.Point `json:"points"`
}

// DistributionResponse is a categorical breakdown of one field.
type DistributionResponse struct {
	Source string            `json:"source"`
	Field  string            `json:"field"`
	Column string            `json:"column,omitempty"`
	Total  int               `json:"total"`
	Points []analytics.Point `json:"points"`
}

// CustomersResponse is a customer rollup.
type CustomersResponse struct {
	Source    string                        `json:"source"`
	Group     string                        `json:"group"`
	Total     int                           `json:"total"`
	Customers []analytics.CustomerAggregate `json:"customers"`
}

// SessionUser identifies the caller.
type SessionUser struct {
	Username string   `json:"username"`
	Role     string   `json:"role"`
	Roles    []string `json:"roles,omitempty"`
}

// LoginRequest is the body of POST /api/v1/auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=128"`
	Password string `json:"password" validate:"required,max=256"`
}

// LoginResponse is returned by a successful login. The token is also set
// as an HttpOnly cookie.
type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      SessionUser `json:"user"`
}

// MeResponse describes the current session.
type MeResponse struct {
	User      SessionUser `json:"user"`
	AuthMode  string      `json:"auth_mode"`
	ExpiresAt *time.Time  `json:"expires_at,omitempty"`
}

// AuditLogResponse lists audit events, newest first.
type AuditLogResponse struct {
	Events  []audit.Event `json:"events"`
	Count   int           `json:"count"`
	Dropped int64         `json:"dropped"` // events lost to a full buffer since startup
}

// CacheClearResponse reports how many cached responses were dropped.
type CacheClearResponse struct {
	Prefix  string `json:"prefix,omitempty"`
	Removed int    `json:"removed"`
}
