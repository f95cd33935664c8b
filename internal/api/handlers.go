// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

package api

import (
	"context"
	"time"

	"github.com/tomtom215/doorly/internal/audit"
	"github.com/tomtom215/doorly/internal/auth"
	"github.com/tomtom215/doorly/internal/authz"
	"github.com/tomtom215/doorly/internal/cache"
	"github.com/tomtom215/doorly/internal/config"
	"github.com/tomtom215/doorly/internal/logging"
	syncpkg "github.com/tomtom215/doorly/internal/sync"
)

// Version is reported by the health endpoint. It is set at build time.
var Version = "dev"

// InsightsSyncer is the part of the insights sync job the admin endpoints use.
type InsightsSyncer interface {
	SyncNow(ctx context.Context) (*syncpkg.SyncResult, error)
	LastResult() (*syncpkg.SyncResult, error)
}

// stateReporter is implemented by the circuit breaker wrappers.
type stateReporter interface {
	State() string
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_health.go: health and readiness
//   - handlers_auth.go: login, logout, current session
//   - handlers_dashboard.go: real estate KPIs, series, distributions, customers
//   - handlers_social.go: Instagram and LinkedIn summaries and series
//   - handlers_admin.go: manual sync, cache invalidation, audit trail
type Handler struct {
	config    *config.Config
	rows      syncpkg.RowSource
	insights  syncpkg.InsightsSource
	syncer    InsightsSyncer
	cache     cache.Cacher
	auth      *auth.Service
	enforcer  *authz.Enforcer
	audit     *audit.Logger
	location  *time.Location
	startTime time.Time
	now       func() time.Time
}

// NewHandler creates the API handler.
//
// rows serves every sheet-backed endpoint. c may be nil, in which case
// nothing is cached. The Instagram source, the syncer, and the enforcer are
// optional and are attached with their setters.
//
// Example:
//
//	handler := api.NewHandler(cfg, sync.NewCircuitBreakerSource(sheets), authSvc, responseCache)
//	handler.SetSyncer(syncer)
//	router := api.NewRouter(handler, authSvc, enforcer)
//	http.ListenAndServe(cfg.Server.Addr(), router.SetupChi())
func NewHandler(cfg *config.Config, rows syncpkg.RowSource, authSvc *auth.Service, c cache.Cacher) *Handler {
	if c == nil {
		c = cache.Noop{}
	}

	loc, err := cfg.Analytics.Location()
	if err != nil {
		logging.Warn().Err(err).Msg("Falling back to UTC for analytics buckets")
		loc = time.UTC
	}

	return &Handler{
		config:    cfg,
		rows:      rows,
		cache:     c,
		auth:      authSvc,
		location:  loc,
		startTime: time.Now(),
		now:       time.Now,
	}
}

// SetInsightsSource attaches the Instagram Graph API source used by the
// readiness probe.
func (h *Handler) SetInsightsSource(src syncpkg.InsightsSource) {
	h.insights = src
}

// SetSyncer attaches the insights sync job used by the admin endpoints.
func (h *Handler) SetSyncer(s InsightsSyncer) {
	h.syncer = s
}

// SetEnforcer attaches the authorization enforcer so /auth/me can list
// inherited roles.
func (h *Handler) SetEnforcer(e *authz.Enforcer) {
	h.enforcer = e
}

// SetAuditLogger attaches the security audit trail. Without one, events are
// discarded and GET /admin/audit answers 503.
func (h *Handler) SetAuditLogger(l *audit.Logger) {
	h.audit = l
}

// ClearCache drops every cached response.
func (h *Handler) ClearCache() {
	h.cache.Clear()
	logging.Info().Msg("Response cache cleared")
}
