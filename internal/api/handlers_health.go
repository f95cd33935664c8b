// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/doorly/internal/models"
	syncpkg "github.com/tomtom215/doorly/internal/sync"
)

// readinessTimeout bounds each dependency ping.
const readinessTimeout = 5 * time.Second

// Health handles health check requests
//
// @Summary Get service health
// @Description Returns configuration-level health: configured sources, sync state, circuit breaker states, and cache statistics. Does not call upstream APIs.
// @Tags Health
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.HealthStatus} "Health status"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	stats := h.cache.GetStats()

	health := models.HealthStatus{
		Status:           "healthy",
		Version:          Version,
		Uptime:           time.Since(h.startTime).Seconds(),
		AuthMode:         h.config.Security.AuthMode,
		Sources:          h.config.Sheets.SourceNames(),
		InstagramEnabled: h.config.Instagram.Enabled,
		SyncEnabled:      h.config.Sync.Enabled,
		Cache: models.CacheStatus{
			Entries: stats.TotalKeys,
			Hits:    stats.Hits,
			Misses:  stats.Misses,
			HitRate: h.cache.HitRate(),
		},
	}

	breakers := make(map[string]string)
	if sr, ok := h.rows.(stateReporter); ok {
		breakers["sheets"] = sr.State()
	}
	if sr, ok := h.insights.(stateReporter); ok {
		breakers["instagram"] = sr.State()
	}
	for _, state := range breakers {
		if state != "closed" {
			health.Status = "degraded"
		}
	}
	if len(breakers) > 0 {
		health.CircuitBreakers = breakers
	}

	if h.syncer != nil {
		result, err := h.syncer.LastResult()
		health.LastSync = syncStatus(result, err)
		if err != nil {
			health.Status = "degraded"
		}
	}

	respondSuccess(w, health, 0, false)
}

// HealthLive handles liveness probe requests
//
// @Summary Liveness probe
// @Description Returns 200 while the process is serving requests.
// @Tags Health
// @Produce json
// @Success 200 {object} models.APIResponse "Service is alive"
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondSuccess(w, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}, 0, false)
}

// HealthReady handles readiness probe requests
//
// @Summary Readiness probe
// @Description Pings Google Sheets and, when enabled, the Instagram Graph API. Returns 503 when any dependency fails.
// @Tags Health
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.ReadinessStatus} "Service is ready"
// @Failure 503 {object} models.APIResponse{data=models.ReadinessStatus} "A dependency is unavailable"
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	status := models.ReadinessStatus{Ready: true, Dependencies: make(map[string]string)}

	check := func(name string, ping func(context.Context) error) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()
		if err := ping(ctx); err != nil {
			status.Ready = false
			if serr, ok := syncpkg.AsSourceError(err); ok {
				status.Dependencies[name] = serr.Message
			} else {
				status.Dependencies[name] = err.Error()
			}
			return
		}
		status.Dependencies[name] = "ok"
	}

	check("sheets", h.rows.Ping)
	if h.insights != nil && h.config.Instagram.Enabled {
		check("instagram", h.insights.Ping)
	}

	code := http.StatusOK
	if !status.Ready {
		code = http.StatusServiceUnavailable
	}
	respondJSON(w, code, &models.APIResponse{
		Status: "success",
		Data:   status,
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
	})
}

// syncStatus converts the syncer's last outcome for responses. It returns
// nil before the first run.
func syncStatus(result *syncpkg.SyncResult, err error) *models.SyncStatus {
	if result == nil && err == nil {
		return nil
	}
	s := &models.SyncStatus{}
	if result != nil {
		s.RunID = result.RunID
		s.StartedAt = result.StartedAt
		s.DurationMS = result.Duration.Milliseconds()
		s.Posts = result.Posts
		s.DegradedMetrics = result.DegradedMetrics
		s.FailedPosts = result.FailedPosts
		s.Invalidated = result.Invalidated
	}
	if err != nil {
		if serr, ok := syncpkg.AsSourceError(err); ok {
			s.Error = serr.Message
		} else {
			s.Error = err.Error()
		}
	}
	return s
}
