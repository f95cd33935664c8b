// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/doorly/internal/audit"
	"github.com/tomtom215/doorly/internal/auth"
	"github.com/tomtom215/doorly/internal/logging"
	"github.com/tomtom215/doorly/internal/metrics"
	"github.com/tomtom215/doorly/internal/models"
	syncpkg "github.com/tomtom215/doorly/internal/sync"
)

// AdminSyncInstagram runs the insights sync immediately
//
// @Summary Sync Instagram insights now
// @Description Fetches recent posts and their insights from the Graph API, rewrites the Instagram sheet, and invalidates cached Instagram responses.
// @Tags Admin
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.SyncStatus} "Sync finished"
// @Failure 409 {object} models.APIResponse "A sync is already running"
// @Failure 503 {object} models.APIResponse "Sync is disabled"
// @Security BearerAuth
// @Router /admin/sync/instagram [post]
func (h *Handler) AdminSyncInstagram(w http.ResponseWriter, r *http.Request) {
	if h.syncer == nil {
		respondError(w, http.StatusServiceUnavailable, "SYNC_DISABLED", "Instagram sync is not enabled on this server", nil)
		return
	}

	start := time.Now()
	actor := requestActor(r)
	result, err := h.syncer.SyncNow(r.Context())
	if errors.Is(err, syncpkg.ErrSyncInProgress) {
		h.audit.LogAdminAction(r, actor, audit.EventTypeSyncTrigger, audit.OutcomeFailure,
			"Manual Instagram sync refused", map[string]any{"reason": "sync_in_progress"})
		respondError(w, http.StatusConflict, "SYNC_IN_PROGRESS", "An Instagram sync is already running", nil)
		return
	}
	if err != nil {
		h.audit.LogAdminAction(r, actor, audit.EventTypeSyncTrigger, audit.OutcomeFailure,
			"Manual Instagram sync failed", map[string]any{"error": err.Error()})
		respondSourceError(w, r, err)
		return
	}

	h.audit.LogAdminAction(r, actor, audit.EventTypeSyncTrigger, audit.OutcomeSuccess,
		"Manual Instagram sync completed", map[string]any{"run_id": result.RunID, "posts": result.Posts})
	logging.Ctx(r.Context()).Info().
		Str("username", actor.Username).
		Str("run_id", result.RunID).
		Msg("Manual Instagram sync completed")
	respondSuccess(w, syncStatus(result, nil), time.Since(start), false)
}

// AdminSyncStatus returns the last insights sync outcome
//
// @Summary Last Instagram sync
// @Tags Admin
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.SyncStatus} "Last sync, or null before the first run"
// @Failure 503 {object} models.APIResponse "Sync is disabled"
// @Security BearerAuth
// @Router /admin/sync/instagram [get]
func (h *Handler) AdminSyncStatus(w http.ResponseWriter, _ *http.Request) {
	if h.syncer == nil {
		respondError(w, http.StatusServiceUnavailable, "SYNC_DISABLED", "Instagram sync is not enabled on this server", nil)
		return
	}
	respondSuccess(w, syncStatus(h.syncer.LastResult()), 0, false)
}

// AdminClearCache invalidates cached responses
//
// @Summary Clear response cache
// @Description Drops cached responses whose key starts with prefix, or every cached response when prefix is empty.
// @Tags Admin
// @Produce json
// @Param prefix query string false "Namespace prefix, e.g. dashboard or social.instagram"
// @Success 200 {object} models.APIResponse{data=models.CacheClearResponse} "Cache cleared"
// @Security BearerAuth
// @Router /admin/cache [delete]
func (h *Handler) AdminClearCache(w http.ResponseWriter, r *http.Request) {
	req := CacheClearRequest{Prefix: getStringParam(r, "prefix", "")}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	var removed int
	if req.Prefix == "" {
		removed = int(h.cache.GetStats().TotalKeys)
		h.ClearCache()
		metrics.RecordCacheInvalidation("all", removed)
	} else {
		removed = h.cache.DeletePrefix(req.Prefix)
		metrics.RecordCacheInvalidation(req.Prefix, removed)
		logging.Ctx(r.Context()).Info().
			Str("prefix", sanitizeLogValue(req.Prefix)).
			Int("removed", removed).
			Msg("Response cache entries invalidated")
	}

	h.audit.LogAdminAction(r, requestActor(r), audit.EventTypeCacheCleared, audit.OutcomeSuccess,
		"Response cache invalidated", map[string]any{"prefix": req.Prefix, "removed": removed})
	respondSuccess(w, models.CacheClearResponse{Prefix: req.Prefix, Removed: removed}, 0, false)
}

// AdminAuditLog lists security audit events
//
// @Summary Security audit trail
// @Description Lists logins, logouts, role policy denials, and admin actions, newest first.
// @Tags Admin
// @Produce json
// @Param type query string false "Event type" Enums(auth.success, auth.failure, auth.logout, authz.denied, admin.sync, admin.cache_clear)
// @Param outcome query string false "Outcome" Enums(success, failure)
// @Param username query string false "Actor username"
// @Param limit query int false "Maximum events (default 100)"
// @Success 200 {object} models.APIResponse{data=models.AuditLogResponse} "Audit events"
// @Failure 400 {object} models.APIResponse "Invalid parameters"
// @Failure 503 {object} models.APIResponse "Audit trail is disabled"
// @Security BearerAuth
// @Router /admin/audit [get]
func (h *Handler) AdminAuditLog(w http.ResponseWriter, r *http.Request) {
	if h.audit == nil {
		respondError(w, http.StatusServiceUnavailable, "AUDIT_DISABLED", "The audit trail is not enabled on this server", nil)
		return
	}

	req := AuditQueryRequest{
		Type:     getStringParam(r, "type", ""),
		Outcome:  getStringParam(r, "outcome", ""),
		Username: getStringParam(r, "username", ""),
		Limit:    getIntParam(r, "limit", audit.DefaultQueryLimit),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	filter := audit.QueryFilter{Username: req.Username, Limit: req.Limit}
	if req.Type != "" {
		filter.Types = []audit.EventType{audit.EventType(req.Type)}
	}
	if req.Outcome != "" {
		filter.Outcomes = []audit.Outcome{audit.Outcome(req.Outcome)}
	}

	start := time.Now()
	events, err := h.audit.Query(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to read the audit trail", err)
		return
	}
	respondSuccess(w, models.AuditLogResponse{
		Events:  events,
		Count:   len(events),
		Dropped: h.audit.Dropped(),
	}, time.Since(start), false)
}

// requestActor names the authenticated caller.
func requestActor(r *http.Request) audit.Actor {
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		return actorFromClaims(claims)
	}
	return audit.Actor{}
}
