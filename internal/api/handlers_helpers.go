// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/doorly/internal/audit"
	"github.com/tomtom215/doorly/internal/auth"
	"github.com/tomtom215/doorly/internal/cache"
	"github.com/tomtom215/doorly/internal/logging"
	"github.com/tomtom215/doorly/internal/metrics"
	"github.com/tomtom215/doorly/internal/models"
	syncpkg "github.com/tomtom215/doorly/internal/sync"
	"github.com/tomtom215/doorly/internal/validation"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 16 << 10

// sanitizeLogValue replaces control characters so user input cannot forge
// log lines.
func sanitizeLogValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&b, "\\x%02x", r)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// respondJSON sends a JSON response with an ETag.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "private, no-cache")
	w.Header().Set("Vary", "Accept-Encoding")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("ETag", generateETag(data))
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag hashes data with FNV-1a.
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return `"` + strconv.FormatUint(uint64(hash), 16) + `"`
}

func respondSuccess(w http.ResponseWriter, data interface{}, queryTime time.Duration, cached bool) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: queryTime.Milliseconds(),
			Cached:      cached,
		},
	})
}

// respondError sends an error response. err is logged, never rendered.
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	respondErrorDetails(w, status, code, message, nil, err)
}

func respondErrorDetails(w http.ResponseWriter, status int, code, message string, details map[string]interface{}, err error) {
	if err != nil {
		logging.Error().Str("code", sanitizeLogValue(code)).Str("error", sanitizeLogValue(err.Error())).Msg("API Error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// respondAuthError matches auth.ErrorResponder so authentication and
// authorization failures use the envelope.
func respondAuthError(w http.ResponseWriter, _ *http.Request, status int, code, message string) {
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="doorly"`)
	}
	respondError(w, status, code, message, nil)
}

// respondAuthzError records role policy denials in the audit trail and
// writes the envelope.
func (h *Handler) respondAuthzError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	if status == http.StatusForbidden {
		if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
			h.audit.LogAuthzDenied(r, actorFromClaims(claims))
		}
	}
	respondAuthError(w, r, status, code, message)
}

func actorFromClaims(claims *auth.Claims) audit.Actor {
	return audit.Actor{Username: claims.Username, Role: claims.Role}
}

// sourceErrorStatus maps upstream failure kinds to HTTP status and code.
var sourceErrorStatus = map[syncpkg.ErrorKind]struct {
	status int
	code   string
}{
	syncpkg.KindCredentialsMissing: {http.StatusServiceUnavailable, "SOURCE_NOT_CONFIGURED"},
	syncpkg.KindPermissionDenied:   {http.StatusForbidden, "SOURCE_PERMISSION_DENIED"},
	syncpkg.KindNotFound:           {http.StatusNotFound, "SOURCE_NOT_FOUND"},
	syncpkg.KindTimeout:            {http.StatusGatewayTimeout, "SOURCE_TIMEOUT"},
	syncpkg.KindUpstream:           {http.StatusBadGateway, "SOURCE_UNAVAILABLE"},
}

// respondSourceError renders an upstream failure. SourceError messages are
// written for dashboard users and are passed through unchanged.
func respondSourceError(w http.ResponseWriter, r *http.Request, err error) {
	if serr, ok := syncpkg.AsSourceError(err); ok {
		mapped, known := sourceErrorStatus[serr.Kind]
		if !known {
			mapped = sourceErrorStatus[syncpkg.KindUpstream]
		}
		logging.Ctx(r.Context()).Warn().
			Err(err).
			Str("source", serr.Source).
			Str("kind", string(serr.Kind)).
			Msg("Data source request failed")
		respondErrorDetails(w, mapped.status, mapped.code, serr.Message, map[string]interface{}{
			"source": serr.Source,
			"kind":   string(serr.Kind),
		}, nil)
		return
	}

	if errors.Is(err, context.DeadlineExceeded) {
		respondError(w, http.StatusGatewayTimeout, "SOURCE_TIMEOUT", "The data source did not respond in time", err)
		return
	}
	if errors.Is(err, context.Canceled) {
		// The client went away; nothing useful can be written.
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Request cancelled")
		return
	}
	respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", err)
}

// validateRequest validates a struct with go-playground/validator and
// converts failures to the envelope's error shape.
func validateRequest(v interface{}) *models.APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}

	apiErr := validationErr.ToAPIError()
	return &models.APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}

func respondValidationError(w http.ResponseWriter, apiErr *models.APIError) {
	respondErrorDetails(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
}

// decodeJSONBody decodes a bounded JSON body into dst.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// getIntParam extracts an integer query parameter. A missing value yields
// defaultValue; a malformed one yields -1 so validation rejects it.
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return -1
	}
	return n
}

// getBoolParam accepts true/false/1/0 in any case; anything else is false.
func getBoolParam(r *http.Request, key string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(r.URL.Query().Get(key)))
	return err == nil && b
}

func getStringParam(r *http.Request, key, defaultValue string) string {
	if value := strings.TrimSpace(r.URL.Query().Get(key)); value != "" {
		return value
	}
	return defaultValue
}

// computeFunc produces the data of a cacheable response.
type computeFunc func(ctx context.Context) (interface{}, error)

// serveCached answers from the response cache when possible. Otherwise it
// runs compute, caches a successful result under namespace, and responds.
// Errors are rendered with respondSourceError and never cached.
func (h *Handler) serveCached(w http.ResponseWriter, r *http.Request, namespace string, params interface{}, compute computeFunc) {
	key := cache.GenerateKey(namespace, params)
	if data, ok := h.cache.Get(key); ok {
		metrics.RecordCacheLookup(namespace, true)
		respondSuccess(w, data, 0, true)
		return
	}
	metrics.RecordCacheLookup(namespace, false)

	start := time.Now()
	data, err := compute(r.Context())
	if err != nil {
		respondSourceError(w, r, err)
		return
	}

	h.cache.Set(key, data)
	respondSuccess(w, data, time.Since(start), false)
}

// timed runs an aggregation and records its duration and input size.
func timed[T any](operation string, rows int, fn func() T) T {
	start := time.Now()
	out := fn()
	metrics.RecordAggregation(operation, rows, time.Since(start))
	return out
}
