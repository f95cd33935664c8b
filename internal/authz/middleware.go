// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

package authz

import (
	"net/http"

	"github.com/tomtom215/doorly/internal/auth"
	"github.com/tomtom215/doorly/internal/logging"
	"github.com/tomtom215/doorly/internal/metrics"
)

// Middleware enforces the role policy on authenticated requests.
type Middleware struct {
	enforcer *Enforcer
	respond  auth.ErrorResponder
}

// NewMiddleware creates authorization middleware. respond writes denials.
func NewMiddleware(enforcer *Enforcer, respond auth.ErrorResponder) *Middleware {
	if respond == nil {
		respond = func(w http.ResponseWriter, _ *http.Request, status int, _, message string) {
			http.Error(w, message, status)
		}
	}
	return &Middleware{enforcer: enforcer, respond: respond}
}

// Authorize checks the caller's role against the request path, with the
// action derived from the HTTP method. It must run after auth.Authenticate.
func (m *Middleware) Authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := auth.ClaimsFromContext(r.Context())
		if !ok {
			m.respond(w, r, http.StatusForbidden, "FORBIDDEN", "No authentication context")
			return
		}

		action := methodToAction(r.Method)
		allowed, err := m.enforcer.Enforce(claims.Role, r.URL.Path, action)
		if err != nil {
			logging.CtxErr(r.Context(), err).Msg("Authorization error")
			m.respond(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
			return
		}
		if !allowed {
			metrics.RecordAuthzDenied(claims.Role)
			logging.Ctx(r.Context()).Info().
				Str("username", claims.Username).
				Str("role", claims.Role).
				Str("path", r.URL.Path).
				Str("action", action).
				Msg("Access denied")
			m.respond(w, r, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// methodToAction maps HTTP methods to policy actions.
func methodToAction(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return ActionRead
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return ActionWrite
	case http.MethodDelete:
		return ActionDelete
	default:
		return ActionRead
	}
}
