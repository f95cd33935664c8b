// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

package auth

import (
	"context"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/doorly/internal/logging"
)

type contextKey string

const claimsContextKey contextKey = "auth_claims"

// ErrorResponder writes an error response. The API package passes its own so
// auth failures share the response envelope.
type ErrorResponder func(w http.ResponseWriter, r *http.Request, status int, code, message string)

// Middleware authenticates requests against a Service.
type Middleware struct {
	svc     *Service
	respond ErrorResponder
}

// NewMiddleware creates authentication middleware. A nil respond writes a
// minimal JSON error.
func NewMiddleware(svc *Service, respond ErrorResponder) *Middleware {
	if respond == nil {
		respond = defaultResponder
	}
	return &Middleware{svc: svc, respond: respond}
}

// Authenticate requires a valid session from the Authorization header or
// the session cookie and stores its claims in the request context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.svc.Enabled() {
			next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), anonymousClaims())))
			return
		}

		token := m.svc.TokenFromRequest(r)
		if token == "" {
			m.respond(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}

		claims, err := m.svc.Verify(token)
		if err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Msg("Rejected session token")
			m.respond(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Session is invalid or has expired")
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
	})
}

// RequireRole allows only the listed roles. It must run after Authenticate.
func (m *Middleware) RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				m.respond(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
				return
			}
			if !allowed[claims.Role] {
				m.respond(w, r, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ContextWithClaims stores claims in ctx.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ClaimsFromContext returns the claims stored by Authenticate.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*Claims)
	return claims, ok && claims != nil
}

func defaultResponder(w http.ResponseWriter, _ *http.Request, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"code": code, "message": message})
}
