// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/doorly/internal/auth"
	"github.com/tomtom215/doorly/internal/authz"
	"github.com/tomtom215/doorly/internal/middleware"
)

// slowRequestThreshold marks requests logged at warn level.
const slowRequestThreshold = 2 * time.Second

// Router wires handlers and middleware into a chi router.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	authn         *auth.Middleware
	authz         *authz.Middleware
}

// NewRouter creates a router. Authentication and authorization failures
// are rendered with the API envelope.
func NewRouter(handler *Handler, authSvc *auth.Service, enforcer *authz.Enforcer) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(NewChiMiddlewareConfig(&handler.config.Security)),
		authn:         auth.NewMiddleware(authSvc, respondAuthError),
		authz:         authz.NewMiddleware(enforcer, handler.respondAuthzError),
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	h := router.handler
	r := chi.NewRouter()

	// Global middleware, outermost first.
	r.Use(middleware.RequestID)
	r.Use(router.chiMiddleware.RealIP())
	r.Use(middleware.RequestLogger(slowRequestThreshold))
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(middleware.PrometheusMetrics)
	r.Use(chimiddleware.Compress(5, "application/json"))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Health probes are public so orchestrators can reach them.
		r.Route("/health", func(r chi.Router) {
			r.Get("/", h.Health)
			r.Get("/live", h.HealthLive)
			r.Get("/ready", h.HealthReady)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())
			r.With(router.chiMiddleware.RateLimitLogin()).Post("/login", h.Login)
			r.Post("/logout", h.Logout)
			r.With(router.authn.Authenticate, router.authz.Authorize).Get("/me", h.Me)
		})

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())
			r.Use(router.authn.Authenticate)
			r.Use(router.authz.Authorize)

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/kpis", h.DashboardKPIs)
				r.Get("/series", h.DashboardSeries)
				r.Get("/distribution", h.DashboardDistribution)
				r.Get("/customers", h.DashboardCustomers)
			})

			r.Route("/social", func(r chi.Router) {
				r.Get("/instagram/summary", h.InstagramSummary)
				r.Get("/instagram/series", h.InstagramSeries)
				r.Get("/linkedin/summary", h.LinkedInSummary)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Get("/sync/instagram", h.AdminSyncStatus)
				r.Post("/sync/instagram", h.AdminSyncInstagram)
				r.Delete("/cache", h.AdminClearCache)
				r.Get("/audit", h.AdminAuditLog)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	return r
}
