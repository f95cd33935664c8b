// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

/*
Package middleware provides infrastructure HTTP middleware for the chi router.

Key Components:

  - RequestID: accepts or generates X-Request-ID and seeds the logging context
  - RequestLogger: one structured log line per request, warning on slow ones
  - PrometheusMetrics: request count, latency, and in-flight gauge keyed by
    the chi route pattern

Authentication and authorization middleware live in internal/auth and
internal/authz. The typical stack, outermost first:

	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(time.Second))
	r.Use(middleware.PrometheusMetrics)
	r.Use(chimw.Recoverer)
*/
package middleware
