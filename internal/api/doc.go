// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

/*
Package api provides the HTTP API of the Doorly dashboard.

Routes live under /api/v1 on a chi router:

  - /health, /health/live, /health/ready: public probes
  - /auth/login, /auth/logout, /auth/me: sessions
  - /dashboard/kpis, /series, /distribution, /customers: real estate requests
  - /social/instagram/summary, /instagram/series, /linkedin/summary
  - /admin/sync/instagram (GET, POST), /admin/cache (DELETE), /admin/audit (GET)

Prometheus metrics are served at /metrics and Swagger UI at /swagger/.

Every JSON response uses the models.APIResponse envelope. Data endpoints
read rows through a sync.RowSource, aggregate them with package analytics,
and cache the result under a namespaced key (for example
"dashboard.kpis:<hash>"), so a response never hits Google Sheets twice
within the cache TTL. Upstream failures arrive as *sync.SourceError and are
rendered with their message unchanged:

	credentials_missing  503 SOURCE_NOT_CONFIGURED
	permission_denied    403 SOURCE_PERMISSION_DENIED
	not_found            404 SOURCE_NOT_FOUND
	timeout              504 SOURCE_TIMEOUT
	upstream             502 SOURCE_UNAVAILABLE

Query parameters are bound into request structs and checked with
go-playground/validator before any upstream call.
*/
package api
