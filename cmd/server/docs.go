// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

// Package main provides the Doorly HTTP server
//
// Doorly API aggregates real estate request sheets and social media
// insights from Google Sheets into dashboard-ready KPIs and series.
//
// @title Doorly API
// @version 1.0
// @description Analytics backend for the Doorly real estate and social media dashboard
// @description
// @description ## Features
// @description
// @description - **Request KPIs**: Status, verification, completion, offers, views, price and area statistics
// @description - **Time Series**: Daily, Saturday-starting weekly, and monthly buckets, zero-filled
// @description - **Customer Rollups**: Per-customer tallies with repeated-category filtering
// @description - **Social Insights**: Instagram Graph API sync and LinkedIn export summaries
// @description - **Header Resolution**: English and Arabic sheet headers map to the same fields
// @description
// @description ## Authentication
// @description
// @description Endpoints outside /health require a JWT, sent as a Bearer header or the HTTP-only session cookie.
// @description Use `/api/v1/auth/login` to obtain one. Roles inherit downward: admin > analyst > viewer.
// @description
// @description ## Error Responses
// @description
// @description All error responses follow this format:
// @description ```json
// @description {
// @description   "status": "error",
// @description   "data": null,
// @description   "error": {
// @description     "code": "SOURCE_PERMISSION_DENIED",
// @description     "message": "Human-readable error message",
// @description     "details": {"source": "requests", "kind": "permission_denied"}
// @description   },
// @description   "metadata": {
// @description     "timestamp": "2026-01-18T12:34:56Z"
// @description   }
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/doorly/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT as "Bearer <token>". The doorly_session cookie is accepted too.
//
// @tag.name Health
// @tag.description Liveness, readiness, and configuration health
//
// @tag.name Auth
// @tag.description Login, logout, and the current session
//
// @tag.name Dashboard
// @tag.description Real estate request KPIs, series, distributions, and customers
//
// @tag.name Social
// @tag.description Instagram and LinkedIn insight summaries and series
//
// @tag.name Admin
// @tag.description Manual insights sync and response cache invalidation
package main
