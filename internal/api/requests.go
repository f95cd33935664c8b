// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

package api

import "net/http"

// defaultCustomers is the customer list length when top is absent.
const defaultCustomers = 20

// KPIRequest selects the sheet for GET /dashboard/kpis.
type KPIRequest struct {
	Source string `query:"source" validate:"required,identifier,max=64"`
}

// SeriesRequest holds GET /dashboard/series parameters.
type SeriesRequest struct {
	Source      string `query:"source" validate:"required,identifier,max=64"`
	Field       string `query:"field" validate:"required,identifier,max=64"`
	Granularity string `query:"granularity" validate:"required,oneof=daily weekly monthly"`
	Year        int    `query:"year" validate:"omitempty,min=2000,max=2100"`
}

// DistributionRequest holds GET /dashboard/distribution parameters.
type DistributionRequest struct {
	Source string `query:"source" validate:"required,identifier,max=64"`
	Field  string `query:"field" validate:"required,oneof=property_type city status"`
	Top    int    `query:"top" validate:"min=0,max=100"`
}

// CustomersRequest holds GET /dashboard/customers parameters.
type CustomersRequest struct {
	Source   string `query:"source" validate:"required,identifier,max=64"`
	Group    string `query:"group" validate:"required,oneof=city property_type"`
	Repeated bool   `query:"repeated"`
	City     string `query:"city" validate:"max=128"`
	Sort     string `query:"sort" validate:"required,oneof=count last_seen name"`
	Top      int    `query:"top" validate:"min=0,max=500"`
}

// InsightsSummaryRequest holds social summary parameters.
type InsightsSummaryRequest struct {
	Top int `query:"top" validate:"min=1,max=50"`
}

// InsightsSeriesRequest holds GET /social/instagram/series parameters.
// An empty Metric counts posts per bucket.
type InsightsSeriesRequest struct {
	Granularity string `query:"granularity" validate:"required,oneof=daily weekly monthly"`
	Metric      string `query:"metric" validate:"omitempty,oneof=reach impressions likes comments shares saves clicks followers"`
	Year        int    `query:"year" validate:"omitempty,min=2000,max=2100"`
}

// AuditQueryRequest holds GET /admin/audit parameters.
type AuditQueryRequest struct {
	Type     string `query:"type" validate:"omitempty,oneof=auth.success auth.failure auth.logout authz.denied admin.sync admin.cache_clear"`
	Outcome  string `query:"outcome" validate:"omitempty,oneof=success failure"`
	Username string `query:"username" validate:"max=128"`
	Limit    int    `query:"limit" validate:"min=1,max=1000"`
}

// CacheClearRequest holds DELETE /admin/cache parameters. An empty Prefix
// clears everything.
type CacheClearRequest struct {
	Prefix string `query:"prefix" validate:"omitempty,max=128"`
}

func (h *Handler) topN(r *http.Request) int {
	def := h.config.Analytics.TopN
	if def <= 0 {
		def = 10
	}
	return getIntParam(r, "top", def)
}
