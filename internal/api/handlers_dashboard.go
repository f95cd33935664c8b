// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

package api

import (
	"context"
	"net/http"

	"github.com/tomtom215/doorly/internal/analytics"
	"github.com/tomtom215/doorly/internal/config"
	"github.com/tomtom215/doorly/internal/models"
)

// Cache namespaces of the real estate dashboard.
const (
	nsDashboardKPIs         = "dashboard.kpis"
	nsDashboardSeries       = "dashboard.series"
	nsDashboardDistribution = "dashboard.distribution"
	nsDashboardCustomers    = "dashboard.customers"
)

// anchor returns the time-bucketing reference for a request. year 0 uses
// the configured year, which in turn defaults to the current one.
func (h *Handler) anchor(year int) analytics.Anchor {
	if year == 0 {
		year = h.config.Analytics.Year
	}
	return analytics.Anchor{
		Now:      h.now(),
		Year:     year,
		Location: h.location,
		Days:     h.config.Analytics.DailyDays,
		Weeks:    h.config.Analytics.WeeklyWeeks,
	}
}

// DashboardKPIs handles KPI requests
//
// @Summary Request KPIs
// @Description Aggregates the requests sheet into status counts, verification and completion counts, offers, views, price and area statistics, and distinct customers and cities.
// @Tags Dashboard
// @Produce json
// @Param source query string false "Sheet source name" default(requests)
// @Success 200 {object} models.APIResponse{data=analytics.KPIBundle} "KPIs"
// @Failure 400 {object} models.APIResponse "Invalid parameters"
// @Failure 502 {object} models.APIResponse "Upstream error"
// @Security BearerAuth
// @Router /dashboard/kpis [get]
func (h *Handler) DashboardKPIs(w http.ResponseWriter, r *http.Request) {
	req := KPIRequest{Source: getStringParam(r, "source", config.SourceRequests)}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	h.serveCached(w, r, nsDashboardKPIs, req, func(ctx context.Context) (interface{}, error) {
		rows, err := h.rows.Rows(ctx, req.Source)
		if err != nil {
			return nil, err
		}
		return timed("kpis", len(rows), func() analytics.KPIBundle {
			return analytics.Aggregate(rows)
		}), nil
	})
}

// DashboardSeries handles time series requests
//
// @Summary Requests over time
// @Description Counts requests per day (window ending at the latest request date), per Saturday-starting week (ending now), or per month of a year. Buckets are zero-filled.
// @Tags Dashboard
// @Produce json
// @Param source query string false "Sheet source name" default(requests)
// @Param field query string false "Date field" default(created_at)
// @Param granularity query string true "daily, weekly, or monthly"
// @Param year query int false "Year for monthly series"
// @Success 200 {object} models.APIResponse{data=models.SeriesResponse} "Series"
// @Failure 400 {object} models.APIResponse "Invalid parameters"
// @Security BearerAuth
// @Router /dashboard/series [get]
func (h *Handler) DashboardSeries(w http.ResponseWriter, r *http.Request) {
	req := SeriesRequest{
		Source:      getStringParam(r, "source", config.SourceRequests),
		Field:       getStringParam(r, "field", analytics.RequestFields.CreatedAt.Name),
		Granularity: getStringParam(r, "granularity", string(analytics.Monthly)),
		Year:        getIntParam(r, "year", 0),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	field, ok := analytics.RequestFields.ByName(req.Field)
	if !ok || field.Kind != analytics.KindDate {
		respondErrorDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "field must name a date field",
			map[string]interface{}{"field": "field", "value": req.Field}, nil)
		return
	}
	g, err := analytics.ParseGranularity(req.Granularity)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	anchor := h.anchor(req.Year)
	// Weekly buckets move with the clock, so the week is part of the key.
	params := struct {
		SeriesRequest
		Week string
	}{req, anchor.Now.In(h.location).Format("2006-01-02")}

	h.serveCached(w, r, nsDashboardSeries, params, func(ctx context.Context) (interface{}, error) {
		rows, err := h.rows.Rows(ctx, req.Source)
		if err != nil {
			return nil, err
		}
		points := timed("series", len(rows), func() []analytics.Point {
			return analytics.Bucket(rows, field, g, anchor)
		})
		resp := models.SeriesResponse{
			Source:      req.Source,
			Field:       req.Field,
			Granularity: string(g),
			Points:      points,
		}
		if g == analytics.Monthly {
			resp.Year = anchorYear(anchor)
		}
		return resp, nil
	})
}

// DashboardDistribution handles categorical breakdown requests
//
// @Summary Requests by category
// @Description Counts requests per property type, city, or status value, largest first.
// @Tags Dashboard
// @Produce json
// @Param source query string false "Sheet source name" default(requests)
// @Param field query string true "property_type, city, or status"
// @Param top query int false "Maximum categories, 0 for all"
// @Success 200 {object} models.APIResponse{data=models.DistributionResponse} "Distribution"
// @Failure 400 {object} models.APIResponse "Invalid parameters"
// @Security BearerAuth
// @Router /dashboard/distribution [get]
func (h *Handler) DashboardDistribution(w http.ResponseWriter, r *http.Request) {
	req := DistributionRequest{
		Source: getStringParam(r, "source", config.SourceRequests),
		Field:  getStringParam(r, "field", ""),
		Top:    h.topN(r),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}
	field, _ := analytics.RequestFields.ByName(req.Field)

	h.serveCached(w, r, nsDashboardDistribution, req, func(ctx context.Context) (interface{}, error) {
		rows, err := h.rows.Rows(ctx, req.Source)
		if err != nil {
			return nil, err
		}
		all := timed("distribution", len(rows), func() []analytics.Point {
			return analytics.Distribution(rows, field, 0)
		})
		total := 0
		for _, p := range all {
			total += int(p.Value)
		}
		column, _ := analytics.ResolveField(rows, field)
		return models.DistributionResponse{
			Source: req.Source,
			Field:  req.Field,
			Column: column,
			Total:  total,
			Points: analytics.TopPoints(all, req.Top),
		}, nil
	})
}

// DashboardCustomers handles customer rollup requests
//
// @Summary Customers by request activity
// @Description Groups requests per customer with a tally of the chosen category, optionally keeping only customers who repeated a category or who requested in one city.
// @Tags Dashboard
// @Produce json
// @Param source query string false "Sheet source name" default(requests)
// @Param group query string false "city or property_type" default(property_type)
// @Param repeated query bool false "Only customers with a repeated category"
// @Param city query string false "Only requests in this city"
// @Param sort query string false "count, last_seen, or name" default(count)
// @Param top query int false "Maximum customers, 0 for all" default(20)
// @Success 200 {object} models.APIResponse{data=models.CustomersResponse} "Customers"
// @Failure 400 {object} models.APIResponse "Invalid parameters"
// @Security BearerAuth
// @Router /dashboard/customers [get]
func (h *Handler) DashboardCustomers(w http.ResponseWriter, r *http.Request) {
	req := CustomersRequest{
		Source:   getStringParam(r, "source", config.SourceRequests),
		Group:    getStringParam(r, "group", analytics.RequestFields.PropertyType.Name),
		Repeated: getBoolParam(r, "repeated"),
		City:     getStringParam(r, "city", ""),
		Sort:     getStringParam(r, "sort", string(analytics.SortByCount)),
		Top:      getIntParam(r, "top", defaultCustomers),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	f := analytics.RequestFields
	category, _ := f.ByName(req.Group)

	h.serveCached(w, r, nsDashboardCustomers, req, func(ctx context.Context) (interface{}, error) {
		rows, err := h.rows.Rows(ctx, req.Source)
		if err != nil {
			return nil, err
		}

		spec := analytics.RollupSpec{
			ID:       f.CustomerID,
			Name:     f.CustomerName,
			Category: category,
			Date:     f.CreatedAt,
			Sort:     analytics.RollupSort(req.Sort),
			Location: h.location,
		}
		if req.City != "" {
			spec.Filter = analytics.MatchField(rows, f.City, req.City)
		}

		aggs := timed("customers", len(rows), func() []analytics.CustomerAggregate {
			return analytics.Rollup(rows, spec)
		})
		if req.Repeated {
			aggs = analytics.RepeatedCategory(aggs)
		}
		return models.CustomersResponse{
			Source:    req.Source,
			Group:     req.Group,
			Total:     len(aggs),
			Customers: analytics.TopCustomers(aggs, req.Top),
		}, nil
	})
}

func anchorYear(a analytics.Anchor) int {
	if a.Year != 0 {
		return a.Year
	}
	return a.Now.In(a.Location).Year()
}
