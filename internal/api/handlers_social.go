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
	syncpkg "github.com/tomtom215/doorly/internal/sync"
)

// Cache namespaces of the social dashboards. Instagram entries share the
// prefix the sync job invalidates after each run.
const (
	nsInstagramSummary = syncpkg.InstagramCacheNamespace + ".summary"
	nsInstagramSeries  = syncpkg.InstagramCacheNamespace + ".series"
	nsLinkedInSummary  = "social.linkedin.summary"
)

// InstagramSummary handles Instagram insight summary requests
//
// @Summary Instagram insights summary
// @Description Sums and averages reach, impressions, likes, comments, shares, and saves from the Instagram insights sheet, with engagement rate and top posts. Metrics the account may not read report available=false.
// @Tags Social
// @Produce json
// @Param top query int false "Number of top posts" default(5)
// @Success 200 {object} models.APIResponse{data=analytics.InsightsSummary} "Summary"
// @Failure 403 {object} models.APIResponse "Sheet not shared with the service account"
// @Security BearerAuth
// @Router /social/instagram/summary [get]
func (h *Handler) InstagramSummary(w http.ResponseWriter, r *http.Request) {
	h.insightsSummary(w, r, config.SourceInstagram, nsInstagramSummary)
}

// LinkedInSummary handles LinkedIn export summary requests
//
// @Summary LinkedIn post summary
// @Description Summarizes the LinkedIn post export sheet with the same metrics as the Instagram summary. Columns LinkedIn does not export report available=false.
// @Tags Social
// @Produce json
// @Param top query int false "Number of top posts" default(5)
// @Success 200 {object} models.APIResponse{data=analytics.InsightsSummary} "Summary"
// @Security BearerAuth
// @Router /social/linkedin/summary [get]
func (h *Handler) LinkedInSummary(w http.ResponseWriter, r *http.Request) {
	h.insightsSummary(w, r, config.SourceLinkedIn, nsLinkedInSummary)
}

func (h *Handler) insightsSummary(w http.ResponseWriter, r *http.Request, source, namespace string) {
	req := InsightsSummaryRequest{Top: getIntParam(r, "top", analytics.DefaultTopPosts)}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	h.serveCached(w, r, namespace, req, func(ctx context.Context) (interface{}, error) {
		rows, err := h.rows.Rows(ctx, source)
		if err != nil {
			return nil, err
		}
		return timed("insights_summary", len(rows), func() analytics.InsightsSummary {
			return analytics.SummarizeInsights(rows, req.Top)
		}), nil
	})
}

// InstagramSeries handles Instagram time series requests
//
// @Summary Instagram posts or metric over time
// @Description Without metric, counts posts per bucket. With metric, sums that metric per bucket.
// @Tags Social
// @Produce json
// @Param granularity query string true "daily, weekly, or monthly"
// @Param metric query string false "reach, impressions, likes, comments, shares, saves, clicks, or followers"
// @Param year query int false "Year for monthly series"
// @Success 200 {object} models.APIResponse{data=models.SeriesResponse} "Series"
// @Failure 400 {object} models.APIResponse "Invalid parameters"
// @Security BearerAuth
// @Router /social/instagram/series [get]
func (h *Handler) InstagramSeries(w http.ResponseWriter, r *http.Request) {
	req := InsightsSeriesRequest{
		Granularity: getStringParam(r, "granularity", string(analytics.Weekly)),
		Metric:      getStringParam(r, "metric", ""),
		Year:        getIntParam(r, "year", 0),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}
	g, err := analytics.ParseGranularity(req.Granularity)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	anchor := h.anchor(req.Year)
	params := struct {
		InsightsSeriesRequest
		Week string
	}{req, anchor.Now.In(h.location).Format("2006-01-02")}

	h.serveCached(w, r, nsInstagramSeries, params, func(ctx context.Context) (interface{}, error) {
		rows, err := h.rows.Rows(ctx, config.SourceInstagram)
		if err != nil {
			return nil, err
		}

		dateField := analytics.InsightFields.PostedAt
		points := timed("insights_series", len(rows), func() []analytics.Point {
			if metric, ok := insightMetric(req.Metric); ok {
				return analytics.BucketSum(rows, dateField, metric, g, anchor)
			}
			return analytics.Bucket(rows, dateField, g, anchor)
		})

		resp := models.SeriesResponse{
			Source:      config.SourceInstagram,
			Field:       dateField.Name,
			Metric:      req.Metric,
			Granularity: string(g),
			Points:      points,
		}
		if g == analytics.Monthly {
			resp.Year = anchorYear(anchor)
		}
		return resp, nil
	})
}

func insightMetric(name string) (analytics.FieldSpec, bool) {
	if name == "" {
		return analytics.FieldSpec{}, false
	}
	for _, f := range analytics.InsightFields.All() {
		if f.Name == name && f.Kind == analytics.KindNumber {
			return f, true
		}
	}
	return analytics.FieldSpec{}, false
}
