// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

package sync

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/doorly/internal/config"
	"github.com/tomtom215/doorly/internal/logging"
	"github.com/tomtom215/doorly/internal/metrics"
)

const (
	instagramBackend = "instagram_graph"
	instagramSource  = "Instagram Graph API"
)

// DefaultInsightMetrics are the per-post metrics requested from the Graph API.
var DefaultInsightMetrics = []string{"reach", "impressions", "likes", "comments", "shares", "saved"}

// mediaFields are requested for each post in RecentMedia.
const mediaFields = "id,caption,media_type,permalink,timestamp,like_count,comments_count"

// Media is one post returned by RecentMedia.
type Media struct {
	ID            string `json:"id"`
	Caption       string `json:"caption"`
	MediaType     string `json:"media_type"`
	Permalink     string `json:"permalink"`
	Timestamp     string `json:"timestamp"`
	LikeCount     int    `json:"like_count"`
	CommentsCount int    `json:"comments_count"`
}

// InsightsSource reads posts and their insight metrics.
type InsightsSource interface {
	RecentMedia(ctx context.Context, limit int) ([]Media, error)
	// MediaInsights returns metric values keyed by metric name. With no
	// metrics given it requests DefaultInsightMetrics.
	MediaInsights(ctx context.Context, mediaID string, metrics ...string) (map[string]float64, error)
	Ping(ctx context.Context) error
}

type graphErrorBody struct {
	Error struct {
		Message   string `json:"message"`
		Type      string `json:"type"`
		Code      int    `json:"code"`
		Subcode   int    `json:"error_subcode"`
		FBTraceID string `json:"fbtrace_id"`
	} `json:"error"`
}

type mediaResponse struct {
	Data []Media `json:"data"`
}

type insightsResponse struct {
	Data []struct {
		Name   string `json:"name"`
		Values []struct {
			Value json.Number `json:"value"`
		} `json:"values"`
		TotalValue *struct {
			Value json.Number `json:"value"`
		} `json:"total_value"`
	} `json:"data"`
}

// InstagramClient calls the Instagram Graph API.
//
// Requests pass through a client-side token bucket. HTTP 429 responses are
// retried with exponential backoff, honoring Retry-After when present.
type InstagramClient struct {
	baseURL        string
	userID         string
	token          string
	client         *http.Client
	limiter        *rate.Limiter
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewInstagramClient creates a client from configuration.
func NewInstagramClient(cfg *config.InstagramConfig) *InstagramClient {
	return &InstagramClient{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/") + "/" + strings.Trim(cfg.APIVersion, "/"),
		userID:         cfg.UserID,
		token:          cfg.AccessToken,
		client:         &http.Client{Timeout: cfg.Timeout},
		limiter:        rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		maxRetries:     3,
		retryBaseDelay: time.Second,
	}
}

// RecentMedia returns up to limit of the account's most recent posts.
func (c *InstagramClient) RecentMedia(ctx context.Context, limit int) ([]Media, error) {
	params := url.Values{}
	params.Set("fields", mediaFields)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	resp, err := getGraph[mediaResponse](ctx, c, "media", c.userID+"/media", params)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(resp.Data) > limit {
		return resp.Data[:limit], nil
	}
	return resp.Data, nil
}

// MediaInsights returns the lifetime insight values of one post.
func (c *InstagramClient) MediaInsights(ctx context.Context, mediaID string, metricNames ...string) (map[string]float64, error) {
	if len(metricNames) == 0 {
		metricNames = DefaultInsightMetrics
	}
	params := url.Values{}
	params.Set("metric", strings.Join(metricNames, ","))

	resp, err := getGraph[insightsResponse](ctx, c, "insights", url.PathEscape(mediaID)+"/insights", params)
	if err != nil {
		return nil, err
	}

	values := make(map[string]float64, len(resp.Data))
	for _, d := range resp.Data {
		var raw json.Number
		switch {
		case d.TotalValue != nil:
			raw = d.TotalValue.Value
		case len(d.Values) > 0:
			raw = d.Values[len(d.Values)-1].Value
		default:
			continue
		}
		f, err := raw.Float64()
		if err != nil {
			continue
		}
		values[d.Name] = f
	}
	return values, nil
}

// Ping reads the account id.
func (c *InstagramClient) Ping(ctx context.Context) error {
	params := url.Values{}
	params.Set("fields", "id")
	_, err := getGraph[struct {
		ID string `json:"id"`
	}](ctx, c, "ping", c.userID, params)
	return err
}

// getGraph performs a rate-limited GET and decodes the JSON body into T.
// op labels the fetch metrics.
func getGraph[T any](ctx context.Context, c *InstagramClient, op, path string, params url.Values) (*T, error) {
	reqURL := c.baseURL + "/" + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	start := time.Now()
	resp, err := c.doRequestWithRateLimit(ctx, reqURL)
	if err != nil {
		serr := classifyTransportError(err)
		metrics.RecordSourceFetch(instagramBackend, op, time.Since(start), 0, string(serr.Kind))
		return nil, serr
	}

	if resp.StatusCode != http.StatusOK {
		body := readBodyForError(resp.Body)
		_ = resp.Body.Close()
		serr := classifyGraphError(resp.StatusCode, body)
		metrics.RecordSourceFetch(instagramBackend, op, time.Since(start), 0, string(serr.Kind))
		logging.Ctx(ctx).Warn().Int("status", resp.StatusCode).Str("op", op).Str("kind", string(serr.Kind)).Msg("Instagram Graph request failed")
		return nil, serr
	}

	result, err := decodeBody[T](resp.Body)
	if err != nil {
		metrics.RecordSourceFetch(instagramBackend, op, time.Since(start), 0, string(KindUpstream))
		return nil, newSourceError(KindUpstream, instagramSource, err)
	}
	metrics.RecordSourceFetch(instagramBackend, op, time.Since(start), 0, "")
	return result, nil
}

// doRequestWithRateLimit waits for the limiter and retries HTTP 429
// responses. The final 429 response is returned to the caller.
func (c *InstagramClient) doRequestWithRateLimit(ctx context.Context, reqURL string) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := newGetRequest(ctx, reqURL, c.token)
		if err != nil {
			return nil, err
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}
		if resp.StatusCode != http.StatusTooManyRequests || attempt == c.maxRetries {
			return resp, nil
		}

		delay := retryAfter(resp, c.retryBaseDelay*time.Duration(1<<uint(attempt)))
		_ = resp.Body.Close()

		logging.Ctx(ctx).Warn().Dur("retry_delay", delay).Int("attempt", attempt+1).Int("max_retries", c.maxRetries).Msg("Instagram Graph API rate limited (HTTP 429), retrying")
		if err := sleepContext(ctx, delay); err != nil {
			return nil, err
		}
	}
}

func classifyTransportError(err error) *SourceError {
	if isTimeout(err) {
		return newSourceError(KindTimeout, instagramSource, err)
	}
	return newSourceError(KindUpstream, instagramSource, err)
}

// classifyGraphError maps a Graph API error response to a SourceError.
// Codes 10 and 200-299 are permission errors; 190 is an invalid or expired
// access token.
func classifyGraphError(status int, body []byte) *SourceError {
	var ge graphErrorBody
	_ = json.Unmarshal(body, &ge)

	detail := ge.Error.Message
	if detail == "" {
		detail = strings.TrimSpace(string(body))
	}
	err := fmt.Errorf("status %d: %s", status, detail)
	if ge.Error.Code != 0 {
		err = fmt.Errorf("status %d, graph code %d: %s", status, ge.Error.Code, detail)
	}

	code := ge.Error.Code
	switch {
	case code == 10 || (code >= 200 && code < 300):
		return newSourceError(KindPermissionDenied, instagramSource, err)
	case code == 190:
		return &SourceError{
			Kind:    KindPermissionDenied,
			Source:  instagramSource,
			Message: "the Instagram access token is invalid or has expired",
			Err:     err,
		}
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return newSourceError(KindPermissionDenied, instagramSource, err)
	case http.StatusNotFound:
		return newSourceError(KindNotFound, instagramSource, err)
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return newSourceError(KindTimeout, instagramSource, err)
	case http.StatusTooManyRequests:
		return &SourceError{
			Kind:    KindUpstream,
			Source:  instagramSource,
			Message: "the Instagram Graph API rate limit was exceeded",
			Err:     err,
		}
	}
	return newSourceError(KindUpstream, instagramSource, err)
}
