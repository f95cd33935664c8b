// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

package sync

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/doorly/internal/cache"
	"github.com/tomtom215/doorly/internal/config"
	"github.com/tomtom215/doorly/internal/logging"
	"github.com/tomtom215/doorly/internal/metrics"
)

// InstagramCacheNamespace prefixes every cached response derived from the
// Instagram insights sheet. A sync run invalidates it.
const InstagramCacheNamespace = "social.instagram"

// InsightsHeader is the column layout written to the insights sheet.
var InsightsHeader = []string{
	"post_id", "caption", "media_type", "permalink", "posted_at",
	"reach", "impressions", "likes", "comments", "shares", "saved",
}

// SyncResult describes one completed sync run.
type SyncResult struct {
	RunID     string        `json:"runId"`
	StartedAt time.Time     `json:"startedAt"`
	Duration  time.Duration `json:"durationNs"`
	Posts     int           `json:"posts"`
	// DegradedMetrics lists metrics the account may not read. Their cells
	// were written empty.
	DegradedMetrics []string `json:"degradedMetrics"`
	// FailedPosts lists media ids whose insights could not be fetched after
	// all retries.
	FailedPosts []string `json:"failedPosts"`
	Invalidated int      `json:"cacheEntriesInvalidated"`
}

// InsightsSyncer copies recent Instagram post insights into the insights
// sheet on an interval.
type InsightsSyncer struct {
	source InsightsSource
	writer SheetWriter
	cache  cache.Cacher
	cfg    config.SyncConfig
	sheet  string

	mu       sync.RWMutex
	running  bool
	lastRun  *SyncResult
	lastErr  error
	syncMu   sync.Mutex
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewInsightsSyncer creates a syncer that writes to the instagram sheet.
// c may be nil.
func NewInsightsSyncer(source InsightsSource, writer SheetWriter, c cache.Cacher, cfg config.SyncConfig) *InsightsSyncer {
	if c == nil {
		c = cache.Noop{}
	}
	return &InsightsSyncer{
		source: source,
		writer: writer,
		cache:  c,
		cfg:    cfg,
		sheet:  config.SourceInstagram,
	}
}

// Start begins the periodic sync loop. When RunOnStartup is set the first
// run starts immediately in the background.
func (s *InsightsSyncer) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("insights syncer is already running")
	}
	s.running = true
	s.stopChan = make(chan struct{})
	stop := s.stopChan
	s.mu.Unlock()

	logging.Info().Dur("interval", s.cfg.Interval).Bool("run_on_startup", s.cfg.RunOnStartup).Msg("Starting insights syncer")

	s.wg.Add(1)
	go s.loop(ctx, stop)
	return nil
}

// Stop ends the loop and waits for an in-flight run to finish.
func (s *InsightsSyncer) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return fmt.Errorf("insights syncer is not running")
	}
	s.running = false
	close(s.stopChan)
	s.mu.Unlock()

	s.wg.Wait()
	logging.Info().Msg("Insights syncer stopped")
	return nil
}

// Running reports whether the loop is active.
func (s *InsightsSyncer) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// LastResult returns the last successful run and the error of the most
// recent run, if it failed.
func (s *InsightsSyncer) LastResult() (*SyncResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRun, s.lastErr
}

func (s *InsightsSyncer) loop(ctx context.Context, stop <-chan struct{}) {
	defer s.wg.Done()

	// runCtx is cancelled on Stop so an in-flight run ends promptly.
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-stop:
			cancel()
		case <-runCtx.Done():
		}
	}()

	if s.cfg.RunOnStartup {
		s.runLogged(runCtx)
	}

	interval := s.cfg.Interval
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runLogged(runCtx)
		case <-stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *InsightsSyncer) runLogged(ctx context.Context) {
	if _, err := s.SyncNow(ctx); err != nil && !errors.Is(err, ErrSyncInProgress) && ctx.Err() == nil {
		logging.Warn().Err(err).Msg("Insights sync failed (will retry next interval)")
	}
}

// SyncNow runs one sync. It returns ErrSyncInProgress if a run is already
// active.
func (s *InsightsSyncer) SyncNow(ctx context.Context) (*SyncResult, error) {
	if !s.syncMu.TryLock() {
		return nil, ErrSyncInProgress
	}
	defer s.syncMu.Unlock()

	result := &SyncResult{RunID: uuid.NewString(), StartedAt: time.Now()}
	ctx = logging.ContextWithCorrelationID(ctx, result.RunID)
	log := logging.Ctx(ctx)

	log.Info().Int("media_limit", s.cfg.MediaLimit).Msg("Insights sync started")

	err := s.run(ctx, result)
	result.Duration = time.Since(result.StartedAt)

	s.mu.Lock()
	s.lastErr = err
	if err == nil {
		s.lastRun = result
	}
	s.mu.Unlock()

	if err != nil {
		metrics.RecordSyncRun(result.Duration, result.Posts, syncErrorType(err))
		return nil, err
	}

	metrics.RecordSyncRun(result.Duration, result.Posts, "")
	log.Info().
		Int("posts", result.Posts).
		Strs("degraded_metrics", result.DegradedMetrics).
		Int("failed_posts", len(result.FailedPosts)).
		Int("cache_invalidated", result.Invalidated).
		Dur("duration", result.Duration).
		Msg("Insights sync completed")
	return result, nil
}

func (s *InsightsSyncer) run(ctx context.Context, result *SyncResult) error {
	var media []Media
	err := s.retry(ctx, "recent_media", func() error {
		var err error
		media, err = s.source.RecentMedia(ctx, s.cfg.MediaLimit)
		return err
	})
	if err != nil {
		return fmt.Errorf("list recent media: %w", err)
	}

	degraded := make(map[string]bool)
	rows := make([][]any, 0, len(media))
	for _, m := range media {
		values, denied, err := s.postInsights(ctx, m.ID)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logging.Ctx(ctx).Warn().Err(err).Str("media_id", m.ID).Msg("Post insights unavailable, writing empty cells")
			result.FailedPosts = append(result.FailedPosts, m.ID)
		}
		for _, name := range denied {
			degraded[name] = true
		}
		rows = append(rows, insightsRow(m, values))
	}

	for name := range degraded {
		result.DegradedMetrics = append(result.DegradedMetrics, name)
		metrics.RecordDegradedMetric(name)
	}
	sort.Strings(result.DegradedMetrics)

	err = s.retry(ctx, "write_sheet", func() error {
		return s.writer.WriteRows(ctx, s.sheet, InsightsHeader, rows)
	})
	if err != nil {
		return fmt.Errorf("write insights sheet: %w", err)
	}

	result.Posts = len(rows)
	result.Invalidated = s.cache.DeletePrefix(InstagramCacheNamespace)
	metrics.RecordCacheInvalidation(InstagramCacheNamespace, result.Invalidated)
	return nil
}

// postInsights fetches every default metric for one post. When the batch
// request is denied, metrics are requested one at a time so only the
// denied ones are dropped.
func (s *InsightsSyncer) postInsights(ctx context.Context, mediaID string) (map[string]float64, []string, error) {
	var values map[string]float64
	err := s.retry(ctx, "media_insights", func() error {
		var err error
		values, err = s.source.MediaInsights(ctx, mediaID)
		return err
	})
	if err == nil {
		return values, nil, nil
	}
	if !IsKind(err, KindPermissionDenied) {
		return nil, nil, err
	}

	values = make(map[string]float64, len(DefaultInsightMetrics))
	var denied []string
	for _, name := range DefaultInsightMetrics {
		var single map[string]float64
		err := s.retry(ctx, "media_insights", func() error {
			var err error
			single, err = s.source.MediaInsights(ctx, mediaID, name)
			return err
		})
		switch {
		case err == nil:
			if v, ok := single[name]; ok {
				values[name] = v
			}
		case IsKind(err, KindPermissionDenied):
			denied = append(denied, name)
		default:
			return values, denied, err
		}
	}
	return values, denied, nil
}

// retry runs fn up to RetryAttempts times with a fixed RetryDelay between
// attempts. Non-transient errors are returned immediately.
func (s *InsightsSyncer) retry(ctx context.Context, op string, fn func() error) error {
	attempts := s.cfg.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(); err == nil || !transient(err) {
			return err
		}
		if attempt == attempts {
			break
		}
		logging.Ctx(ctx).Debug().Err(err).Str("op", op).Int("attempt", attempt).Dur("retry_delay", s.cfg.RetryDelay).Msg("Retrying insights request")
		if serr := sleepContext(ctx, s.cfg.RetryDelay); serr != nil {
			return serr
		}
	}
	return err
}

// insightsRow lays out one post in InsightsHeader order. Metrics that are
// missing are nil so the sheet cell stays empty. Likes and comments fall
// back to the counters on the media object.
func insightsRow(m Media, values map[string]float64) []any {
	metric := func(name string) any {
		if v, ok := values[name]; ok {
			return v
		}
		return nil
	}

	likes := metric("likes")
	if likes == nil && m.LikeCount > 0 {
		likes = float64(m.LikeCount)
	}
	comments := metric("comments")
	if comments == nil && m.CommentsCount > 0 {
		comments = float64(m.CommentsCount)
	}

	return []any{
		m.ID, m.Caption, m.MediaType, m.Permalink, m.Timestamp,
		metric("reach"), metric("impressions"), likes, comments,
		metric("shares"), metric("saved"),
	}
}

func syncErrorType(err error) string {
	if serr, ok := AsSourceError(err); ok {
		return string(serr.Kind)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "cancelled"
	}
	return "unknown"
}
