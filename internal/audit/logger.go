// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

package audit

import (
	"context"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/doorly/internal/logging"
)

// Config holds configuration for the audit logger.
type Config struct {
	// Retention is how long events are kept. Zero keeps them until the
	// store evicts them for space.
	Retention time.Duration

	// CleanupInterval is how often Serve purges expired events.
	CleanupInterval time.Duration

	// BufferSize is the size of the async write buffer.
	BufferSize int

	// LogToStdout also writes events to the application log.
	LogToStdout bool
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Retention:       7 * 24 * time.Hour,
		CleanupInterval: time.Hour,
		BufferSize:      256,
	}
}

// Logger records audit events through a buffered channel so request
// handlers never wait on the store. A nil *Logger discards everything.
type Logger struct {
	config    Config
	store     Store
	eventChan chan *Event
	stopChan  chan struct{}
	stopOnce  sync.Once
	closed    atomic.Bool
	dropped   atomic.Int64
	wg        sync.WaitGroup
	now       func() time.Time
}

// NewLogger creates a logger writing to store and starts its writer.
func NewLogger(store Store, config Config) *Logger {
	if config.BufferSize <= 0 {
		config.BufferSize = DefaultConfig().BufferSize
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = DefaultConfig().CleanupInterval
	}

	l := &Logger{
		config:    config,
		store:     store,
		eventChan: make(chan *Event, config.BufferSize),
		stopChan:  make(chan struct{}),
		now:       time.Now,
	}

	l.wg.Add(1)
	go l.asyncWriter()

	return l
}

func (l *Logger) asyncWriter() {
	defer l.wg.Done()

	for {
		select {
		case <-l.stopChan:
			for {
				select {
				case event := <-l.eventChan:
					l.writeEvent(event)
				default:
					return
				}
			}
		case event := <-l.eventChan:
			l.writeEvent(event)
		}
	}
}

func (l *Logger) writeEvent(event *Event) {
	if l.config.LogToStdout {
		data, err := json.Marshal(event)
		if err != nil {
			logging.Error().Err(err).Msg("Failed to marshal audit event")
		} else {
			logging.Info().RawJSON("event", data).Msg("Audit event")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := l.store.Save(ctx, event); err != nil {
		logging.Error().Err(err).Str("event_id", event.ID).Msg("Failed to save audit event")
	}
}

// Log queues an event. ID and Timestamp are filled in when empty. The event
// is dropped with a warning when the buffer is full.
func (l *Logger) Log(event *Event) {
	if l == nil || l.closed.Load() {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = l.now().UTC()
	}

	select {
	case l.eventChan <- event:
	default:
		l.dropped.Add(1)
		logging.Warn().Str("event_id", event.ID).Str("type", string(event.Type)).Msg("Audit event buffer full, dropping event")
	}
}

// Dropped returns how many events were discarded because the buffer was full.
func (l *Logger) Dropped() int64 {
	if l == nil {
		return 0
	}
	return l.dropped.Load()
}

// Close drains queued events into the store. It is safe to call twice.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.stopOnce.Do(func() {
		l.closed.Store(true)
		close(l.stopChan)
	})
	l.wg.Wait()
	return nil
}

// Query reads events from the store.
func (l *Logger) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	return l.store.Query(ctx, filter)
}

// PurgeExpired removes events older than the retention period.
func (l *Logger) PurgeExpired(ctx context.Context) (int, error) {
	if l.config.Retention <= 0 {
		return 0, nil
	}
	return l.store.DeleteBefore(ctx, l.now().Add(-l.config.Retention))
}

// Serve runs retention cleanup until ctx is cancelled, then closes the
// logger. It implements suture.Service.
func (l *Logger) Serve(ctx context.Context) error {
	ticker := time.NewTicker(l.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = l.Close()
			return ctx.Err()
		case <-ticker.C:
			deleted, err := l.PurgeExpired(ctx)
			if err != nil {
				logging.Error().Err(err).Msg("Audit retention cleanup failed")
				continue
			}
			if deleted > 0 {
				logging.Debug().Int("deleted", deleted).Msg("Expired audit events purged")
			}
		}
	}
}

// String names the service in supervisor logs.
func (l *Logger) String() string {
	return "audit-logger"
}

// LogAuthSuccess records a successful login.
func (l *Logger) LogAuthSuccess(r *http.Request, actor Actor) {
	l.Log(&Event{
		Type:        EventTypeAuthSuccess,
		Severity:    SeverityInfo,
		Outcome:     OutcomeSuccess,
		Actor:       actor,
		Source:      SourceFromRequest(r),
		Action:      "login",
		Description: "User logged in",
		RequestID:   logging.RequestIDFromContext(r.Context()),
	})
}

// LogAuthFailure records a rejected login. username is what the client sent.
func (l *Logger) LogAuthFailure(r *http.Request, username, reason string) {
	l.Log(&Event{
		Type:        EventTypeAuthFailure,
		Severity:    SeverityWarning,
		Outcome:     OutcomeFailure,
		Actor:       Actor{Username: username},
		Source:      SourceFromRequest(r),
		Action:      "login",
		Description: "Login rejected",
		Metadata:    mustJSON(map[string]string{"reason": reason}),
		RequestID:   logging.RequestIDFromContext(r.Context()),
	})
}

// LogLogout records a logout.
func (l *Logger) LogLogout(r *http.Request, actor Actor) {
	l.Log(&Event{
		Type:        EventTypeLogout,
		Severity:    SeverityInfo,
		Outcome:     OutcomeSuccess,
		Actor:       actor,
		Source:      SourceFromRequest(r),
		Action:      "logout",
		Description: "User logged out",
		RequestID:   logging.RequestIDFromContext(r.Context()),
	})
}

// LogAuthzDenied records a request refused by the role policy.
func (l *Logger) LogAuthzDenied(r *http.Request, actor Actor) {
	l.Log(&Event{
		Type:        EventTypeAuthzDenied,
		Severity:    SeverityWarning,
		Outcome:     OutcomeFailure,
		Actor:       actor,
		Source:      SourceFromRequest(r),
		Action:      r.Method,
		Resource:    r.URL.Path,
		Description: "Access denied by role policy",
		RequestID:   logging.RequestIDFromContext(r.Context()),
	})
}

// LogAdminAction records an administrative operation such as a manual sync.
func (l *Logger) LogAdminAction(r *http.Request, actor Actor, eventType EventType, outcome Outcome, description string, metadata map[string]any) {
	severity := SeverityInfo
	if outcome == OutcomeFailure {
		severity = SeverityError
	}
	var meta json.RawMessage
	if len(metadata) > 0 {
		meta = mustJSON(metadata)
	}
	l.Log(&Event{
		Type:        eventType,
		Severity:    severity,
		Outcome:     outcome,
		Actor:       actor,
		Source:      SourceFromRequest(r),
		Action:      r.Method,
		Resource:    r.URL.Path,
		Description: description,
		Metadata:    meta,
		RequestID:   logging.RequestIDFromContext(r.Context()),
	})
}

func mustJSON(v any) json.RawMessage {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}

// SourceFromRequest reads the client address from RemoteAddr, which the
// router's RealIP middleware has already rewritten for trusted proxies.
func SourceFromRequest(r *http.Request) Source {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	return Source{IPAddress: ip, UserAgent: r.UserAgent()}
}
