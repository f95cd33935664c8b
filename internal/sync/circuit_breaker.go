// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/doorly/internal/analytics"
	"github.com/tomtom215/doorly/internal/logging"
	"github.com/tomtom215/doorly/internal/metrics"
)

// breaker wraps a gobreaker circuit breaker with metrics.
//
// Breaker settings:
//   - Max 3 requests in half-open state
//   - 1 minute measurement window
//   - 2 minute timeout before attempting recovery
//   - Opens after 60% failure rate with minimum 10 requests
//
// Only transient failures (timeouts, upstream errors) count against the
// breaker. Missing credentials, denied permissions, and unknown sources are
// configuration problems and leave it closed.
type breaker struct {
	cb   *gobreaker.CircuitBreaker[interface{}]
	name string
}

func newBreaker(name string) *breaker {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6
			if shouldTrip {
				logging.Warn().Str("breaker", name).Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		IsSuccessful: func(err error) bool {
			return err == nil || !transient(err)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()

			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &breaker{cb: cb, name: name}
}

// execute runs fn under the breaker. A rejected call returns a SourceError
// of kind upstream naming source.
func (b *breaker) execute(source string, fn func() (interface{}, error)) (interface{}, error) {
	result, err := b.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			logging.Warn().Str("breaker", b.name).Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
			return nil, &SourceError{
				Kind:    KindUpstream,
				Source:  source,
				Message: fmt.Sprintf("%s is temporarily unavailable after repeated failures", source),
				Err:     err,
			}
		}

		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		counts := b.cb.Counts()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(float64(counts.ConsecutiveFailures))
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(0)
	return result, nil
}

// State returns the breaker state as a string.
func (b *breaker) State() string {
	return stateToString(b.cb.State())
}

// castResult safely type-casts the circuit breaker result.
func castResult[T any](result interface{}, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	typed, ok := result.(*T)
	if !ok {
		return nil, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

// stateToFloat converts breaker state to the gauge value.
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// CircuitBreakerSource protects a RowSource. Writes pass through to the
// wrapped source when it also implements SheetWriter.
type CircuitBreakerSource struct {
	source RowSource
	b      *breaker
}

// NewCircuitBreakerSource wraps source with a breaker named "sheets-api".
func NewCircuitBreakerSource(source RowSource) *CircuitBreakerSource {
	return &CircuitBreakerSource{source: source, b: newBreaker("sheets-api")}
}

// Rows fetches rows with circuit breaker protection.
func (s *CircuitBreakerSource) Rows(ctx context.Context, source string) (analytics.Rows, error) {
	rows, err := castResult[analytics.Rows](s.b.execute("Google Sheets", func() (interface{}, error) {
		rows, err := s.source.Rows(ctx, source)
		if err != nil {
			return nil, err
		}
		return &rows, nil
	}))
	if err != nil {
		return nil, err
	}
	return *rows, nil
}

// Ping checks connectivity with circuit breaker protection.
func (s *CircuitBreakerSource) Ping(ctx context.Context) error {
	_, err := s.b.execute("Google Sheets", func() (interface{}, error) {
		return nil, s.source.Ping(ctx)
	})
	return err
}

// WriteRows writes through the breaker when the wrapped source can write.
func (s *CircuitBreakerSource) WriteRows(ctx context.Context, source string, header []string, rows [][]any) error {
	w, ok := s.source.(SheetWriter)
	if !ok {
		return fmt.Errorf("row source %T cannot write", s.source)
	}
	_, err := s.b.execute("Google Sheets", func() (interface{}, error) {
		return nil, w.WriteRows(ctx, source, header, rows)
	})
	return err
}

// State returns the breaker state.
func (s *CircuitBreakerSource) State() string { return s.b.State() }

// CircuitBreakerInsights protects an InsightsSource.
type CircuitBreakerInsights struct {
	source InsightsSource
	b      *breaker
}

// NewCircuitBreakerInsights wraps source with a breaker named "instagram-api".
func NewCircuitBreakerInsights(source InsightsSource) *CircuitBreakerInsights {
	return &CircuitBreakerInsights{source: source, b: newBreaker("instagram-api")}
}

// RecentMedia lists posts with circuit breaker protection.
func (s *CircuitBreakerInsights) RecentMedia(ctx context.Context, limit int) ([]Media, error) {
	media, err := castResult[[]Media](s.b.execute(instagramSource, func() (interface{}, error) {
		media, err := s.source.RecentMedia(ctx, limit)
		if err != nil {
			return nil, err
		}
		return &media, nil
	}))
	if err != nil {
		return nil, err
	}
	return *media, nil
}

// MediaInsights fetches post insights with circuit breaker protection.
func (s *CircuitBreakerInsights) MediaInsights(ctx context.Context, mediaID string, metricNames ...string) (map[string]float64, error) {
	values, err := castResult[map[string]float64](s.b.execute(instagramSource, func() (interface{}, error) {
		values, err := s.source.MediaInsights(ctx, mediaID, metricNames...)
		if err != nil {
			return nil, err
		}
		return &values, nil
	}))
	if err != nil {
		return nil, err
	}
	return *values, nil
}

// Ping checks connectivity with circuit breaker protection.
func (s *CircuitBreakerInsights) Ping(ctx context.Context) error {
	_, err := s.b.execute(instagramSource, func() (interface{}, error) {
		return nil, s.source.Ping(ctx)
	})
	return err
}

// State returns the breaker state.
func (s *CircuitBreakerInsights) State() string { return s.b.State() }
