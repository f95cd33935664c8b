// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/doorly/internal/logging"
)

// RequestLogger logs every request at debug level, and at warn level when
// it takes longer than slowThreshold or fails with a 5xx status.
// slowThreshold <= 0 disables slow-request warnings.
func RequestLogger(slowThreshold time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapper := newStatusRecorder(w)

			next.ServeHTTP(wrapper, r)

			duration := time.Since(start)
			logger := logging.Ctx(r.Context())
			slow := slowThreshold > 0 && duration > slowThreshold
			level := zerolog.DebugLevel
			if slow || wrapper.statusCode >= http.StatusInternalServerError {
				level = zerolog.WarnLevel
			}

			event := logger.WithLevel(level)
			if slow {
				event = event.Int64("threshold_ms", slowThreshold.Milliseconds())
			}
			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("route", routePattern(r)).
				Int("status", wrapper.statusCode).
				Int64("duration_ms", duration.Milliseconds()).
				Msg("HTTP request")
		})
	}
}
