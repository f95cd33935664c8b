// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

/*
Package sync connects Doorly to its upstream data: Google Sheets and the
Instagram Graph API.

Key Components:

  - SheetsClient: RowSource and SheetWriter over the Sheets v4 API with a
    service-account token source
  - InstagramClient: InsightsSource over the Graph API with a client-side
    token bucket and HTTP 429 backoff
  - CircuitBreakerSource, CircuitBreakerInsights: gobreaker wrappers that
    export breaker state to Prometheus
  - InsightsSyncer: periodic job that copies recent post insights into the
    instagram sheet and invalidates cached social responses

Errors:

Every source returns *SourceError with one of the kinds credentials_missing,
permission_denied, not_found, timeout, or upstream. Message is meant for
dashboard users and is rendered by the API without rewording:

	rows, err := source.Rows(ctx, config.SourceRequests)
	if serr, ok := sync.AsSourceError(err); ok {
	    log.Warn().Str("kind", string(serr.Kind)).Msg(serr.Message)
	}

Only timeout and upstream failures are retried by the syncer or counted by
the circuit breakers.

Insights Sync:

Each run lists up to MediaLimit recent posts, fetches their insights with
RetryAttempts tries spaced by RetryDelay, and rewrites the instagram sheet.
If the account may not read a metric, that metric is requested on its own
per post, denied metrics are written as empty cells, and the run continues.
*/
package sync
