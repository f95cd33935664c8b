// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

/*
Package services adapts Doorly components to suture.Service.

Each wrapper turns a component lifecycle into Serve(ctx) error:

  - HTTPServerService: ListenAndServe plus graceful Shutdown
  - SyncService: Start/Stop of the Instagram insights syncer
  - CacheService: stops the response cache janitor on shutdown

Returning an error from Serve lets the supervisor restart the component
with backoff. Returning ctx.Err() after cancellation is a clean stop.
*/
package services
