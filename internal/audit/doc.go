// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

// Package audit keeps a security audit trail of logins, logouts, role
// policy denials, and administrative actions.
//
// Events flow through a buffered channel to a background writer:
//
//	Logger.Log() -> chan *Event -> asyncWriter -> Store
//
// Log never blocks. When the buffer is full the event is dropped and
// counted. MemoryStore holds the newest events up to a fixed size and
// Logger.Serve purges events older than the retention period; it runs
// under the supervisor's data layer.
//
// Admins read the trail through GET /api/v1/admin/audit.
//
//	logger := audit.NewLogger(audit.NewMemoryStore(10000), audit.DefaultConfig())
//	logger.LogAuthFailure(r, req.Username, "invalid_credentials")
//	events, err := logger.Query(ctx, audit.QueryFilter{Types: []audit.EventType{audit.EventTypeAuthFailure}})
package audit
