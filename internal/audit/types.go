// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

package audit

import (
	"context"
	"time"

	"github.com/goccy/go-json"
)

// EventType categorizes audit events.
type EventType string

const (
	EventTypeAuthSuccess  EventType = "auth.success"
	EventTypeAuthFailure  EventType = "auth.failure"
	EventTypeLogout       EventType = "auth.logout"
	EventTypeAuthzDenied  EventType = "authz.denied"
	EventTypeSyncTrigger  EventType = "admin.sync"
	EventTypeCacheCleared EventType = "admin.cache_clear"
)

// Severity indicates how much attention an event deserves.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Outcome records whether the audited action went through.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Event is a single audit record.
type Event struct {
	ID          string          `json:"id"`
	Timestamp   time.Time       `json:"timestamp"`
	Type        EventType       `json:"type"`
	Severity    Severity        `json:"severity"`
	Outcome     Outcome         `json:"outcome"`
	Actor       Actor           `json:"actor"`
	Source      Source          `json:"source"`
	Action      string          `json:"action"`
	Resource    string          `json:"resource,omitempty"`
	Description string          `json:"description"`
	Metadata    json.RawMessage `json:"metadata,omitempty" swaggertype:"object"`
	RequestID   string          `json:"request_id,omitempty"`
}

// Actor is the user behind an event. Username may be a rejected login name.
type Actor struct {
	Username string `json:"username"`
	Role     string `json:"role,omitempty"`
}

// Source describes where a request came from.
type Source struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent,omitempty"`
}

// Store persists audit events.
type Store interface {
	Save(ctx context.Context, event *Event) error
	// Query returns matching events, newest first.
	Query(ctx context.Context, filter QueryFilter) ([]Event, error)
	// DeleteBefore removes events older than cutoff and returns how many went.
	DeleteBefore(ctx context.Context, cutoff time.Time) (int, error)
	Len() int
}

// QueryFilter narrows a Query. Zero fields match everything.
type QueryFilter struct {
	Types    []EventType
	Outcomes []Outcome
	Username string
	Since    time.Time
	Limit    int
}

// DefaultQueryLimit caps a Query that does not set Limit.
const DefaultQueryLimit = 100

func (f *QueryFilter) matches(e *Event) bool {
	if len(f.Types) > 0 && !contains(f.Types, e.Type) {
		return false
	}
	if len(f.Outcomes) > 0 && !contains(f.Outcomes, e.Outcome) {
		return false
	}
	if f.Username != "" && e.Actor.Username != f.Username {
		return false
	}
	if !f.Since.IsZero() && e.Timestamp.Before(f.Since) {
		return false
	}
	return true
}

func contains[T comparable](values []T, v T) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
