// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

package sync

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorKind classifies an upstream failure so the API can map it to a status
// code and the dashboard can show a useful message.
type ErrorKind string

const (
	KindCredentialsMissing ErrorKind = "credentials_missing"
	KindPermissionDenied   ErrorKind = "permission_denied"
	KindNotFound           ErrorKind = "not_found"
	KindTimeout            ErrorKind = "timeout"
	KindUpstream           ErrorKind = "upstream"
)

// ErrSyncInProgress is returned by SyncNow when another run holds the lock.
var ErrSyncInProgress = errors.New("insights sync already in progress")

// SourceError is returned by every row and insights source. Message is
// written for people and is shown to dashboard users as-is.
type SourceError struct {
	Kind    ErrorKind
	Source  string
	Message string
	Err     error
}

func (e *SourceError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// AsSourceError extracts a SourceError from an error chain.
func AsSourceError(err error) (*SourceError, bool) {
	var serr *SourceError
	if errors.As(err, &serr) {
		return serr, true
	}
	return nil, false
}

// IsKind reports whether err carries a SourceError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	serr, ok := AsSourceError(err)
	return ok && serr.Kind == kind
}

// transient reports whether retrying err can succeed. Configuration and
// permission problems are not retried.
func transient(err error) bool {
	serr, ok := AsSourceError(err)
	if !ok {
		return !errors.Is(err, context.Canceled)
	}
	return serr.Kind == KindTimeout || serr.Kind == KindUpstream
}

func newSourceError(kind ErrorKind, source string, err error) *SourceError {
	return &SourceError{
		Kind:    kind,
		Source:  source,
		Message: defaultMessage(kind, source),
		Err:     err,
	}
}

func defaultMessage(kind ErrorKind, source string) string {
	switch kind {
	case KindCredentialsMissing:
		return fmt.Sprintf("credentials for %s are not configured", source)
	case KindPermissionDenied:
		return fmt.Sprintf("access to %s was denied; check that the account has been granted access", source)
	case KindNotFound:
		return fmt.Sprintf("%s was not found; check the configured id and range", source)
	case KindTimeout:
		return fmt.Sprintf("%s did not respond in time", source)
	default:
		return fmt.Sprintf("%s returned an unexpected error", source)
	}
}

// isTimeout reports deadline and network timeouts.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
