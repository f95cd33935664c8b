// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

package services

import (
	"context"

	"github.com/tomtom215/doorly/internal/logging"
)

// Stopper is implemented by *cache.Cache, whose expiry janitor starts with
// the cache and ends with Stop.
type Stopper interface {
	Stop()
}

// CacheService ties the response cache janitor to the supervisor tree so
// it stops with the rest of the process.
type CacheService struct {
	cache Stopper
	name  string
}

// NewCacheService wraps c.
func NewCacheService(c Stopper) *CacheService {
	return &CacheService{cache: c, name: "response-cache"}
}

// Serve implements suture.Service. It blocks until ctx is canceled.
func (s *CacheService) Serve(ctx context.Context) error {
	<-ctx.Done()
	s.cache.Stop()
	logging.Debug().Msg("Response cache janitor stopped")
	return ctx.Err()
}

func (s *CacheService) String() string {
	return s.name
}
