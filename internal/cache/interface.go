// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

package cache

import "time"

// Cacher is the cache behavior the HTTP handlers and the sync job depend on.
type Cacher interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{})
	SetWithTTL(key string, value interface{}, ttl time.Duration)
	Delete(key string)
	DeletePrefix(prefix string) int
	Clear()
	GetStats() Stats
	HitRate() float64
}

// Config selects the cache implementation.
type Config struct {
	Enabled    bool
	TTL        time.Duration
	MaxEntries int
}

// NewCacher returns a bounded TTL cache, or a cache that stores nothing when
// caching is disabled.
func NewCacher(cfg Config) Cacher {
	if !cfg.Enabled {
		return Noop{}
	}
	if cfg.TTL <= 0 {
		cfg.TTL = time.Minute
	}
	return NewBounded(cfg.TTL, cfg.MaxEntries)
}

// Noop is a Cacher that never stores anything.
type Noop struct{}

func (Noop) Get(string) (interface{}, bool)                 { return nil, false }
func (Noop) Set(string, interface{})                        {}
func (Noop) SetWithTTL(string, interface{}, time.Duration) {}
func (Noop) Delete(string)                                  {}
func (Noop) DeletePrefix(string) int                        { return 0 }
func (Noop) Clear()                                         {}
func (Noop) GetStats() Stats                                { return Stats{} }
func (Noop) HitRate() float64                               { return 0 }

var (
	_ Cacher = (*Cache)(nil)
	_ Cacher = Noop{}
)
