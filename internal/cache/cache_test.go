// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

package cache

import (
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func newTestCache(ttl time.Duration, maxEntries int) (*Cache, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	c := newCache(ttl, maxEntries)
	c.now = clock.Now
	return c, clock
}

func TestCacheBasicOperations(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(time.Minute, 0)

	c.Set("key1", "value1")
	value, exists := c.Get("key1")
	if !exists || value != "value1" {
		t.Errorf("Get(key1) = %v, %v; want value1, true", value, exists)
	}

	if _, exists = c.Get("key2"); exists {
		t.Error("Expected key2 to not exist")
	}

	stats := c.GetStats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.TotalKeys != 1 {
		t.Errorf("stats = %+v, want 1 hit, 1 miss, 1 key", stats)
	}
	if c.HitRate() != 50 {
		t.Errorf("HitRate() = %v, want 50", c.HitRate())
	}
}

func TestCacheExpiration(t *testing.T) {
	t.Parallel()

	c, clock := newTestCache(time.Minute, 0)
	c.Set("key1", "value1")
	c.SetWithTTL("key2", "value2", 5*time.Minute)

	clock.Advance(90 * time.Second)

	if _, exists := c.Get("key1"); exists {
		t.Error("Expected key1 to be expired")
	}
	if _, exists := c.Get("key2"); !exists {
		t.Error("Expected key2 to outlive the default TTL")
	}
	if stats := c.GetStats(); stats.Evictions != 1 || stats.TotalKeys != 1 {
		t.Errorf("stats = %+v, want 1 eviction, 1 key", stats)
	}
}

func TestCacheCleanup(t *testing.T) {
	t.Parallel()

	c, clock := newTestCache(time.Minute, 0)
	c.Set("a", 1)
	c.Set("b", 2)
	c.SetWithTTL("c", 3, time.Hour)

	clock.Advance(2 * time.Minute)
	c.cleanup()

	stats := c.GetStats()
	if stats.TotalKeys != 1 || stats.Evictions != 2 {
		t.Errorf("stats after cleanup = %+v, want 1 key, 2 evictions", stats)
	}
	if !stats.LastCleanup.Equal(clock.Now()) {
		t.Errorf("LastCleanup = %v, want %v", stats.LastCleanup, clock.Now())
	}
}

func TestCacheDeletePrefix(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(time.Minute, 0)
	c.Set(GenerateKey("social.instagram.summary", nil), 1)
	c.Set(GenerateKey("social.instagram.series", map[string]string{"granularity": "weekly"}), 2)
	c.Set(GenerateKey("social.linkedin.summary", nil), 3)
	c.Set(GenerateKey("dashboard.kpis", nil), 4)

	if n := c.DeletePrefix("social.instagram"); n != 2 {
		t.Errorf("DeletePrefix() = %d, want 2", n)
	}
	if stats := c.GetStats(); stats.TotalKeys != 2 {
		t.Errorf("TotalKeys = %d, want 2", stats.TotalKeys)
	}
	if _, ok := c.Get(GenerateKey("social.linkedin.summary", nil)); !ok {
		t.Error("linkedin entry should survive instagram invalidation")
	}
}

func TestCacheDeleteAndClear(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(time.Minute, 0)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Delete("a")
	c.Delete("missing")

	if stats := c.GetStats(); stats.Evictions != 1 || stats.TotalKeys != 1 {
		t.Errorf("stats after delete = %+v", stats)
	}

	c.Clear()
	if stats := c.GetStats(); stats.TotalKeys != 0 || stats.Evictions != 2 {
		t.Errorf("stats after clear = %+v", stats)
	}
}

func TestCacheBoundedEviction(t *testing.T) {
	t.Parallel()

	c, clock := newTestCache(time.Minute, 2)
	c.SetWithTTL("short", 1, 10*time.Second)
	c.SetWithTTL("long", 2, time.Hour)
	c.Set("new", 3)

	if _, ok := c.Get("short"); ok {
		t.Error("entry closest to expiry should be evicted when full")
	}
	if _, ok := c.Get("long"); !ok {
		t.Error("long-lived entry should survive")
	}

	// Overwriting an existing key never evicts.
	c.Set("new", 4)
	if stats := c.GetStats(); stats.TotalKeys != 2 {
		t.Errorf("TotalKeys = %d, want 2", stats.TotalKeys)
	}

	// Expired entries are dropped before live ones.
	clock.Advance(2 * time.Minute)
	c.Set("fresh", 5)
	if _, ok := c.Get("long"); !ok {
		t.Error("live entry evicted while an expired one existed")
	}
}

func TestGenerateKey(t *testing.T) {
	t.Parallel()

	type params struct {
		Source string
		Year   int
	}

	key1 := GenerateKey("dashboard.series", params{Source: "requests", Year: 2025})
	key2 := GenerateKey("dashboard.series", params{Source: "requests", Year: 2025})
	key3 := GenerateKey("dashboard.series", params{Source: "requests", Year: 2024})

	if key1 != key2 {
		t.Error("Expected same params to generate same key")
	}
	if key1 == key3 {
		t.Error("Expected different params to generate different key")
	}
	if key1[:len("dashboard.series:")] != "dashboard.series:" {
		t.Errorf("key %q should keep its namespace prefix", key1)
	}
}

func TestNewCacher(t *testing.T) {
	t.Parallel()

	disabled := NewCacher(Config{Enabled: false})
	disabled.Set("k", 1)
	if _, ok := disabled.Get("k"); ok {
		t.Error("disabled cache should not store values")
	}

	enabled := NewCacher(Config{Enabled: true, TTL: time.Minute, MaxEntries: 10})
	defer enabled.(*Cache).Stop()
	enabled.Set("k", 1)
	if _, ok := enabled.Get("k"); !ok {
		t.Error("enabled cache should store values")
	}
}

func TestCacheConcurrency(t *testing.T) {
	t.Parallel()

	c := New(time.Minute)
	defer c.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Set("key", id)
				c.Get("key")
				if j%10 == 0 {
					c.DeletePrefix("k")
				}
			}
		}(i)
	}
	wg.Wait()

	stats := c.GetStats()
	if stats.Hits+stats.Misses != 1000 {
		t.Errorf("hits+misses = %d, want 1000", stats.Hits+stats.Misses)
	}
}

func BenchmarkGenerateKey(b *testing.B) {
	params := map[string]string{"field": "created_at", "granularity": "weekly"}
	for i := 0; i < b.N; i++ {
		GenerateKey("dashboard.series", params)
	}
}
