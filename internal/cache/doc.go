// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

/*
Package cache provides a thread-safe in-memory TTL cache for API responses.

Dashboard endpoints re-read whole spreadsheets on every miss, so responses
are kept for a short TTL (CACHE_TTL, default 1m). Keys are namespaced by
endpoint so that one data source can be invalidated without touching the
others:

	c := cache.NewCacher(cache.Config{Enabled: true, TTL: time.Minute, MaxEntries: 1000})
	key := cache.GenerateKey("social.instagram.summary", params)
	if v, ok := c.Get(key); ok {
	    return v
	}
	c.Set(key, summary)

	// after an Instagram sync
	c.DeletePrefix("social.instagram")

Expiration is checked lazily on Get and by a background sweeper that runs
once a minute until Stop is called.
*/
package cache
