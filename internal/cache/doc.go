// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

/*
Package cache provides a thread-safe in-memory cache with TTL support.

The API server uses it to hold the saved-items listing, which otherwise
costs two remote round trips per request. Keep votes change that listing,
so the vote service invalidates the cache through an OnVote hook.

# Usage

	saved := cache.New("saved", 30*time.Second)
	defer saved.Stop()

	if v, ok := saved.Get("saved:50"); ok {
	    items := v.([]models.SavedItem)
	    // serve cached items
	}
	saved.Set("saved:50", items)

	// after a keep vote
	saved.Invalidate()

# Expiration

Entries expire lazily on Get and are also swept by a background goroutine
every DefaultCleanupInterval. Stop ends that goroutine.

# Metrics

Hits, misses and invalidations are exported through internal/metrics with
the cache name as the cache_type label.
*/
package cache
