// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

package cache

import (
	"sync"
	"time"

	"github.com/tomtom215/keepskip/internal/metrics"
)

// DefaultCleanupInterval is how often expired entries are swept.
const DefaultCleanupInterval = 5 * time.Minute

// Entry represents a cached value with expiration
type Entry struct {
	Data      interface{}
	ExpiresAt time.Time
}

// Cache is a thread-safe in-memory TTL cache.
//
// Every lookup is reported to prometheus under the cache's name so hit
// rates for the saved-items listing show up next to the API metrics.
type Cache struct {
	name    string
	mu      sync.RWMutex
	entries map[string]Entry
	ttl     time.Duration
	stats   Stats
	gen     uint64 // bumped by Invalidate

	stopOnce sync.Once
	stop     chan struct{}
	now      func() time.Time
}

// Stats tracks cache performance counters
type Stats struct {
	mu            sync.RWMutex
	Hits          int64
	Misses        int64
	Evictions     int64
	Invalidations int64
	TotalKeys     int64
	LastCleanup   time.Time
}

// New creates a cache whose entries live for ttl. A background goroutine
// sweeps expired entries every DefaultCleanupInterval until Stop is called.
//
// Example:
//
//	saved := cache.New("saved", 30*time.Second)
//	defer saved.Stop()
//	saved.Set("saved:50", items)
func New(name string, ttl time.Duration) *Cache {
	return newCache(name, ttl, DefaultCleanupInterval)
}

func newCache(name string, ttl, cleanupInterval time.Duration) *Cache {
	c := &Cache{
		name:    name,
		entries: make(map[string]Entry),
		ttl:     ttl,
		stop:    make(chan struct{}),
		now:     time.Now,
	}
	c.stats.LastCleanup = c.now()

	go c.cleanupLoop(cleanupInterval)

	return c
}

// Name returns the label used for this cache's metrics.
func (c *Cache) Name() string {
	return c.name
}

// TTL returns the default entry lifetime.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Get retrieves a value by key. Expired entries are removed and counted
// as a miss.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		c.recordMiss()
		return nil, false
	}

	if c.now().After(entry.ExpiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have refreshed it.
		if current, ok := c.entries[key]; ok && c.now().After(current.ExpiresAt) {
			delete(c.entries, key)
			c.stats.mu.Lock()
			c.stats.Evictions++
			c.stats.TotalKeys = int64(len(c.entries))
			c.stats.mu.Unlock()
		}
		c.mu.Unlock()
		c.recordMiss()
		return nil, false
	}

	c.recordHit()
	return entry.Data, true
}

// Set stores a value with the default TTL.
func (c *Cache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value with a custom TTL.
func (c *Cache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = Entry{
		Data:      value,
		ExpiresAt: c.now().Add(ttl),
	}
	total := int64(len(c.entries))
	c.mu.Unlock()

	c.stats.mu.Lock()
	c.stats.TotalKeys = total
	c.stats.mu.Unlock()
}

// Generation returns the invalidation counter. Read it before loading a
// value and pass it to SetIfGeneration.
func (c *Cache) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen
}

// SetIfGeneration stores value with the default TTL unless Invalidate ran
// since gen was read. It reports whether the value was stored.
func (c *Cache) SetIfGeneration(key string, value interface{}, gen uint64) bool {
	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		return false
	}
	c.entries[key] = Entry{
		Data:      value,
		ExpiresAt: c.now().Add(c.ttl),
	}
	total := int64(len(c.entries))
	c.mu.Unlock()

	c.stats.mu.Lock()
	c.stats.TotalKeys = total
	c.stats.mu.Unlock()
	return true
}

// Delete removes a single key.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	_, existed := c.entries[key]
	delete(c.entries, key)
	total := int64(len(c.entries))
	c.mu.Unlock()

	c.stats.mu.Lock()
	if existed {
		c.stats.Evictions++
	}
	c.stats.TotalKeys = total
	c.stats.mu.Unlock()
}

// Invalidate drops every entry. It is called when the underlying data
// changes, for example after a keep vote lands.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	evictions := int64(len(c.entries))
	c.entries = make(map[string]Entry)
	c.gen++
	c.mu.Unlock()

	c.stats.mu.Lock()
	c.stats.Evictions += evictions
	c.stats.Invalidations++
	c.stats.TotalKeys = 0
	c.stats.mu.Unlock()

	metrics.CacheInvalidations.WithLabelValues(c.name).Inc()
}

// GetStats returns a copy of the current counters.
func (c *Cache) GetStats() Stats {
	c.stats.mu.RLock()
	defer c.stats.mu.RUnlock()

	return Stats{
		Hits:          c.stats.Hits,
		Misses:        c.stats.Misses,
		Evictions:     c.stats.Evictions,
		Invalidations: c.stats.Invalidations,
		TotalKeys:     c.stats.TotalKeys,
		LastCleanup:   c.stats.LastCleanup,
	}
}

// HitRate returns the cache hit rate as a percentage
func (c *Cache) HitRate() float64 {
	stats := c.GetStats()
	total := stats.Hits + stats.Misses
	if total == 0 {
		return 0.0
	}
	return float64(stats.Hits) / float64(total) * 100.0
}

// Stop ends the background cleanup goroutine. It is safe to call more
// than once.
func (c *Cache) Stop() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
}

// cleanupLoop periodically removes expired entries
func (c *Cache) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

// cleanup removes all expired entries
func (c *Cache) cleanup() {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()

	evictions := int64(0)
	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			delete(c.entries, key)
			evictions++
		}
	}

	c.stats.mu.Lock()
	c.stats.Evictions += evictions
	c.stats.TotalKeys = int64(len(c.entries))
	c.stats.LastCleanup = now
	c.stats.mu.Unlock()
}

func (c *Cache) recordHit() {
	c.stats.mu.Lock()
	c.stats.Hits++
	c.stats.mu.Unlock()
	metrics.RecordCacheLookup(c.name, true)
}

func (c *Cache) recordMiss() {
	c.stats.mu.Lock()
	c.stats.Misses++
	c.stats.mu.Unlock()
	metrics.RecordCacheLookup(c.name, false)
}
