// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

package models

import "time"

// HealthStatus is the payload of GET /api/v1/health.
type HealthStatus struct {
	Status          string         `json:"status"` // healthy or degraded
	Version         string         `json:"version"`
	Backend         string         `json:"backend"`
	RemoteConnected bool           `json:"remote_connected"`
	RemoteError     string         `json:"remote_error,omitempty"`
	CircuitBreaker  string         `json:"circuit_breaker,omitempty"`
	WeightMode      string         `json:"weight_mode"`
	Feed            SnapshotHealth `json:"feed"`
	Weekly          SnapshotHealth `json:"weekly"`
	SavedCache      *CacheHealth   `json:"saved_cache,omitempty"`
	Uptime          float64        `json:"uptime_seconds"`
}

// SnapshotHealth describes one loaded snapshot file.
type SnapshotHealth struct {
	Loaded   bool       `json:"loaded"`
	Missing  bool       `json:"missing"`
	Items    int        `json:"items"`
	LoadedAt *time.Time `json:"loaded_at,omitempty"`
}

// CacheHealth summarizes cache effectiveness.
type CacheHealth struct {
	Keys          int64   `json:"keys"`
	Hits          int64   `json:"hits"`
	Misses        int64   `json:"misses"`
	HitRate       float64 `json:"hit_rate"`
	Invalidations int64   `json:"invalidations"`
}
