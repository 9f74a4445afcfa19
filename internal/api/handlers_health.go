// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/keepskip/internal/models"
	"github.com/tomtom215/keepskip/internal/snapshot"
)

// Health statuses.
const (
	healthHealthy  = "healthy"
	healthDegraded = "degraded"
)

// Health handles GET /api/v1/health. It always answers 200; the payload
// reports whether the remote data service is reachable.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	connected, pingErr := h.pingRemote(r.Context())

	health := models.HealthStatus{
		Status:          healthHealthy,
		Version:         h.cfg.Version,
		Backend:         h.cfg.Backend,
		RemoteConnected: connected,
		WeightMode:      h.cfg.WeightMode,
		Feed:            feedHealth(h.snapshots.FeedSnapshot()),
		Weekly:          weeklyHealth(h.snapshots.Weekly()),
		Uptime:          time.Since(h.startTime).Seconds(),
	}
	if !connected {
		health.Status = healthDegraded
		if pingErr != nil {
			health.RemoteError = pingErr.Error()
		}
	}
	if h.breaker != nil {
		health.CircuitBreaker = h.breaker.State()
	}
	if h.savedCache != nil {
		stats := h.savedCache.GetStats()
		health.SavedCache = &models.CacheHealth{
			Keys:          stats.TotalKeys,
			Hits:          stats.Hits,
			Misses:        stats.Misses,
			HitRate:       h.savedCache.HitRate(),
			Invalidations: stats.Invalidations,
		}
	}

	respondSuccess(w, health, models.Metadata{})
}

// HealthLive handles liveness probes. It returns 200 while the process
// is serving, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}, models.Metadata{})
}

// HealthReady handles readiness probes. It returns 503 when the remote
// data service cannot be reached, since votes would fail.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	connected, pingErr := h.pingRemote(r.Context())
	if !connected {
		respondError(w, http.StatusServiceUnavailable, ErrCodeServiceUnavailable,
			"Remote data service is not reachable", pingErr)
		return
	}

	respondSuccess(w, map[string]interface{}{
		"ready": true,
	}, models.Metadata{})
}

// pingRemote checks the remote data service. Backends without a Ping
// operation are assumed reachable.
func (h *Handler) pingRemote(ctx context.Context) (bool, error) {
	if h.pinger == nil {
		return true, nil
	}
	ctx, cancel := context.WithTimeout(ctx, h.cfg.HealthTimeout)
	defer cancel()

	if err := h.pinger.Ping(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func feedHealth(f *snapshot.Feed) models.SnapshotHealth {
	return snapshotHealth(f.LoadedAt, f.Missing, len(f.Items))
}

func weeklyHealth(wk *snapshot.Weekly) models.SnapshotHealth {
	return snapshotHealth(wk.LoadedAt, wk.Missing, len(wk.Report.Patterns)+len(wk.Report.Concepts))
}

func snapshotHealth(loadedAt time.Time, missing bool, items int) models.SnapshotHealth {
	sh := models.SnapshotHealth{
		Loaded:  !loadedAt.IsZero(),
		Missing: missing,
		Items:   items,
	}
	if !loadedAt.IsZero() {
		t := loadedAt
		sh.LoadedAt = &t
	}
	return sh
}
