// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

package api

import (
	"context"
	"time"

	"github.com/tomtom215/keepskip/internal/cache"
	"github.com/tomtom215/keepskip/internal/datasvc"
	"github.com/tomtom215/keepskip/internal/models"
	"github.com/tomtom215/keepskip/internal/snapshot"
	"github.com/tomtom215/keepskip/internal/vote"
)

// VoteService runs the vote flow. *vote.Service satisfies it.
type VoteService interface {
	Vote(ctx context.Context, itemID models.ID, kind vote.Kind) (vote.Result, error)
}

// SnapshotSource serves the feed and weekly snapshots. *snapshot.Store
// satisfies it.
type SnapshotSource interface {
	Feed(limit int) []models.FeedItem
	FeedSnapshot() *snapshot.Feed
	Weekly() *snapshot.Weekly
}

// breakerState is implemented by backends wrapped in a circuit breaker.
type breakerState interface {
	State() string
}

// HandlerConfig carries the settings handlers need from the server config.
type HandlerConfig struct {
	Version       string
	Backend       string
	WeightMode    string
	FeedLimit     int
	SavedLimit    int
	HealthTimeout time.Duration
}

// Handler serves the Keepskip REST API.
type Handler struct {
	cfg       HandlerConfig
	votes     VoteService
	snapshots SnapshotSource

	// Optional backend capabilities, nil when unsupported.
	saved   datasvc.SavedItemsReader
	pinger  datasvc.Pinger
	breaker breakerState

	savedCache *cache.Cache
	startTime  time.Time
}

// NewHandler creates a handler. Saved items, health pings and breaker
// state are enabled when data implements the matching optional interface.
// savedCache may be nil to disable caching of the saved listing.
func NewHandler(cfg HandlerConfig, votes VoteService, snapshots SnapshotSource, data datasvc.Service, savedCache *cache.Cache) *Handler {
	if cfg.HealthTimeout <= 0 {
		cfg.HealthTimeout = 5 * time.Second
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}

	h := &Handler{
		cfg:        cfg,
		votes:      votes,
		snapshots:  snapshots,
		savedCache: savedCache,
		startTime:  time.Now(),
	}

	if reader, ok := data.(datasvc.SavedItemsReader); ok {
		h.saved = reader
	}
	if pinger, ok := data.(datasvc.Pinger); ok {
		h.pinger = pinger
	}
	if b, ok := data.(breakerState); ok {
		h.breaker = b
	}
	return h
}

// InvalidateSaved drops the cached saved listing. It is registered as a
// vote hook and runs after every recorded keep vote.
func (h *Handler) InvalidateSaved(_ context.Context, res vote.Result) {
	if h.savedCache == nil || res.Kind != vote.Keep || !res.Recorded {
		return
	}
	h.savedCache.Invalidate()
}
