// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tomtom215/keepskip/internal/api"
	"github.com/tomtom215/keepskip/internal/cache"
	"github.com/tomtom215/keepskip/internal/config"
	"github.com/tomtom215/keepskip/internal/datasvc"
	"github.com/tomtom215/keepskip/internal/logging"
	"github.com/tomtom215/keepskip/internal/scheduler"
	"github.com/tomtom215/keepskip/internal/snapshot"
	"github.com/tomtom215/keepskip/internal/vote"
)

// app holds every component the supervisor tree runs.
type app struct {
	votes      *vote.Service
	store      *snapshot.Store
	savedCache *cache.Cache
	scheduler  *scheduler.Scheduler
	handler    *api.Handler
	router     http.Handler
}

// newApp wires the vote flow, snapshots, jobs and HTTP API around an
// opened data service.
func newApp(cfg *config.Config, data datasvc.Service, backendName string) (*app, error) {
	votes := vote.NewService(data, vote.UpdaterConfig{
		Policy: vote.Policy{
			KeepTagDelta:  cfg.Weights.KeepTagDelta,
			SkipTagDelta:  cfg.Weights.SkipTagDelta,
			KeepPairDelta: cfg.Weights.KeepPairDelta,
		},
		Concurrency: cfg.Weights.Concurrency,
		Batched:     cfg.IsBatched(),
	})

	store := snapshot.NewStore(snapshot.Config{
		FeedPath:   cfg.Snapshots.FeedPath,
		WeeklyPath: cfg.Snapshots.WeeklyPath,
	})

	var savedCache *cache.Cache
	if cfg.Saved.CacheTTL > 0 {
		savedCache = cache.New("saved", cfg.Saved.CacheTTL)
	}

	handler := api.NewHandler(api.HandlerConfig{
		Version:       version,
		Backend:       backendName,
		WeightMode:    cfg.Weights.Mode,
		FeedLimit:     cfg.Snapshots.FeedLimit,
		SavedLimit:    cfg.Saved.Limit,
		HealthTimeout: cfg.Health.ProbeTimeout,
	}, votes, store, data, savedCache)

	// Hooks run after the vote row is stored.
	votes.OnVote(handler.InvalidateSaved)
	votes.OnVote(func(_ context.Context, res vote.Result) {
		if res.Recorded && res.Kind == vote.Skip {
			store.MarkSkipped(res.ItemID)
		}
	})

	sched := scheduler.New()
	if err := sched.Add(scheduler.SnapshotReloadJob(cfg.Snapshots.RefreshSchedule, store)); err != nil {
		return nil, fmt.Errorf("schedule snapshot reload: %w", err)
	}
	if pinger, ok := data.(datasvc.Pinger); ok {
		if err := sched.Add(scheduler.HealthProbeJob(cfg.Health.ProbeSchedule, cfg.Health.ProbeTimeout, pinger)); err != nil {
			return nil, fmt.Errorf("schedule health probe: %w", err)
		}
	} else {
		logging.Info().Str("backend", backendName).Msg("Backend has no health check, probe job not scheduled")
	}

	chiMW := api.NewChiMiddlewareFromSecurity(
		cfg.Security.CORSOrigins,
		cfg.Security.RateLimitReqs,
		cfg.Security.RateLimitWindow,
		cfg.Security.RateLimitDisabled,
	)
	router := api.NewRouter(handler, chiMW)

	return &app{
		votes:      votes,
		store:      store,
		savedCache: savedCache,
		scheduler:  sched,
		handler:    handler,
		router:     router.SetupChi(),
	}, nil
}

// close releases resources not owned by the supervisor tree.
func (a *app) close() {
	if a.savedCache != nil {
		a.savedCache.Stop()
	}
}
