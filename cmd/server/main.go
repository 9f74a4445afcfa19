// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/keepskip/internal/config"
	"github.com/tomtom215/keepskip/internal/datasvc"
	"github.com/tomtom215/keepskip/internal/datasvc/backend"
	"github.com/tomtom215/keepskip/internal/logging"
	"github.com/tomtom215/keepskip/internal/supervisor"
	"github.com/tomtom215/keepskip/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("version", version).
		Str("backend", cfg.Remote.Backend).
		Str("weight_mode", cfg.Weights.Mode).
		Int("weight_concurrency", cfg.Weights.Concurrency).
		Str("feed_path", cfg.Snapshots.FeedPath).
		Msg("Starting Keepskip")

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	if cfg.HasWildcardCORS() && cfg.IsProduction() {
		logging.Warn().Msg("CORS allows any origin in production; set CORS_ORIGINS to the feed's host")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	remote, err := backend.Open(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open remote data service")
	}
	defer remote.Close()

	pingCtx, pingCancel := context.WithTimeout(ctx, cfg.Health.ProbeTimeout)
	if pinger, ok := remote.Service.(datasvc.Pinger); ok {
		if err := pinger.Ping(pingCtx); err != nil {
			logging.Warn().Err(err).Msg("Remote data service unreachable at startup (votes will fail until it recovers)")
		} else {
			logging.Info().Str("backend", remote.Name).Msg("Connected to remote data service")
		}
	}
	pingCancel()

	application, err := newApp(cfg, remote.Service, remote.Name)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to build application")
	}
	defer application.close()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	snapshotSvc := services.NewSnapshotService(application.store)
	tree.AddDataService(snapshotSvc)
	tree.AddJobService(services.NewSchedulerService(application.scheduler))

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           application.router,
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// SIGHUP reloads snapshots; SIGINT and SIGTERM shut down.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		for sig := range sigCh {
			if sig == syscall.SIGHUP {
				logging.Info().Msg("Received SIGHUP, reloading snapshots")
				snapshotSvc.Trigger()
				continue
			}
			logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
			cancel()
			return
		}
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	var treeErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
		treeErr = <-errCh
	case treeErr = <-errCh:
	}
	if treeErr != nil && !errors.Is(treeErr, context.Canceled) {
		logging.Error().Err(treeErr).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Keepskip stopped")
}
