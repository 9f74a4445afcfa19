// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

package scheduler

import (
	"context"
	"time"

	"github.com/tomtom215/keepskip/internal/logging"
	"github.com/tomtom215/keepskip/internal/metrics"
)

// Job names.
const (
	JobSnapshotReload = "snapshot-reload"
	JobHealthProbe    = "remote-health-probe"
)

// Reloader is satisfied by *snapshot.Store.
type Reloader interface {
	Reload(ctx context.Context) error
}

// Pinger is satisfied by remote backends that support a health check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SnapshotReloadJob re-reads the feed and weekly snapshots.
func SnapshotReloadJob(schedule string, store Reloader) Job {
	return Job{
		Name:     JobSnapshotReload,
		Schedule: schedule,
		Run:      store.Reload,
	}
}

// HealthProbeJob pings the remote backend and publishes the result to the
// remote health gauge.
func HealthProbeJob(schedule string, timeout time.Duration, pinger Pinger) Job {
	return Job{
		Name:     JobHealthProbe,
		Schedule: schedule,
		Timeout:  timeout,
		Run: func(ctx context.Context) error {
			err := pinger.Ping(ctx)
			metrics.SetRemoteHealthy(err == nil)
			if err != nil {
				logging.Ctx(ctx).Warn().Err(err).Msg("Remote data service health probe failed")
			}
			return err
		},
	}
}
