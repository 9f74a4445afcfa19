// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

/*
Package scheduler runs periodic jobs on robfig/cron schedules.

Two jobs are registered by the server:

  - snapshot-reload re-reads data.json and weekly.json
  - remote-health-probe pings the remote data service and sets the
    remote health gauge

Overlapping runs of the same job are skipped, and a panicking job is
recovered and logged. Every run is recorded in the scheduler job metrics.

The scheduler follows the Start/Stop lifecycle and is wrapped as a suture
service by internal/supervisor/services.
*/
package scheduler
