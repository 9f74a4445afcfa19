// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

/*
Package services adapts Keepskip components to suture's Serve pattern.

	HTTPServerService  ListenAndServe/Shutdown of the API server
	SchedulerService   Start/Stop of the cron job scheduler
	SnapshotService    initial snapshot load plus on-demand reloads

Every wrapper returns ctx.Err() on a requested shutdown and a wrapped
error on failure, which suture answers with a restart.
*/
package services
