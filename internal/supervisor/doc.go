// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

/*
Package supervisor runs Keepskip's long-lived services under suture v4.

The tree has three layers so one failing layer restarts alone:

	RootSupervisor ("keepskip")
	├── DataSupervisor ("data-layer")
	│   └── SnapshotService
	├── JobsSupervisor ("jobs-layer")
	│   └── SchedulerService (snapshot refresh, remote health probe)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Supervisor events (start, failure, backoff, restart) are logged through
sutureslog, which writes to the slog adapter over zerolog.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewSnapshotService(store))
	tree.AddJobService(services.NewSchedulerService(sched))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

Wrappers for each component live in the services subpackage.
*/
package supervisor
