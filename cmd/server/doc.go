// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

/*
Package main is the Keepskip server.

Keepskip serves a daily trend feed and records keep/skip votes on its
items. Every vote is stored in the remote data service (Supabase over
PostgREST, or Postgres directly) and adjusts the preference weights of
the item's tags and tag pairs, which the offline ranking job reads on
its next run.

# Startup

 1. Configuration: koanf defaults, optional config.yaml, then environment
 2. Logging: zerolog, JSON or console
 3. Remote data service, wrapped in a circuit breaker for Supabase
 4. Vote service, snapshot store, saved-items cache, scheduled jobs
 5. chi router and HTTP server
 6. suture supervisor tree (data, jobs and api layers)

# Signals

	SIGINT, SIGTERM  graceful shutdown, in-flight votes finish first
	SIGHUP           reload data.json and weekly.json

# Example

	export SUPABASE_URL=https://xyz.supabase.co
	export SUPABASE_ANON_KEY=...
	export FEED_PATH=/srv/trends/data.json
	export WEEKLY_PATH=/srv/trends/weekly.json
	./keepskip

Direct Postgres:

	export REMOTE_BACKEND=postgres
	export DATABASE_URL=postgres://keepskip@db/keepskip
	./keepskip
*/
package main
