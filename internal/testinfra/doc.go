// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

// Package testinfra provides test infrastructure for integration testing with containers.
//
// This package uses testcontainers-go to manage Docker containers for integration tests.
//
// # PostgreSQL Container
//
// PostgresContainer runs a real PostgreSQL server for the pgx data service
// backend:
//
//	func TestStoreRoundTrip(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    pg, err := testinfra.NewPostgresContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, pg)
//	    // connect with pg.DatabaseURL
//	}
//
// # Build Tags
//
// Everything here is compiled only with the integration tag:
//
//	go test -tags integration ./...
//
// Tests are skipped gracefully if Docker is unavailable.
package testinfra
