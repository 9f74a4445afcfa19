// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultPostgresImage matches the major version Supabase runs.
	DefaultPostgresImage = "postgres:15-alpine"

	// DefaultPostgresPort is the default PostgreSQL port
	DefaultPostgresPort = "5432"

	postgresUser     = "keepskip"
	postgresPassword = "keepskip"
	postgresDB       = "keepskip"
)

// PostgresContainer represents a running PostgreSQL container for testing.
type PostgresContainer struct {
	testcontainers.Container
	DatabaseURL string
}

// PostgresOption configures the PostgreSQL container.
type PostgresOption func(*postgresConfig)

type postgresConfig struct {
	image        string
	startTimeout time.Duration
}

// WithPostgresImage sets a custom PostgreSQL Docker image.
func WithPostgresImage(image string) PostgresOption {
	return func(c *postgresConfig) {
		c.image = image
	}
}

// WithStartTimeout sets the timeout for waiting for PostgreSQL to start.
func WithStartTimeout(timeout time.Duration) PostgresOption {
	return func(c *postgresConfig) {
		c.startTimeout = timeout
	}
}

// NewPostgresContainer creates and starts a new PostgreSQL container.
//
// Example:
//
//	pg, err := testinfra.NewPostgresContainer(ctx)
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer testinfra.CleanupContainer(t, ctx, pg)
//
//	store, err := postgres.New(ctx, postgres.Config{DatabaseURL: pg.DatabaseURL})
func NewPostgresContainer(ctx context.Context, opts ...PostgresOption) (*PostgresContainer, error) {
	cfg := &postgresConfig{
		image:        DefaultPostgresImage,
		startTimeout: 60 * time.Second,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	req := testcontainers.ContainerRequest{
		Image:        cfg.image,
		ExposedPorts: []string{DefaultPostgresPort + "/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     postgresUser,
			"POSTGRES_PASSWORD": postgresPassword,
			"POSTGRES_DB":       postgresDB,
		},
		// The server restarts once after init; wait for the second ready line.
		WaitingFor: wait.ForAll(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			wait.ForListeningPort(DefaultPostgresPort+"/tcp"),
		).WithStartupTimeout(cfg.startTimeout),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("create postgres container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, DefaultPostgresPort+"/tcp")
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mapped port: %w", err)
	}

	return &PostgresContainer{
		Container: container,
		DatabaseURL: fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			postgresUser, postgresPassword, host, port.Port(), postgresDB),
	}, nil
}
