// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/tomtom215/keepskip/internal/config"
	"github.com/tomtom215/keepskip/internal/datasvc/backend"
	"github.com/tomtom215/keepskip/internal/logging"
)

// openFunc opens the remote data service. Tests replace it.
type openFunc func(ctx context.Context, cfg *config.Config) (*backend.Backend, error)

// loadFunc loads configuration. Tests replace it.
type loadFunc func() (*config.Config, error)

// cli carries state shared by every subcommand.
type cli struct {
	load    loadFunc
	open    openFunc
	cfg     *config.Config
	verbose bool
	asJSON  bool
}

func newRootCmd(load loadFunc, open openFunc) *cobra.Command {
	c := &cli{load: load, open: open}

	root := &cobra.Command{
		Use:   "keepskipctl",
		Short: "Vote on trend feed items and inspect the remote data service",
		Long: `keepskipctl talks straight to the configured remote data service
(Supabase or Postgres) using the same configuration as the server.
Use it for backfills and smoke tests.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "warn"
			if c.verbose {
				level = "debug"
			}
			logging.Init(logging.Config{
				Level:  level,
				Format: "console",
				Output: cmd.ErrOrStderr(),
			})

			cfg, err := c.load()
			if err != nil {
				return err
			}
			c.cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().BoolVar(&c.asJSON, "json", false, "Print results as JSON")

	root.AddCommand(
		newVoteCmd(c),
		newSavedCmd(c),
		newPingCmd(c),
		newSchemaCmd(c),
		newVersionCmd(),
	)
	return root
}

// withBackend opens the backend for one command and closes it afterwards.
func (c *cli) withBackend(ctx context.Context, fn func(b *backend.Backend) error) error {
	b, err := c.open(ctx, c.cfg)
	if err != nil {
		return err
	}
	defer b.Close()
	return fn(b)
}

func main() {
	if err := newRootCmd(config.Load, backend.Open).Execute(); err != nil {
		os.Exit(1)
	}
}
