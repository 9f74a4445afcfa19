// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/keepskip/internal/datasvc"
	"github.com/tomtom215/keepskip/internal/datasvc/backend"
	"github.com/tomtom215/keepskip/internal/datasvc/postgres"
	"github.com/tomtom215/keepskip/internal/models"
	"github.com/tomtom215/keepskip/internal/validation"
	"github.com/tomtom215/keepskip/internal/vote"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newVoteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "vote <item-id> keep|skip",
		Short: "Record a vote and apply its preference weights",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if verr := validation.ValidateItemID(args[0]); verr != nil {
				return verr
			}
			kind, err := vote.ParseKind(args[1])
			if err != nil {
				return err
			}

			return c.withBackend(cmd.Context(), func(b *backend.Backend) error {
				svc := vote.NewService(b.Service, vote.UpdaterConfig{
					Policy: vote.Policy{
						KeepTagDelta:  c.cfg.Weights.KeepTagDelta,
						SkipTagDelta:  c.cfg.Weights.SkipTagDelta,
						KeepPairDelta: c.cfg.Weights.KeepPairDelta,
					},
					Concurrency: c.cfg.Weights.Concurrency,
					Batched:     c.cfg.IsBatched(),
				})

				res, voteErr := svc.Vote(cmd.Context(), models.ID(args[0]), kind)
				out := cmd.OutOrStdout()
				if c.asJSON {
					if err := printJSON(out, res); err != nil {
						return err
					}
				} else if res.Recorded {
					fmt.Fprintf(out, "recorded %s for item %s: %d tag updates, %d pair updates, %d failed\n",
						res.Kind, res.ItemID, res.TagCalls, res.PairCalls, res.Failed)
				}
				if voteErr != nil {
					if res.Recorded {
						return fmt.Errorf("vote recorded but weights not fully applied: %w", voteErr)
					}
					return voteErr
				}
				return nil
			})
		},
	}
}

func newSavedCmd(c *cli) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "saved",
		Short: "List items with keep votes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				limit = c.cfg.Saved.Limit
			}
			return c.withBackend(cmd.Context(), func(b *backend.Backend) error {
				reader, ok := b.Service.(datasvc.SavedItemsReader)
				if !ok {
					return fmt.Errorf("backend %s cannot list saved items", b.Name)
				}
				items, err := reader.ListKeptItems(cmd.Context(), limit)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if c.asJSON {
					if items == nil {
						items = []models.SavedItem{}
					}
					return printJSON(out, items)
				}
				for _, item := range items {
					fmt.Fprintf(out, "%s\t%s\t%s\t%s\n",
						item.VotedAt.UTC().Format(time.RFC3339), item.ID, item.Title, item.URL)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum items (default saved.limit)")
	return cmd
}

func newPingCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the remote data service is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withBackend(cmd.Context(), func(b *backend.Backend) error {
				pinger, ok := b.Service.(datasvc.Pinger)
				if !ok {
					return fmt.Errorf("backend %s has no health check", b.Name)
				}
				start := time.Now()
				if err := pinger.Ping(cmd.Context()); err != nil {
					return fmt.Errorf("%s unreachable: %w", b.Name, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ok: %s responded in %s\n",
					b.Name, time.Since(start).Round(time.Millisecond))
				return nil
			})
		},
	}
}

func newSchemaCmd(c *cli) *cobra.Command {
	var printOnly bool

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Create the tables and weighting functions (postgres backend)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if printOnly {
				_, err := io.WriteString(cmd.OutOrStdout(), postgres.Schema)
				return err
			}
			return c.withBackend(cmd.Context(), func(b *backend.Backend) error {
				if b.Postgres == nil {
					return errors.New("schema can only be applied with REMOTE_BACKEND=postgres; use --print and run it in the Supabase SQL editor")
				}
				if err := b.Postgres.EnsureSchema(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "schema applied")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&printOnly, "print", false, "Print the schema SQL instead of applying it")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the keepskipctl version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "keepskipctl version %s\n", version)
		},
	}
}
