// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

// Package postgres implements the remote data service with a direct pgx
// connection pool to the database behind the Supabase project.
//
// It calls the same SQL functions as the PostgREST backend. Weight batches
// run inside one transaction.
package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tomtom215/keepskip/internal/datasvc"
	"github.com/tomtom215/keepskip/internal/metrics"
	"github.com/tomtom215/keepskip/internal/models"
)

// Schema creates the tables and weighting functions. It is idempotent.
//
//go:embed schema.sql
var Schema string

const backendName = "postgres"

// Config configures a Store.
type Config struct {
	DatabaseURL string
	MaxConns    int32
}

// Store is a pgx-backed datasvc implementation.
type Store struct {
	pool *pgxpool.Pool
}

var (
	_ datasvc.Service          = (*Store)(nil)
	_ datasvc.SavedItemsReader = (*Store)(nil)
	_ datasvc.BatchApplier     = (*Store)(nil)
	_ datasvc.Pinger           = (*Store)(nil)
)

// New opens a connection pool. The pool connects lazily; call Ping to
// verify the database is reachable.
func New(ctx context.Context, cfg Config) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	return &Store{pool: pool}, nil
}

// NewFromPool wraps an existing pool.
func NewFromPool(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close releases every pooled connection.
func (s *Store) Close() {
	s.pool.Close()
}

// EnsureSchema applies Schema.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Ping checks that a connection can be acquired and used.
func (s *Store) Ping(ctx context.Context) error {
	return s.observe(ctx, "ping", func(ctx context.Context) error {
		return s.pool.Ping(ctx)
	})
}

// InsertVote appends a vote. The item must exist; an unknown id fails with
// datasvc.ErrNotFound and records nothing.
func (s *Store) InsertVote(ctx context.Context, itemID models.ID, voteType string) error {
	return s.observe(ctx, "insert_vote", func(ctx context.Context) error {
		tag, err := s.pool.Exec(ctx,
			`INSERT INTO votes (item_id, vote_type)
			 SELECT id, $2 FROM items WHERE id::text = $1`,
			itemID.String(), voteType)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("item %s: %w", itemID, datasvc.ErrNotFound)
		}
		return nil
	})
}

// GetItemTags reads the tags of one item.
func (s *Store) GetItemTags(ctx context.Context, itemID models.ID) (datasvc.ItemTags, error) {
	var tags []string
	err := s.observe(ctx, "get_item_tags", func(ctx context.Context) error {
		err := s.pool.QueryRow(ctx, `SELECT tags FROM items WHERE id::text = $1`, itemID.String()).Scan(&tags)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("item %s: %w", itemID, datasvc.ErrNotFound)
		}
		return err
	})
	if err != nil {
		return datasvc.ItemTags{}, err
	}
	return datasvc.ItemTags{Tags: tags}, nil
}

// IncrementTagWeight calls increment_tag_weight.
func (s *Store) IncrementTagWeight(ctx context.Context, tagName string, delta float64) error {
	return s.observe(ctx, "increment_tag_weight", func(ctx context.Context) error {
		_, err := s.pool.Exec(ctx, `SELECT increment_tag_weight($1, $2)`, tagName, delta)
		return err
	})
}

// IncrementPairWeight calls increment_pair_weight. tagA must sort before or
// equal to tagB.
func (s *Store) IncrementPairWeight(ctx context.Context, tagA, tagB string, delta float64) error {
	return s.observe(ctx, "increment_pair_weight", func(ctx context.Context) error {
		_, err := s.pool.Exec(ctx, `SELECT increment_pair_weight($1, $2, $3)`, tagA, tagB, delta)
		return err
	})
}

// ApplyWeights runs every op in one transaction: all apply or none do.
func (s *Store) ApplyWeights(ctx context.Context, ops []datasvc.WeightOp) error {
	if len(ops) == 0 {
		return nil
	}
	return s.observe(ctx, "apply_weight_batch", func(ctx context.Context) error {
		return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
			batch := &pgx.Batch{}
			for _, op := range ops {
				switch op.Target {
				case datasvc.TargetPair:
					batch.Queue(`SELECT increment_pair_weight($1, $2, $3)`, op.TagA, op.TagB, op.Delta)
				case datasvc.TargetTag:
					batch.Queue(`SELECT increment_tag_weight($1, $2)`, op.TagA, op.Delta)
				default:
					return fmt.Errorf("unknown weight target %q", op.Target)
				}
			}

			br := tx.SendBatch(ctx, batch)
			for i := range ops {
				if _, err := br.Exec(); err != nil {
					_ = br.Close()
					return fmt.Errorf("op %d: %w", i, err)
				}
			}
			return br.Close()
		})
	})
}

// ListKeptItems returns items with at least one keep vote, ordered by their
// newest keep vote.
func (s *Store) ListKeptItems(ctx context.Context, limit int) ([]models.SavedItem, error) {
	if limit <= 0 {
		limit = 1000
	}

	var saved []models.SavedItem
	err := s.observe(ctx, "list_kept_items", func(ctx context.Context) error {
		rows, err := s.pool.Query(ctx, `
			SELECT i.id::text, i.url, i.title,
			       coalesce(i.source, ''), coalesce(i.image_url, ''),
			       coalesce(i.tags, '{}'), coalesce(i.pub_date::text, ''),
			       coalesce(i.summary, ''), i.cluster_score, k.voted_at
			FROM (
			    SELECT item_id, max(voted_at) AS voted_at
			    FROM votes WHERE vote_type = 'keep'
			    GROUP BY item_id
			) k
			JOIN items i ON i.id = k.item_id
			ORDER BY k.voted_at DESC
			LIMIT $1`, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		saved = make([]models.SavedItem, 0, limit)
		for rows.Next() {
			var it models.SavedItem
			var id string
			if err := rows.Scan(&id, &it.URL, &it.Title, &it.Source, &it.ImageURL,
				&it.Tags, &it.PubDate, &it.Summary, &it.ClusterScore, &it.VotedAt); err != nil {
				return err
			}
			it.ID = models.ID(id)
			saved = append(saved, it)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// observe times fn, records metrics and converts failures into
// *datasvc.ServiceError. ErrNotFound passes through unchanged.
func (s *Store) observe(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	metrics.RecordRemoteCall(backendName, op, time.Since(start), err)

	if err == nil || errors.Is(err, datasvc.ErrNotFound) {
		return err
	}
	return &datasvc.ServiceError{Op: op, Err: err}
}
