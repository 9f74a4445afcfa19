// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

package supabase

import (
	"context"
	"net/http"
	"net/url"

	"github.com/tomtom215/keepskip/internal/datasvc"
)

type tagWeightArgs struct {
	TagName string  `json:"tag_name"`
	Delta   float64 `json:"delta"`
}

type pairWeightArgs struct {
	TagA  string  `json:"tag_a"`
	TagB  string  `json:"tag_b"`
	Delta float64 `json:"delta"`
}

type batchArgs struct {
	Ops []datasvc.WeightOp `json:"ops"`
}

// IncrementTagWeight calls the increment_tag_weight function.
func (c *Client) IncrementTagWeight(ctx context.Context, tagName string, delta float64) error {
	return c.rpc(ctx, "increment_tag_weight", tagWeightArgs{TagName: tagName, Delta: delta})
}

// IncrementPairWeight calls the increment_pair_weight function. tagA must
// sort before or equal to tagB.
func (c *Client) IncrementPairWeight(ctx context.Context, tagA, tagB string, delta float64) error {
	return c.rpc(ctx, "increment_pair_weight", pairWeightArgs{TagA: tagA, TagB: tagB, Delta: delta})
}

// ApplyWeights calls apply_weight_batch, which runs every op in one
// database transaction.
func (c *Client) ApplyWeights(ctx context.Context, ops []datasvc.WeightOp) error {
	if len(ops) == 0 {
		return nil
	}
	return c.rpc(ctx, "apply_weight_batch", batchArgs{Ops: ops})
}

// Ping performs a minimal read against the items table.
func (c *Client) Ping(ctx context.Context) error {
	return c.doRequest(ctx, requestConfig{
		op:     "ping",
		method: http.MethodGet,
		path:   "/items",
		query:  url.Values{"select": {"id"}, "limit": {"1"}},
	}, nil)
}

func (c *Client) rpc(ctx context.Context, fn string, args interface{}) error {
	return c.doRequest(ctx, requestConfig{
		op:     fn,
		method: http.MethodPost,
		path:   "/rpc/" + fn,
		body:   args,
	}, nil)
}
