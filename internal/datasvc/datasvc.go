// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

// Package datasvc defines the contract of the hosted data service that
// stores votes, item tags and preference weights.
//
// The core contract is four operations (Service). Backends may offer extra
// capabilities through the optional interfaces SavedItemsReader,
// BatchApplier and Pinger; callers detect them with a type assertion.
//
// Implementations:
//   - supabase: PostgREST over HTTP with a circuit breaker
//   - postgres: direct pgx pool calling the same SQL functions
package datasvc

import (
	"context"

	"github.com/tomtom215/keepskip/internal/models"
)

// Service is the remote contract consumed by the vote path.
type Service interface {
	// InsertVote appends one vote record.
	InsertVote(ctx context.Context, itemID models.ID, voteType string) error

	// GetItemTags returns the tags of an item. It fails with ErrNotFound
	// when the item does not exist.
	GetItemTags(ctx context.Context, itemID models.ID) (ItemTags, error)

	// IncrementTagWeight adds delta to the weight of one tag.
	IncrementTagWeight(ctx context.Context, tagName string, delta float64) error

	// IncrementPairWeight adds delta to the weight of a tag pair.
	// Callers guarantee tagA <= tagB.
	IncrementPairWeight(ctx context.Context, tagA, tagB string, delta float64) error
}

// ItemTags is the recognized shape of an item tag lookup.
type ItemTags struct {
	Tags []string `json:"tags"`
}

// SavedItemsReader lists items the user voted keep, newest vote first.
type SavedItemsReader interface {
	ListKeptItems(ctx context.Context, limit int) ([]models.SavedItem, error)
}

// BatchApplier applies a set of weight operations as one transaction.
type BatchApplier interface {
	ApplyWeights(ctx context.Context, ops []WeightOp) error
}

// Pinger reports whether the backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Weight operation targets.
const (
	TargetTag  = "tag"
	TargetPair = "pair"
)

// WeightOp is one additive weight change. TagB is empty for tag ops.
type WeightOp struct {
	Target string  `json:"target"`
	TagA   string  `json:"tag_a"`
	TagB   string  `json:"tag_b,omitempty"`
	Delta  float64 `json:"delta"`
}

// TagOp builds a tag weight operation.
func TagOp(tag string, delta float64) WeightOp {
	return WeightOp{Target: TargetTag, TagA: tag, Delta: delta}
}

// PairOp builds a pair weight operation. a and b must already be in
// canonical order.
func PairOp(a, b string, delta float64) WeightOp {
	return WeightOp{Target: TargetPair, TagA: a, TagB: b, Delta: delta}
}
