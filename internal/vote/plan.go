// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

package vote

import (
	"github.com/tomtom215/keepskip/internal/datasvc"
)

// Pair is a canonical tag pair: A <= B.
type Pair struct {
	A string
	B string
}

// CanonicalPair orders two tags lexicographically.
func CanonicalPair(x, y string) Pair {
	if y < x {
		x, y = y, x
	}
	return Pair{A: x, B: y}
}

// Pairs enumerates every position pair i < j of tags exactly once, in
// canonical order. Duplicate values are not collapsed.
func Pairs(tags []string) []Pair {
	n := len(tags)
	if n < 2 {
		return nil
	}
	out := make([]Pair, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			out = append(out, CanonicalPair(tags[i], tags[j]))
		}
	}
	return out
}

// Policy holds the additive deltas applied per vote.
type Policy struct {
	KeepTagDelta  float64
	SkipTagDelta  float64
	KeepPairDelta float64
}

// DefaultPolicy returns +0.2 per tag on keep, -0.1 per tag on skip and
// +0.3 per pair on keep.
func DefaultPolicy() Policy {
	return Policy{
		KeepTagDelta:  0.2,
		SkipTagDelta:  -0.1,
		KeepPairDelta: 0.3,
	}
}

// TagDelta returns the per-tag delta for kind.
func (p Policy) TagDelta(kind Kind) float64 {
	if kind == Keep {
		return p.KeepTagDelta
	}
	return p.SkipTagDelta
}

// TagDeltas returns one tag operation per entry of tags, in list order.
func (p Policy) TagDeltas(tags []string, kind Kind) []datasvc.WeightOp {
	if len(tags) == 0 {
		return nil
	}
	delta := p.TagDelta(kind)
	ops := make([]datasvc.WeightOp, 0, len(tags))
	for _, tag := range tags {
		ops = append(ops, datasvc.TagOp(tag, delta))
	}
	return ops
}

// Plan returns every weight operation a vote produces: tag ops first,
// then pair ops for keep votes.
func (p Policy) Plan(tags []string, kind Kind) []datasvc.WeightOp {
	ops := p.TagDeltas(tags, kind)
	if kind != Keep {
		return ops
	}
	for _, pair := range Pairs(tags) {
		ops = append(ops, datasvc.PairOp(pair.A, pair.B, p.KeepPairDelta))
	}
	return ops
}
