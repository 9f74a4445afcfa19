// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

package vote

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/tomtom215/keepskip/internal/datasvc"
)

func TestCanonicalPair(t *testing.T) {
	t.Parallel()

	if got := CanonicalPair("minimal", "logo"); got != (Pair{A: "logo", B: "minimal"}) {
		t.Errorf("CanonicalPair(minimal, logo) = %+v", got)
	}
	if CanonicalPair("a", "b") != CanonicalPair("b", "a") {
		t.Error("pair key must not depend on argument order")
	}
}

func TestPairs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		tags []string
		want []Pair
	}{
		{"nil", nil, nil},
		{"empty", []string{}, nil},
		{"single", []string{"logo"}, nil},
		{"two", []string{"minimal", "logo"}, []Pair{{"logo", "minimal"}}},
		{"three", []string{"a", "b", "c"}, []Pair{{"a", "b"}, {"a", "c"}, {"b", "c"}}},
		{"three reversed", []string{"c", "b", "a"}, []Pair{{"b", "c"}, {"a", "c"}, {"a", "b"}}},
		{"duplicate pairs positionally", []string{"logo", "logo"}, []Pair{{"logo", "logo"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Pairs(tt.tags)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Pairs(%v) = %v, want %v", tt.tags, got, tt.want)
			}
		})
	}
}

func TestPairs_CountAndCanonical(t *testing.T) {
	t.Parallel()

	for n := 0; n <= 12; n++ {
		tags := make([]string, n)
		for i := range tags {
			tags[i] = fmt.Sprintf("tag-%02d", n-i) // descending to exercise sorting
		}
		pairs := Pairs(tags)
		if want := n * (n - 1) / 2; len(pairs) != want {
			t.Errorf("n=%d: got %d pairs, want %d", n, len(pairs), want)
		}
		seen := make(map[Pair]bool)
		for _, p := range pairs {
			if p.A > p.B {
				t.Errorf("n=%d: pair %+v not canonical", n, p)
			}
			if p.A == p.B {
				t.Errorf("n=%d: distinct tags produced self pair %+v", n, p)
			}
			if seen[p] {
				t.Errorf("n=%d: pair %+v emitted twice", n, p)
			}
			seen[p] = true
		}
	}
}

func TestPolicy_Plan(t *testing.T) {
	t.Parallel()

	p := DefaultPolicy()
	tests := []struct {
		name string
		tags []string
		kind Kind
		want []datasvc.WeightOp
	}{
		{
			name: "keep two tags",
			tags: []string{"logo", "minimal"},
			kind: Keep,
			want: []datasvc.WeightOp{
				datasvc.TagOp("logo", 0.2),
				datasvc.TagOp("minimal", 0.2),
				datasvc.PairOp("logo", "minimal", 0.3),
			},
		},
		{
			name: "skip one tag",
			tags: []string{"logo"},
			kind: Skip,
			want: []datasvc.WeightOp{datasvc.TagOp("logo", -0.1)},
		},
		{
			name: "keep empty",
			tags: []string{},
			kind: Keep,
			want: nil,
		},
		{
			name: "keep nil",
			tags: nil,
			kind: Keep,
			want: nil,
		},
		{
			name: "skip never pairs",
			tags: []string{"a", "b", "c"},
			kind: Skip,
			want: []datasvc.WeightOp{
				datasvc.TagOp("a", -0.1),
				datasvc.TagOp("b", -0.1),
				datasvc.TagOp("c", -0.1),
			},
		},
		{
			name: "keep three tags",
			tags: []string{"a", "b", "c"},
			kind: Keep,
			want: []datasvc.WeightOp{
				datasvc.TagOp("a", 0.2),
				datasvc.TagOp("b", 0.2),
				datasvc.TagOp("c", 0.2),
				datasvc.PairOp("a", "b", 0.3),
				datasvc.PairOp("a", "c", 0.3),
				datasvc.PairOp("b", "c", 0.3),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := p.Plan(tt.tags, tt.kind)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Plan(%v, %s) = %+v, want %+v", tt.tags, tt.kind, got, tt.want)
			}
		})
	}
}

func TestPolicy_CustomDeltas(t *testing.T) {
	t.Parallel()

	p := Policy{KeepTagDelta: 1, SkipTagDelta: -2, KeepPairDelta: 5}
	if got := p.TagDelta(Keep); got != 1 {
		t.Errorf("TagDelta(keep) = %v, want 1", got)
	}
	if got := p.TagDelta(Skip); got != -2 {
		t.Errorf("TagDelta(skip) = %v, want -2", got)
	}
	ops := p.Plan([]string{"x", "y"}, Keep)
	if ops[2].Delta != 5 {
		t.Errorf("pair delta = %v, want 5", ops[2].Delta)
	}
}
