// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

package vote

import (
	"errors"
	"fmt"
)

// Kind is the closed set of vote decisions.
type Kind string

const (
	Keep Kind = "keep"
	Skip Kind = "skip"
)

// ErrInvalidKind is returned for anything other than "keep" or "skip".
var ErrInvalidKind = errors.New("invalid vote kind")

// ParseKind converts the literal "keep" or "skip" into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q (want keep or skip)", ErrInvalidKind, s)
	}
	return k, nil
}

// Valid reports whether k is Keep or Skip.
func (k Kind) Valid() bool {
	return k == Keep || k == Skip
}

func (k Kind) String() string {
	return string(k)
}
