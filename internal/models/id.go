// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

package models

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
)

// ID is an opaque item identifier.
//
// The remote items table may use a bigint or a uuid primary key, so ID
// accepts both JSON numbers and JSON strings and always encodes as a string.
type ID string

// String returns the identifier text.
func (id ID) String() string {
	return string(id)
}

// UnmarshalJSON accepts "abc", 42 and null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	if _, err := strconv.ParseFloat(string(data), 64); err != nil {
		return fmt.Errorf("invalid id %s: must be a string or number", data)
	}
	*id = ID(data)
	return nil
}
