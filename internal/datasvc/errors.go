// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

package datasvc

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a requested item does not exist.
	ErrNotFound = errors.New("not found")

	// ErrCircuitOpen is wrapped by ServiceError when the circuit breaker
	// rejects a call without reaching the backend.
	ErrCircuitOpen = errors.New("circuit breaker open")
)

// ServiceError describes a failed remote call.
type ServiceError struct {
	Op         string // contract operation, e.g. "increment_tag_weight"
	StatusCode int    // HTTP status, 0 when no response was received
	Message    string
	Err        error
}

func (e *ServiceError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is or wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnavailable reports whether err comes from an open circuit breaker.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrCircuitOpen)
}
