// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestGenerateCorrelationID(t *testing.T) {
	t.Parallel()

	id1 := GenerateCorrelationID()
	id2 := GenerateCorrelationID()

	if len(id1) != 8 {
		t.Errorf("expected correlation ID length 8, got %d", len(id1))
	}
	if id1 == id2 {
		t.Error("expected unique correlation IDs")
	}
}

func TestContextIDs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if got := CorrelationIDFromContext(ctx); got != "" {
		t.Errorf("expected empty correlation ID, got %q", got)
	}
	if got := RequestIDFromContext(ctx); got != "" {
		t.Errorf("expected empty request ID, got %q", got)
	}

	ctx = ContextWithCorrelationID(ctx, "abcd1234")
	ctx = ContextWithRequestID(ctx, "req-1")

	if got := CorrelationIDFromContext(ctx); got != "abcd1234" {
		t.Errorf("expected correlation ID abcd1234, got %q", got)
	}
	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Errorf("expected request ID req-1, got %q", got)
	}

	ctx = ContextWithNewCorrelationID(ctx)
	if got := CorrelationIDFromContext(ctx); got == "abcd1234" || len(got) != 8 {
		t.Errorf("expected a new correlation ID, got %q", got)
	}
}

func TestCtx_AddsContextFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), NewTestLogger(&buf))
	ctx = ContextWithRequestID(ctx, "req-42")
	ctx = ContextWithCorrelationID(ctx, "corr0001")

	Ctx(ctx).Info().Msg("handled")

	output := buf.String()
	if !strings.Contains(output, `"request_id":"req-42"`) {
		t.Errorf("expected request_id field, got: %s", output)
	}
	if !strings.Contains(output, `"correlation_id":"corr0001"`) {
		t.Errorf("expected correlation_id field, got: %s", output)
	}
}

func TestCtx_FallsBackToGlobalLogger(t *testing.T) {
	t.Parallel()

	l := Ctx(context.Background())
	if l == nil {
		t.Fatal("Ctx() returned nil")
	}
	// Must not panic without any context values.
	l.Debug().Msg("no context fields")
}
