// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Level != "info" {
		t.Errorf("expected default level 'info', got '%s'", cfg.Level)
	}
	if cfg.Format != "json" {
		t.Errorf("expected default format 'json', got '%s'", cfg.Format)
	}
	if cfg.Caller {
		t.Error("expected default caller to be false")
	}
	if !cfg.Timestamp {
		t.Error("expected default timestamp to be true")
	}
}

func TestInit(t *testing.T) {
	var buf bytes.Buffer

	Init(Config{
		Level:     "debug",
		Format:    "json",
		Timestamp: true,
		Output:    &buf,
	})
	defer Init(DefaultConfig())

	Info().Str("item_id", "42").Msg("vote recorded")

	output := buf.String()
	if !strings.Contains(output, "vote recorded") {
		t.Errorf("expected output to contain message, got: %s", output)
	}
	if !strings.Contains(output, `"level":"info"`) {
		t.Errorf("expected output to contain level, got: %s", output)
	}
	if !strings.Contains(output, `"item_id":"42"`) {
		t.Errorf("expected output to contain field, got: %s", output)
	}
}

func TestInit_LevelFilters(t *testing.T) {
	var buf bytes.Buffer

	Init(Config{Level: "warn", Output: &buf})
	defer Init(DefaultConfig())

	Info().Msg("hidden")
	Warn().Msg("shown")

	output := buf.String()
	if strings.Contains(output, "hidden") {
		t.Errorf("info message should be filtered at warn level: %s", output)
	}
	if !strings.Contains(output, "shown") {
		t.Errorf("warn message missing: %s", output)
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"disabled", zerolog.Disabled},
		{"DEBUG", zerolog.DebugLevel},
		{" info ", zerolog.InfoLevel},
		{"invalid", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := parseLevel(tt.input); got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestValidLevel(t *testing.T) {
	t.Parallel()

	for _, level := range []string{"trace", "debug", "INFO", "warn", "error", "off"} {
		if !ValidLevel(level) {
			t.Errorf("ValidLevel(%q) = false, want true", level)
		}
	}
	for _, level := range []string{"", "verbose", "panic!"} {
		if ValidLevel(level) {
			t.Errorf("ValidLevel(%q) = true, want false", level)
		}
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(NewTestLogger(&buf))
	defer Init(DefaultConfig())
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	l := WithComponent("scheduler")
	l.Info().Msg("started")

	if !strings.Contains(buf.String(), `"component":"scheduler"`) {
		t.Errorf("expected component field, got: %s", buf.String())
	}
}

func TestRedactSecret(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"short", "abc123", "***"},
		{"long", "sb_publishable_abcdefghijkl", "sb_p...ijkl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := RedactSecret(tt.input); got != tt.want {
				t.Errorf("RedactSecret(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
