// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

package models

// WeeklyReport is the precomputed weekly intelligence snapshot (weekly.json).
type WeeklyReport struct {
	Patterns    []Pattern `json:"patterns"`
	Concepts    []Concept `json:"concepts"`
	GeneratedAt string    `json:"generated_at"`
}

// Pattern is one emerging engagement pattern.
type Pattern struct {
	PatternTitle string          `json:"pattern_title"`
	Evidence     PatternEvidence `json:"evidence"`
	Direction    string          `json:"direction"`
	Action       string          `json:"action"`
}

// PatternEvidence backs a Pattern with keep counts for its tag.
// Rate is a percentage rounded to one decimal.
type PatternEvidence struct {
	Tag     string         `json:"tag"`
	Kept    int            `json:"kept"`
	Seen    int            `json:"seen"`
	Rate    float64        `json:"rate"`
	CoTags  []string       `json:"co_tags"`
	Sources map[string]int `json:"sources,omitempty"`
}

// Concept is a generated tee design concept.
type Concept struct {
	ConceptName    string   `json:"concept_name"`
	FrontPlacement string   `json:"front_placement"`
	BackPlacement  string   `json:"back_placement"`
	SleeveDetail   string   `json:"sleeve_detail"`
	Motifs         string   `json:"motifs"`
	Slogans        []string `json:"slogans"`
	PrintStyle     string   `json:"print_style"`
	Colorways      string   `json:"colorways"`
}
