// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package expr

import (
	"math"
	"strings"
	"testing"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		text string
		want float64
	}{
		{"3", 3},
		{"-5", -5},
		{"1.5", 1.5},
		{"007", 7},
		{"1.", 1},
		{"1.2.3", 1.2},
		{"1..2", 1},
		{"-0.25", -0.25},
	}
	for _, tt := range tests {
		if got := ParseNumber(tt.text); got != tt.want {
			t.Errorf("ParseNumber(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}

	huge := "1" + strings.Repeat("0", 400)
	if got := ParseNumber(huge); !math.IsInf(got, 1) {
		t.Errorf("ParseNumber(1e400) = %v, want +Inf", got)
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		n    float64
		want string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{6, "6"},
		{-4, "-4"},
		{3.5, "3.5"},
		{0.1 + 0.2, "0.30000000000000004"},
		{1e20, "100000000000000000000"},
		{1e21, "1e+21"},
		{1.5e-7, "1.5e-7"},
		{0.000001, "0.000001"},
		{math.Inf(1), "Infinity"},
		{math.Inf(-1), "-Infinity"},
		{math.NaN(), "NaN"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.n); got != tt.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
