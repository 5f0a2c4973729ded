// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package dataset

import "testing"

// TestParseEventCategory tests category parsing with default fallback.
func TestParseEventCategory(t *testing.T) {
	tests := []struct {
		input string
		want  EventCategory
	}{
		{"policy", CategoryPolicy},
		{"POLICY", CategoryPolicy},
		{"product_launch", CategoryProductLaunch},
		{"market_entry", CategoryMarketEntry},
		{"infrastructure", CategoryInfrastructure},
		{"interoperability", CategoryInteroperability},
		{"milestone", CategoryMilestone},
		{"something_else", CategoryMilestone}, // Default
		{"", CategoryMilestone},               // Default
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseEventCategory(tt.input); got != tt.want {
				t.Errorf("ParseEventCategory(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

// TestDirection_Sign tests the aggregation sign of each direction.
func TestDirection_Sign(t *testing.T) {
	tests := []struct {
		direction Direction
		want      float64
	}{
		{DirectionPositive, 1},
		{DirectionNegative, -1},
		{DirectionNeutral, 0},
		{Direction("bogus"), 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.direction), func(t *testing.T) {
			if got := tt.direction.Sign(); got != tt.want {
				t.Errorf("Direction(%s).Sign() = %v, want %v", tt.direction, got, tt.want)
			}
		})
	}
}

// TestParseMagnitude tests magnitude parsing with conservative default.
func TestParseMagnitude(t *testing.T) {
	tests := []struct {
		input string
		want  Magnitude
	}{
		{"low", MagnitudeLow},
		{"medium", MagnitudeMedium},
		{"high", MagnitudeHigh},
		{"very_high", MagnitudeVeryHigh},
		{"HIGH", MagnitudeHigh},
		{"unknown", MagnitudeLow}, // Default
		{"", MagnitudeLow},        // Default
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseMagnitude(tt.input); got != tt.want {
				t.Errorf("ParseMagnitude(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

// TestPillarFromCode tests pillar derivation from code prefixes.
func TestPillarFromCode(t *testing.T) {
	tests := []struct {
		code string
		want Pillar
	}{
		{"ACC_OWNERSHIP", PillarAccess},
		{"USG_DIGITAL_PAYMENT", PillarUsage},
		{"INF_AGENT_DENSITY", PillarInfrastructure},
		{"ENA_ID_COVERAGE", PillarEnabler},
		{"XYZ_UNKNOWN", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := PillarFromCode(tt.code); got != tt.want {
				t.Errorf("PillarFromCode(%q) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}

// TestParseShape tests shape parsing; unknown values mean "category default".
func TestParseShape(t *testing.T) {
	tests := []struct {
		input string
		want  Shape
	}{
		{"immediate", ShapeImmediate},
		{"gradual", ShapeGradual},
		{"saturating", ShapeSaturating},
		{"network", ShapeNetwork},
		{"Saturating", ShapeSaturating},
		{"step", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseShape(tt.input); got != tt.want {
				t.Errorf("ParseShape(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestParseRegionClass tests region parsing with conservative default.
func TestParseRegionClass(t *testing.T) {
	if got := ParseRegionClass("same_region"); got != RegionSame {
		t.Errorf("ParseRegionClass(same_region) = %s, want %s", got, RegionSame)
	}
	if got := ParseRegionClass("kenya"); got != RegionDistant {
		t.Errorf("ParseRegionClass(kenya) = %s, want %s", got, RegionDistant)
	}
}

// TestEvidenceImpact_Midpoint tests the impact range midpoint.
func TestEvidenceImpact_Midpoint(t *testing.T) {
	tests := []struct {
		name     string
		min, max float64
		want     float64
	}{
		{"symmetric", 2, 6, 4},
		{"zero_width", 3, 3, 3},
		{"negative_min", -2, 4, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			imp := EvidenceImpact{MinPP: tt.min, MaxPP: tt.max}
			if got := imp.Midpoint(); got != tt.want {
				t.Errorf("Midpoint(%v, %v) = %v, want %v", tt.min, tt.max, got, tt.want)
			}
		})
	}
}
