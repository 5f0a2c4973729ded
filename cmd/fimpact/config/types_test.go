// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/fi-impact/cmd/fimpact/internal/dataset"
	"github.com/AleutianAI/fi-impact/cmd/fimpact/internal/estimator"
)

// TestDefaultConfig tests that the shipped config mirrors the estimator
// defaults.
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Magnitudes["very_high"] != 0.12 {
		t.Errorf("very_high weight = %v, want 0.12", cfg.Magnitudes["very_high"])
	}
	if cfg.Shapes.DecayLambda != 0.10 {
		t.Errorf("DecayLambda = %v, want 0.10", cfg.Shapes.DecayLambda)
	}
	if cfg.ContextFactors["same_region"] != 0.7 {
		t.Errorf("same_region factor = %v, want 0.7", cfg.ContextFactors["same_region"])
	}
	if cfg.CategoryShapes["interoperability"] != "network" {
		t.Errorf("interoperability shape = %q, want network", cfg.CategoryShapes["interoperability"])
	}
	if cfg.AcceptanceErrorPct != 0.5 || cfg.HighConfidence != 0.8 {
		t.Errorf("thresholds = %v/%v, want 0.5/0.8", cfg.AcceptanceErrorPct, cfg.HighConfidence)
	}
	if cfg.HistoryDB == "" {
		t.Error("HistoryDB is empty")
	}
}

// TestToEstimator_Defaults tests that an empty on-disk config falls back
// to the full estimator defaults.
func TestToEstimator_Defaults(t *testing.T) {
	var empty FimpactConfig
	got := empty.ToEstimator()
	want := estimator.DefaultConfig()

	if got.Shapes != want.Shapes {
		t.Errorf("Shapes = %+v, want defaults %+v", got.Shapes, want.Shapes)
	}
	if got.MagnitudeWeights[dataset.MagnitudeHigh] != want.MagnitudeWeights[dataset.MagnitudeHigh] {
		t.Errorf("high weight = %v, want %v",
			got.MagnitudeWeights[dataset.MagnitudeHigh], want.MagnitudeWeights[dataset.MagnitudeHigh])
	}
	if got.AcceptanceErrorPct != want.AcceptanceErrorPct {
		t.Errorf("AcceptanceErrorPct = %v, want %v", got.AcceptanceErrorPct, want.AcceptanceErrorPct)
	}
}

// TestToEstimator_Overrides tests that edited sections win over defaults
// while untouched sections keep theirs.
func TestToEstimator_Overrides(t *testing.T) {
	cfg := FimpactConfig{
		Magnitudes:         map[string]float64{"low": 0.01, "medium": 0.03, "high": 0.06, "very_high": 0.10},
		AcceptanceErrorPct: 0.25,
	}
	got := cfg.ToEstimator()

	if got.MagnitudeWeights[dataset.MagnitudeVeryHigh] != 0.10 {
		t.Errorf("very_high weight = %v, want overridden 0.10",
			got.MagnitudeWeights[dataset.MagnitudeVeryHigh])
	}
	if got.AcceptanceErrorPct != 0.25 {
		t.Errorf("AcceptanceErrorPct = %v, want 0.25", got.AcceptanceErrorPct)
	}
	// Shapes untouched: defaults survive.
	if got.Shapes != estimator.DefaultConfig().Shapes {
		t.Errorf("Shapes = %+v, want defaults", got.Shapes)
	}
}

// TestConfig_YAMLRoundTrip tests that the on-disk form survives
// marshal/unmarshal, the same path the loader takes on first run.
func TestConfig_YAMLRoundTrip(t *testing.T) {
	orig := DefaultConfig()
	data, err := yaml.Marshal(orig)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back FimpactConfig
	if err := yaml.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if back.Shapes != orig.Shapes {
		t.Errorf("Shapes = %+v, want %+v", back.Shapes, orig.Shapes)
	}
	if back.Magnitudes["medium"] != orig.Magnitudes["medium"] {
		t.Errorf("medium weight = %v, want %v", back.Magnitudes["medium"], orig.Magnitudes["medium"])
	}
	if len(back.CategoryProfiles) != len(orig.CategoryProfiles) {
		t.Errorf("profiles = %d, want %d", len(back.CategoryProfiles), len(orig.CategoryProfiles))
	}
	if back.HistoryDB != orig.HistoryDB {
		t.Errorf("HistoryDB = %q, want %q", back.HistoryDB, orig.HistoryDB)
	}
}
