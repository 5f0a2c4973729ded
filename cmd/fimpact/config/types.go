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
	"github.com/AleutianAI/fi-impact/cmd/fimpact/internal/dataset"
	"github.com/AleutianAI/fi-impact/cmd/fimpact/internal/estimator"
)

// FimpactConfig is the on-disk configuration. All estimator tunables are
// named parameters here; nothing is recomputed per event.
type FimpactConfig struct {
	// Magnitudes maps categorical magnitude names to numeric weights.
	Magnitudes map[string]float64 `yaml:"magnitudes"`

	// Shapes holds the fixed per-shape curve constants.
	Shapes estimator.ShapeConstants `yaml:"shapes"`

	// ContextFactors scales comparable-country evidence by region class.
	ContextFactors map[string]float64 `yaml:"context_factors"`

	// CategoryShapes sets the default curve shape per event category.
	CategoryShapes map[string]string `yaml:"category_shapes"`

	// CategoryProfiles are the inferred-tier defaults per category.
	CategoryProfiles map[string]estimator.CategoryProfile `yaml:"category_profiles"`

	// AcceptanceErrorPct is the backtest acceptance threshold (fraction).
	AcceptanceErrorPct float64 `yaml:"acceptance_error_pct"`

	// HighConfidence is the floor for the high-confidence judgement band.
	HighConfidence float64 `yaml:"high_confidence"`

	// LogDir enables file logging when set.
	LogDir string `yaml:"log_dir"`

	// HistoryDB is the sqlite run-log path used by --save and history.
	HistoryDB string `yaml:"history_db"`
}

// DefaultConfig returns the shipped configuration, mirroring the
// estimator defaults.
func DefaultConfig() FimpactConfig {
	est := estimator.DefaultConfig()

	magnitudes := make(map[string]float64, len(est.MagnitudeWeights))
	for m, w := range est.MagnitudeWeights {
		magnitudes[string(m)] = w
	}
	factors := make(map[string]float64, len(est.ContextFactors))
	for r, f := range est.ContextFactors {
		factors[string(r)] = f
	}
	shapes := make(map[string]string, len(est.CategoryShapes))
	for c, s := range est.CategoryShapes {
		shapes[string(c)] = string(s)
	}
	profiles := make(map[string]estimator.CategoryProfile, len(est.CategoryProfiles))
	for c, p := range est.CategoryProfiles {
		profiles[string(c)] = p
	}

	return FimpactConfig{
		Magnitudes:         magnitudes,
		Shapes:             est.Shapes,
		ContextFactors:     factors,
		CategoryShapes:     shapes,
		CategoryProfiles:   profiles,
		AcceptanceErrorPct: est.AcceptanceErrorPct,
		HighConfidence:     est.HighConfidence,
		HistoryDB:          "~/.fimpact/history.db",
	}
}

// ToEstimator converts the on-disk form to the typed estimator config.
// Missing sections fall back to estimator defaults, so a hand-edited
// partial config still yields a complete run.
func (c FimpactConfig) ToEstimator() estimator.Config {
	out := estimator.DefaultConfig()

	if len(c.Magnitudes) > 0 {
		out.MagnitudeWeights = make(map[dataset.Magnitude]float64, len(c.Magnitudes))
		for m, w := range c.Magnitudes {
			out.MagnitudeWeights[dataset.Magnitude(m)] = w
		}
	}
	if c.Shapes != (estimator.ShapeConstants{}) {
		out.Shapes = c.Shapes
	}
	if len(c.ContextFactors) > 0 {
		out.ContextFactors = make(map[dataset.RegionClass]float64, len(c.ContextFactors))
		for r, f := range c.ContextFactors {
			out.ContextFactors[dataset.RegionClass(r)] = f
		}
	}
	if len(c.CategoryShapes) > 0 {
		out.CategoryShapes = make(map[dataset.EventCategory]dataset.Shape, len(c.CategoryShapes))
		for cat, s := range c.CategoryShapes {
			out.CategoryShapes[dataset.EventCategory(cat)] = dataset.Shape(s)
		}
	}
	if len(c.CategoryProfiles) > 0 {
		out.CategoryProfiles = make(map[dataset.EventCategory]estimator.CategoryProfile, len(c.CategoryProfiles))
		for cat, p := range c.CategoryProfiles {
			out.CategoryProfiles[dataset.EventCategory(cat)] = p
		}
	}
	if c.AcceptanceErrorPct > 0 {
		out.AcceptanceErrorPct = c.AcceptanceErrorPct
	}
	if c.HighConfidence > 0 {
		out.HighConfidence = c.HighConfidence
	}
	return out
}
