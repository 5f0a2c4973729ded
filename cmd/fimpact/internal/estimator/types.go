// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package estimator

import (
	"time"

	"github.com/AleutianAI/fi-impact/cmd/fimpact/internal/dataset"
)

// EstimateAlgorithmVersion is the version of the estimation algorithm.
// Increment when making changes that affect estimate values.
const EstimateAlgorithmVersion = "1.0"

// APIVersion is the JSON output API version.
const APIVersion = "1.0"

// Exit codes for estimation runs.
const (
	ExitSuccess = 0 // Clean run
	ExitPartial = 1 // Run completed but some records were rejected
	ExitError   = 2 // Run failed (bad inputs, I/O error)
)

// Confidence bands per evidence tier. Direct links carry their declared
// confidence (>= 0.8 by convention); derived tiers are clamped into a band.
const (
	ComparableConfidenceMin = 0.5
	ComparableConfidenceMax = 0.8
	InferredConfidenceMin   = 0.3
	InferredConfidenceMax   = 0.5
)

// daysPerMonth converts calendar spans to fractional months when
// evaluating the impact curves. Mean Gregorian month.
const daysPerMonth = 30.4375

// Tier identifies which evidence tier resolved a contribution.
type Tier string

const (
	TierDirect     Tier = "direct"
	TierComparable Tier = "comparable"
	TierInferred   Tier = "inferred"
)

// ShapeConstants are the fixed per-shape curve parameters. They are
// configuration, not recomputed per event.
type ShapeConstants struct {
	// DecayLambda is the monthly decay rate of the immediate shape.
	DecayLambda float64 `yaml:"decay_lambda"`

	// GrowthK is the monthly buildup rate of the gradual shape.
	GrowthK float64 `yaml:"growth_k"`

	// SaturationK is the logistic steepness of the saturating shape.
	SaturationK float64 `yaml:"saturation_k"`

	// MidpointMonths centers the saturating logistic after onset.
	MidpointMonths float64 `yaml:"midpoint_months"`

	// NetworkTauMonths scales the network sqrt curve; the curve reaches
	// the full magnitude tau months after onset.
	NetworkTauMonths float64 `yaml:"network_tau_months"`
}

// ProfileImpact is one default indicator effect in a category profile.
type ProfileImpact struct {
	IndicatorCode string            `yaml:"indicator_code"`
	Magnitude     dataset.Magnitude `yaml:"magnitude"`
	LagMonths     int               `yaml:"lag_months"`
}

// CategoryProfile is the inferred-tier fallback for an event category:
// the effects assumed when neither links nor comparable evidence exist.
type CategoryProfile struct {
	Impacts    []ProfileImpact `yaml:"impacts"`
	Confidence float64         `yaml:"confidence"`
}

// Config holds the estimator configuration.
//
// # Fields
//
//   - MagnitudeWeights: categorical magnitude -> numeric weight.
//   - Shapes: fixed curve constants.
//   - ContextFactors: region class -> applicability scaling for
//     comparable-country evidence.
//   - CategoryShapes: default curve shape per event category.
//   - CategoryProfiles: inferred-tier defaults per event category.
//   - AcceptanceErrorPct: backtest acceptance threshold (fraction).
//   - HighConfidence: confidence floor for "high confidence" judgement.
type Config struct {
	MagnitudeWeights   map[dataset.Magnitude]float64
	Shapes             ShapeConstants
	ContextFactors     map[dataset.RegionClass]float64
	CategoryShapes     map[dataset.EventCategory]dataset.Shape
	CategoryProfiles   map[dataset.EventCategory]CategoryProfile
	AcceptanceErrorPct float64
	HighConfidence     float64
}

// DefaultConfig returns a Config with the standard constants.
func DefaultConfig() Config {
	return Config{
		MagnitudeWeights: map[dataset.Magnitude]float64{
			dataset.MagnitudeLow:      0.02,
			dataset.MagnitudeMedium:   0.05,
			dataset.MagnitudeHigh:     0.08,
			dataset.MagnitudeVeryHigh: 0.12,
		},
		Shapes: ShapeConstants{
			DecayLambda:      0.10,
			GrowthK:          0.12,
			SaturationK:      0.30,
			MidpointMonths:   12,
			NetworkTauMonths: 12,
		},
		ContextFactors: map[dataset.RegionClass]float64{
			dataset.RegionSame:    0.7,
			dataset.RegionDistant: 0.6,
		},
		CategoryShapes: map[dataset.EventCategory]dataset.Shape{
			dataset.CategoryPolicy:           dataset.ShapeImmediate,
			dataset.CategoryMilestone:        dataset.ShapeImmediate,
			dataset.CategoryInfrastructure:   dataset.ShapeGradual,
			dataset.CategoryProductLaunch:    dataset.ShapeSaturating,
			dataset.CategoryMarketEntry:      dataset.ShapeSaturating,
			dataset.CategoryInteroperability: dataset.ShapeNetwork,
		},
		CategoryProfiles: map[dataset.EventCategory]CategoryProfile{
			dataset.CategoryProductLaunch: {
				Impacts: []ProfileImpact{
					{IndicatorCode: "ACC_MM_ACCOUNT", Magnitude: dataset.MagnitudeHigh, LagMonths: 12},
					{IndicatorCode: "USG_DIGITAL_PAYMENT", Magnitude: dataset.MagnitudeMedium, LagMonths: 18},
				},
				Confidence: 0.4,
			},
			dataset.CategoryInfrastructure: {
				Impacts: []ProfileImpact{
					{IndicatorCode: "INF_AGENT_DENSITY", Magnitude: dataset.MagnitudeHigh, LagMonths: 12},
					{IndicatorCode: "ACC_OWNERSHIP", Magnitude: dataset.MagnitudeLow, LagMonths: 24},
				},
				Confidence: 0.4,
			},
			dataset.CategoryInteroperability: {
				Impacts: []ProfileImpact{
					{IndicatorCode: "USG_DIGITAL_PAYMENT", Magnitude: dataset.MagnitudeMedium, LagMonths: 6},
				},
				Confidence: 0.35,
			},
		},
		AcceptanceErrorPct: 0.5,
		HighConfidence:     0.8,
	}
}

// ShapeFor returns the curve shape for a category, honoring overrides.
func (c Config) ShapeFor(category dataset.EventCategory, override dataset.Shape) dataset.Shape {
	if override != "" {
		return override
	}
	if shape, ok := c.CategoryShapes[category]; ok {
		return shape
	}
	return dataset.ShapeImmediate
}

// Weight maps a categorical magnitude to its numeric weight.
func (c Config) Weight(m dataset.Magnitude) float64 {
	return c.MagnitudeWeights[m]
}

// Contribution is one resolved (event, indicator) effect: the unit the
// aggregation step sums over. Magnitude is already numeric and unsigned;
// Direction carries the sign.
type Contribution struct {
	EventID       string            `json:"event_id"`
	IndicatorCode string            `json:"indicator_code"`
	Tier          Tier              `json:"tier"`
	Shape         dataset.Shape     `json:"shape"`
	Direction     dataset.Direction `json:"direction"`
	Magnitude     float64           `json:"magnitude"`
	Confidence    float64           `json:"confidence"`
	LagMonths     int               `json:"lag_months"`
	Onset         time.Time         `json:"onset"`
	Source        string            `json:"source,omitempty"`
}

// ContributorShare records one event's share of an aggregated estimate.
type ContributorShare struct {
	EventID    string  `json:"event_id"`
	Tier       Tier    `json:"tier"`
	Value      float64 `json:"value"`
	Weighted   float64 `json:"weighted"`
	Confidence float64 `json:"confidence"`
}

// ImpactEstimate is a derived (indicator, time) cell of the impact matrix.
// Never persisted as source of truth; the declared links and raw events
// remain authoritative and the estimate is recomputed on demand.
type ImpactEstimate struct {
	IndicatorCode string             `json:"indicator_code"`
	Time          time.Time          `json:"time"`
	Value         float64            `json:"value"`
	Confidence    float64            `json:"confidence"`
	Contributors  []ContributorShare `json:"contributors"`
}

// AmbiguityWarning flags an event that matched multiple comparable-evidence
// entries with conflicting shapes. Non-fatal; surfaced for audit.
type AmbiguityWarning struct {
	EventID  string                `json:"event_id"`
	Category dataset.EventCategory `json:"category"`
	Winner   string                `json:"winner"`
	Loser    string                `json:"loser"`
	Reason   string                `json:"reason"`
}

// Result holds one estimation run.
type Result struct {
	APIVersion       string                `json:"api_version"`
	AlgorithmVersion string                `json:"algorithm_version"`
	RunID            string                `json:"run_id"`
	Estimates        []ImpactEstimate      `json:"estimates"`
	Contributions    []Contribution        `json:"contributions"`
	Errors           []dataset.RecordError `json:"errors,omitempty"`
	Warnings         []AmbiguityWarning    `json:"warnings,omitempty"`
	Times            []time.Time           `json:"times"`
	EventCount       int                   `json:"event_count"`
	LinkCount        int                   `json:"link_count"`
	IndicatorCount   int                   `json:"indicator_count"`
	DurationMs       int64                 `json:"duration_ms"`
}

// At returns the estimate cell for (indicator, time), if any. A missing
// cell means "unknown", which is deliberately distinct from a zero value.
func (r *Result) At(code string, t time.Time) (ImpactEstimate, bool) {
	for _, est := range r.Estimates {
		if est.IndicatorCode == code && est.Time.Equal(t) {
			return est, true
		}
	}
	return ImpactEstimate{}, false
}

// Indicators returns the sorted distinct indicator codes present in the
// estimates.
func (r *Result) Indicators() []string {
	seen := make(map[string]bool)
	var out []string
	for _, est := range r.Estimates {
		if !seen[est.IndicatorCode] {
			seen[est.IndicatorCode] = true
			out = append(out, est.IndicatorCode)
		}
	}
	return out
}
