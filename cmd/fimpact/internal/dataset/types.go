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

import (
	"strings"
	"time"
)

// EventCategory classifies what kind of event occurred.
type EventCategory string

const (
	CategoryPolicy           EventCategory = "policy"
	CategoryProductLaunch    EventCategory = "product_launch"
	CategoryMarketEntry      EventCategory = "market_entry"
	CategoryMilestone        EventCategory = "milestone"
	CategoryInfrastructure   EventCategory = "infrastructure"
	CategoryInteroperability EventCategory = "interoperability"
)

// ParseEventCategory parses a string to EventCategory.
// Unrecognized values map to CategoryMilestone, the lowest-signal category.
func ParseEventCategory(s string) EventCategory {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "policy":
		return CategoryPolicy
	case "product_launch":
		return CategoryProductLaunch
	case "market_entry":
		return CategoryMarketEntry
	case "infrastructure":
		return CategoryInfrastructure
	case "interoperability":
		return CategoryInteroperability
	default:
		return CategoryMilestone
	}
}

// Direction is the declared sign of an impact.
type Direction string

const (
	DirectionPositive Direction = "positive"
	DirectionNegative Direction = "negative"
	DirectionNeutral  Direction = "neutral"
)

// Sign returns the numeric sign applied during aggregation.
// Neutral links contribute zero value but still carry confidence.
func (d Direction) Sign() float64 {
	switch d {
	case DirectionPositive:
		return 1
	case DirectionNegative:
		return -1
	default:
		return 0
	}
}

// ParseDirection parses a string to Direction. Defaults to neutral.
func ParseDirection(s string) Direction {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive":
		return DirectionPositive
	case "negative":
		return DirectionNegative
	default:
		return DirectionNeutral
	}
}

// Magnitude is a categorical effect size, mapped to a numeric weight
// by the estimator configuration.
type Magnitude string

const (
	MagnitudeLow      Magnitude = "low"
	MagnitudeMedium   Magnitude = "medium"
	MagnitudeHigh     Magnitude = "high"
	MagnitudeVeryHigh Magnitude = "very_high"
)

// ParseMagnitude parses a string to Magnitude. Defaults to low.
func ParseMagnitude(s string) Magnitude {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "medium":
		return MagnitudeMedium
	case "high":
		return MagnitudeHigh
	case "very_high":
		return MagnitudeVeryHigh
	default:
		return MagnitudeLow
	}
}

// EvidenceBasis records where an impact link's numbers came from.
type EvidenceBasis string

const (
	BasisDirect     EvidenceBasis = "direct"
	BasisComparable EvidenceBasis = "comparable_country"
	BasisInferred   EvidenceBasis = "inferred"
)

// ParseEvidenceBasis parses a string to EvidenceBasis.
// Defaults to inferred, the weakest basis.
func ParseEvidenceBasis(s string) EvidenceBasis {
	switch {
	case strings.Contains(strings.ToLower(s), "direct"):
		return BasisDirect
	case strings.Contains(strings.ToLower(s), "comparable"):
		return BasisComparable
	default:
		return BasisInferred
	}
}

// Pillar is the thematic grouping of an indicator.
type Pillar string

const (
	PillarAccess         Pillar = "access"
	PillarUsage          Pillar = "usage"
	PillarInfrastructure Pillar = "infrastructure"
	PillarEnabler        Pillar = "enabler"
)

// PillarFromCode derives the pillar from an indicator code prefix
// (ACC_, USG_, INF_, ENA_). Returns "" when the prefix is unknown.
func PillarFromCode(code string) Pillar {
	switch {
	case strings.HasPrefix(code, "ACC_"):
		return PillarAccess
	case strings.HasPrefix(code, "USG_"):
		return PillarUsage
	case strings.HasPrefix(code, "INF_"):
		return PillarInfrastructure
	case strings.HasPrefix(code, "ENA_"):
		return PillarEnabler
	default:
		return ""
	}
}

// Shape names the temporal impact curve applied to a contribution.
// An empty Shape means "use the category default".
type Shape string

const (
	ShapeImmediate  Shape = "immediate"
	ShapeGradual    Shape = "gradual"
	ShapeSaturating Shape = "saturating"
	ShapeNetwork    Shape = "network"
)

// ParseShape parses a string to Shape. Unrecognized values return "".
func ParseShape(s string) Shape {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "immediate":
		return ShapeImmediate
	case "gradual":
		return ShapeGradual
	case "saturating":
		return ShapeSaturating
	case "network":
		return ShapeNetwork
	default:
		return ""
	}
}

// RegionClass classifies how close an evidence source context is to the
// target context, which decides the applicability scaling factor.
type RegionClass string

const (
	RegionSame    RegionClass = "same_region"
	RegionDistant RegionClass = "distant_region"
)

// ParseRegionClass parses a string to RegionClass. Defaults to distant,
// the more conservative scaling.
func ParseRegionClass(s string) RegionClass {
	if strings.ToLower(strings.TrimSpace(s)) == "same_region" {
		return RegionSame
	}
	return RegionDistant
}

// Event is a dated occurrence (policy change, product launch, ...) that may
// move one or more indicators. Immutable once recorded.
type Event struct {
	ID          string        `json:"id" validate:"required"`
	Name        string        `json:"name"`
	Date        time.Time     `json:"date" validate:"required"`
	Category    EventCategory `json:"category"`
	Description string        `json:"description,omitempty"`
}

// ImpactLink is a declared event -> indicator effect. Many-to-many:
// an event may have zero, one, or several links.
type ImpactLink struct {
	ID            string        `json:"id" validate:"required"`
	EventID       string        `json:"event_id" validate:"required"`
	IndicatorCode string        `json:"indicator_code" validate:"required"`
	Direction     Direction     `json:"direction"`
	Magnitude     Magnitude     `json:"magnitude"`
	LagMonths     int           `json:"lag_months" validate:"gte=0"`
	Basis         EvidenceBasis `json:"evidence_basis"`
	Confidence    float64       `json:"confidence" validate:"gte=0,lte=1"`
	Shape         Shape         `json:"shape,omitempty"`
	Notes         string        `json:"notes,omitempty"`
}

// EvidenceImpact is one indicator effect reported by a comparable-evidence
// source: an impact range in percentage points plus a time-to-effect window.
type EvidenceImpact struct {
	IndicatorCode string  `json:"indicator_code" validate:"required"`
	MinPP         float64 `json:"min_pp"`
	MaxPP         float64 `json:"max_pp"`
	LagMonths     int     `json:"lag_months" validate:"gte=0"`
	Confidence    float64 `json:"confidence" validate:"gte=0,lte=1"`
}

// Midpoint returns the center of the reported impact range.
func (e EvidenceImpact) Midpoint() float64 {
	return (e.MinPP + e.MaxPP) / 2
}

// ComparableEvidence is an analogy-based effect record borrowed from a
// similar event in another context. Read-only reference data; matched to
// local events by category, never by id.
type ComparableEvidence struct {
	SourceContext     string           `json:"source_context" validate:"required"`
	Region            RegionClass      `json:"region_class"`
	AnalogousCategory EventCategory    `json:"analogous_category"`
	Shape             Shape            `json:"shape,omitempty"`
	Impacts           []EvidenceImpact `json:"impacts" validate:"dive"`
	Citation          string           `json:"citation,omitempty"`
}

// Indicator is a reference entry for an indicator code.
type Indicator struct {
	Code   string `json:"code" validate:"required"`
	Pillar Pillar `json:"pillar"`
	Unit   string `json:"unit,omitempty"`
	Name   string `json:"name,omitempty"`
}

// Observation is a historical measured value for an indicator, used by the
// backtest and the dataset summary. Never consumed by the estimator itself.
type Observation struct {
	IndicatorCode string    `json:"indicator_code" validate:"required"`
	Date          time.Time `json:"date" validate:"required"`
	Value         float64   `json:"value"`
}

// Collections bundles the input datasets for one run.
type Collections struct {
	Events       []Event
	Links        []ImpactLink
	Evidence     []ComparableEvidence
	Indicators   []Indicator
	Observations []Observation
}
