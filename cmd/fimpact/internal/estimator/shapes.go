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
	"math"
	"time"

	"github.com/AleutianAI/fi-impact/cmd/fimpact/internal/dataset"
)

// monthsSince returns the fractional months from onset to t.
// Negative before onset.
func monthsSince(onset, t time.Time) float64 {
	return t.Sub(onset).Hours() / (24 * daysPerMonth)
}

// ValueAt evaluates the contribution's unsigned curve at time t.
//
// All shapes are gated at the onset (event date + lag): value is exactly
// zero for t before onset, which keeps "not yet effective" distinguishable
// from a small early effect.
//
// Shapes, with x = months since onset:
//
//   - immediate:  m * exp(-lambda * x)          abrupt effect with decay
//   - gradual:    m * (1 - exp(-k * x))         monotonic buildup toward m
//   - saturating: m / (1 + exp(-k * (x - mid))) logistic centered at mid
//   - network:    m * sqrt(x / tau)             sublinear, never decaying
func (c Contribution) ValueAt(t time.Time, sc ShapeConstants) float64 {
	if t.Before(c.Onset) {
		return 0
	}
	x := monthsSince(c.Onset, t)
	switch c.Shape {
	case dataset.ShapeImmediate:
		return c.Magnitude * math.Exp(-sc.DecayLambda*x)
	case dataset.ShapeGradual:
		return c.Magnitude * (1 - math.Exp(-sc.GrowthK*x))
	case dataset.ShapeSaturating:
		return c.Magnitude / (1 + math.Exp(-sc.SaturationK*(x-sc.MidpointMonths)))
	case dataset.ShapeNetwork:
		return c.Magnitude * math.Sqrt(math.Max(0, x)/sc.NetworkTauMonths)
	default:
		return 0
	}
}

// clamp bounds v into [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
