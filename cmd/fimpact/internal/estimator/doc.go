// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package estimator implements rule-based event-impact estimation over
// financial-inclusion indicators.
//
// # Overview
//
// Given a catalog of dated events, declared event->indicator impact
// links, a comparable-country evidence library, and an indicator
// reference set, the estimator produces a time-indexed impact matrix:
// for each (indicator, evaluation time) it aggregates the contributions
// of all events expected to move that indicator.
//
// Evidence is resolved in three tiers with strict precedence:
//
//  1. Direct: a declared impact link for the (event, indicator) pair is
//     used exclusively; lower tiers never override it.
//  2. Comparable: the event's category is matched against the evidence
//     library; magnitudes are range midpoints scaled down by a region
//     applicability factor.
//  3. Inferred: a per-category default profile, at the lowest
//     confidence. Categories without a profile resolve to nothing, so
//     "unknown" stays distinguishable from "no effect".
//
// Each resolved contribution follows one of four temporal shapes
// (immediate decay, gradual buildup, saturating logistic, network sqrt),
// all gated at the event date plus lag. Aggregation is a
// confidence-weighted sum; additivity across events is a stated
// simplifying assumption of the methodology.
//
// The computation is deterministic, synchronous, and side-effect free.
// Input sizes are bounded (low hundreds of events and indicators), so no
// concurrency is needed or used.
package estimator
