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
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/AleutianAI/fi-impact/cmd/fimpact/internal/dataset"
)

// Estimator computes time-indexed event impacts over indicators.
//
// # Description
//
// The estimator is a pure function pipeline: validate inputs, resolve
// each event through the three evidence tiers, evaluate the temporal
// curve of every resolved contribution at each requested time, and sum
// per indicator under the additivity assumption. No I/O, no shared
// state; identical inputs yield identical output.
//
// # Thread Safety
//
// Safe for concurrent use; all state is per-call.
type Estimator struct {
	cfg Config
}

// NewEstimator creates an estimator with the given configuration.
func NewEstimator(cfg Config) *Estimator {
	return &Estimator{cfg: cfg}
}

// Estimate runs the full pipeline.
//
// # Inputs
//
//   - ctx: Context for cancellation between aggregation steps.
//   - data: Input collections. Events must be non-empty; invalid records
//     are rejected per-record, not fatally.
//   - asOf: Evaluation timestamps, non-decreasing.
//
// # Outputs
//
//   - *Result: Estimates plus collected record errors and warnings.
//   - error: Non-nil only for unusable runs (nil ctx, empty events,
//     unordered times).
//
// Aggregation at each (indicator, t) is the confidence-weighted sum of
// per-event curve values. Additivity is a stated simplifying assumption
// of the methodology, not a physical law. The cell's own confidence is
// the confidence-weighted mean of contributing confidences; a cell with
// no contributors is omitted rather than reported as zero.
func (e *Estimator) Estimate(ctx context.Context, data dataset.Collections, asOf []time.Time) (*Result, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if len(data.Events) == 0 {
		return nil, ErrNoEvents
	}
	if len(asOf) == 0 {
		return nil, ErrNoTimes
	}
	for i := 1; i < len(asOf); i++ {
		if asOf[i].Before(asOf[i-1]) {
			return nil, ErrUnorderedTimes
		}
	}

	start := time.Now()
	valid, recordErrs := dataset.Validate(data)
	contributions, warnings := resolveAll(e.cfg, valid)

	byIndicator := make(map[string][]Contribution)
	for _, c := range contributions {
		byIndicator[c.IndicatorCode] = append(byIndicator[c.IndicatorCode], c)
	}
	codes := make([]string, 0, len(byIndicator))
	for code := range byIndicator {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	result := &Result{
		APIVersion:       APIVersion,
		AlgorithmVersion: EstimateAlgorithmVersion,
		RunID:            uuid.NewString(),
		Contributions:    contributions,
		Errors:           recordErrs,
		Warnings:         warnings,
		Times:            asOf,
		EventCount:       len(valid.Events),
		LinkCount:        len(valid.Links),
		IndicatorCount:   len(valid.Indicators),
	}

	for _, code := range codes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, t := range asOf {
			result.Estimates = append(result.Estimates, aggregate(code, t, byIndicator[code], e.cfg.Shapes))
		}
	}

	result.DurationMs = time.Since(start).Milliseconds()
	return result, nil
}

// aggregate sums the contributions for one (indicator, t) cell.
func aggregate(code string, t time.Time, contribs []Contribution, sc ShapeConstants) ImpactEstimate {
	est := ImpactEstimate{IndicatorCode: code, Time: t}
	var confSum, confWeightedSum float64
	for _, c := range contribs {
		value := c.ValueAt(t, sc)
		weighted := c.Confidence * c.Direction.Sign() * value
		est.Value += weighted
		confSum += c.Confidence
		confWeightedSum += c.Confidence * c.Confidence
		est.Contributors = append(est.Contributors, ContributorShare{
			EventID:    c.EventID,
			Tier:       c.Tier,
			Value:      value,
			Weighted:   weighted,
			Confidence: c.Confidence,
		})
	}
	if confSum > 0 {
		est.Confidence = confWeightedSum / confSum
	}
	return est
}
