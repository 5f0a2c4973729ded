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

// BacktestPair compares one estimate cell against a historical observation
// taken at the same (indicator, time).
type BacktestPair struct {
	IndicatorCode  string    `json:"indicator_code"`
	Time           time.Time `json:"time"`
	Observed       float64   `json:"observed"`
	Estimated      float64   `json:"estimated"`
	AbsError       float64   `json:"abs_error"`
	PctError       float64   `json:"pct_error"`
	HighConfidence bool      `json:"high_confidence"`
	Judged         bool      `json:"judged"`
	Accepted       bool      `json:"accepted"`
}

// BacktestResult summarizes a validation run against historical data.
//
// Acceptance is only judged for pairs whose contributing links are all
// high-confidence; for the rest the metric is reported without a
// pass/fail verdict.
type BacktestResult struct {
	Pairs []BacktestPair `json:"pairs"`
	MAE   float64        `json:"mae"`
	MAPE  float64        `json:"mape"`
	Count int            `json:"count"`
}

// Backtest pairs the result's estimate cells with observations at
// identical timestamps and computes error metrics.
//
// Observations without a matching cell are skipped: the estimator never
// produced a claim there, and absence of a claim is not an error of zero.
func (e *Estimator) Backtest(result *Result, observations []dataset.Observation) BacktestResult {
	var bt BacktestResult
	var absSum, pctSum float64
	pctCount := 0

	for _, obs := range observations {
		est, ok := result.At(obs.IndicatorCode, obs.Date)
		if !ok {
			continue
		}
		pair := BacktestPair{
			IndicatorCode:  obs.IndicatorCode,
			Time:           obs.Date,
			Observed:       obs.Value,
			Estimated:      est.Value,
			AbsError:       math.Abs(est.Value - obs.Value),
			HighConfidence: allHighConfidence(est.Contributors, e.cfg.HighConfidence),
		}
		switch {
		case obs.Value != 0:
			pair.PctError = pair.AbsError / math.Abs(obs.Value)
			pctSum += pair.PctError
			pctCount++
		case pair.AbsError > 0:
			// Any nonzero miss against a zero observation counts as a
			// full 100% error rather than an undefined (and therefore
			// accepted) one.
			pair.PctError = 1
			pctSum += pair.PctError
			pctCount++
		}
		if pair.HighConfidence {
			pair.Judged = true
			pair.Accepted = pair.PctError < e.cfg.AcceptanceErrorPct
		}
		absSum += pair.AbsError
		bt.Pairs = append(bt.Pairs, pair)
	}

	bt.Count = len(bt.Pairs)
	if bt.Count > 0 {
		bt.MAE = absSum / float64(bt.Count)
	}
	if pctCount > 0 {
		bt.MAPE = pctSum / float64(pctCount)
	}
	return bt
}

func allHighConfidence(contribs []ContributorShare, floor float64) bool {
	if len(contribs) == 0 {
		return false
	}
	for _, c := range contribs {
		if c.Confidence < floor {
			return false
		}
	}
	return true
}
