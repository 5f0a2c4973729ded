// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package export writes the tabular and graphical artifacts of an
// estimation run: the impact matrix CSV, the per-event detail JSON, and
// an optional heatmap image. Serialization is a presentation concern;
// the estimator itself never touches these formats.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/AleutianAI/fi-impact/cmd/fimpact/internal/estimator"
)

// timeLayout formats matrix column headers.
const timeLayout = "2006-01-02"

// cells indexes estimates by (indicator, time) so the writers make one
// pass over the result instead of a scan per cell.
type cells map[string]map[time.Time]estimator.ImpactEstimate

func indexCells(result *estimator.Result) cells {
	idx := make(cells)
	for _, est := range result.Estimates {
		byTime, ok := idx[est.IndicatorCode]
		if !ok {
			byTime = make(map[time.Time]estimator.ImpactEstimate, len(result.Times))
			idx[est.IndicatorCode] = byTime
		}
		byTime[est.Time] = est
	}
	return idx
}

func (c cells) at(code string, t time.Time) (estimator.ImpactEstimate, bool) {
	est, ok := c[code][t]
	return est, ok
}

// WriteMatrixCSV writes the impact matrix: one row per indicator, one
// column per evaluation time, cells as "value (confidence)". Cells the
// estimator omitted (no contributors) are left empty, preserving the
// unknown-vs-zero distinction in the artifact. Ordering is deterministic:
// indicators sorted, times in evaluation order.
func WriteMatrixCSV(w io.Writer, result *estimator.Result) error {
	cw := csv.NewWriter(w)
	idx := indexCells(result)

	head := make([]string, 0, len(result.Times)+1)
	head = append(head, "indicator")
	for _, t := range result.Times {
		head = append(head, t.Format(timeLayout))
	}
	if err := cw.Write(head); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, code := range result.Indicators() {
		row := make([]string, 0, len(result.Times)+1)
		row = append(row, code)
		for _, t := range result.Times {
			est, ok := idx.at(code, t)
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, fmt.Sprintf("%.4f (%.2f)", est.Value, est.Confidence))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %s: %w", code, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
