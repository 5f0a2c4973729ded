// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/AleutianAI/fi-impact/cmd/fimpact/internal/dataset"
	"github.com/AleutianAI/fi-impact/cmd/fimpact/internal/estimator"
)

func date(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

// testResult builds a two-indicator, two-time result with one omitted cell.
func testResult() *estimator.Result {
	t1, t2 := date("2022-01-01"), date("2023-01-01")
	return &estimator.Result{
		APIVersion:       estimator.APIVersion,
		AlgorithmVersion: estimator.EstimateAlgorithmVersion,
		RunID:            "test-run",
		Times:            []time.Time{t1, t2},
		Estimates: []estimator.ImpactEstimate{
			{IndicatorCode: "ACC_MM_ACCOUNT", Time: t1, Value: 0.0213, Confidence: 0.9},
			{IndicatorCode: "ACC_MM_ACCOUNT", Time: t2, Value: 0.0924, Confidence: 0.9},
			{IndicatorCode: "USG_DIGITAL_PAYMENT", Time: t2, Value: -0.0150, Confidence: 0.4},
		},
		Contributions: []estimator.Contribution{
			{EventID: "EVT-001", IndicatorCode: "ACC_MM_ACCOUNT", Tier: estimator.TierDirect,
				Shape: dataset.ShapeSaturating, Direction: dataset.DirectionPositive,
				Magnitude: 0.12, Confidence: 0.9, LagMonths: 6, Onset: date("2021-11-01")},
		},
		Warnings: []estimator.AmbiguityWarning{
			{EventID: "EVT-001", Category: dataset.CategoryProductLaunch,
				Winner: "Kenya M-Pesa", Loser: "Tanzania mobile money", Reason: "conflicting shapes"},
		},
	}
}

// TestWriteMatrixCSV tests layout, formatting, and the empty omitted cell.
func TestWriteMatrixCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMatrixCSV(&buf, testResult()); err != nil {
		t.Fatalf("WriteMatrixCSV() error = %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reparse csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2 indicators", len(rows))
	}

	wantHeader := []string{"indicator", "2022-01-01", "2023-01-01"}
	for i, col := range wantHeader {
		if rows[0][i] != col {
			t.Errorf("header[%d] = %q, want %q", i, rows[0][i], col)
		}
	}

	if rows[1][0] != "ACC_MM_ACCOUNT" || rows[2][0] != "USG_DIGITAL_PAYMENT" {
		t.Errorf("indicator order = %q, %q; want sorted", rows[1][0], rows[2][0])
	}
	if rows[1][2] != "0.0924 (0.90)" {
		t.Errorf("cell = %q, want %q", rows[1][2], "0.0924 (0.90)")
	}
	// USG has no cell at t1: unknown stays blank, not zero.
	if rows[2][1] != "" {
		t.Errorf("omitted cell = %q, want empty", rows[2][1])
	}
	if rows[2][2] != "-0.0150 (0.40)" {
		t.Errorf("negative cell = %q, want %q", rows[2][2], "-0.0150 (0.40)")
	}
}

// TestIndexCells tests the (indicator, time) lookup index used by the
// matrix and heatmap writers.
func TestIndexCells(t *testing.T) {
	result := testResult()
	idx := indexCells(result)

	cell, ok := idx.at("ACC_MM_ACCOUNT", date("2023-01-01"))
	if !ok {
		t.Fatal("index missing a present cell")
	}
	if cell.Value != 0.0924 {
		t.Errorf("cell value = %v, want 0.0924", cell.Value)
	}
	if _, ok := idx.at("USG_DIGITAL_PAYMENT", date("2022-01-01")); ok {
		t.Error("index invented a cell the estimator omitted")
	}
	if _, ok := idx.at("ENA_ID_COVERAGE", date("2022-01-01")); ok {
		t.Error("index invented an indicator")
	}

	// The index must agree with the linear lookup cell for cell.
	for _, code := range result.Indicators() {
		for _, ts := range result.Times {
			fromIdx, okIdx := idx.at(code, ts)
			fromScan, okScan := result.At(code, ts)
			if okIdx != okScan || fromIdx.Value != fromScan.Value {
				t.Errorf("index disagrees with Result.At for (%s, %s)", code, ts.Format(timeLayout))
			}
		}
	}
}

// TestWriteDetailJSON tests the detail envelope round-trips.
func TestWriteDetailJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteDetailJSON(&buf, testResult()); err != nil {
		t.Fatalf("WriteDetailJSON() error = %v", err)
	}

	var detail Detail
	if err := json.Unmarshal(buf.Bytes(), &detail); err != nil {
		t.Fatalf("reparse json: %v", err)
	}
	if detail.RunID != "test-run" {
		t.Errorf("RunID = %q, want test-run", detail.RunID)
	}
	if len(detail.Contributions) != 1 {
		t.Fatalf("contributions = %d, want 1", len(detail.Contributions))
	}
	if detail.Contributions[0].Tier != estimator.TierDirect {
		t.Errorf("tier = %s, want direct", detail.Contributions[0].Tier)
	}
	if len(detail.Warnings) != 1 {
		t.Errorf("warnings = %d, want 1", len(detail.Warnings))
	}
	if detail.GeneratedAt.IsZero() {
		t.Error("GeneratedAt is zero")
	}
}

// TestRenderHeatmap tests that a PNG lands on disk.
func TestRenderHeatmap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "impact_matrix.png")
	if err := RenderHeatmap(path, testResult()); err != nil {
		t.Fatalf("RenderHeatmap() error = %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat heatmap: %v", err)
	}
	if info.Size() == 0 {
		t.Error("heatmap file is empty")
	}
}

// TestRenderHeatmap_EmptyMatrix tests the refusal to render nothing.
func TestRenderHeatmap_EmptyMatrix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.png")
	empty := &estimator.Result{}
	if err := RenderHeatmap(path, empty); err == nil {
		t.Fatal("RenderHeatmap(empty) error = nil, want error")
	}
}
