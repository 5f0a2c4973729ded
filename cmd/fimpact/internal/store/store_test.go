// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/fi-impact/cmd/fimpact/internal/estimator"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	return st
}

// TestStore_SaveAndList tests the save/list round trip, newest first.
func TestStore_SaveAndList(t *testing.T) {
	st := openTestStore(t)

	older := RunRecord{RunID: "run-1", CreatedAt: time.Now().Add(-time.Hour), EventCount: 3}
	newer := RunRecord{RunID: "run-2", CreatedAt: time.Now(), EventCount: 5, MatrixPath: "/tmp/m.csv"}
	require.NoError(t, st.SaveRun(older))
	require.NoError(t, st.SaveRun(newer))

	runs, err := st.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].RunID)
	assert.Equal(t, "run-1", runs[1].RunID)
	assert.Equal(t, "/tmp/m.csv", runs[0].MatrixPath)
}

// TestStore_DuplicateRunID tests the unique index on run ids.
func TestStore_DuplicateRunID(t *testing.T) {
	st := openTestStore(t)
	require.NoError(t, st.SaveRun(RunRecord{RunID: "run-1", CreatedAt: time.Now()}))
	assert.Error(t, st.SaveRun(RunRecord{RunID: "run-1", CreatedAt: time.Now()}))
}

// TestStore_ListLimit tests the default and explicit limits.
func TestStore_ListLimit(t *testing.T) {
	st := openTestStore(t)
	base := time.Now()
	for i := 0; i < 5; i++ {
		require.NoError(t, st.SaveRun(RunRecord{
			RunID:     "run-" + string(rune('a'+i)),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	runs, err := st.ListRuns(3)
	require.NoError(t, err)
	assert.Len(t, runs, 3)

	runs, err = st.ListRuns(0) // falls back to the default limit
	require.NoError(t, err)
	assert.Len(t, runs, 5)
}

// TestFromResult tests the result-to-record mapping with and without a
// backtest.
func TestFromResult(t *testing.T) {
	result := &estimator.Result{
		RunID:          "run-x",
		EventCount:     4,
		LinkCount:      7,
		IndicatorCount: 3,
		Estimates:      make([]estimator.ImpactEstimate, 6),
	}

	rec := FromResult(result, nil)
	assert.Equal(t, "run-x", rec.RunID)
	assert.Equal(t, 6, rec.EstimateCount)
	assert.Nil(t, rec.MAE)
	assert.Nil(t, rec.MAPE)

	bt := &estimator.BacktestResult{MAE: 0.02, MAPE: 0.15, Count: 4}
	rec = FromResult(result, bt)
	require.NotNil(t, rec.MAE)
	require.NotNil(t, rec.MAPE)
	assert.Equal(t, 0.02, *rec.MAE)
	assert.Equal(t, 0.15, *rec.MAPE)

	// An empty backtest leaves the metrics unset.
	rec = FromResult(result, &estimator.BacktestResult{})
	assert.Nil(t, rec.MAE)
}
