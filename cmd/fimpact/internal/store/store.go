// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package store keeps an audit log of past estimation runs in a local
// sqlite file. The log records run summaries and artifact paths only;
// the CSV inputs stay authoritative and estimates are recomputed on
// demand, never read back from here.
package store

import (
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/AleutianAI/fi-impact/cmd/fimpact/internal/estimator"
)

// RunRecord is one saved estimation run.
type RunRecord struct {
	ID             uint      `gorm:"primaryKey" json:"-"`
	RunID          string    `gorm:"uniqueIndex" json:"run_id"`
	CreatedAt      time.Time `json:"created_at"`
	EventCount     int       `json:"event_count"`
	LinkCount      int       `json:"link_count"`
	IndicatorCount int       `json:"indicator_count"`
	EstimateCount  int       `json:"estimate_count"`
	ErrorCount     int       `json:"error_count"`
	WarningCount   int       `json:"warning_count"`
	MAE            *float64  `json:"mae,omitempty"`
	MAPE           *float64  `json:"mape,omitempty"`
	MatrixPath     string    `json:"matrix_path,omitempty"`
	DetailPath     string    `json:"detail_path,omitempty"`
	HeatmapPath    string    `json:"heatmap_path,omitempty"`
}

// Store wraps the sqlite run log.
type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the run log at path and migrates the schema.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open run log %s: %w", path, err)
	}
	if err := db.AutoMigrate(&RunRecord{}); err != nil {
		return nil, fmt.Errorf("migrate run log: %w", err)
	}
	return &Store{db: db}, nil
}

// SaveRun appends one run record.
func (s *Store) SaveRun(rec RunRecord) error {
	if err := s.db.Create(&rec).Error; err != nil {
		return fmt.Errorf("save run %s: %w", rec.RunID, err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var recs []RunRecord
	if err := s.db.Order("created_at desc").Limit(limit).Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return recs, nil
}

// FromResult builds a RunRecord from an estimation result and an optional
// backtest.
func FromResult(result *estimator.Result, bt *estimator.BacktestResult) RunRecord {
	rec := RunRecord{
		RunID:          result.RunID,
		CreatedAt:      time.Now().UTC(),
		EventCount:     result.EventCount,
		LinkCount:      result.LinkCount,
		IndicatorCount: result.IndicatorCount,
		EstimateCount:  len(result.Estimates),
		ErrorCount:     len(result.Errors),
		WarningCount:   len(result.Warnings),
	}
	if bt != nil && bt.Count > 0 {
		mae, mape := bt.MAE, bt.MAPE
		rec.MAE = &mae
		rec.MAPE = &mape
	}
	return rec
}
