// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/fi-impact/cmd/fimpact/config"
	"github.com/AleutianAI/fi-impact/cmd/fimpact/internal/estimator"
	"github.com/AleutianAI/fi-impact/cmd/fimpact/internal/export"
	"github.com/AleutianAI/fi-impact/cmd/fimpact/internal/store"
	"github.com/AleutianAI/fi-impact/pkg/ux"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	// Input flags
	estimateEvents       string
	estimateLinks        string
	estimateIndicators   string
	estimateEvidence     string
	estimateObservations string

	// Evaluation window flags
	estimateFrom string
	estimateTo   string
	estimateStep int

	// Output flags
	estimateOutDir  string
	estimateHeatmap bool
	estimateSave    bool
	estimateJSON    bool
	estimateFormat  string
	estimateQuiet   bool
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate event impacts over the indicator set",
	Long: `Estimate the time-indexed impact of events on financial-inclusion
indicators.

Each event is resolved through three evidence tiers: declared impact
links, comparable-country evidence for the event's category, and finally
category-level inference. Every resolved contribution is evaluated on
its temporal curve at each point of the evaluation grid and summed per
indicator into an (indicator x time) impact matrix.

Invalid rows are rejected individually and reported; the run continues
with the remaining records and exits 1 to signal a partial result.

Artifacts written to --out-dir:
  impact_matrix.csv   the impact matrix, cells as "value (confidence)"
  event_impacts.json  per-event contribution detail with audit trail
  impact_matrix.png   heatmap image (with --heatmap)

Examples:
  fimpact estimate --events events.csv --links links.csv --indicators indicators.csv
  fimpact estimate --events events.csv --links links.csv --indicators indicators.csv \
    --evidence evidence.csv --from 2020-01-01 --to 2026-01-01 --step 6
  fimpact estimate --events events.csv --links links.csv --indicators indicators.csv \
    --heatmap --save --json`,
	Args: cobra.NoArgs,
	Run:  runEstimate,
}

func init() {
	// Input flags
	estimateCmd.Flags().StringVar(&estimateEvents, "events", "",
		"Events CSV (required)")
	estimateCmd.Flags().StringVar(&estimateLinks, "links", "",
		"Impact links CSV (required)")
	estimateCmd.Flags().StringVar(&estimateIndicators, "indicators", "",
		"Indicator reference CSV (required)")
	estimateCmd.Flags().StringVar(&estimateEvidence, "evidence", "",
		"Comparable-country evidence CSV")
	estimateCmd.Flags().StringVar(&estimateObservations, "observations", "",
		"Historical observations CSV")
	estimateCmd.MarkFlagRequired("events")
	estimateCmd.MarkFlagRequired("links")
	estimateCmd.MarkFlagRequired("indicators")

	// Evaluation window flags
	estimateCmd.Flags().StringVar(&estimateFrom, "from", "",
		"Evaluation start date YYYY-MM-DD (default: earliest event)")
	estimateCmd.Flags().StringVar(&estimateTo, "to", "",
		"Evaluation end date YYYY-MM-DD (default: latest event + 3y)")
	estimateCmd.Flags().IntVar(&estimateStep, "step", 6,
		"Evaluation step in months")

	// Output flags
	estimateCmd.Flags().StringVar(&estimateOutDir, "out-dir", ".",
		"Directory for the run artifacts")
	estimateCmd.Flags().BoolVar(&estimateHeatmap, "heatmap", false,
		"Render the impact matrix as a PNG heatmap")
	estimateCmd.Flags().BoolVar(&estimateSave, "save", false,
		"Record the run in the local history database")
	estimateCmd.Flags().BoolVar(&estimateJSON, "json", false,
		"Output as JSON for scripting")
	estimateCmd.Flags().StringVar(&estimateFormat, "format", "summary",
		"Output format: summary, full")
	estimateCmd.Flags().BoolVar(&estimateQuiet, "quiet", false,
		"Only exit code and artifacts, no output")
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

func runEstimate(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	data, loadErrs, err := loadCollections(inputPaths{
		events:       estimateEvents,
		links:        estimateLinks,
		indicators:   estimateIndicators,
		evidence:     estimateEvidence,
		observations: estimateObservations,
	})
	if err != nil {
		outputEstimateError("Failed to load inputs", err)
		os.Exit(estimator.ExitError)
	}

	times, err := buildTimes(estimateFrom, estimateTo, estimateStep, data.Events)
	if err != nil {
		outputEstimateError("Bad evaluation window", err)
		os.Exit(estimator.ExitError)
	}

	est := estimator.NewEstimator(config.Global.ToEstimator())
	result, err := est.Estimate(ctx, data, times)
	if err != nil {
		outputEstimateError("Estimation failed", err)
		os.Exit(estimator.ExitError)
	}
	// Loader rejects join the validation rejects in the audit trail.
	result.Errors = append(loadErrs, result.Errors...)

	logger.Info("estimation complete",
		"run_id", result.RunID,
		"events", result.EventCount,
		"estimates", len(result.Estimates),
		"errors", len(result.Errors),
		"duration_ms", result.DurationMs)

	matrixPath, detailPath, heatmapPath, err := writeArtifacts(result)
	if err != nil {
		outputEstimateError("Failed to write artifacts", err)
		os.Exit(estimator.ExitError)
	}

	if estimateSave {
		rec := store.FromResult(result, nil)
		rec.MatrixPath = matrixPath
		rec.DetailPath = detailPath
		rec.HeatmapPath = heatmapPath
		if err := saveRun(rec); err != nil {
			outputEstimateError("Failed to record run", err)
			os.Exit(estimator.ExitError)
		}
	}

	if !estimateQuiet {
		if estimateJSON {
			outputEstimateJSON(result)
		} else {
			outputEstimateText(result, estimateFormat, matrixPath, detailPath, heatmapPath)
		}
	}

	if len(result.Errors) > 0 {
		os.Exit(estimator.ExitPartial)
	}
	os.Exit(estimator.ExitSuccess)
}

// writeArtifacts writes the matrix CSV, detail JSON, and optional heatmap
// into the output directory, returning the paths.
func writeArtifacts(result *estimator.Result) (matrixPath, detailPath, heatmapPath string, err error) {
	if err = os.MkdirAll(estimateOutDir, 0755); err != nil {
		return "", "", "", fmt.Errorf("create output dir %s: %w", estimateOutDir, err)
	}

	matrixPath = filepath.Join(estimateOutDir, "impact_matrix.csv")
	mf, err := os.Create(matrixPath)
	if err != nil {
		return "", "", "", err
	}
	defer mf.Close()
	if err = export.WriteMatrixCSV(mf, result); err != nil {
		return "", "", "", err
	}

	detailPath = filepath.Join(estimateOutDir, "event_impacts.json")
	df, err := os.Create(detailPath)
	if err != nil {
		return "", "", "", err
	}
	defer df.Close()
	if err = export.WriteDetailJSON(df, result); err != nil {
		return "", "", "", err
	}

	if estimateHeatmap {
		heatmapPath = filepath.Join(estimateOutDir, "impact_matrix.png")
		if err = export.RenderHeatmap(heatmapPath, result); err != nil {
			return "", "", "", err
		}
	}
	return matrixPath, detailPath, heatmapPath, nil
}

// saveRun appends the run record to the configured history database.
func saveRun(rec store.RunRecord) error {
	path := config.ExpandPath(config.Global.HistoryDB)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	return st.SaveRun(rec)
}

// =============================================================================
// OUTPUT FUNCTIONS
// =============================================================================

func outputEstimateError(msg string, err error) {
	if estimateJSON {
		result := map[string]interface{}{
			"api_version": estimator.APIVersion,
			"success":     false,
			"error":       msg,
		}
		if err != nil {
			result["error"] = fmt.Sprintf("%s: %v", msg, err)
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		encoder.Encode(result)
	} else {
		if err != nil {
			ux.Errorf("%s: %v", msg, err)
		} else {
			ux.Errorf("%s", msg)
		}
	}
}

func outputEstimateJSON(result *estimator.Result) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
		os.Exit(estimator.ExitError)
	}
}

func outputEstimateText(result *estimator.Result, format, matrixPath, detailPath, heatmapPath string) {
	ux.Header("Impact Estimation")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println()

	fmt.Printf("Run:        %s\n", result.RunID)
	fmt.Printf("Events:     %d\n", result.EventCount)
	fmt.Printf("Links:      %d\n", result.LinkCount)
	fmt.Printf("Indicators: %d affected of %d\n", len(result.Indicators()), result.IndicatorCount)
	fmt.Printf("Window:     %s to %s (%d points)\n",
		result.Times[0].Format("2006-01-02"),
		result.Times[len(result.Times)-1].Format("2006-01-02"),
		len(result.Times))
	fmt.Println()

	// Final-time snapshot per indicator
	final := result.Times[len(result.Times)-1]
	fmt.Printf("Estimated impact at %s:\n", final.Format("2006-01-02"))
	for _, code := range result.Indicators() {
		cell, ok := result.At(code, final)
		if !ok {
			continue
		}
		sign := "+"
		if cell.Value < 0 {
			sign = ""
		}
		fmt.Printf("  %-24s %s%.4f  (confidence %.2f, %d events)\n",
			code, sign, cell.Value, cell.Confidence, len(cell.Contributors))
	}

	if format == "full" && len(result.Contributions) > 0 {
		fmt.Println()
		fmt.Println("Contributions:")
		for _, c := range result.Contributions {
			fmt.Printf("  %-14s %-24s %-10s %-10s mag %.3f conf %.2f lag %dmo\n",
				c.EventID, c.IndicatorCode, c.Tier, c.Shape, c.Magnitude, c.Confidence, c.LagMonths)
		}
	}

	if len(result.Warnings) > 0 {
		fmt.Println()
		fmt.Println("Warnings:")
		for _, w := range result.Warnings {
			ux.Warnf("event %s (%s): kept %s over %s: %s",
				w.EventID, w.Category, w.Winner, w.Loser, w.Reason)
		}
	}

	if len(result.Errors) > 0 {
		fmt.Println()
		fmt.Printf("Rejected records: %d\n", len(result.Errors))
		limit := 10
		if format == "full" {
			limit = len(result.Errors)
		}
		for i, e := range result.Errors {
			if i >= limit {
				fmt.Printf("  ... and %d more\n", len(result.Errors)-limit)
				break
			}
			ux.Bulletf("%s", e.Error())
		}
	}

	fmt.Println()
	ux.Successf("Matrix written to %s", matrixPath)
	ux.Successf("Detail written to %s", detailPath)
	if heatmapPath != "" {
		ux.Successf("Heatmap written to %s", heatmapPath)
	}
}
