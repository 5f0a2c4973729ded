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
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/fi-impact/cmd/fimpact/config"
	"github.com/AleutianAI/fi-impact/cmd/fimpact/internal/dataset"
	"github.com/AleutianAI/fi-impact/cmd/fimpact/internal/estimator"
	"github.com/AleutianAI/fi-impact/cmd/fimpact/internal/store"
	"github.com/AleutianAI/fi-impact/pkg/ux"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	// Input flags
	validateEvents       string
	validateLinks        string
	validateIndicators   string
	validateEvidence     string
	validateObservations string

	// Output flags
	validateSave   bool
	validateJSON   bool
	validateFormat string
	validateQuiet  bool
)

// validateReport is the JSON envelope of a validation run.
type validateReport struct {
	APIVersion string                    `json:"api_version"`
	RunID      string                    `json:"run_id"`
	Backtest   *estimator.BacktestResult `json:"backtest"`
	ErrorCount int                       `json:"error_count"`
}

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Backtest estimates against historical observations",
	Long: `Run the estimator at the observation dates and compare the estimated
impacts against what actually happened.

For every observation whose (indicator, date) the estimator produced a
cell for, the report includes the absolute and percentage error. Pairs
backed entirely by high-confidence links are additionally judged against
the acceptance threshold; lower-confidence pairs report the error
without a verdict.

Examples:
  fimpact validate --events events.csv --links links.csv \
    --indicators indicators.csv --observations observations.csv
  fimpact validate --events events.csv --links links.csv \
    --indicators indicators.csv --observations observations.csv --json`,
	Args: cobra.NoArgs,
	Run:  runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateEvents, "events", "",
		"Events CSV (required)")
	validateCmd.Flags().StringVar(&validateLinks, "links", "",
		"Impact links CSV (required)")
	validateCmd.Flags().StringVar(&validateIndicators, "indicators", "",
		"Indicator reference CSV (required)")
	validateCmd.Flags().StringVar(&validateEvidence, "evidence", "",
		"Comparable-country evidence CSV")
	validateCmd.Flags().StringVar(&validateObservations, "observations", "",
		"Historical observations CSV (required)")
	validateCmd.MarkFlagRequired("events")
	validateCmd.MarkFlagRequired("links")
	validateCmd.MarkFlagRequired("indicators")
	validateCmd.MarkFlagRequired("observations")

	validateCmd.Flags().BoolVar(&validateSave, "save", false,
		"Record the run in the local history database")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false,
		"Output as JSON for scripting")
	validateCmd.Flags().StringVar(&validateFormat, "format", "summary",
		"Output format: summary, full")
	validateCmd.Flags().BoolVar(&validateQuiet, "quiet", false,
		"Only exit code, no output")
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

func runValidate(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	data, loadErrs, err := loadCollections(inputPaths{
		events:       validateEvents,
		links:        validateLinks,
		indicators:   validateIndicators,
		evidence:     validateEvidence,
		observations: validateObservations,
	})
	if err != nil {
		outputValidateError("Failed to load inputs", err)
		os.Exit(estimator.ExitError)
	}
	if len(data.Observations) == 0 {
		outputValidateError("No observations to validate against", nil)
		os.Exit(estimator.ExitError)
	}

	// Evaluate exactly at the observation dates so every observation can
	// pair with a cell.
	times := observationTimes(data)

	est := estimator.NewEstimator(config.Global.ToEstimator())
	result, err := est.Estimate(ctx, data, times)
	if err != nil {
		outputValidateError("Estimation failed", err)
		os.Exit(estimator.ExitError)
	}
	result.Errors = append(loadErrs, result.Errors...)

	bt := est.Backtest(result, data.Observations)
	logger.Info("validation complete",
		"run_id", result.RunID,
		"pairs", bt.Count,
		"mae", bt.MAE,
		"mape", bt.MAPE)

	if validateSave {
		if err := saveRun(store.FromResult(result, &bt)); err != nil {
			outputValidateError("Failed to record run", err)
			os.Exit(estimator.ExitError)
		}
	}

	if !validateQuiet {
		if validateJSON {
			outputValidateJSON(result, &bt)
		} else {
			outputValidateText(result, &bt, validateFormat)
		}
	}

	if len(result.Errors) > 0 {
		os.Exit(estimator.ExitPartial)
	}
	os.Exit(estimator.ExitSuccess)
}

// observationTimes collects the sorted distinct observation dates.
func observationTimes(data dataset.Collections) []time.Time {
	seen := make(map[time.Time]bool)
	var times []time.Time
	for _, obs := range data.Observations {
		if !seen[obs.Date] {
			seen[obs.Date] = true
			times = append(times, obs.Date)
		}
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	return times
}

// =============================================================================
// OUTPUT FUNCTIONS
// =============================================================================

func outputValidateError(msg string, err error) {
	if validateJSON {
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

func outputValidateJSON(result *estimator.Result, bt *estimator.BacktestResult) {
	report := validateReport{
		APIVersion: estimator.APIVersion,
		RunID:      result.RunID,
		Backtest:   bt,
		ErrorCount: len(result.Errors),
	}
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
		os.Exit(estimator.ExitError)
	}
}

func outputValidateText(result *estimator.Result, bt *estimator.BacktestResult, format string) {
	ux.Header("Impact Validation")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println()

	fmt.Printf("Run:    %s\n", result.RunID)
	fmt.Printf("Pairs:  %d\n", bt.Count)
	fmt.Printf("MAE:    %.4f\n", bt.MAE)
	fmt.Printf("MAPE:   %.1f%%\n", bt.MAPE*100)
	fmt.Println()

	judged, accepted := 0, 0
	for _, p := range bt.Pairs {
		if p.Judged {
			judged++
			if p.Accepted {
				accepted++
			}
		}
	}
	if judged > 0 {
		fmt.Printf("High-confidence pairs: %d judged, %d accepted\n", judged, accepted)
		if accepted == judged {
			ux.Successf("All high-confidence estimates within tolerance")
		} else {
			ux.Warnf("%d high-confidence estimates outside tolerance", judged-accepted)
		}
		fmt.Println()
	}

	limit := 10
	if format == "full" {
		limit = len(bt.Pairs)
	}
	for i, p := range bt.Pairs {
		if i >= limit {
			fmt.Printf("  ... and %d more\n", len(bt.Pairs)-limit)
			break
		}
		verdict := "-"
		if p.Judged {
			if p.Accepted {
				verdict = string(ux.IconSuccess)
			} else {
				verdict = string(ux.IconError)
			}
		}
		fmt.Printf("  %-24s %s  obs %8.3f  est %8.3f  err %6.3f  %s\n",
			p.IndicatorCode, p.Time.Format("2006-01-02"),
			p.Observed, p.Estimated, p.AbsError, verdict)
	}

	if len(result.Errors) > 0 {
		fmt.Println()
		fmt.Printf("Rejected records: %d\n", len(result.Errors))
	}
}
