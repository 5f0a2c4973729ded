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
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/fi-impact/cmd/fimpact/internal/dataset"
	"github.com/AleutianAI/fi-impact/cmd/fimpact/internal/estimator"
	"github.com/AleutianAI/fi-impact/pkg/ux"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	summaryEvents       string
	summaryLinks        string
	summaryIndicators   string
	summaryEvidence     string
	summaryObservations string

	summaryJSON bool
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Profile a dataset before estimating",
	Long: `Profile the input dataset: record counts, the pillar mix of the
observed indicators, and per-indicator growth between the first and
last observation.

Examples:
  fimpact summary --events events.csv --links links.csv --indicators indicators.csv \
    --observations observations.csv
  fimpact summary --events events.csv --links links.csv --indicators indicators.csv --json`,
	Args: cobra.NoArgs,
	Run:  runSummary,
}

func init() {
	summaryCmd.Flags().StringVar(&summaryEvents, "events", "",
		"Events CSV (required)")
	summaryCmd.Flags().StringVar(&summaryLinks, "links", "",
		"Impact links CSV (required)")
	summaryCmd.Flags().StringVar(&summaryIndicators, "indicators", "",
		"Indicator reference CSV (required)")
	summaryCmd.Flags().StringVar(&summaryEvidence, "evidence", "",
		"Comparable-country evidence CSV")
	summaryCmd.Flags().StringVar(&summaryObservations, "observations", "",
		"Historical observations CSV")
	summaryCmd.MarkFlagRequired("events")
	summaryCmd.MarkFlagRequired("links")
	summaryCmd.MarkFlagRequired("indicators")

	summaryCmd.Flags().BoolVar(&summaryJSON, "json", false,
		"Output as JSON for scripting")
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

func runSummary(cmd *cobra.Command, args []string) {
	data, loadErrs, err := loadCollections(inputPaths{
		events:       summaryEvents,
		links:        summaryLinks,
		indicators:   summaryIndicators,
		evidence:     summaryEvidence,
		observations: summaryObservations,
	})
	if err != nil {
		ux.Errorf("Failed to load inputs: %v", err)
		os.Exit(estimator.ExitError)
	}

	summary := dataset.Summarize(data)

	if summaryJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(summary); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			os.Exit(estimator.ExitError)
		}
	} else {
		outputSummaryText(summary, loadErrs)
	}

	if len(loadErrs) > 0 {
		os.Exit(estimator.ExitPartial)
	}
	os.Exit(estimator.ExitSuccess)
}

// =============================================================================
// OUTPUT FUNCTIONS
// =============================================================================

func outputSummaryText(summary dataset.Summary, loadErrs []dataset.RecordError) {
	ux.Header("Dataset Summary")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println()

	fmt.Printf("Events:       %d\n", summary.EventCount)
	fmt.Printf("Links:        %d\n", summary.LinkCount)
	fmt.Printf("Indicators:   %d\n", summary.IndicatorCount)
	fmt.Printf("Evidence:     %d\n", summary.EvidenceCount)
	fmt.Printf("Observations: %d\n", summary.ObservationCount)

	if len(summary.PillarCounts) > 0 {
		fmt.Println()
		fmt.Println("Observations by pillar:")
		pillars := make([]string, 0, len(summary.PillarCounts))
		for p := range summary.PillarCounts {
			pillars = append(pillars, string(p))
		}
		sort.Strings(pillars)
		for _, p := range pillars {
			ux.Bulletf("%-14s %d", p, summary.PillarCounts[dataset.Pillar(p)])
		}
	}

	if len(summary.Growth) > 0 {
		fmt.Println()
		fmt.Println("Indicator growth (first to last observation):")
		for _, g := range summary.Growth {
			fmt.Printf("  %-24s %s to %s  %8.2f -> %8.2f  (%+.2f/yr)\n",
				g.IndicatorCode,
				g.FirstDate.Format("2006-01-02"), g.LastDate.Format("2006-01-02"),
				g.FirstValue, g.LastValue, g.AnnualRate)
		}
	}

	if len(loadErrs) > 0 {
		fmt.Println()
		fmt.Printf("Rejected records: %d\n", len(loadErrs))
		for _, e := range loadErrs {
			ux.Bulletf("%s", e.Error())
		}
	}
}
