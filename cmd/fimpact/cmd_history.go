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
	"strings"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/fi-impact/cmd/fimpact/config"
	"github.com/AleutianAI/fi-impact/cmd/fimpact/internal/estimator"
	"github.com/AleutianAI/fi-impact/cmd/fimpact/internal/store"
	"github.com/AleutianAI/fi-impact/pkg/ux"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	historyDB    string
	historyLimit int
	historyJSON  bool
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved estimation runs",
	Long: `List past estimation and validation runs recorded with --save,
newest first.

Examples:
  fimpact history
  fimpact history --limit 5 --json`,
	Args: cobra.NoArgs,
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyDB, "db", "",
		"History database path (default: configured history_db)")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20,
		"Maximum runs to list")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false,
		"Output as JSON for scripting")
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

func runHistory(cmd *cobra.Command, args []string) {
	path := historyDB
	if path == "" {
		path = config.Global.HistoryDB
	}
	path = config.ExpandPath(path)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		ux.Warnf("No run history yet; record a run with --save first")
		os.Exit(estimator.ExitSuccess)
	}

	st, err := store.Open(path)
	if err != nil {
		ux.Errorf("Failed to open run history: %v", err)
		os.Exit(estimator.ExitError)
	}

	runs, err := st.ListRuns(historyLimit)
	if err != nil {
		ux.Errorf("Failed to list runs: %v", err)
		os.Exit(estimator.ExitError)
	}

	if historyJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(runs); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			os.Exit(estimator.ExitError)
		}
		os.Exit(estimator.ExitSuccess)
	}

	ux.Header("Run History")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No saved runs.")
		os.Exit(estimator.ExitSuccess)
	}

	for _, r := range runs {
		metrics := ""
		if r.MAE != nil && r.MAPE != nil {
			metrics = fmt.Sprintf("  MAE %.4f  MAPE %.1f%%", *r.MAE, *r.MAPE*100)
		}
		fmt.Printf("%s  %s\n", r.CreatedAt.Format("2006-01-02 15:04"), ux.Styles.Highlight.Render(r.RunID))
		ux.Bulletf("%d events, %d estimates, %d errors, %d warnings%s",
			r.EventCount, r.EstimateCount, r.ErrorCount, r.WarningCount, metrics)
		if r.MatrixPath != "" {
			ux.Bulletf("matrix: %s", r.MatrixPath)
		}
	}
	os.Exit(estimator.ExitSuccess)
}
