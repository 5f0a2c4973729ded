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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/fi-impact/cmd/fimpact/config"
	"github.com/AleutianAI/fi-impact/pkg/logging"
	"github.com/AleutianAI/fi-impact/pkg/ux"
)

// Version is stamped at build time.
var Version = "dev"

var logger = logging.Default()

var (
	rootCmd = &cobra.Command{
		Use:   "fimpact",
		Short: "Event-impact estimation for financial-inclusion indicators",
		Long: `fimpact ingests tabular datasets of events, impact links, reference
indicators, comparable-country evidence, and historical observations,
runs a rule-based event-impact estimator, and exports an
(indicator x time) impact matrix with per-event detail.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Load(); err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if config.Global.LogDir != "" {
				logger.Close()
				logger = logging.New(logging.Config{
					Level:   logging.LevelInfo,
					LogDir:  config.Global.LogDir,
					Service: "fimpact",
				})
			}
			return nil
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the fimpact version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("fimpact %s\n", ux.Styles.Highlight.Render(Version))
		},
	}
)

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(historyCmd)
}
