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
	"encoding/json"
	"io"
	"time"

	"github.com/AleutianAI/fi-impact/cmd/fimpact/internal/dataset"
	"github.com/AleutianAI/fi-impact/cmd/fimpact/internal/estimator"
)

// Detail is the structured per-event impact artifact: every resolved
// contribution with its tier, shape, and confidence, plus the audit trail
// of rejects and ambiguity warnings.
type Detail struct {
	APIVersion    string                       `json:"api_version"`
	RunID         string                       `json:"run_id"`
	GeneratedAt   time.Time                    `json:"generated_at"`
	Contributions []estimator.Contribution     `json:"contributions"`
	Warnings      []estimator.AmbiguityWarning `json:"warnings,omitempty"`
	Errors        []dataset.RecordError        `json:"errors,omitempty"`
}

// WriteDetailJSON writes the per-event impact detail list as indented
// JSON.
func WriteDetailJSON(w io.Writer, result *estimator.Result) error {
	detail := Detail{
		APIVersion:    result.APIVersion,
		RunID:         result.RunID,
		GeneratedAt:   time.Now().UTC(),
		Contributions: result.Contributions,
		Warnings:      result.Warnings,
		Errors:        result.Errors,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(detail)
}
