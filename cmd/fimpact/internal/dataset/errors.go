// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package dataset

import "fmt"

// ErrorKind distinguishes malformed records from dangling references.
type ErrorKind string

const (
	// KindValidation marks a malformed or duplicate input record
	// (duplicate event id, confidence outside [0,1], negative lag).
	KindValidation ErrorKind = "validation"

	// KindReference marks a link pointing at an unknown event or indicator.
	KindReference ErrorKind = "reference"
)

// RecordError describes a single rejected input record.
//
// Record errors are collected, not thrown: the run proceeds for all valid
// records and returns the rejects alongside the result (partial-result
// policy). A RecordError never aborts unrelated records.
type RecordError struct {
	Kind     ErrorKind `json:"kind"`
	RecordID string    `json:"record_id"`
	Field    string    `json:"field,omitempty"`
	Message  string    `json:"message"`
}

// Error implements the error interface.
func (e RecordError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s error on record %q field %q: %s", e.Kind, e.RecordID, e.Field, e.Message)
	}
	return fmt.Sprintf("%s error on record %q: %s", e.Kind, e.RecordID, e.Message)
}

// CountKind returns how many errors of the given kind are in errs.
func CountKind(errs []RecordError, kind ErrorKind) int {
	n := 0
	for _, e := range errs {
		if e.Kind == kind {
			n++
		}
	}
	return n
}
