// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package estimator

import "errors"

// Sentinel errors for unusable runs. Record-level problems are collected
// on the Result instead; these abort the whole run.
var (
	// ErrNilContext indicates a nil context was passed.
	ErrNilContext = errors.New("context must not be nil")

	// ErrNoEvents indicates the event set was empty.
	ErrNoEvents = errors.New("event set must not be empty")

	// ErrNoTimes indicates no evaluation timestamps were supplied.
	ErrNoTimes = errors.New("at least one evaluation time is required")

	// ErrUnorderedTimes indicates the evaluation timestamps were not
	// non-decreasing.
	ErrUnorderedTimes = errors.New("evaluation times must be non-decreasing")
)
