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

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is the shared struct validator. Tags live on the record types.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the input collections and returns the valid subset plus
// the collected record errors.
//
// # Description
//
// Implements the partial-result policy: an invalid record is excluded and
// reported, but does not abort the run for unrelated records. A rejected
// event takes its dependent links with it (they surface as reference
// errors, since their parent is no longer known).
//
// Checks performed:
//
//   - struct-tag validation on every record (required fields, confidence
//     in [0,1], lag >= 0)
//   - duplicate event ids (all duplicates after the first are rejected)
//   - links referencing an unknown event or indicator
//
// # Outputs
//
//   - Collections: the valid subset, safe to feed to the estimator.
//   - []RecordError: one entry per rejected record. Empty on clean input.
func Validate(in Collections) (Collections, []RecordError) {
	var errs []RecordError
	out := Collections{
		Observations: in.Observations,
	}

	// Events: struct tags, then duplicate ids.
	seen := make(map[string]bool, len(in.Events))
	for _, ev := range in.Events {
		if err := validate.Struct(ev); err != nil {
			errs = append(errs, structErrors(ev.ID, err)...)
			continue
		}
		if seen[ev.ID] {
			errs = append(errs, RecordError{
				Kind:     KindValidation,
				RecordID: ev.ID,
				Field:    "id",
				Message:  "duplicate event id",
			})
			continue
		}
		seen[ev.ID] = true
		out.Events = append(out.Events, ev)
	}

	// Indicators: struct tags, then duplicate codes.
	codes := make(map[string]bool, len(in.Indicators))
	for _, ind := range in.Indicators {
		if err := validate.Struct(ind); err != nil {
			errs = append(errs, structErrors(ind.Code, err)...)
			continue
		}
		if codes[ind.Code] {
			errs = append(errs, RecordError{
				Kind:     KindValidation,
				RecordID: ind.Code,
				Field:    "code",
				Message:  "duplicate indicator code",
			})
			continue
		}
		codes[ind.Code] = true
		out.Indicators = append(out.Indicators, ind)
	}

	// Links: struct tags, then references against the valid sets.
	for _, link := range in.Links {
		if err := validate.Struct(link); err != nil {
			errs = append(errs, structErrors(link.ID, err)...)
			continue
		}
		if !seen[link.EventID] {
			errs = append(errs, RecordError{
				Kind:     KindReference,
				RecordID: link.ID,
				Field:    "event_id",
				Message:  fmt.Sprintf("unknown event %q", link.EventID),
			})
			continue
		}
		if !codes[link.IndicatorCode] {
			errs = append(errs, RecordError{
				Kind:     KindReference,
				RecordID: link.ID,
				Field:    "indicator_code",
				Message:  fmt.Sprintf("unknown indicator %q", link.IndicatorCode),
			})
			continue
		}
		out.Links = append(out.Links, link)
	}

	// Evidence records are reference data; reject only malformed entries.
	for _, ev := range in.Evidence {
		if err := validate.Struct(ev); err != nil {
			errs = append(errs, structErrors(ev.SourceContext, err)...)
			continue
		}
		out.Evidence = append(out.Evidence, ev)
	}

	return out, errs
}

// structErrors converts validator field errors into record errors.
func structErrors(recordID string, err error) []RecordError {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []RecordError{{
			Kind:     KindValidation,
			RecordID: recordID,
			Message:  err.Error(),
		}}
	}
	out := make([]RecordError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, RecordError{
			Kind:     KindValidation,
			RecordID: recordID,
			Field:    fe.Field(),
			Message:  fmt.Sprintf("failed %q constraint", fe.Tag()),
		})
	}
	return out
}
