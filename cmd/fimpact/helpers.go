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
	"time"

	"github.com/AleutianAI/fi-impact/cmd/fimpact/internal/dataset"
)

// inputPaths groups the dataset file flags shared by the analysis
// commands. Events, links, and indicators are required; evidence and
// observations are optional.
type inputPaths struct {
	events       string
	links        string
	indicators   string
	evidence     string
	observations string
}

// loadCollections reads all configured input files. Row-level rejects are
// returned as record errors; only file-level failures are fatal.
func loadCollections(paths inputPaths) (dataset.Collections, []dataset.RecordError, error) {
	var data dataset.Collections
	var errs []dataset.RecordError

	events, eerrs, err := dataset.LoadFile(paths.events, dataset.LoadEvents)
	if err != nil {
		return data, nil, err
	}
	data.Events = events
	errs = append(errs, eerrs...)

	links, lerrs, err := dataset.LoadFile(paths.links, dataset.LoadLinks)
	if err != nil {
		return data, nil, err
	}
	data.Links = links
	errs = append(errs, lerrs...)

	indicators, ierrs, err := dataset.LoadFile(paths.indicators, dataset.LoadIndicators)
	if err != nil {
		return data, nil, err
	}
	data.Indicators = indicators
	errs = append(errs, ierrs...)

	if paths.evidence != "" {
		evidence, verrs, err := dataset.LoadFile(paths.evidence, dataset.LoadEvidence)
		if err != nil {
			return data, nil, err
		}
		data.Evidence = evidence
		errs = append(errs, verrs...)
	}

	if paths.observations != "" {
		obs, oerrs, err := dataset.LoadFile(paths.observations, dataset.LoadObservations)
		if err != nil {
			return data, nil, err
		}
		data.Observations = obs
		errs = append(errs, oerrs...)
	}

	return data, errs, nil
}

// buildTimes expands --from/--to/--step into an evaluation grid. Empty
// bounds default to the earliest event date and three years past the
// latest event date.
func buildTimes(from, to string, stepMonths int, events []dataset.Event) ([]time.Time, error) {
	if stepMonths <= 0 {
		stepMonths = 6
	}

	var start, end time.Time
	if from != "" {
		t, err := time.Parse(dataset.DateLayout, from)
		if err != nil {
			return nil, fmt.Errorf("bad --from date %q: %w", from, err)
		}
		start = t
	}
	if to != "" {
		t, err := time.Parse(dataset.DateLayout, to)
		if err != nil {
			return nil, fmt.Errorf("bad --to date %q: %w", to, err)
		}
		end = t
	}

	if start.IsZero() || end.IsZero() {
		if len(events) == 0 {
			return nil, fmt.Errorf("no events to derive the evaluation window from; pass --from and --to")
		}
		earliest, latest := events[0].Date, events[0].Date
		for _, ev := range events[1:] {
			if ev.Date.Before(earliest) {
				earliest = ev.Date
			}
			if ev.Date.After(latest) {
				latest = ev.Date
			}
		}
		if start.IsZero() {
			start = earliest
		}
		if end.IsZero() {
			end = latest.AddDate(3, 0, 0)
		}
	}
	if end.Before(start) {
		return nil, fmt.Errorf("--to %s is before --from %s", end.Format(dataset.DateLayout), start.Format(dataset.DateLayout))
	}

	var times []time.Time
	for t := start; !t.After(end); t = t.AddDate(0, stepMonths, 0) {
		times = append(times, t)
	}
	return times, nil
}
