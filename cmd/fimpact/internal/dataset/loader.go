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
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the date format used across all input files.
const DateLayout = "2006-01-02"

// header maps column names to positions, so files may order columns freely.
type header map[string]int

func (h header) get(row []string, col string) string {
	idx, ok := h[col]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// readAll parses a CSV stream and returns the header map plus data rows.
func readAll(r io.Reader) (header, [][]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("empty file: no header row")
	}
	h := make(header, len(rows[0]))
	for i, col := range rows[0] {
		h[strings.ToLower(strings.TrimSpace(col))] = i
	}
	return h, rows[1:], nil
}

// LoadEvents reads events from a CSV stream.
//
// Expected columns: record_id, name, event_date, event_category,
// description. Rows with an unparseable date are rejected as record
// errors; the rest of the file still loads.
func LoadEvents(r io.Reader) ([]Event, []RecordError, error) {
	h, rows, err := readAll(r)
	if err != nil {
		return nil, nil, err
	}
	var events []Event
	var errs []RecordError
	for _, row := range rows {
		id := h.get(row, "record_id")
		date, derr := time.Parse(DateLayout, h.get(row, "event_date"))
		if derr != nil {
			errs = append(errs, RecordError{
				Kind:     KindValidation,
				RecordID: id,
				Field:    "event_date",
				Message:  fmt.Sprintf("bad date %q (want %s)", h.get(row, "event_date"), DateLayout),
			})
			continue
		}
		events = append(events, Event{
			ID:          id,
			Name:        h.get(row, "name"),
			Date:        date,
			Category:    ParseEventCategory(h.get(row, "event_category")),
			Description: h.get(row, "description"),
		})
	}
	return events, errs, nil
}

// LoadLinks reads impact links from a CSV stream.
//
// Expected columns: record_id, parent_id, related_indicator,
// impact_direction, impact_magnitude, lag_months, evidence_basis,
// confidence, shape, notes.
func LoadLinks(r io.Reader) ([]ImpactLink, []RecordError, error) {
	h, rows, err := readAll(r)
	if err != nil {
		return nil, nil, err
	}
	var links []ImpactLink
	var errs []RecordError
	for _, row := range rows {
		id := h.get(row, "record_id")
		lag, lerr := parseIntField(h.get(row, "lag_months"))
		if lerr != nil {
			errs = append(errs, RecordError{Kind: KindValidation, RecordID: id, Field: "lag_months", Message: lerr.Error()})
			continue
		}
		conf, cerr := parseFloatField(h.get(row, "confidence"))
		if cerr != nil {
			errs = append(errs, RecordError{Kind: KindValidation, RecordID: id, Field: "confidence", Message: cerr.Error()})
			continue
		}
		links = append(links, ImpactLink{
			ID:            id,
			EventID:       h.get(row, "parent_id"),
			IndicatorCode: h.get(row, "related_indicator"),
			Direction:     ParseDirection(h.get(row, "impact_direction")),
			Magnitude:     ParseMagnitude(h.get(row, "impact_magnitude")),
			LagMonths:     lag,
			Basis:         ParseEvidenceBasis(h.get(row, "evidence_basis")),
			Confidence:    conf,
			Shape:         ParseShape(h.get(row, "shape")),
			Notes:         h.get(row, "notes"),
		})
	}
	return links, errs, nil
}

// LoadIndicators reads the indicator reference set from a CSV stream.
//
// Expected columns: indicator_code, pillar, unit, name. A missing pillar
// column falls back to the code prefix convention (ACC_, USG_, ...).
func LoadIndicators(r io.Reader) ([]Indicator, []RecordError, error) {
	h, rows, err := readAll(r)
	if err != nil {
		return nil, nil, err
	}
	var inds []Indicator
	for _, row := range rows {
		code := h.get(row, "indicator_code")
		pillar := Pillar(strings.ToLower(h.get(row, "pillar")))
		if pillar == "" {
			pillar = PillarFromCode(code)
		}
		inds = append(inds, Indicator{
			Code:   code,
			Pillar: pillar,
			Unit:   h.get(row, "unit"),
			Name:   h.get(row, "name"),
		})
	}
	return inds, nil, nil
}

// LoadEvidence reads comparable-country evidence from a CSV stream.
//
// Expected columns: source_context, region_class, analogous_category,
// shape, indicator_code, impact_min_pp, impact_max_pp, lag_months,
// confidence, citation. One row per (source, indicator); rows sharing a
// source_context are grouped into one ComparableEvidence entry, keeping
// first-seen declaration order (the order is the tie-break priority).
func LoadEvidence(r io.Reader) ([]ComparableEvidence, []RecordError, error) {
	h, rows, err := readAll(r)
	if err != nil {
		return nil, nil, err
	}
	var order []string
	grouped := make(map[string]*ComparableEvidence)
	var errs []RecordError
	for _, row := range rows {
		source := h.get(row, "source_context")
		lag, lerr := parseIntField(h.get(row, "lag_months"))
		if lerr != nil {
			errs = append(errs, RecordError{Kind: KindValidation, RecordID: source, Field: "lag_months", Message: lerr.Error()})
			continue
		}
		conf, cerr := parseFloatField(h.get(row, "confidence"))
		if cerr != nil {
			errs = append(errs, RecordError{Kind: KindValidation, RecordID: source, Field: "confidence", Message: cerr.Error()})
			continue
		}
		minPP, _ := parseFloatField(h.get(row, "impact_min_pp"))
		maxPP, _ := parseFloatField(h.get(row, "impact_max_pp"))

		entry, ok := grouped[source]
		if !ok {
			entry = &ComparableEvidence{
				SourceContext:     source,
				Region:            ParseRegionClass(h.get(row, "region_class")),
				AnalogousCategory: ParseEventCategory(h.get(row, "analogous_category")),
				Shape:             ParseShape(h.get(row, "shape")),
				Citation:          h.get(row, "citation"),
			}
			grouped[source] = entry
			order = append(order, source)
		}
		entry.Impacts = append(entry.Impacts, EvidenceImpact{
			IndicatorCode: h.get(row, "indicator_code"),
			MinPP:         minPP,
			MaxPP:         maxPP,
			LagMonths:     lag,
			Confidence:    conf,
		})
	}
	out := make([]ComparableEvidence, 0, len(order))
	for _, source := range order {
		out = append(out, *grouped[source])
	}
	return out, errs, nil
}

// LoadObservations reads historical observations from a CSV stream.
//
// Expected columns: indicator_code, observation_date, value_numeric.
func LoadObservations(r io.Reader) ([]Observation, []RecordError, error) {
	h, rows, err := readAll(r)
	if err != nil {
		return nil, nil, err
	}
	var obs []Observation
	var errs []RecordError
	for _, row := range rows {
		code := h.get(row, "indicator_code")
		date, derr := time.Parse(DateLayout, h.get(row, "observation_date"))
		if derr != nil {
			errs = append(errs, RecordError{Kind: KindValidation, RecordID: code, Field: "observation_date", Message: derr.Error()})
			continue
		}
		val, verr := parseFloatField(h.get(row, "value_numeric"))
		if verr != nil {
			errs = append(errs, RecordError{Kind: KindValidation, RecordID: code, Field: "value_numeric", Message: verr.Error()})
			continue
		}
		obs = append(obs, Observation{IndicatorCode: code, Date: date, Value: val})
	}
	return obs, errs, nil
}

// LoadFile opens path and feeds it to the given loader.
func LoadFile[T any](path string, load func(io.Reader) ([]T, []RecordError, error)) ([]T, []RecordError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return load(f)
}

func parseIntField(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	return n, nil
}

func parseFloatField(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return f, nil
}
