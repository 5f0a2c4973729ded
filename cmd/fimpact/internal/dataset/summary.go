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
	"sort"
	"time"
)

// Summary is a quick profile of a loaded dataset: record counts, the
// pillar mix of observed indicators, and per-indicator growth between the
// first and last observation.
type Summary struct {
	EventCount       int               `json:"event_count"`
	LinkCount        int               `json:"link_count"`
	IndicatorCount   int               `json:"indicator_count"`
	EvidenceCount    int               `json:"evidence_count"`
	ObservationCount int               `json:"observation_count"`
	PillarCounts     map[Pillar]int    `json:"pillar_counts"`
	Growth           []IndicatorGrowth `json:"growth"`
}

// IndicatorGrowth summarizes the observed trajectory of one indicator.
type IndicatorGrowth struct {
	IndicatorCode string    `json:"indicator_code"`
	FirstDate     time.Time `json:"first_date"`
	LastDate      time.Time `json:"last_date"`
	FirstValue    float64   `json:"first_value"`
	LastValue     float64   `json:"last_value"`
	AbsoluteDelta float64   `json:"absolute_delta"`
	AnnualRate    float64   `json:"annual_rate"` // delta per year of span
}

// Summarize profiles the collections. Indicators with fewer than two
// observations are excluded from the growth table.
func Summarize(c Collections) Summary {
	s := Summary{
		EventCount:       len(c.Events),
		LinkCount:        len(c.Links),
		IndicatorCount:   len(c.Indicators),
		EvidenceCount:    len(c.Evidence),
		ObservationCount: len(c.Observations),
		PillarCounts:     make(map[Pillar]int),
	}

	pillarByCode := make(map[string]Pillar, len(c.Indicators))
	for _, ind := range c.Indicators {
		pillarByCode[ind.Code] = ind.Pillar
	}
	for _, obs := range c.Observations {
		pillar, ok := pillarByCode[obs.IndicatorCode]
		if !ok {
			pillar = PillarFromCode(obs.IndicatorCode)
		}
		if pillar != "" {
			s.PillarCounts[pillar]++
		}
	}

	byCode := make(map[string][]Observation)
	for _, obs := range c.Observations {
		byCode[obs.IndicatorCode] = append(byCode[obs.IndicatorCode], obs)
	}
	for code, series := range byCode {
		if len(series) < 2 {
			continue
		}
		sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })
		first, last := series[0], series[len(series)-1]
		years := last.Date.Sub(first.Date).Hours() / (24 * 365.25)
		growth := IndicatorGrowth{
			IndicatorCode: code,
			FirstDate:     first.Date,
			LastDate:      last.Date,
			FirstValue:    first.Value,
			LastValue:     last.Value,
			AbsoluteDelta: last.Value - first.Value,
		}
		if years > 0 {
			growth.AnnualRate = growth.AbsoluteDelta / years
		}
		s.Growth = append(s.Growth, growth)
	}
	sort.Slice(s.Growth, func(i, j int) bool {
		return s.Growth[i].IndicatorCode < s.Growth[j].IndicatorCode
	})
	return s
}
