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
	"strings"
	"testing"
)

// TestLoadEvents tests event loading with a malformed date row.
func TestLoadEvents(t *testing.T) {
	csv := `record_id,name,event_date,event_category,description
EVT-001,Telebirr launch,2021-05-01,product_launch,Mobile money launch
EVT-002,Bad row,not-a-date,policy,
EVT-003,Directive,2020-04-01,policy,Licensing directive
`
	events, errs, err := LoadEvents(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("LoadEvents() error = %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("LoadEvents() loaded %d events, want 2", len(events))
	}
	if len(errs) != 1 {
		t.Fatalf("LoadEvents() collected %d errors, want 1", len(errs))
	}
	if errs[0].RecordID != "EVT-002" || errs[0].Field != "event_date" {
		t.Errorf("error = %+v, want EVT-002/event_date", errs[0])
	}
	if events[0].Category != CategoryProductLaunch {
		t.Errorf("events[0].Category = %s, want %s", events[0].Category, CategoryProductLaunch)
	}
	if got := events[0].Date.Format(DateLayout); got != "2021-05-01" {
		t.Errorf("events[0].Date = %s, want 2021-05-01", got)
	}
}

// TestLoadEvents_ColumnOrder tests that column positions are free.
func TestLoadEvents_ColumnOrder(t *testing.T) {
	csv := `event_date,record_id,event_category,name
2021-05-01,EVT-001,policy,Reordered
`
	events, errs, err := LoadEvents(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("LoadEvents() error = %v", err)
	}
	if len(errs) != 0 {
		t.Fatalf("LoadEvents() errors = %v, want none", errs)
	}
	if len(events) != 1 || events[0].ID != "EVT-001" || events[0].Name != "Reordered" {
		t.Errorf("LoadEvents() = %+v, want EVT-001/Reordered", events)
	}
}

// TestLoadEvents_EmptyFile tests that a missing header is a file error.
func TestLoadEvents_EmptyFile(t *testing.T) {
	_, _, err := LoadEvents(strings.NewReader(""))
	if err == nil {
		t.Fatal("LoadEvents(empty) error = nil, want error")
	}
}

// TestLoadLinks tests link loading including a bad confidence value.
func TestLoadLinks(t *testing.T) {
	csv := `record_id,parent_id,related_indicator,impact_direction,impact_magnitude,lag_months,evidence_basis,confidence,shape
LNK-001,EVT-001,ACC_MM_ACCOUNT,positive,very_high,6,direct,0.9,saturating
LNK-002,EVT-001,USG_DIGITAL_PAYMENT,positive,high,12,comparable_country,oops,
LNK-003,EVT-003,ACC_OWNERSHIP,negative,low,0,inferred,0.4,
`
	links, errs, err := LoadLinks(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("LoadLinks() error = %v", err)
	}
	if len(links) != 2 {
		t.Fatalf("LoadLinks() loaded %d links, want 2", len(links))
	}
	if len(errs) != 1 || errs[0].Field != "confidence" {
		t.Fatalf("LoadLinks() errors = %v, want one confidence error", errs)
	}

	got := links[0]
	if got.EventID != "EVT-001" || got.IndicatorCode != "ACC_MM_ACCOUNT" {
		t.Errorf("links[0] references = %s/%s, want EVT-001/ACC_MM_ACCOUNT", got.EventID, got.IndicatorCode)
	}
	if got.Magnitude != MagnitudeVeryHigh || got.LagMonths != 6 || got.Confidence != 0.9 {
		t.Errorf("links[0] = %+v, want very_high/6/0.9", got)
	}
	if got.Shape != ShapeSaturating {
		t.Errorf("links[0].Shape = %q, want saturating", got.Shape)
	}
	if links[1].Direction != DirectionNegative {
		t.Errorf("links[1].Direction = %s, want negative", links[1].Direction)
	}
}

// TestLoadEvidence tests grouping rows by source context in declared order.
func TestLoadEvidence(t *testing.T) {
	csv := `source_context,region_class,analogous_category,shape,indicator_code,impact_min_pp,impact_max_pp,lag_months,confidence
Kenya M-Pesa,same_region,product_launch,saturating,ACC_MM_ACCOUNT,0.05,0.15,12,0.7
Kenya M-Pesa,same_region,product_launch,saturating,USG_DIGITAL_PAYMENT,0.02,0.08,18,0.6
Tanzania mobile money,same_region,product_launch,gradual,ACC_MM_ACCOUNT,0.02,0.06,18,0.6
`
	evidence, errs, err := LoadEvidence(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("LoadEvidence() error = %v", err)
	}
	if len(errs) != 0 {
		t.Fatalf("LoadEvidence() errors = %v, want none", errs)
	}
	if len(evidence) != 2 {
		t.Fatalf("LoadEvidence() grouped into %d entries, want 2", len(evidence))
	}

	// Declaration order decides tie-breaks downstream, so it must survive.
	if evidence[0].SourceContext != "Kenya M-Pesa" || evidence[1].SourceContext != "Tanzania mobile money" {
		t.Errorf("order = %s, %s; want declaration order", evidence[0].SourceContext, evidence[1].SourceContext)
	}
	if len(evidence[0].Impacts) != 2 {
		t.Errorf("Kenya entry has %d impacts, want 2", len(evidence[0].Impacts))
	}
	if evidence[0].Region != RegionSame || evidence[0].Shape != ShapeSaturating {
		t.Errorf("Kenya entry = %+v, want same_region/saturating", evidence[0])
	}
	if mid := evidence[0].Impacts[0].Midpoint(); mid != 0.1 {
		t.Errorf("Kenya ACC_MM_ACCOUNT midpoint = %v, want 0.1", mid)
	}
}

// TestLoadIndicators tests pillar fallback from the code prefix.
func TestLoadIndicators(t *testing.T) {
	csv := `indicator_code,pillar,unit,name
ACC_OWNERSHIP,access,pct,Account ownership
USG_DIGITAL_PAYMENT,,pct,Digital payment usage
`
	inds, _, err := LoadIndicators(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("LoadIndicators() error = %v", err)
	}
	if len(inds) != 2 {
		t.Fatalf("LoadIndicators() loaded %d, want 2", len(inds))
	}
	if inds[1].Pillar != PillarUsage {
		t.Errorf("missing pillar fell back to %q, want %q", inds[1].Pillar, PillarUsage)
	}
}

// TestLoadObservations tests observation loading with a bad value row.
func TestLoadObservations(t *testing.T) {
	csv := `indicator_code,observation_date,value_numeric
ACC_OWNERSHIP,2017-01-01,34.8
ACC_OWNERSHIP,2021-01-01,46.5
ACC_OWNERSHIP,2022-01-01,n/a
`
	obs, errs, err := LoadObservations(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("LoadObservations() error = %v", err)
	}
	if len(obs) != 2 {
		t.Fatalf("LoadObservations() loaded %d, want 2", len(obs))
	}
	if len(errs) != 1 || errs[0].Field != "value_numeric" {
		t.Fatalf("LoadObservations() errors = %v, want one value error", errs)
	}
	if obs[1].Value != 46.5 {
		t.Errorf("obs[1].Value = %v, want 46.5", obs[1].Value)
	}
}
