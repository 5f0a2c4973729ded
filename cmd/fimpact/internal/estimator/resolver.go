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

import (
	"fmt"
	"sort"

	"github.com/AleutianAI/fi-impact/cmd/fimpact/internal/dataset"
)

// tierResolver resolves contributions for one event at one evidence tier.
//
// Resolvers run in declared priority order (direct, comparable, inferred)
// and must skip indicators already covered by a higher tier, so the
// precedence rule stays auditable in one place instead of being spread
// across nested conditionals.
type tierResolver interface {
	// Tier identifies the evidence tier this resolver implements.
	Tier() Tier

	// Resolve returns contributions for indicators of ev not present in
	// covered, plus any ambiguity warnings raised while matching.
	Resolve(ev dataset.Event, covered map[string]bool) ([]Contribution, []AmbiguityWarning)
}

// newResolvers builds the tier chain for one run.
func newResolvers(cfg Config, data dataset.Collections) []tierResolver {
	known := make(map[string]bool, len(data.Indicators))
	for _, ind := range data.Indicators {
		known[ind.Code] = true
	}
	linksByEvent := make(map[string][]dataset.ImpactLink)
	for _, link := range data.Links {
		linksByEvent[link.EventID] = append(linksByEvent[link.EventID], link)
	}
	return []tierResolver{
		&directResolver{cfg: cfg, links: linksByEvent},
		&comparableResolver{cfg: cfg, evidence: data.Evidence, known: known},
		&inferredResolver{cfg: cfg, known: known},
	}
}

// directResolver uses declared impact links as-is (tier 1).
type directResolver struct {
	cfg   Config
	links map[string][]dataset.ImpactLink
}

func (r *directResolver) Tier() Tier { return TierDirect }

func (r *directResolver) Resolve(ev dataset.Event, covered map[string]bool) ([]Contribution, []AmbiguityWarning) {
	var out []Contribution
	for _, link := range r.links[ev.ID] {
		if covered[link.IndicatorCode] {
			continue
		}
		out = append(out, Contribution{
			EventID:       ev.ID,
			IndicatorCode: link.IndicatorCode,
			Tier:          TierDirect,
			Shape:         r.cfg.ShapeFor(ev.Category, link.Shape),
			Direction:     link.Direction,
			Magnitude:     r.cfg.Weight(link.Magnitude),
			Confidence:    link.Confidence,
			LagMonths:     link.LagMonths,
			Onset:         ev.Date.AddDate(0, link.LagMonths, 0),
			Source:        link.ID,
		})
	}
	return out, nil
}

// comparableResolver derives contributions from comparable-country
// evidence matched by category (tier 2).
//
// When several entries match, the winner per indicator is picked by an
// explicit ordering: most specific category match first, then declared
// position in the reference list, then lexicographic source-context name.
// With exact-category matching all candidates are equally specific, so in
// practice declared order decides; the lexicographic rule is the
// documented final tie-break. A losing entry that disagrees on shape
// raises an AmbiguityWarning for audit.
type comparableResolver struct {
	cfg      Config
	evidence []dataset.ComparableEvidence
	known    map[string]bool
}

func (r *comparableResolver) Tier() Tier { return TierComparable }

func (r *comparableResolver) Resolve(ev dataset.Event, covered map[string]bool) ([]Contribution, []AmbiguityWarning) {
	type candidate struct {
		entry    dataset.ComparableEvidence
		declared int
	}
	var matches []candidate
	for i, entry := range r.evidence {
		if entry.AnalogousCategory == ev.Category {
			matches = append(matches, candidate{entry: entry, declared: i})
		}
	}
	if len(matches) == 0 {
		return nil, nil
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].declared != matches[j].declared {
			return matches[i].declared < matches[j].declared
		}
		return matches[i].entry.SourceContext < matches[j].entry.SourceContext
	})

	winner := matches[0].entry
	var warnings []AmbiguityWarning
	for _, m := range matches[1:] {
		winnerShape := r.cfg.ShapeFor(ev.Category, winner.Shape)
		loserShape := r.cfg.ShapeFor(ev.Category, m.entry.Shape)
		if winnerShape != loserShape {
			warnings = append(warnings, AmbiguityWarning{
				EventID:  ev.ID,
				Category: ev.Category,
				Winner:   winner.SourceContext,
				Loser:    m.entry.SourceContext,
				Reason: fmt.Sprintf("conflicting shapes %s vs %s; kept %s by declaration order",
					winnerShape, loserShape, winner.SourceContext),
			})
		}
	}

	factor, ok := r.cfg.ContextFactors[winner.Region]
	if !ok {
		factor = r.cfg.ContextFactors[dataset.RegionDistant]
	}
	var out []Contribution
	for _, imp := range winner.Impacts {
		if covered[imp.IndicatorCode] || !r.known[imp.IndicatorCode] {
			continue
		}
		out = append(out, Contribution{
			EventID:       ev.ID,
			IndicatorCode: imp.IndicatorCode,
			Tier:          TierComparable,
			Shape:         r.cfg.ShapeFor(ev.Category, winner.Shape),
			Direction:     dataset.DirectionPositive,
			Magnitude:     imp.Midpoint() * factor,
			Confidence:    clamp(imp.Confidence*factor, ComparableConfidenceMin, ComparableConfidenceMax),
			LagMonths:     imp.LagMonths,
			Onset:         ev.Date.AddDate(0, imp.LagMonths, 0),
			Source:        winner.SourceContext,
		})
	}
	return out, warnings
}

// inferredResolver falls back to category default profiles (tier 3).
// An event category without a profile resolves to nothing: the pair is
// omitted entirely, which distinguishes "unknown" from "no effect".
type inferredResolver struct {
	cfg   Config
	known map[string]bool
}

func (r *inferredResolver) Tier() Tier { return TierInferred }

func (r *inferredResolver) Resolve(ev dataset.Event, covered map[string]bool) ([]Contribution, []AmbiguityWarning) {
	profile, ok := r.cfg.CategoryProfiles[ev.Category]
	if !ok {
		return nil, nil
	}
	var out []Contribution
	for _, imp := range profile.Impacts {
		if covered[imp.IndicatorCode] || !r.known[imp.IndicatorCode] {
			continue
		}
		out = append(out, Contribution{
			EventID:       ev.ID,
			IndicatorCode: imp.IndicatorCode,
			Tier:          TierInferred,
			Shape:         r.cfg.ShapeFor(ev.Category, ""),
			Direction:     dataset.DirectionPositive,
			Magnitude:     r.cfg.Weight(imp.Magnitude),
			Confidence:    clamp(profile.Confidence, InferredConfidenceMin, InferredConfidenceMax),
			LagMonths:     imp.LagMonths,
			Onset:         ev.Date.AddDate(0, imp.LagMonths, 0),
			Source:        string(ev.Category) + " profile",
		})
	}
	return out, nil
}

// resolveAll runs the tier chain for every event.
func resolveAll(cfg Config, data dataset.Collections) ([]Contribution, []AmbiguityWarning) {
	resolvers := newResolvers(cfg, data)
	var contributions []Contribution
	var warnings []AmbiguityWarning
	for _, ev := range data.Events {
		covered := make(map[string]bool)
		for _, res := range resolvers {
			contribs, warns := res.Resolve(ev, covered)
			for _, c := range contribs {
				covered[c.IndicatorCode] = true
			}
			contributions = append(contributions, contribs...)
			warnings = append(warnings, warns...)
		}
	}
	return contributions, warnings
}
