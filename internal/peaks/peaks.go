// Package peaks partitions claims into support tiers and classifies the
// primary shape of the collective answer from the relations between peaks.
package peaks

import (
	"github.com/mahdieldaw/strata/internal/model"
)

// symmetryDelta is the support-ratio difference below which two peaks are
// considered evenly matched
const symmetryDelta = 0.15

// Partitioner splits claims into peak, hill and floor tiers
type Partitioner struct{}

// NewPartitioner creates a new partitioner
func NewPartitioner() *Partitioner {
	return &Partitioner{}
}

// Partition assigns each claim a tier and collects the edges running
// between peaks, split by signal. A peak needs both majority support and
// at least two supporters; a majority claim backed by a single model lands
// on the hill instead. Prerequisite edges between peaks are cohesive,
// never tension.
func (p *Partitioner) Partition(claims []model.EnrichedClaim, edges []model.Edge) model.PeakAnalysis {
	var pa model.PeakAnalysis

	peakIDs := make(map[string]bool)
	for _, c := range claims {
		switch Tier(c) {
		case model.TierPeak:
			pa.Peaks = append(pa.Peaks, c)
			peakIDs[c.ID] = true
		case model.TierHill:
			pa.Hills = append(pa.Hills, c)
		default:
			pa.Floor = append(pa.Floor, c)
		}
	}

	for _, e := range edges {
		if !peakIDs[e.From] || !peakIDs[e.To] {
			continue
		}
		switch e.Type {
		case model.EdgeConflicts:
			pa.PeakConflicts = append(pa.PeakConflicts, e)
		case model.EdgeTradeoff:
			pa.PeakTradeoffs = append(pa.PeakTradeoffs, e)
		case model.EdgeSupports, model.EdgePrerequisite:
			pa.PeakCohesive = append(pa.PeakCohesive, e)
		}
	}

	return pa
}

// Tier returns the support tier for one enriched claim
func Tier(c model.EnrichedClaim) model.SupportTier {
	switch {
	case c.SupportRatio >= 0.5 && len(c.Supporters) >= 2:
		return model.TierPeak
	case c.SupportRatio > 0.25:
		return model.TierHill
	default:
		return model.TierFloor
	}
}

// Relations classifies every unordered peak pair with the fixed precedence
// conflicts > tradeoff > supporting > independent, and summarizes the
// overall relationship with the same precedence.
func Relations(pa model.PeakAnalysis) ([]model.PeakRelation, model.PeakRelationKind) {
	if len(pa.Peaks) < 2 {
		return nil, model.PeaksNone
	}

	support := make(map[string]float64, len(pa.Peaks))
	for _, p := range pa.Peaks {
		support[p.ID] = p.SupportRatio
	}

	kind := func(a, b string) model.PeakRelationKind {
		if connects(pa.PeakConflicts, a, b) {
			return model.PeaksConflicting
		}
		if connects(pa.PeakTradeoffs, a, b) {
			return model.PeaksTradingOff
		}
		if connects(pa.PeakCohesive, a, b) {
			return model.PeaksSupporting
		}
		return model.PeaksIndependent
	}

	var relations []model.PeakRelation
	overall := model.PeaksIndependent
	for i := 0; i < len(pa.Peaks); i++ {
		for j := i + 1; j < len(pa.Peaks); j++ {
			a, b := pa.Peaks[i].ID, pa.Peaks[j].ID
			delta := support[a] - support[b]
			if delta < 0 {
				delta = -delta
			}
			k := kind(a, b)
			relations = append(relations, model.PeakRelation{
				AID:          a,
				BID:          b,
				Kind:         k,
				SupportDelta: delta,
				Symmetric:    delta < symmetryDelta,
			})
			if precedence(k) > precedence(overall) {
				overall = k
			}
		}
	}
	return relations, overall
}

func connects(edges []model.Edge, a, b string) bool {
	for _, e := range edges {
		if (e.From == a && e.To == b) || (e.From == b && e.To == a) {
			return true
		}
	}
	return false
}

func precedence(k model.PeakRelationKind) int {
	switch k {
	case model.PeaksConflicting:
		return 4
	case model.PeaksTradingOff:
		return 3
	case model.PeaksSupporting:
		return 2
	case model.PeaksIndependent:
		return 1
	default:
		return 0
	}
}
