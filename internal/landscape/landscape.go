// Package landscape computes aggregate statistics over the whole claim
// population: distribution histograms, the resolved model count, the
// convergence ratio, and the five core ratios summarizing the graph.
package landscape

import (
	"sort"

	"github.com/mahdieldaw/strata/internal/model"
	"github.com/mahdieldaw/strata/internal/stats"
)

// Calculator derives landscape metrics and core ratios
type Calculator struct{}

// NewCalculator creates a new landscape calculator
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Landscape computes distribution histograms, dominant categories and the
// convergence ratio. modelCount must already be resolved.
func (c *Calculator) Landscape(claims []model.EnrichedClaim, modelCount int) model.Landscape {
	types := make(map[model.ClaimType]int)
	roles := make(map[model.ClaimRole]int)
	for _, cl := range claims {
		types[cl.Type]++
		roles[cl.Role]++
	}

	return model.Landscape{
		TypeDistribution: types,
		RoleDistribution: roles,
		DominantType:     dominantType(types),
		DominantRole:     dominantRole(roles),
		ModelCount:       modelCount,
		ConvergenceRatio: convergenceRatio(claims),
	}
}

// Ratios computes the five scalar graph summaries
func (c *Calculator) Ratios(claims []model.EnrichedClaim, edges []model.Edge, ga model.GraphAnalysis, modelCount int) model.CoreRatios {
	return model.CoreRatios{
		Concentration: concentration(claims, modelCount),
		Alignment:     alignment(claims, edges),
		Tension:       tension(claims, edges),
		Fragmentation: fragmentation(len(claims), ga.ComponentCount),
		Depth:         depth(len(claims), len(ga.LongestChain)),
	}
}

func concentration(claims []model.EnrichedClaim, modelCount int) float64 {
	if modelCount < 1 {
		modelCount = 1
	}
	maxSupporters := 0
	for _, c := range claims {
		if n := len(c.Supporters); n > maxSupporters {
			maxSupporters = n
		}
	}
	v := float64(maxSupporters) / float64(modelCount)
	if v > 1 {
		v = 1
	}
	return v
}

// alignment is the reinforcing share of edges among the top-30%-by-support
// claims. Nil when those claims have no edges between them: absence of
// connection is neutral, not misaligned.
func alignment(claims []model.EnrichedClaim, edges []model.Edge) *float64 {
	ratios := make([]float64, len(claims))
	for i, c := range claims {
		ratios[i] = c.SupportRatio
	}
	cutoff, ok := stats.TopThreshold(ratios, 0.30)
	if !ok {
		return nil
	}

	top := make(map[string]bool)
	for _, c := range claims {
		if c.SupportRatio >= cutoff {
			top[c.ID] = true
		}
	}

	total, reinforcing := 0, 0
	for _, e := range edges {
		if !top[e.From] || !top[e.To] {
			continue
		}
		total++
		if e.Type == model.EdgeSupports || e.Type == model.EdgePrerequisite {
			reinforcing++
		}
	}
	if total == 0 {
		return nil
	}
	v := float64(reinforcing) / float64(total)
	return &v
}

func tension(claims []model.EnrichedClaim, edges []model.Edge) float64 {
	known := make(map[string]bool, len(claims))
	for _, c := range claims {
		known[c.ID] = true
	}
	total, tense := 0, 0
	for _, e := range edges {
		if !known[e.From] || !known[e.To] {
			continue
		}
		total++
		if e.Type == model.EdgeConflicts || e.Type == model.EdgeTradeoff {
			tense++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(tense) / float64(total)
}

func fragmentation(claimCount, componentCount int) float64 {
	if claimCount < 2 {
		return 0
	}
	return float64(componentCount-1) / float64(claimCount-1)
}

func depth(claimCount, chainLen int) float64 {
	if claimCount == 0 {
		return 0
	}
	return float64(chainLen) / float64(claimCount)
}

// convergenceRatio is the share of claims at or above the top-30% support
// cutoff; high values mean support piles onto few positions
func convergenceRatio(claims []model.EnrichedClaim) float64 {
	if len(claims) == 0 {
		return 0
	}
	ratios := make([]float64, len(claims))
	for i, c := range claims {
		ratios[i] = c.SupportRatio
	}
	cutoff, _ := stats.TopThreshold(ratios, 0.30)
	return float64(stats.CountAtLeast(ratios, cutoff)) / float64(len(claims))
}

// dominantType picks the most frequent type, ties broken alphabetically
// for deterministic output
func dominantType(dist map[model.ClaimType]int) model.ClaimType {
	keys := make([]string, 0, len(dist))
	for k := range dist {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	var best model.ClaimType
	bestCount := 0
	for _, k := range keys {
		if dist[model.ClaimType(k)] > bestCount {
			best = model.ClaimType(k)
			bestCount = dist[model.ClaimType(k)]
		}
	}
	return best
}

func dominantRole(dist map[model.ClaimRole]int) model.ClaimRole {
	keys := make([]string, 0, len(dist))
	for k := range dist {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	var best model.ClaimRole
	bestCount := 0
	for _, k := range keys {
		if dist[model.ClaimRole(k)] > bestCount {
			best = model.ClaimRole(k)
			bestCount = dist[model.ClaimRole(k)]
		}
	}
	return best
}
