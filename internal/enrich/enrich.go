// Package enrich derives per-claim scores and population-relative flags.
//
// Enrichment runs in two strictly sequential passes: first every raw score
// is computed for the whole population, then percentile thresholds are
// derived from the complete vectors and each claim is mapped through them.
// Fusing the passes would let thresholds drift as claims are flagged.
package enrich

import (
	"github.com/mahdieldaw/strata/internal/model"
)

// Role weights for the leverage score. Challengers carry the most
// structural weight: a claim that pushes back matters beyond its support.
var roleWeights = map[model.ClaimRole]float64{
	model.RoleChallenger: 4,
	model.RoleAnchor:     2,
	model.RoleBranch:     1,
	model.RoleSupplement: 0.5,
}

// perEdgeConstant is the small connectivity bonus for any incident edge
const perEdgeConstant = 0.25

// Enricher computes derived claim scores
type Enricher struct{}

// NewEnricher creates a new enricher
func NewEnricher() *Enricher {
	return &Enricher{}
}

// EnrichAll computes supportRatio, leverage, keystoneScore, supportSkew and
// degrees for every claim. modelCount must already be resolved (floored at
// 1). Flags are left zeroed; ApplyFlags fills them in the second pass.
func (e *Enricher) EnrichAll(claims []model.Claim, edges []model.Edge, modelCount int) []model.EnrichedClaim {
	if modelCount < 1 {
		modelCount = 1
	}

	known := make(map[string]bool, len(claims))
	for _, c := range claims {
		known[c.ID] = true
	}

	// Claims asserted per model, for the skew denominator's counterpart.
	claimsPerModel := make(map[int]int)
	for _, c := range claims {
		for _, m := range c.Supporters {
			claimsPerModel[m]++
		}
	}

	enriched := make([]model.EnrichedClaim, 0, len(claims))
	for _, c := range claims {
		enriched = append(enriched, e.enrichOne(c, edges, known, claimsPerModel, modelCount))
	}
	return enriched
}

func (e *Enricher) enrichOne(c model.Claim, edges []model.Edge, known map[string]bool, claimsPerModel map[int]int, modelCount int) model.EnrichedClaim {
	ratio := float64(len(c.Supporters)) / float64(modelCount)
	if ratio > 1 {
		ratio = 1
	}

	var (
		inDegree, outDegree       int
		outPrereq, inPrereq       int
		conflictEdges, totalEdges int
	)
	for _, edge := range edges {
		if !known[edge.From] || !known[edge.To] {
			continue // Dangling endpoint, discarded at point of use
		}
		from := edge.From == c.ID
		to := edge.To == c.ID
		if !from && !to {
			continue
		}
		totalEdges++
		if from {
			outDegree++
			if edge.Type == model.EdgePrerequisite {
				outPrereq++
			}
		}
		if to {
			inDegree++
			if edge.Type == model.EdgePrerequisite {
				inPrereq++
			}
		}
		if edge.Type == model.EdgeConflicts {
			conflictEdges++
		}
	}

	supportWeight := 2 * ratio
	roleWeight := roleWeights[c.Role]
	connectivityWeight := float64(outPrereq)*2 + float64(inPrereq)*1 +
		float64(conflictEdges)*1.5 + float64(totalEdges)*perEdgeConstant

	positionWeight := 0.0
	if outPrereq > 0 && inPrereq == 0 {
		positionWeight = 2 // Chain origin: everything downstream leans on it
	}

	return model.EnrichedClaim{
		Claim:         c,
		SupportRatio:  ratio,
		Leverage:      supportWeight + roleWeight + connectivityWeight + positionWeight,
		KeystoneScore: float64(outDegree) * float64(len(c.Supporters)),
		SupportSkew:   supportSkew(c, claimsPerModel),
		InDegree:      inDegree,
		OutDegree:     outDegree,
	}
}

// supportSkew measures how much one prolific model dominates a claim's
// backing: the largest per-model claim count among this claim's supporters,
// over the claim's total supporters. Zero for unsupported claims.
func supportSkew(c model.Claim, claimsPerModel map[int]int) float64 {
	if len(c.Supporters) == 0 {
		return 0
	}
	maxFromOne := 0
	for _, m := range c.Supporters {
		if claimsPerModel[m] > maxFromOne {
			maxFromOne = claimsPerModel[m]
		}
	}
	return float64(maxFromOne) / float64(len(c.Supporters))
}

// ResolveModelCount returns the explicit count when positive, otherwise the
// number of distinct supporter indices across all claims, floored at 1.
func ResolveModelCount(claims []model.Claim, explicit int) int {
	if explicit > 0 {
		return explicit
	}
	distinct := make(map[int]bool)
	for _, c := range claims {
		for _, m := range c.Supporters {
			distinct[m] = true
		}
	}
	if len(distinct) == 0 {
		return 1
	}
	return len(distinct)
}
