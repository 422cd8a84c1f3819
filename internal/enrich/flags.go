package enrich

import (
	"github.com/mahdieldaw/strata/internal/model"
	"github.com/mahdieldaw/strata/internal/stats"
)

// Flagger maps raw claim scores through population-relative thresholds
type Flagger struct{}

// NewFlagger creates a new flagger
func NewFlagger() *Flagger {
	return &Flagger{}
}

// ApplyFlags fills in the nine percentile-relative flags. It is the second
// of the two passes: all thresholds come from the complete score vectors
// computed by EnrichAll, and cascades must already be detected.
func (f *Flagger) ApplyFlags(claims []model.EnrichedClaim, edges []model.Edge, cascades []model.CascadeRisk) []model.EnrichedClaim {
	if len(claims) == 0 {
		return claims
	}

	known := make(map[string]bool, len(claims))
	for _, c := range claims {
		known[c.ID] = true
	}

	dependents := make(map[string]int, len(cascades))
	for _, cr := range cascades {
		dependents[cr.SourceID] = len(cr.Dependents)
	}

	// Pass one: full score vectors.
	n := len(claims)
	supports := make([]float64, n)
	leverages := make([]float64, n)
	keystones := make([]float64, n)
	gaps := make([]float64, n)
	skews := make([]float64, n)
	for i, c := range claims {
		supports[i] = c.SupportRatio
		leverages[i] = c.Leverage
		keystones[i] = c.KeystoneScore
		gaps[i] = gapScore(c, dependents)
		skews[i] = c.SupportSkew
	}

	// Pass two: thresholds from the complete vectors, then flag.
	topSupport, _ := stats.TopThreshold(supports, 0.30)
	bottomSupport, _ := stats.BottomThreshold(supports, 0.30)
	topLeverage, _ := stats.TopThreshold(leverages, 0.25)
	topKeystone, _ := stats.TopThreshold(keystones, 0.20)
	topGap, _ := stats.TopThreshold(gaps, 0.20)
	topSkew, _ := stats.TopThreshold(skews, 0.20)

	topIDs := make(map[string]bool)
	for _, c := range claims {
		if c.SupportRatio >= topSupport {
			topIDs[c.ID] = true
		}
	}

	disputed := make(map[string]bool)
	for _, c := range claims {
		if c.Disputes != "" {
			disputed[c.Disputes] = true
		}
	}

	flagged := make([]model.EnrichedClaim, n)
	for i, c := range claims {
		c.IsHighSupport = c.SupportRatio >= topSupport

		// Exclusive with high support by construction, not by accident:
		// a lone claim is simultaneously top and bottom of its population.
		c.IsLeverageInversion = !c.IsHighSupport &&
			c.SupportRatio <= bottomSupport &&
			c.Leverage >= topLeverage

		c.IsKeystone = c.KeystoneScore >= topKeystone &&
			c.KeystoneScore > 0 &&
			c.OutDegree >= 2 &&
			outgoingPrerequisites(c.ID, edges, known) >= 2

		c.IsEvidenceGap = gaps[i] >= topGap && gaps[i] > 0
		c.IsOutlier = c.SupportSkew >= topSkew && c.SupportSkew > 0 && len(c.Supporters) >= 2

		c.IsContested = c.Type == model.ClaimContested || c.Disputes != "" ||
			disputed[c.ID] || hasConflictEdge(c.ID, edges, known)
		c.IsConditional = c.Type == model.ClaimConditional

		c.IsChallenger = !c.IsHighSupport && c.Role == model.RoleChallenger &&
			attacksTopClaim(c.ID, edges, known, topIDs)

		c.IsIsolated = c.InDegree == 0 && c.OutDegree == 0

		flagged[i] = c
	}
	return flagged
}

// gapScore is cascade dependents over the claim's own supporter count,
// denominator floored at 1: many dependents on thin backing is the gap.
func gapScore(c model.EnrichedClaim, dependents map[string]int) float64 {
	supporters := len(c.Supporters)
	if supporters < 1 {
		supporters = 1
	}
	return float64(dependents[c.ID]) / float64(supporters)
}

func outgoingPrerequisites(id string, edges []model.Edge, known map[string]bool) int {
	count := 0
	for _, e := range edges {
		if e.From == id && e.Type == model.EdgePrerequisite && known[e.To] {
			count++
		}
	}
	return count
}

func hasConflictEdge(id string, edges []model.Edge, known map[string]bool) bool {
	for _, e := range edges {
		if e.Type != model.EdgeConflicts || !known[e.From] || !known[e.To] {
			continue
		}
		if e.From == id || e.To == id {
			return true
		}
	}
	return false
}

// attacksTopClaim reports whether the claim has a conflicts or prerequisite
// edge aimed at a top-support claim
func attacksTopClaim(id string, edges []model.Edge, known map[string]bool, topIDs map[string]bool) bool {
	for _, e := range edges {
		if e.From != id || !known[e.To] || !topIDs[e.To] {
			continue
		}
		if e.Type == model.EdgeConflicts || e.Type == model.EdgePrerequisite {
			return true
		}
	}
	return false
}
