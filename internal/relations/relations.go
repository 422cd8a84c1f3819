// Package relations enriches individual claim pairs: conflicts with
// significance and clustering, tradeoffs with dominance, convergence
// points, and cascade risks over the prerequisite closure.
package relations

import (
	"fmt"

	"github.com/mahdieldaw/strata/internal/model"
)

// symmetryDelta mirrors the peak classifier's evenly-matched bound
const symmetryDelta = 0.15

// dominanceDelta is the support gap beyond which one tradeoff side
// clearly outweighs the other
const dominanceDelta = 0.3

// Detector computes pairwise relation enrichments
type Detector struct{}

// NewDetector creates a new relation detector
func NewDetector() *Detector {
	return &Detector{}
}

// Conflicts enriches every conflict edge between known claims. Mutual
// conflict edges (A→B and B→A) collapse into one pair.
func (d *Detector) Conflicts(claims []model.EnrichedClaim, edges []model.Edge) []model.ConflictPair {
	byID := index(claims)

	seen := make(map[string]bool)
	var pairs []model.ConflictPair
	for _, e := range edges {
		if e.Type != model.EdgeConflicts {
			continue
		}
		a, okA := byID[e.From]
		b, okB := byID[e.To]
		if !okA || !okB || e.From == e.To {
			continue
		}
		key := pairKey(e.From, e.To)
		if seen[key] {
			continue
		}
		seen[key] = true

		delta := abs(a.SupportRatio - b.SupportRatio)
		combined := a.SupportRatio + b.SupportRatio

		significance := combined
		if a.IsHighSupport && b.IsHighSupport {
			significance += 0.5 // Both sides carry real support: the fork matters
		}
		if a.IsKeystone || b.IsKeystone {
			significance += 0.5 // A keystone under attack endangers its cascade
		}

		axis, explicit := conflictAxis(a, b)

		pairs = append(pairs, model.ConflictPair{
			AID:             a.ID,
			BID:             b.ID,
			CombinedSupport: combined,
			SupportDelta:    delta,
			Symmetric:       delta < symmetryDelta,
			Axis:            axis,
			AxisExplicit:    explicit,
			Significance:    significance,
		})
	}
	return pairs
}

// ConflictClusters groups claims attacked by at least two challengers
// around one target
func (d *Detector) ConflictClusters(claims []model.EnrichedClaim, edges []model.Edge) []model.ConflictCluster {
	byID := index(claims)

	attackers := make(map[string][]string)
	for _, e := range edges {
		if e.Type != model.EdgeConflicts {
			continue
		}
		if _, ok := byID[e.From]; !ok {
			continue
		}
		if _, ok := byID[e.To]; !ok {
			continue
		}
		attackers[e.To] = append(attackers[e.To], e.From)
	}

	// Iterate claims, not the map, to keep output order deterministic.
	var clusters []model.ConflictCluster
	for _, c := range claims {
		if ids := attackers[c.ID]; len(ids) >= 2 {
			clusters = append(clusters, model.ConflictCluster{
				TargetID:      c.ID,
				ChallengerIDs: ids,
			})
		}
	}
	return clusters
}

// Tradeoffs enriches every tradeoff edge between known claims
func (d *Detector) Tradeoffs(claims []model.EnrichedClaim, edges []model.Edge) []model.TradeoffPair {
	byID := index(claims)

	seen := make(map[string]bool)
	var pairs []model.TradeoffPair
	for _, e := range edges {
		if e.Type != model.EdgeTradeoff {
			continue
		}
		a, okA := byID[e.From]
		b, okB := byID[e.To]
		if !okA || !okB || e.From == e.To {
			continue
		}
		key := pairKey(e.From, e.To)
		if seen[key] {
			continue
		}
		seen[key] = true

		delta := abs(a.SupportRatio - b.SupportRatio)
		combined := a.SupportRatio + b.SupportRatio

		significance := combined
		if a.IsHighSupport && b.IsHighSupport {
			significance += 0.5
		}

		pairs = append(pairs, model.TradeoffPair{
			AID:             a.ID,
			BID:             b.ID,
			CombinedSupport: combined,
			SupportDelta:    delta,
			Dominated:       delta >= dominanceDelta,
			Significance:    significance,
		})
	}
	return pairs
}

// ConvergencePoints finds claims that at least two reinforcing edges
// flow into
func (d *Detector) ConvergencePoints(claims []model.EnrichedClaim, edges []model.Edge) []model.ConvergencePoint {
	byID := index(claims)

	sources := make(map[string][]string)
	for _, e := range edges {
		if e.Type != model.EdgeSupports && e.Type != model.EdgePrerequisite {
			continue
		}
		if _, ok := byID[e.From]; !ok {
			continue
		}
		if _, ok := byID[e.To]; !ok {
			continue
		}
		sources[e.To] = append(sources[e.To], e.From)
	}

	var points []model.ConvergencePoint
	for _, c := range claims {
		ids := sources[c.ID]
		if len(ids) < 2 {
			continue
		}
		combined := 0.0
		for _, id := range ids {
			combined += byID[id].SupportRatio
		}
		points = append(points, model.ConvergencePoint{
			TargetID:        c.ID,
			SourceIDs:       ids,
			CombinedSupport: combined,
		})
	}
	return points
}

// CascadeRisks computes, for every claim with outgoing prerequisite edges,
// the full transitive dependent set and the maximum depth, via
// breadth-first closure
func (d *Detector) CascadeRisks(claims []model.EnrichedClaim, edges []model.Edge) []model.CascadeRisk {
	byID := index(claims)

	out := make(map[string][]string)
	for _, e := range edges {
		if e.Type != model.EdgePrerequisite || e.From == e.To {
			continue
		}
		if _, ok := byID[e.From]; !ok {
			continue
		}
		if _, ok := byID[e.To]; !ok {
			continue
		}
		out[e.From] = append(out[e.From], e.To)
	}

	var risks []model.CascadeRisk
	for _, c := range claims {
		if len(out[c.ID]) == 0 {
			continue
		}
		dependents, maxDepth := closure(c.ID, out)
		risks = append(risks, model.CascadeRisk{
			SourceID:   c.ID,
			Dependents: dependents,
			MaxDepth:   maxDepth,
		})
	}
	return risks
}

// closure runs BFS from source over prerequisite edges, tolerating cycles
func closure(source string, out map[string][]string) ([]string, int) {
	visited := map[string]bool{source: true}
	var dependents []string
	depth := 0

	frontier := []string{source}
	for len(frontier) > 0 {
		var next []string
		for _, id := range frontier {
			for _, dep := range out[id] {
				if visited[dep] {
					continue
				}
				visited[dep] = true
				dependents = append(dependents, dep)
				next = append(next, dep)
			}
		}
		if len(next) > 0 {
			depth++
		}
		frontier = next
	}
	return dependents, depth
}

// conflictAxis derives what a conflict is about: explicit when either side
// declares the dispute, inferred from labels otherwise
func conflictAxis(a, b model.EnrichedClaim) (string, bool) {
	if a.Disputes == b.ID {
		return fmt.Sprintf("%s disputes %s", a.Label, b.Label), true
	}
	if b.Disputes == a.ID {
		return fmt.Sprintf("%s disputes %s", b.Label, a.Label), true
	}
	if a.Type != b.Type {
		return fmt.Sprintf("%s (%s) vs %s (%s)", a.Label, a.Type, b.Label, b.Type), false
	}
	return fmt.Sprintf("%s vs %s", a.Label, b.Label), false
}

func index(claims []model.EnrichedClaim) map[string]model.EnrichedClaim {
	byID := make(map[string]model.EnrichedClaim, len(claims))
	for _, c := range claims {
		byID[c.ID] = c
	}
	return byID
}

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "\x00" + b
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
