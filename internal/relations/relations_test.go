package relations

import (
	"reflect"
	"testing"

	"github.com/mahdieldaw/strata/internal/model"
)

func enriched(id string, support float64, high, keystone bool) model.EnrichedClaim {
	return model.EnrichedClaim{
		Claim:         model.Claim{ID: id, Label: id, Supporters: []int{0}},
		SupportRatio:  support,
		IsHighSupport: high,
		IsKeystone:    keystone,
	}
}

func TestConflicts_PairEnrichment(t *testing.T) {
	d := NewDetector()

	claims := []model.EnrichedClaim{
		enriched("a", 0.6, true, false),
		enriched("b", 0.55, true, false),
	}
	edges := []model.Edge{
		{From: "a", To: "b", Type: model.EdgeConflicts},
		{From: "b", To: "a", Type: model.EdgeConflicts}, // mutual edge collapses
	}

	pairs := d.Conflicts(claims, edges)

	if len(pairs) != 1 {
		t.Fatalf("mutual conflict edges must collapse into one pair, got %d", len(pairs))
	}
	p := pairs[0]
	if !p.Symmetric {
		t.Error("0.05 delta should be symmetric")
	}
	// Combined 1.15 plus both-high-support bonus 0.5.
	if p.Significance < 1.649 || p.Significance > 1.651 {
		t.Errorf("expected significance 1.65, got %v", p.Significance)
	}
	if p.AxisExplicit {
		t.Error("no dispute declared: axis must be inferred")
	}
}

func TestConflicts_ExplicitAxisAndKeystoneBonus(t *testing.T) {
	d := NewDetector()

	a := enriched("a", 0.3, false, true)
	b := enriched("b", 0.7, true, false)
	a.Disputes = "b"

	pairs := d.Conflicts([]model.EnrichedClaim{a, b}, []model.Edge{
		{From: "a", To: "b", Type: model.EdgeConflicts},
	})

	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(pairs))
	}
	if !pairs[0].AxisExplicit {
		t.Error("declared dispute must yield an explicit axis")
	}
	// Combined 1.0 plus keystone bonus 0.5, no both-high bonus.
	if pairs[0].Significance != 1.5 {
		t.Errorf("expected significance 1.5, got %v", pairs[0].Significance)
	}
	if pairs[0].Symmetric {
		t.Error("0.4 delta is asymmetric")
	}
}

func TestConflicts_DanglingIgnored(t *testing.T) {
	d := NewDetector()

	claims := []model.EnrichedClaim{enriched("a", 0.5, false, false)}
	pairs := d.Conflicts(claims, []model.Edge{
		{From: "a", To: "phantom", Type: model.EdgeConflicts},
	})

	if len(pairs) != 0 {
		t.Errorf("dangling conflict edges must be filtered, got %v", pairs)
	}
}

func TestConflictClusters(t *testing.T) {
	d := NewDetector()

	claims := []model.EnrichedClaim{
		enriched("target", 0.8, true, false),
		enriched("c1", 0.2, false, false),
		enriched("c2", 0.1, false, false),
		enriched("other", 0.3, false, false),
	}
	edges := []model.Edge{
		{From: "c1", To: "target", Type: model.EdgeConflicts},
		{From: "c2", To: "target", Type: model.EdgeConflicts},
		{From: "other", To: "c1", Type: model.EdgeConflicts}, // lone attacker, no cluster
	}

	clusters := d.ConflictClusters(claims, edges)

	if len(clusters) != 1 {
		t.Fatalf("expected 1 cluster, got %d", len(clusters))
	}
	if clusters[0].TargetID != "target" {
		t.Errorf("expected target cluster, got %s", clusters[0].TargetID)
	}
	if !reflect.DeepEqual(clusters[0].ChallengerIDs, []string{"c1", "c2"}) {
		t.Errorf("unexpected challengers: %v", clusters[0].ChallengerIDs)
	}
}

func TestTradeoffs_Dominance(t *testing.T) {
	d := NewDetector()

	claims := []model.EnrichedClaim{
		enriched("a", 0.8, true, false),
		enriched("b", 0.3, false, false),
		enriched("c", 0.6, true, false),
		enriched("d", 0.5, true, false),
	}
	edges := []model.Edge{
		{From: "a", To: "b", Type: model.EdgeTradeoff},
		{From: "c", To: "d", Type: model.EdgeTradeoff},
	}

	pairs := d.Tradeoffs(claims, edges)

	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(pairs))
	}
	if !pairs[0].Dominated {
		t.Error("0.5 delta should be dominated")
	}
	if pairs[1].Dominated {
		t.Error("0.1 delta should not be dominated")
	}
}

func TestConvergencePoints(t *testing.T) {
	d := NewDetector()

	claims := []model.EnrichedClaim{
		enriched("hub", 0.7, true, false),
		enriched("s1", 0.4, false, false),
		enriched("s2", 0.3, false, false),
		enriched("lone", 0.2, false, false),
	}
	edges := []model.Edge{
		{From: "s1", To: "hub", Type: model.EdgeSupports},
		{From: "s2", To: "hub", Type: model.EdgePrerequisite},
		{From: "lone", To: "s1", Type: model.EdgeSupports}, // single source, no point
	}

	points := d.ConvergencePoints(claims, edges)

	if len(points) != 1 {
		t.Fatalf("expected 1 convergence point, got %d", len(points))
	}
	if points[0].TargetID != "hub" {
		t.Errorf("expected hub target, got %s", points[0].TargetID)
	}
	if points[0].CombinedSupport < 0.699 || points[0].CombinedSupport > 0.701 {
		t.Errorf("expected combined support 0.7, got %v", points[0].CombinedSupport)
	}
}

func TestCascadeRisks_TransitiveClosure(t *testing.T) {
	d := NewDetector()

	// root -> a -> b, root -> c
	claims := []model.EnrichedClaim{
		enriched("root", 0.2, false, false),
		enriched("a", 0.5, false, false),
		enriched("b", 0.6, false, false),
		enriched("c", 0.4, false, false),
	}
	edges := []model.Edge{
		{From: "root", To: "a", Type: model.EdgePrerequisite},
		{From: "a", To: "b", Type: model.EdgePrerequisite},
		{From: "root", To: "c", Type: model.EdgePrerequisite},
	}

	risks := d.CascadeRisks(claims, edges)

	byID := make(map[string]model.CascadeRisk)
	for _, r := range risks {
		byID[r.SourceID] = r
	}

	root := byID["root"]
	if len(root.Dependents) != 3 {
		t.Errorf("expected 3 transitive dependents for root, got %v", root.Dependents)
	}
	if root.MaxDepth != 2 {
		t.Errorf("expected max depth 2, got %d", root.MaxDepth)
	}
	if len(byID["a"].Dependents) != 1 {
		t.Errorf("expected 1 dependent for a, got %v", byID["a"].Dependents)
	}
	if _, ok := byID["b"]; ok {
		t.Error("b has no outgoing prerequisites and should carry no cascade entry")
	}
}

func TestCascadeRisks_CycleTolerant(t *testing.T) {
	d := NewDetector()

	claims := []model.EnrichedClaim{
		enriched("a", 0.5, false, false),
		enriched("b", 0.5, false, false),
	}
	edges := []model.Edge{
		{From: "a", To: "b", Type: model.EdgePrerequisite},
		{From: "b", To: "a", Type: model.EdgePrerequisite},
	}

	risks := d.CascadeRisks(claims, edges)

	if len(risks) != 2 {
		t.Fatalf("expected 2 cascade entries, got %d", len(risks))
	}
	for _, r := range risks {
		if len(r.Dependents) != 1 {
			t.Errorf("cycle must not loop back to the source: %v", r.Dependents)
		}
	}
}
