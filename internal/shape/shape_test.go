package shape

import (
	"strings"
	"testing"

	"github.com/mahdieldaw/strata/internal/model"
)

func enriched(id string, support, leverage float64, supporters []int) model.EnrichedClaim {
	return model.EnrichedClaim{
		Claim:        model.Claim{ID: id, Label: id, Supporters: supporters},
		SupportRatio: support,
		Leverage:     leverage,
	}
}

func TestBuild_Convergent(t *testing.T) {
	b := NewBuilder()

	core := enriched("core", 0.9, 3, []int{0, 1, 2})
	weaker := enriched("weaker", 0.6, 2, []int{0, 1})
	outlier := enriched("outlier", 0.2, 7, []int{3})
	dep := enriched("dep", 0.3, 1, []int{0})

	data, diags := b.Build(model.ShapeConvergent, Input{
		Claims: []model.EnrichedClaim{core, weaker, outlier, dep},
		Edges: []model.Edge{
			{From: "dep", To: "core", Type: model.EdgePrerequisite},
		},
		Peaks: model.PeakAnalysis{
			Peaks: []model.EnrichedClaim{core, weaker},
			Floor: []model.EnrichedClaim{outlier, dep},
		},
	})

	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
	if data.Shape != model.ShapeConvergent || data.Convergent == nil {
		t.Fatalf("expected convergent payload, got %+v", data)
	}
	if data.Convergent.Core == nil || data.Convergent.Core.ID != "core" {
		t.Errorf("expected strongest peak as core, got %+v", data.Convergent.Core)
	}
	if len(data.Convergent.Assumptions) != 1 || !strings.Contains(data.Convergent.Assumptions[0], "dep") {
		t.Errorf("expected dep listed as assumption, got %v", data.Convergent.Assumptions)
	}
	if data.Convergent.StrongestOutlier == nil || data.Convergent.StrongestOutlier.ID != "outlier" {
		t.Errorf("expected highest-leverage non-peak as outlier, got %+v", data.Convergent.StrongestOutlier)
	}
}

func TestBuild_ForkedClusterBeatsPair(t *testing.T) {
	b := NewBuilder()

	target := enriched("target", 0.7, 2, []int{0, 1, 2})
	c1 := enriched("c1", 0.2, 1, []int{3})
	c2 := enriched("c2", 0.2, 1, []int{4})

	data, diags := b.Build(model.ShapeForked, Input{
		Claims: []model.EnrichedClaim{target, c1, c2},
		Conflicts: []model.ConflictPair{
			{AID: "c1", BID: "target", Significance: 1.0},
			{AID: "c2", BID: "target", Significance: 0.9},
		},
		Clusters: []model.ConflictCluster{
			{TargetID: "target", ChallengerIDs: []string{"c1", "c2"}},
		},
	})

	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
	if data.Forked == nil || data.Forked.Central == nil {
		t.Fatal("expected central conflict")
	}
	if data.Forked.Central.Kind != model.ConflictTargetVsCluster {
		t.Errorf("cluster must take precedence over pairs, got %s", data.Forked.Central.Kind)
	}
	if data.Forked.Central.AID != "target" {
		t.Errorf("expected target at the center, got %s", data.Forked.Central.AID)
	}
	// Pair conflicts stay listed as secondary when a cluster is central.
	if len(data.Forked.SecondaryConflicts) != 2 {
		t.Errorf("expected 2 secondary conflicts, got %d", len(data.Forked.SecondaryConflicts))
	}
}

func TestBuild_ForkedOneVsOne(t *testing.T) {
	b := NewBuilder()

	data, _ := b.Build(model.ShapeForked, Input{
		Claims: []model.EnrichedClaim{
			enriched("a", 0.6, 2, []int{0, 1}),
			enriched("b", 0.5, 2, []int{2, 3}),
		},
		Conflicts: []model.ConflictPair{
			{AID: "a", BID: "b", Significance: 1.6, Axis: "a vs b"},
		},
	})

	if data.Forked.Central == nil || data.Forked.Central.Kind != model.ConflictOneVsOne {
		t.Fatalf("expected one_vs_one central conflict, got %+v", data.Forked.Central)
	}
	if len(data.Forked.SecondaryConflicts) != 0 {
		t.Errorf("the central pair must not repeat as secondary, got %v", data.Forked.SecondaryConflicts)
	}
}

func TestBuild_ForkedDegradesToConvergent(t *testing.T) {
	b := NewBuilder()

	peak := enriched("peak", 0.8, 3, []int{0, 1, 2})
	data, diags := b.Build(model.ShapeForked, Input{
		Claims: []model.EnrichedClaim{peak},
		Peaks:  model.PeakAnalysis{Peaks: []model.EnrichedClaim{peak}},
	})

	if data.Shape != model.ShapeConvergent || data.Convergent == nil {
		t.Fatalf("forked without conflicts must degrade to convergent, got %+v", data)
	}
	if len(diags) != 1 {
		t.Errorf("degradation must leave a diagnostic, got %v", diags)
	}
}

func TestBuild_Constrained(t *testing.T) {
	b := NewBuilder()

	data, diags := b.Build(model.ShapeConstrained, Input{
		Tradeoffs: []model.TradeoffPair{
			{AID: "a", BID: "b", SupportDelta: 0.1, Dominated: false},
			{AID: "c", BID: "d", SupportDelta: 0.5, Dominated: true},
		},
	})

	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
	if len(data.Constrained.ActiveTradeoffs) != 1 || len(data.Constrained.DominatedTradeoffs) != 1 {
		t.Errorf("expected 1 active and 1 dominated, got %+v", data.Constrained)
	}
}

func TestBuild_ConstrainedDegradationLadder(t *testing.T) {
	b := NewBuilder()

	// With conflicts present, constrained steps down to forked.
	data, diags := b.Build(model.ShapeConstrained, Input{
		Claims: []model.EnrichedClaim{
			enriched("a", 0.5, 1, []int{0}),
			enriched("b", 0.5, 1, []int{1}),
		},
		Conflicts: []model.ConflictPair{{AID: "a", BID: "b", Significance: 1.0}},
	})
	if data.Shape != model.ShapeForked {
		t.Errorf("expected forked fallback, got %s", data.Shape)
	}
	if len(diags) != 1 {
		t.Errorf("expected one diagnostic, got %v", diags)
	}

	// With nothing at all, it bottoms out at sparse.
	data, diags = b.Build(model.ShapeConstrained, Input{})
	if data.Shape != model.ShapeSparse || data.Sparse == nil {
		t.Errorf("expected sparse fallback, got %+v", data)
	}
	if len(diags) != 1 {
		t.Errorf("expected one diagnostic, got %v", diags)
	}
}

func TestBuild_Parallel(t *testing.T) {
	b := NewBuilder()

	// Two components with a shared supporter, one with none in common.
	a1 := enriched("a1", 0.8, 2, []int{0, 1})
	a2 := enriched("a2", 0.4, 1, []int{0})
	b1 := enriched("b1", 0.7, 2, []int{1, 2})
	c1 := enriched("c1", 0.2, 1, []int{3})

	data, diags := b.Build(model.ShapeParallel, Input{
		Claims: []model.EnrichedClaim{a1, a2, b1, c1},
		Graph: model.GraphAnalysis{
			ComponentCount: 3,
			Components:     [][]string{{"a1", "a2"}, {"b1"}, {"c1"}},
		},
	})

	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
	if len(data.Parallel.Dimensions) != 3 {
		t.Fatalf("expected 3 dimensions, got %d", len(data.Parallel.Dimensions))
	}
	if data.Parallel.Dimensions[0].Label != "a1" {
		t.Errorf("dimension label must come from its strongest claim, got %s", data.Parallel.Dimensions[0].Label)
	}

	kinds := make(map[[2]int]model.PeakRelationKind)
	for _, i := range data.Parallel.Interactions {
		kinds[[2]int{i.A, i.B}] = i.Kind
	}
	if kinds[[2]int{0, 1}] != model.PeaksSupporting {
		t.Errorf("shared supporter 1 should link dimensions 0 and 1, got %s", kinds[[2]int{0, 1}])
	}
	if kinds[[2]int{0, 2}] != model.PeaksIndependent {
		t.Errorf("dimensions 0 and 2 share no supporters, got %s", kinds[[2]int{0, 2}])
	}

	if data.Parallel.HiddenDimension == nil || data.Parallel.HiddenDimension.ID != "c1" {
		t.Errorf("lowest-support dimension's strongest claim should be hidden, got %+v", data.Parallel.HiddenDimension)
	}
}

func TestBuild_ParallelDegradesToConvergent(t *testing.T) {
	b := NewBuilder()

	peak := enriched("only", 0.9, 2, []int{0, 1})
	data, diags := b.Build(model.ShapeParallel, Input{
		Claims: []model.EnrichedClaim{peak},
		Graph:  model.GraphAnalysis{ComponentCount: 1, Components: [][]string{{"only"}}},
		Peaks:  model.PeakAnalysis{Peaks: []model.EnrichedClaim{peak}},
	})

	if data.Shape != model.ShapeConvergent {
		t.Errorf("single component cannot be parallel, got %s", data.Shape)
	}
	if len(diags) != 1 {
		t.Errorf("expected one diagnostic, got %v", diags)
	}
}

func TestBuild_Sparse(t *testing.T) {
	b := NewBuilder()

	c1 := enriched("c1", 0.4, 2, []int{0, 1})
	c2 := enriched("c2", 0.3, 1, []int{2})
	c3 := enriched("c3", 0.2, 1, []int{3})
	c4 := enriched("c4", 0.1, 1, []int{4})
	c2.InDegree = 1
	c3.OutDegree = 1

	data, diags := b.Build(model.ShapeSparse, Input{
		Claims: []model.EnrichedClaim{c1, c2, c3, c4},
		Graph: model.GraphAnalysis{
			ComponentCount: 3,
			Components:     [][]string{{"c2", "c3"}, {"c1"}, {"c4"}},
		},
	})

	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
	s := data.Sparse
	if len(s.StrongestSignals) != 3 || s.StrongestSignals[0].ID != "c1" {
		t.Errorf("expected top 3 signals led by c1, got %v", s.StrongestSignals)
	}
	if len(s.LooseClusters) != 1 {
		t.Errorf("expected 1 loose cluster, got %v", s.LooseClusters)
	}
	// c1 and c4 carry no edges at all.
	if len(s.Isolated) != 2 {
		t.Errorf("expected 2 isolated claims, got %v", s.Isolated)
	}
	if s.OuterBoundary == nil || s.OuterBoundary.ID != "c4" {
		t.Errorf("expected c4 as outer boundary, got %+v", s.OuterBoundary)
	}
	if s.Reasoning == "" {
		t.Error("sparse payload must always carry reasoning")
	}
}

func TestBuild_SparseEmptyInput(t *testing.T) {
	b := NewBuilder()

	data, _ := b.Build(model.ShapeSparse, Input{})

	if data.Sparse == nil {
		t.Fatal("sparse builder must accept empty input")
	}
	if data.Sparse.Reasoning == "" {
		t.Error("empty input still needs reasoning")
	}
	if data.Sparse.StrongestSignals == nil || data.Sparse.Isolated == nil {
		t.Error("collections must be empty slices, not nil")
	}
}
