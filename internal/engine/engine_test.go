package engine

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mahdieldaw/strata/internal/model"
)

func claim(id string, supporters ...int) model.Claim {
	return model.Claim{ID: id, Label: id, Text: id, Supporters: supporters}
}

func findClaim(t *testing.T, sa model.StructuralAnalysis, id string) model.EnrichedClaim {
	t.Helper()
	for _, c := range sa.Claims {
		if c.ID == id {
			return c
		}
	}
	t.Fatalf("claim %s not found", id)
	return model.EnrichedClaim{}
}

func TestAnalyze_Deterministic(t *testing.T) {
	a := NewAnalyzer()

	doc := model.Document{
		Query:      "should we cache at the edge",
		ModelCount: 4,
		Claims: []model.Claim{
			claim("cache", 0, 1, 2),
			claim("invalidation", 0, 1),
			claim("skip", 3),
		},
		Edges: []model.Edge{
			{From: "invalidation", To: "cache", Type: model.EdgePrerequisite},
			{From: "skip", To: "cache", Type: model.EdgeConflicts},
		},
		Ghosts: []string{"cost"},
	}

	first := a.Analyze(doc)
	second := a.Analyze(doc)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("same document must analyze identically (-first +second):\n%s", diff)
	}
}

func TestAnalyze_EmptyDocument(t *testing.T) {
	a := NewAnalyzer()

	sa := a.Analyze(model.Document{})

	if sa.Structure.Shape != model.ShapeSparse {
		t.Errorf("empty input must classify sparse, got %s", sa.Structure.Shape)
	}
	if sa.Structure.Data.Sparse == nil {
		t.Error("sparse payload missing")
	}
	if len(sa.Structure.Patterns) != 0 {
		t.Errorf("empty input must yield no patterns, got %v", sa.Structure.Patterns)
	}
	if sa.Structure.TransferQuestion == "" {
		t.Error("transfer question must always be present")
	}
	if sa.ModelCount != 1 {
		t.Errorf("model count floor is 1, got %d", sa.ModelCount)
	}
	if sa.Claims == nil || sa.Edges == nil || sa.Ghosts == nil {
		t.Error("collections must be empty, not nil")
	}
}

func TestAnalyze_UnanimousSingleClaim(t *testing.T) {
	a := NewAnalyzer()

	sa := a.Analyze(model.Document{
		ModelCount: 3,
		Claims:     []model.Claim{claim("agreed", 0, 1, 2)},
	})

	if sa.Structure.Shape != model.ShapeConvergent {
		t.Errorf("unanimous single claim must be convergent, got %s", sa.Structure.Shape)
	}
	if sa.Structure.Confidence < 0.85 {
		t.Errorf("full support deserves confidence >= 0.85, got %v", sa.Structure.Confidence)
	}
	if len(sa.Structure.Patterns) != 0 {
		t.Errorf("a lone unanimous claim carries no secondary patterns, got %v", sa.Structure.Patterns)
	}
	if sa.Structure.Data.Convergent == nil || sa.Structure.Data.Convergent.Core == nil {
		t.Fatal("convergent payload must carry the core claim")
	}
	if sa.Structure.Data.Convergent.Core.ID != "agreed" {
		t.Errorf("unexpected core: %+v", sa.Structure.Data.Convergent.Core)
	}
}

func TestAnalyze_EvenSplitIsSymmetricFork(t *testing.T) {
	a := NewAnalyzer()

	sa := a.Analyze(model.Document{
		ModelCount: 10,
		Claims: []model.Claim{
			claim("sql", 0, 1, 2, 3, 4),
			claim("nosql", 5, 6, 7, 8, 9),
		},
		Edges: []model.Edge{
			{From: "sql", To: "nosql", Type: model.EdgeConflicts},
		},
	})

	// Half the models on each side still clears the peak bar.
	if len(sa.Peaks.Peaks) != 2 {
		t.Fatalf("both half-supported claims must be peaks, got %d", len(sa.Peaks.Peaks))
	}
	if sa.Structure.Shape != model.ShapeForked {
		t.Errorf("conflicting peaks must fork, got %s", sa.Structure.Shape)
	}
	if sa.Structure.PeakRelationship != model.PeaksConflicting {
		t.Errorf("expected conflicting peak relationship, got %s", sa.Structure.PeakRelationship)
	}

	symmetricNoted := false
	for _, ev := range sa.Structure.Evidence {
		if strings.Contains(ev, "symmetric") {
			symmetricNoted = true
		}
	}
	if !symmetricNoted {
		t.Errorf("even split must be called out as symmetric, evidence: %v", sa.Structure.Evidence)
	}
	if sa.Structure.Data.Forked == nil || sa.Structure.Data.Forked.Central == nil {
		t.Fatal("forked payload must carry the central conflict")
	}
}

func TestAnalyze_SupportMonotonicity(t *testing.T) {
	a := NewAnalyzer()

	base := model.Document{
		ModelCount: 4,
		Claims: []model.Claim{
			claim("x", 0),
			claim("y", 1, 2),
		},
	}
	more := model.Document{
		ModelCount: 4,
		Claims: []model.Claim{
			claim("x", 0, 1),
			claim("y", 1, 2),
		},
	}

	before := findClaim(t, a.Analyze(base), "x")
	after := findClaim(t, a.Analyze(more), "x")

	if after.SupportRatio <= before.SupportRatio {
		t.Errorf("adding a supporter must raise the ratio: %v -> %v", before.SupportRatio, after.SupportRatio)
	}
}

func TestAnalyze_DanglingEdgesInert(t *testing.T) {
	a := NewAnalyzer()

	clean := model.Document{
		ModelCount: 3,
		Claims:     []model.Claim{claim("a", 0, 1), claim("b", 2)},
		Edges: []model.Edge{
			{From: "b", To: "a", Type: model.EdgeSupports},
		},
	}
	dirty := clean
	dirty.Edges = append([]model.Edge{
		{From: "a", To: "phantom", Type: model.EdgeConflicts},
		{From: "ghost", To: "b", Type: model.EdgePrerequisite},
		{From: "a", To: "a", Type: model.EdgeSupports},
	}, clean.Edges...)

	if diff := cmp.Diff(a.Analyze(clean), a.Analyze(dirty)); diff != "" {
		t.Errorf("dangling and self-loop edges must not affect the analysis:\n%s", diff)
	}
}

func TestAnalyze_KeystoneSurfaced(t *testing.T) {
	a := NewAnalyzer()

	sa := a.Analyze(model.Document{
		ModelCount: 4,
		Claims: []model.Claim{
			claim("foundation", 0),
			claim("d1", 0, 1, 2),
			claim("d2", 1, 2, 3),
		},
		Edges: []model.Edge{
			{From: "foundation", To: "d1", Type: model.EdgePrerequisite},
			{From: "foundation", To: "d2", Type: model.EdgePrerequisite},
		},
	})

	if sa.Graph.HubClaimID != "foundation" {
		t.Fatalf("expected foundation as hub, got %q", sa.Graph.HubClaimID)
	}

	var keystone *model.SecondaryPattern
	for i := range sa.Structure.Patterns {
		if sa.Structure.Patterns[i].Kind == model.PatternKeystone {
			keystone = &sa.Structure.Patterns[i]
		}
	}
	if keystone == nil {
		t.Fatal("hub with two prerequisite dependents must surface a keystone pattern")
	}
	if keystone.Keystone.CascadeSize != 2 {
		t.Errorf("expected cascade size 2, got %d", keystone.Keystone.CascadeSize)
	}
}

func TestAnalyze_GhostsReachTransferQuestion(t *testing.T) {
	a := NewAnalyzer()

	sa := a.Analyze(model.Document{
		ModelCount: 2,
		Claims:     []model.Claim{claim("only", 0, 1)},
		Ghosts:     []string{"operational cost", "team experience"},
	})

	q := sa.Structure.TransferQuestion
	if !strings.Contains(q, "operational cost") || !strings.Contains(q, "team experience") {
		t.Errorf("ghost topics must surface in the transfer question, got %q", q)
	}
}

func TestAnalyze_DissentReachesTransferQuestion(t *testing.T) {
	a := NewAnalyzer()

	// A forked landscape where a low-support challenger from the floor
	// triggers the dissent pattern: its label must surface in the question.
	sa := a.Analyze(model.Document{
		ModelCount: 6,
		Claims: []model.Claim{
			claim("monolith", 0, 1, 2),
			claim("microservices", 3, 4, 5),
			{ID: "serverless", Label: "serverless", Text: "serverless", Supporters: []int{5}, Role: model.RoleChallenger},
		},
		Edges: []model.Edge{
			{From: "monolith", To: "microservices", Type: model.EdgeConflicts},
			{From: "serverless", To: "monolith", Type: model.EdgeConflicts},
		},
	})

	var dissent *model.SecondaryPattern
	for i := range sa.Structure.Patterns {
		if sa.Structure.Patterns[i].Kind == model.PatternDissent {
			dissent = &sa.Structure.Patterns[i]
		}
	}
	if dissent == nil {
		t.Fatal("a low-support challenger must surface the dissent pattern")
	}

	q := sa.Structure.TransferQuestion
	if !strings.Contains(q, dissent.Dissent.Entries[0].Label) {
		t.Errorf("the top dissenting claim must reach the transfer question, got %q", q)
	}
}

func TestAnalyze_ParallelDimensions(t *testing.T) {
	a := NewAnalyzer()

	// Two peaks with no edges classify parallel, and the edgeless graph
	// gives the two components the builder needs, so no degradation fires.
	sa := a.Analyze(model.Document{
		ModelCount: 4,
		Claims: []model.Claim{
			claim("p1", 0, 1),
			claim("p2", 2, 3),
		},
	})

	if sa.Structure.Shape != model.ShapeParallel {
		t.Fatalf("disconnected peaks must be parallel, got %s", sa.Structure.Shape)
	}
	if sa.Structure.Data.Parallel == nil {
		t.Fatal("parallel payload missing")
	}
	if len(sa.Structure.Data.Parallel.Dimensions) != 2 {
		t.Errorf("expected 2 dimensions, got %d", len(sa.Structure.Data.Parallel.Dimensions))
	}
	if len(sa.Structure.Diagnostics) != 0 {
		t.Errorf("no degradation expected, got %v", sa.Structure.Diagnostics)
	}
}
