// Package engine runs the full structural analysis over an extracted claim
// graph: enrichment, flagging, graph metrics, landscape ratios, peak
// partitioning, primary classification, secondary patterns, pairwise
// relations and the shape payload, assembled into one immutable envelope.
//
// Analyze is a pure function of its input. Two calls with the same document
// produce identical output, so results are safe to cache and diff.
package engine

import (
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mahdieldaw/strata/internal/enrich"
	"github.com/mahdieldaw/strata/internal/graph"
	"github.com/mahdieldaw/strata/internal/landscape"
	"github.com/mahdieldaw/strata/internal/model"
	"github.com/mahdieldaw/strata/internal/patterns"
	"github.com/mahdieldaw/strata/internal/peaks"
	"github.com/mahdieldaw/strata/internal/relations"
	"github.com/mahdieldaw/strata/internal/shape"
)

// Analyzer wires the analysis stages together in their fixed order
type Analyzer struct {
	enricher    *enrich.Enricher
	flagger     *enrich.Flagger
	graph       *graph.Analyzer
	landscape   *landscape.Calculator
	partitioner *peaks.Partitioner
	classifier  *peaks.Classifier
	relations   *relations.Detector
	patterns    *patterns.Detector
	shapes      *shape.Builder
}

// NewAnalyzer creates a fully wired structural analyzer
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		enricher:    enrich.NewEnricher(),
		flagger:     enrich.NewFlagger(),
		graph:       graph.NewAnalyzer(),
		landscape:   landscape.NewCalculator(),
		partitioner: peaks.NewPartitioner(),
		classifier:  peaks.NewClassifier(),
		relations:   relations.NewDetector(),
		patterns:    patterns.NewDetector(),
		shapes:      shape.NewBuilder(),
	}
}

// Analyze computes the complete structural description of one document.
// It never fails: malformed pieces of the input (dangling edges,
// self-loops, duplicate edges) are dropped silently, and an empty document
// yields a valid sparse analysis.
func (a *Analyzer) Analyze(doc model.Document) model.StructuralAnalysis {
	claims, edges, ghosts := normalize(doc)

	// 1. Resolve the voting population, then enrich every claim.
	modelCount := enrich.ResolveModelCount(claims, doc.ModelCount)
	enriched := a.enricher.EnrichAll(claims, edges, modelCount)

	// 2. Cascades feed the flag pass, so they come first.
	cascades := a.relations.CascadeRisks(enriched, edges)
	enriched = a.flagger.ApplyFlags(enriched, edges, cascades)

	// 3. Whole-graph and whole-population metrics.
	ga := a.graph.Analyze(enriched, edges)
	land := a.landscape.Landscape(enriched, modelCount)
	ratios := a.landscape.Ratios(enriched, edges, ga, modelCount)

	// 4. Tiers, then the primary shape verdict.
	pa := a.partitioner.Partition(enriched, edges)
	verdict := a.classifier.Classify(pa)

	// 5. Pairwise relation enrichment. The four passes are independent
	// reads over the same slices, so they run concurrently; each writes
	// only its own result and the join keeps output deterministic.
	var (
		conflicts   []model.ConflictPair
		clusters    []model.ConflictCluster
		tradeoffs   []model.TradeoffPair
		convergence []model.ConvergencePoint
	)
	var g errgroup.Group
	g.Go(func() error { conflicts = a.relations.Conflicts(enriched, edges); return nil })
	g.Go(func() error { clusters = a.relations.ConflictClusters(enriched, edges); return nil })
	g.Go(func() error { tradeoffs = a.relations.Tradeoffs(enriched, edges); return nil })
	g.Go(func() error { convergence = a.relations.ConvergencePoints(enriched, edges); return nil })
	_ = g.Wait() // The passes cannot fail

	// 6. Secondary patterns run on every analysis, whatever the shape.
	pats := a.patterns.Detect(patterns.Input{
		Claims:   enriched,
		Edges:    edges,
		Peaks:    pa,
		Graph:    ga,
		Cascades: cascades,
	})
	if pats == nil {
		pats = []model.SecondaryPattern{}
	}

	peakRelations, overall := peaks.Relations(pa)
	if peakRelations == nil {
		peakRelations = []model.PeakRelation{}
	}

	// 7. Shape payload, degrading down the ladder when preconditions miss.
	data, diags := a.shapes.Build(verdict.Shape, shape.Input{
		Claims:    enriched,
		Edges:     edges,
		Peaks:     pa,
		Graph:     ga,
		Conflicts: conflicts,
		Clusters:  clusters,
		Tradeoffs: tradeoffs,
	})

	structure := model.ProblemStructure{
		Shape:            data.Shape, // The degraded shape, when the ladder fired
		Confidence:       verdict.Confidence,
		Patterns:         pats,
		Peaks:            peakRefs(pa.Peaks),
		PeakRelationship: overall,
		PeakRelations:    peakRelations,
		Evidence:         verdict.Evidence,
		Diagnostics:      diags,
		Data:             data,
	}
	structure.TransferQuestion = transferQuestion(structure, ghosts)

	return model.StructuralAnalysis{
		Query:             doc.Query,
		ModelCount:        modelCount,
		Ghosts:            ghosts,
		Claims:            enriched,
		Edges:             edges,
		Landscape:         land,
		Ratios:            ratios,
		Graph:             ga,
		Peaks:             pa,
		Conflicts:         orEmptyConflicts(conflicts),
		ConflictClusters:  orEmptyClusters(clusters),
		Tradeoffs:         orEmptyTradeoffs(tradeoffs),
		ConvergencePoints: orEmptyPoints(convergence),
		CascadeRisks:      orEmptyCascades(cascades),
		Structure:         structure,
	}
}

// normalize copies the inputs, replaces nils with empty slices, and drops
// edges that are self-loops or reference unknown claim ids
func normalize(doc model.Document) ([]model.Claim, []model.Edge, []string) {
	claims := make([]model.Claim, len(doc.Claims))
	copy(claims, doc.Claims)

	known := make(map[string]bool, len(claims))
	for _, c := range claims {
		known[c.ID] = true
	}

	edges := make([]model.Edge, 0, len(doc.Edges))
	for _, e := range doc.Edges {
		if e.From == e.To || !known[e.From] || !known[e.To] {
			continue
		}
		edges = append(edges, e)
	}

	ghosts := doc.Ghosts
	if ghosts == nil {
		ghosts = []string{}
	}
	return claims, edges, ghosts
}

// transferQuestion phrases the structural finding as a follow-up question,
// built from the shape and any detected dissent. Each shape surfaces its own
// ambiguity, the top-ranked dissenting claim is woven in when one exists,
// and ghost topics are appended when the models left declared ground
// uncovered.
func transferQuestion(s model.ProblemStructure, ghosts []string) string {
	var q string
	switch s.Shape {
	case model.ShapeConvergent:
		q = convergentQuestion(s)
	case model.ShapeForked:
		q = forkedQuestion(s)
	case model.ShapeConstrained:
		q = "The answer is a tradeoff, not a choice: which side of it does your situation actually need?"
	case model.ShapeParallel:
		q = parallelQuestion(s)
	default:
		q = "No position gathered real support: what constraint would make one of these fragments decisive?"
	}

	if d := topDissent(s.Patterns); d != nil && !strings.Contains(q, d.Label) {
		q += fmt.Sprintf(" A minority holds %q (%s): does that change your answer?", d.Label, d.Reason)
	}

	if len(ghosts) > 0 {
		q += fmt.Sprintf(" Also unaddressed by every model: %s.", strings.Join(ghosts, "; "))
	}
	return q
}

// topDissent returns the highest-ranked dissent entry, if any. Entries are
// already sorted by insight score, so the first one is the strongest.
func topDissent(patterns []model.SecondaryPattern) *model.DissentEntry {
	for _, p := range patterns {
		if p.Kind == model.PatternDissent && p.Dissent != nil && len(p.Dissent.Entries) > 0 {
			return &p.Dissent.Entries[0]
		}
	}
	return nil
}

func convergentQuestion(s model.ProblemStructure) string {
	d := s.Data.Convergent
	if d == nil || d.Core == nil {
		return "Models lean the same way without a clear core claim: what single statement would they all sign?"
	}
	if d.StrongestOutlier != nil {
		return fmt.Sprintf("Models converge on %q, but %q pulls the other way: under what conditions would the outlier win?",
			d.Core.Label, d.StrongestOutlier.Label)
	}
	if len(d.Assumptions) > 0 {
		return fmt.Sprintf("The consensus on %q rests on: %s. Which of these is least certain for you?",
			d.Core.Label, strings.Join(d.Assumptions, "; "))
	}
	return fmt.Sprintf("Models agree on %q: what would have to be true for that to be wrong?", d.Core.Label)
}

func forkedQuestion(s model.ProblemStructure) string {
	d := s.Data.Forked
	if d == nil || d.Central == nil {
		return "The models split into camps: which disagreement matters most for your case?"
	}
	return fmt.Sprintf("The models genuinely disagree (%s): which side does your constraint favor?", d.Central.Axis)
}

func parallelQuestion(s model.ProblemStructure) string {
	d := s.Data.Parallel
	if d != nil && d.HiddenDimension != nil {
		return fmt.Sprintf("The models answered different questions; %q belongs to a dimension nobody connected to the rest: does it apply to you?",
			d.HiddenDimension.Label)
	}
	return "The models answered different questions: which dimension is the one you actually asked about?"
}

func peakRefs(claims []model.EnrichedClaim) []model.ClaimRef {
	refs := make([]model.ClaimRef, len(claims))
	for i, c := range claims {
		refs[i] = c.Ref()
	}
	return refs
}

func orEmptyConflicts(v []model.ConflictPair) []model.ConflictPair {
	if v == nil {
		return []model.ConflictPair{}
	}
	return v
}

func orEmptyClusters(v []model.ConflictCluster) []model.ConflictCluster {
	if v == nil {
		return []model.ConflictCluster{}
	}
	return v
}

func orEmptyTradeoffs(v []model.TradeoffPair) []model.TradeoffPair {
	if v == nil {
		return []model.TradeoffPair{}
	}
	return v
}

func orEmptyPoints(v []model.ConvergencePoint) []model.ConvergencePoint {
	if v == nil {
		return []model.ConvergencePoint{}
	}
	return v
}

func orEmptyCascades(v []model.CascadeRisk) []model.CascadeRisk {
	if v == nil {
		return []model.CascadeRisk{}
	}
	return v
}
