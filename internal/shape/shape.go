// Package shape assembles the shape-specific data payload for a classified
// analysis. Builders never fail: a builder whose preconditions are missing
// degrades into the next shape down the ladder (forked to convergent,
// constrained to forked or sparse, parallel to convergent), and anything
// unrecoverable lands on the sparse builder, which accepts any input
// including the empty one. Every degradation is reported as a diagnostic.
package shape

import (
	"fmt"
	"sort"

	"github.com/mahdieldaw/strata/internal/model"
)

// Input carries everything the builders read, treated read-only
type Input struct {
	Claims    []model.EnrichedClaim
	Edges     []model.Edge
	Peaks     model.PeakAnalysis
	Graph     model.GraphAnalysis
	Conflicts []model.ConflictPair
	Clusters  []model.ConflictCluster
	Tradeoffs []model.TradeoffPair
}

// Builder constructs shape data payloads
type Builder struct{}

// NewBuilder creates a new shape data builder
func NewBuilder() *Builder {
	return &Builder{}
}

// Build returns the payload for the requested shape plus any degradation
// diagnostics. The result is always structurally valid; a panic inside a
// builder is caught and resolved to the sparse payload.
func (b *Builder) Build(shape model.ProblemShape, in Input) (data model.ShapeData, diags []string) {
	defer func() {
		if r := recover(); r != nil {
			diags = append(diags, fmt.Sprintf("shape builder failed (%v); falling back to sparse", r))
			data = b.buildSparse(in)
		}
	}()

	switch shape {
	case model.ShapeConvergent:
		return b.buildConvergent(in), nil
	case model.ShapeForked:
		if len(in.Conflicts) == 0 && len(in.Clusters) == 0 {
			diags = append(diags, "forked shape with no detected conflicts; degrading to convergent data")
			return b.buildConvergent(in), diags
		}
		return b.buildForked(in), nil
	case model.ShapeConstrained:
		if len(in.Tradeoffs) == 0 {
			if len(in.Conflicts) > 0 {
				diags = append(diags, "constrained shape with no tradeoffs but existing conflicts; degrading to forked data")
				return b.buildForked(in), diags
			}
			diags = append(diags, "constrained shape with neither tradeoffs nor conflicts; degrading to sparse data")
			return b.buildSparse(in), diags
		}
		return b.buildConstrained(in), nil
	case model.ShapeParallel:
		if in.Graph.ComponentCount < 2 {
			diags = append(diags, "parallel shape with fewer than two components; degrading to convergent data")
			return b.buildConvergent(in), diags
		}
		return b.buildParallel(in), nil
	default:
		return b.buildSparse(in), nil
	}
}

// buildConvergent captures the consensus core plus what it overlooks
func (b *Builder) buildConvergent(in Input) model.ShapeData {
	data := &model.ConvergentData{
		FloorClaims: refs(in.Peaks.Floor),
		Assumptions: []string{},
	}

	if core := strongest(in.Peaks.Peaks); core != nil {
		ref := core.Ref()
		data.Core = &ref

		// The consensus inherits the weaknesses of its prerequisites.
		byID := claimIndex(in.Claims)
		for _, e := range in.Edges {
			if e.Type != model.EdgePrerequisite || e.To != core.ID {
				continue
			}
			if dep, ok := byID[e.From]; ok {
				data.Assumptions = append(data.Assumptions,
					fmt.Sprintf("%s (%.0f%% support)", dep.Label, dep.SupportRatio*100))
			}
		}
	}

	if outlier := strongestOutlier(in); outlier != nil {
		ref := outlier.Ref()
		data.StrongestOutlier = &ref
	}

	return model.ShapeData{Shape: model.ShapeConvergent, Convergent: data}
}

// buildForked centers the dominant disagreement: the biggest cluster wins
// over any single pair
func (b *Builder) buildForked(in Input) model.ShapeData {
	data := &model.ForkedData{
		SecondaryConflicts: []model.ConflictPair{},
		ResidualFloor:      []model.ClaimRef{},
	}

	conflicted := make(map[string]bool)
	for _, p := range in.Conflicts {
		conflicted[p.AID] = true
		conflicted[p.BID] = true
	}
	for _, cl := range in.Clusters {
		conflicted[cl.TargetID] = true
		for _, id := range cl.ChallengerIDs {
			conflicted[id] = true
		}
	}

	byID := claimIndex(in.Claims)

	if cluster := largestCluster(in.Clusters); cluster != nil {
		axis := "multiple challengers converge on one target"
		if target, ok := byID[cluster.TargetID]; ok {
			axis = fmt.Sprintf("%s attacked from %d directions", target.Label, len(cluster.ChallengerIDs))
		}
		data.Central = &model.CentralConflict{
			Kind:          model.ConflictTargetVsCluster,
			AID:           cluster.TargetID,
			ChallengerIDs: cluster.ChallengerIDs,
			Axis:          axis,
		}
	} else if top := topConflict(in.Conflicts); top != nil {
		data.Central = &model.CentralConflict{
			Kind: model.ConflictOneVsOne,
			AID:  top.AID,
			BID:  top.BID,
			Axis: top.Axis,
		}
	}

	// Remaining conflicts, strongest first, excluding the central pair.
	ordered := make([]model.ConflictPair, len(in.Conflicts))
	copy(ordered, in.Conflicts)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Significance > ordered[j].Significance
	})
	for _, p := range ordered {
		if data.Central != nil && data.Central.Kind == model.ConflictOneVsOne &&
			p.AID == data.Central.AID && p.BID == data.Central.BID {
			continue
		}
		data.SecondaryConflicts = append(data.SecondaryConflicts, p)
	}

	for _, c := range in.Peaks.Floor {
		if !conflicted[c.ID] {
			data.ResidualFloor = append(data.ResidualFloor, c.Ref())
		}
	}

	return model.ShapeData{Shape: model.ShapeForked, Forked: data}
}

// buildConstrained splits tradeoffs into live choices and settled ones
func (b *Builder) buildConstrained(in Input) model.ShapeData {
	data := &model.ConstrainedData{
		ActiveTradeoffs:    []model.TradeoffPair{},
		DominatedTradeoffs: []model.TradeoffPair{},
		Floor:              refs(in.Peaks.Floor),
	}
	for _, p := range in.Tradeoffs {
		if p.Dominated {
			data.DominatedTradeoffs = append(data.DominatedTradeoffs, p)
		} else {
			data.ActiveTradeoffs = append(data.ActiveTradeoffs, p)
		}
	}
	return model.ShapeData{Shape: model.ShapeConstrained, Constrained: data}
}

// buildParallel treats each graph component as one answer dimension. The
// hidden dimension is placed last on purpose: the cluster no model tied to
// the rest is the one worth surfacing.
func (b *Builder) buildParallel(in Input) model.ShapeData {
	byID := claimIndex(in.Claims)

	var dims []model.DimensionCluster
	supporters := make([]map[int]bool, 0, len(in.Graph.Components))
	for _, member := range in.Graph.Components {
		sum := 0.0
		label := ""
		best := -1.0
		supp := make(map[int]bool)
		for _, id := range member {
			c, ok := byID[id]
			if !ok {
				continue
			}
			sum += c.SupportRatio
			if c.SupportRatio > best {
				best = c.SupportRatio
				label = c.Label
			}
			for _, m := range c.Supporters {
				supp[m] = true
			}
		}
		dims = append(dims, model.DimensionCluster{
			ClaimIDs:   member,
			Label:      label,
			AvgSupport: sum / float64(len(member)),
		})
		supporters = append(supporters, supp)
	}

	var interactions []model.DimensionInteraction
	for i := 0; i < len(dims); i++ {
		for j := i + 1; j < len(dims); j++ {
			kind := model.PeaksIndependent
			if overlaps(supporters[i], supporters[j]) {
				kind = model.PeaksSupporting // Shared backers link the dimensions indirectly
			}
			interactions = append(interactions, model.DimensionInteraction{A: i, B: j, Kind: kind})
		}
	}

	data := &model.ParallelData{
		Dimensions:   dims,
		Interactions: interactions,
	}

	if len(dims) >= 2 {
		weakest := 0
		for i := range dims {
			if dims[i].AvgSupport < dims[weakest].AvgSupport {
				weakest = i
			}
		}
		if c := strongestIn(dims[weakest].ClaimIDs, byID); c != nil {
			ref := c.Ref()
			data.HiddenDimension = &ref
		}
	}

	return model.ShapeData{Shape: model.ShapeParallel, Parallel: data}
}

// buildSparse is the universal fallback: it accepts any input, including
// the empty one, and still produces a populated payload
func (b *Builder) buildSparse(in Input) model.ShapeData {
	data := &model.SparseData{
		StrongestSignals: []model.ClaimRef{},
		LooseClusters:    [][]string{},
		Isolated:         []model.ClaimRef{},
	}

	ordered := make([]model.EnrichedClaim, len(in.Claims))
	copy(ordered, in.Claims)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].SupportRatio != ordered[j].SupportRatio {
			return ordered[i].SupportRatio > ordered[j].SupportRatio
		}
		return ordered[i].Leverage > ordered[j].Leverage
	})
	for i, c := range ordered {
		if i >= 3 {
			break
		}
		data.StrongestSignals = append(data.StrongestSignals, c.Ref())
	}

	for _, member := range in.Graph.Components {
		if len(member) >= 2 {
			data.LooseClusters = append(data.LooseClusters, member)
		}
	}

	for _, c := range in.Claims {
		if c.InDegree == 0 && c.OutDegree == 0 {
			data.Isolated = append(data.Isolated, c.Ref())
		}
	}

	if boundary := outerBoundary(in.Claims); boundary != nil {
		ref := boundary.Ref()
		data.OuterBoundary = &ref
	}

	data.Reasoning = sparseReasoning(in)

	return model.ShapeData{Shape: model.ShapeSparse, Sparse: data}
}

func sparseReasoning(in Input) string {
	if len(in.Claims) == 0 {
		return "no claims were extracted; there is nothing to converge on"
	}
	return fmt.Sprintf("%d claims spread across %d component(s) with no dominant position: models answered past each other",
		len(in.Claims), in.Graph.ComponentCount)
}

// outerBoundary picks the least supported, least connected claim: the one
// farthest from the conversation's center
func outerBoundary(claims []model.EnrichedClaim) *model.EnrichedClaim {
	var best *model.EnrichedClaim
	bestScore := 0.0
	for i := range claims {
		c := &claims[i]
		score := c.SupportRatio + 0.1*float64(c.InDegree+c.OutDegree)
		if best == nil || score < bestScore {
			best = c
			bestScore = score
		}
	}
	return best
}

func strongest(claims []model.EnrichedClaim) *model.EnrichedClaim {
	var best *model.EnrichedClaim
	for i := range claims {
		if best == nil || claims[i].SupportRatio > best.SupportRatio {
			best = &claims[i]
		}
	}
	return best
}

func strongestIn(ids []string, byID map[string]model.EnrichedClaim) *model.EnrichedClaim {
	var best *model.EnrichedClaim
	for _, id := range ids {
		c, ok := byID[id]
		if !ok {
			continue
		}
		if best == nil || c.SupportRatio > best.SupportRatio {
			cc := c
			best = &cc
		}
	}
	return best
}

// strongestOutlier returns the highest-leverage non-peak claim
func strongestOutlier(in Input) *model.EnrichedClaim {
	peakIDs := make(map[string]bool)
	for _, p := range in.Peaks.Peaks {
		peakIDs[p.ID] = true
	}
	var best *model.EnrichedClaim
	for i := range in.Claims {
		c := &in.Claims[i]
		if peakIDs[c.ID] {
			continue
		}
		if best == nil || c.Leverage > best.Leverage {
			best = c
		}
	}
	return best
}

func largestCluster(clusters []model.ConflictCluster) *model.ConflictCluster {
	var best *model.ConflictCluster
	for i := range clusters {
		if best == nil || len(clusters[i].ChallengerIDs) > len(best.ChallengerIDs) {
			best = &clusters[i]
		}
	}
	return best
}

func topConflict(pairs []model.ConflictPair) *model.ConflictPair {
	var best *model.ConflictPair
	for i := range pairs {
		if best == nil || pairs[i].Significance > best.Significance {
			best = &pairs[i]
		}
	}
	return best
}

func refs(claims []model.EnrichedClaim) []model.ClaimRef {
	out := make([]model.ClaimRef, len(claims))
	for i, c := range claims {
		out[i] = c.Ref()
	}
	return out
}

func claimIndex(claims []model.EnrichedClaim) map[string]model.EnrichedClaim {
	byID := make(map[string]model.EnrichedClaim, len(claims))
	for _, c := range claims {
		byID[c.ID] = c
	}
	return byID
}

func overlaps(a, b map[int]bool) bool {
	for m := range a {
		if b[m] {
			return true
		}
	}
	return false
}
