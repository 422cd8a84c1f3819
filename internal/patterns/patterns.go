// Package patterns layers seven independent detectors atop the primary
// shape. Every detector runs on every analysis; none is gated by the
// primary classification. Dissent in particular is an explicit commitment:
// low support does not mean low value, so minority elevation is evaluated
// even when the landscape looks settled.
package patterns

import (
	"fmt"
	"sort"

	"github.com/mahdieldaw/strata/internal/model"
)

// Input carries everything the detectors read. All fields are treated
// read-only.
type Input struct {
	Claims   []model.EnrichedClaim
	Edges    []model.Edge
	Peaks    model.PeakAnalysis
	Graph    model.GraphAnalysis
	Cascades []model.CascadeRisk
}

// Detector evaluates all secondary patterns
type Detector struct{}

// NewDetector creates a new pattern detector
func NewDetector() *Detector {
	return &Detector{}
}

// Detect runs all seven detectors unconditionally and returns the patterns
// present, dissent first, in a fixed order
func (d *Detector) Detect(in Input) []model.SecondaryPattern {
	var found []model.SecondaryPattern

	if p, ok := d.detectDissent(in); ok {
		found = append(found, p)
	}
	if p, ok := d.detectChallenged(in); ok {
		found = append(found, p)
	}
	if p, ok := d.detectKeystone(in); ok {
		found = append(found, p)
	}
	if p, ok := d.detectChain(in); ok {
		found = append(found, p)
	}
	if p, ok := d.detectFragile(in); ok {
		found = append(found, p)
	}
	if p, ok := d.detectConditional(in); ok {
		found = append(found, p)
	}
	if p, ok := d.detectOrphaned(in); ok {
		found = append(found, p)
	}
	return found
}

// detectDissent aggregates minority claims worth elevating: leverage
// inversions, explicit challengers, unique perspectives, and edge cases.
// A claim contributes once, under the highest-precedence kind it matches.
func (d *Detector) detectDissent(in Input) (model.SecondaryPattern, bool) {
	peakIDs := make(map[string]bool)
	peakSupporters := make(map[int]bool)
	for _, p := range in.Peaks.Peaks {
		peakIDs[p.ID] = true
		for _, m := range p.Supporters {
			peakSupporters[m] = true
		}
	}

	var entries []model.DissentEntry
	for _, c := range in.Claims {
		if peakIDs[c.ID] {
			continue // Peaks are the majority; dissent lives below them
		}
		switch {
		case c.IsLeverageInversion:
			entries = append(entries, model.DissentEntry{
				ClaimID:      c.ID,
				Label:        c.Label,
				Kind:         model.DissentLeverageInversion,
				InsightScore: c.Leverage * (1 - c.SupportRatio),
				Reason:       fmt.Sprintf("only %.0f%% support but leverage %.1f", c.SupportRatio*100, c.Leverage),
			})
		case c.Role == model.RoleChallenger || peakIDs[c.Disputes]:
			entries = append(entries, model.DissentEntry{
				ClaimID:      c.ID,
				Label:        c.Label,
				Kind:         model.DissentChallenger,
				InsightScore: 2 + 0.5*c.Leverage,
				Reason:       "explicitly pushes against the consensus",
			})
		case len(c.Supporters) > 0 && disjointFromPeaks(c, peakSupporters):
			entries = append(entries, model.DissentEntry{
				ClaimID:      c.ID,
				Label:        c.Label,
				Kind:         model.DissentUniquePerspective,
				InsightScore: 1.5 + c.SupportRatio,
				Reason:       "backed only by models outside every peak's supporters",
			})
		case c.IsConditional && !c.IsHighSupport:
			entries = append(entries, model.DissentEntry{
				ClaimID:      c.ID,
				Label:        c.Label,
				Kind:         model.DissentEdgeCase,
				InsightScore: 1 + c.SupportRatio,
				Reason:       "low-support conditional: holds in a scenario the majority ignores",
			})
		}
	}
	if len(entries) == 0 {
		return model.SecondaryPattern{}, false
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].InsightScore > entries[j].InsightScore
	})

	return model.SecondaryPattern{
		Kind:        model.PatternDissent,
		Severity:    countSeverity(len(entries)),
		Description: fmt.Sprintf("%d minority claim(s) deserve elevation despite low support", len(entries)),
		Dissent:     &model.DissentPattern{Entries: entries},
	}, true
}

// detectChallenged finds floor claims aiming conflict edges at peaks
func (d *Detector) detectChallenged(in Input) (model.SecondaryPattern, bool) {
	floorIDs := make(map[string]model.EnrichedClaim)
	for _, c := range in.Peaks.Floor {
		floorIDs[c.ID] = c
	}
	peakByID := make(map[string]model.EnrichedClaim)
	for _, p := range in.Peaks.Peaks {
		peakByID[p.ID] = p
	}

	var challenges []model.Challenge
	for _, e := range in.Edges {
		if e.Type != model.EdgeConflicts {
			continue
		}
		challenger, isFloor := floorIDs[e.From]
		target, isPeak := peakByID[e.To]
		if !isFloor || !isPeak {
			continue
		}
		challenges = append(challenges, model.Challenge{
			ChallengerID:      challenger.ID,
			TargetID:          target.ID,
			ChallengerSupport: challenger.SupportRatio,
			TargetSupport:     target.SupportRatio,
		})
	}
	if len(challenges) == 0 {
		return model.SecondaryPattern{}, false
	}

	severity := model.SeverityMedium
	if len(challenges) >= 2 {
		severity = model.SeverityHigh
	}
	return model.SecondaryPattern{
		Kind:        model.PatternChallenged,
		Severity:    severity,
		Description: fmt.Sprintf("%d direct challenge(s) from the floor against consensus peaks", len(challenges)),
		Challenged:  &model.ChallengedPattern{Challenges: challenges},
	}, true
}

// detectKeystone promotes the hub claim when at least two prerequisite
// dependents hang off it
func (d *Detector) detectKeystone(in Input) (model.SecondaryPattern, bool) {
	if in.Graph.HubClaimID == "" {
		return model.SecondaryPattern{}, false
	}

	var cascade *model.CascadeRisk
	for i := range in.Cascades {
		if in.Cascades[i].SourceID == in.Graph.HubClaimID {
			cascade = &in.Cascades[i]
			break
		}
	}
	if cascade == nil || len(cascade.Dependents) < 2 {
		return model.SecondaryPattern{}, false
	}

	var hub model.EnrichedClaim
	for _, c := range in.Claims {
		if c.ID == in.Graph.HubClaimID {
			hub = c
			break
		}
	}

	var challengers []string
	for _, e := range in.Edges {
		if e.Type == model.EdgeConflicts && e.To == hub.ID {
			challengers = append(challengers, e.From)
		}
	}

	severity := model.SeverityMedium
	if len(challengers) > 0 {
		severity = model.SeverityHigh // An attacked keystone endangers its whole cascade
	}
	return model.SecondaryPattern{
		Kind:        model.PatternKeystone,
		Severity:    severity,
		Description: fmt.Sprintf("%q underpins %d dependent claim(s)", hub.Label, len(cascade.Dependents)),
		Keystone: &model.KeystonePattern{
			ClaimID:     hub.ID,
			Label:       hub.Label,
			CascadeSize: len(cascade.Dependents),
			Dependents:  cascade.Dependents,
			Challengers: challengers,
		},
	}, true
}

// detectChain flags the longest prerequisite chain when it has at least
// three steps, marking single-supporter steps as weak links
func (d *Detector) detectChain(in Input) (model.SecondaryPattern, bool) {
	if len(in.Graph.LongestChain) < 3 {
		return model.SecondaryPattern{}, false
	}

	byID := make(map[string]model.EnrichedClaim, len(in.Claims))
	for _, c := range in.Claims {
		byID[c.ID] = c
	}

	var weak []string
	for _, id := range in.Graph.LongestChain {
		if len(byID[id].Supporters) == 1 {
			weak = append(weak, id)
		}
	}

	severity := model.SeverityMedium
	if len(weak) > 0 {
		severity = model.SeverityHigh
	}
	return model.SecondaryPattern{
		Kind:        model.PatternChain,
		Severity:    severity,
		Description: fmt.Sprintf("%d-step prerequisite chain with %d weak link(s)", len(in.Graph.LongestChain), len(weak)),
		Chain: &model.ChainPattern{
			Steps:     in.Graph.LongestChain,
			WeakLinks: weak,
		},
	}, true
}

// detectFragile flags a peak resting on a prerequisite from below the hill
// threshold
func (d *Detector) detectFragile(in Input) (model.SecondaryPattern, bool) {
	byID := make(map[string]model.EnrichedClaim, len(in.Claims))
	for _, c := range in.Claims {
		byID[c.ID] = c
	}
	peakIDs := make(map[string]bool)
	for _, p := range in.Peaks.Peaks {
		peakIDs[p.ID] = true
	}

	for _, e := range in.Edges {
		if e.Type != model.EdgePrerequisite || !peakIDs[e.To] {
			continue
		}
		dep, ok := byID[e.From]
		if !ok || dep.SupportRatio > 0.25 {
			continue
		}
		peak := byID[e.To]
		return model.SecondaryPattern{
			Kind:     model.PatternFragile,
			Severity: model.SeverityHigh,
			Description: fmt.Sprintf("peak %q depends on %q, which holds only %.0f%% support",
				peak.Label, dep.Label, dep.SupportRatio*100),
			Fragile: &model.FragilePattern{
				PeakID:            peak.ID,
				DependencyID:      dep.ID,
				DependencySupport: dep.SupportRatio,
			},
		}, true
	}
	return model.SecondaryPattern{}, false
}

// detectConditional fires when at least two conditional claims branch into
// prerequisites: the answer forks on circumstances, not disagreement
func (d *Detector) detectConditional(in Input) (model.SecondaryPattern, bool) {
	outPrereq := make(map[string]int)
	for _, e := range in.Edges {
		if e.Type == model.EdgePrerequisite {
			outPrereq[e.From]++
		}
	}

	var branches []model.ConditionalBranch
	for _, c := range in.Claims {
		if c.Type == model.ClaimConditional && outPrereq[c.ID] > 0 {
			branches = append(branches, model.ConditionalBranch{
				ClaimID:     c.ID,
				BranchCount: outPrereq[c.ID],
			})
		}
	}
	if len(branches) < 2 {
		return model.SecondaryPattern{}, false
	}

	return model.SecondaryPattern{
		Kind:        model.PatternConditional,
		Severity:    model.SeverityMedium,
		Description: fmt.Sprintf("%d conditional claims branch into prerequisites: the answer depends on circumstances", len(branches)),
		Conditional: &model.ConditionalPattern{Branches: branches},
	}, true
}

// detectOrphaned flags a peak nothing connects to. A single-claim graph
// has nothing to connect, so isolation means nothing there.
func (d *Detector) detectOrphaned(in Input) (model.SecondaryPattern, bool) {
	if len(in.Claims) < 2 {
		return model.SecondaryPattern{}, false
	}
	for _, p := range in.Peaks.Peaks {
		if p.InDegree == 0 && p.OutDegree == 0 {
			return model.SecondaryPattern{
				Kind:        model.PatternOrphaned,
				Severity:    model.SeverityMedium,
				Description: fmt.Sprintf("peak %q has broad support but no structural connections", p.Label),
				Orphaned: &model.OrphanedPattern{
					PeakID: p.ID,
					Label:  p.Label,
				},
			}, true
		}
	}
	return model.SecondaryPattern{}, false
}

func disjointFromPeaks(c model.EnrichedClaim, peakSupporters map[int]bool) bool {
	if len(peakSupporters) == 0 {
		return false // No peaks: "unique perspective" has no majority to differ from
	}
	for _, m := range c.Supporters {
		if peakSupporters[m] {
			return false
		}
	}
	return true
}

func countSeverity(n int) model.PatternSeverity {
	switch {
	case n >= 3:
		return model.SeverityHigh
	case n == 2:
		return model.SeverityMedium
	default:
		return model.SeverityLow
	}
}
