package model

// PatternKind identifies one of the seven secondary patterns
type PatternKind string

const (
	PatternDissent     PatternKind = "dissent"
	PatternChallenged  PatternKind = "challenged"
	PatternKeystone    PatternKind = "keystone"
	PatternChain       PatternKind = "chain"
	PatternFragile     PatternKind = "fragile"
	PatternConditional PatternKind = "conditional"
	PatternOrphaned    PatternKind = "orphaned"
)

// PatternSeverity grades how strongly a pattern should color the reading
type PatternSeverity string

const (
	SeverityLow    PatternSeverity = "low"
	SeverityMedium PatternSeverity = "medium"
	SeverityHigh   PatternSeverity = "high"
)

// SecondaryPattern is a tagged variant: Kind selects exactly one non-nil
// payload pointer. Multiple patterns may co-occur on one analysis.
type SecondaryPattern struct {
	Kind        PatternKind     `json:"kind"`
	Severity    PatternSeverity `json:"severity"`
	Description string          `json:"description"`

	Dissent     *DissentPattern     `json:"dissent,omitempty"`
	Challenged  *ChallengedPattern  `json:"challenged,omitempty"`
	Keystone    *KeystonePattern    `json:"keystone,omitempty"`
	Chain       *ChainPattern       `json:"chain,omitempty"`
	Fragile     *FragilePattern     `json:"fragile,omitempty"`
	Conditional *ConditionalPattern `json:"conditional,omitempty"`
	Orphaned    *OrphanedPattern    `json:"orphaned,omitempty"`
}

// DissentKind classifies why a minority claim deserves elevation
type DissentKind string

const (
	DissentLeverageInversion DissentKind = "leverage_inversion" // Low support, high structural leverage
	DissentChallenger        DissentKind = "challenger"         // Explicitly pushes against a peak
	DissentUniquePerspective DissentKind = "unique_perspective" // Supporters disjoint from every peak
	DissentEdgeCase          DissentKind = "edge_case"          // Low-support conditional claim
)

// DissentEntry is one elevated minority claim
type DissentEntry struct {
	ClaimID      string      `json:"claim_id"`
	Label        string      `json:"label"`
	Kind         DissentKind `json:"dissent_kind"`
	InsightScore float64     `json:"insight_score"`
	Reason       string      `json:"reason"`
}

// DissentPattern elevates minority claims; evaluated unconditionally
// because low support does not mean low value.
type DissentPattern struct {
	Entries []DissentEntry `json:"entries"` // Ranked by insight score, descending
}

// Challenge is one floor claim aiming a conflict edge at a peak
type Challenge struct {
	ChallengerID      string  `json:"challenger_id"`
	TargetID          string  `json:"target_id"`
	ChallengerSupport float64 `json:"challenger_support"`
	TargetSupport     float64 `json:"target_support"`
}

// ChallengedPattern records direct attacks from the floor on the consensus
type ChallengedPattern struct {
	Challenges []Challenge `json:"challenges"`
}

// KeystonePattern flags the hub claim whose failure cascades
type KeystonePattern struct {
	ClaimID     string   `json:"claim_id"`
	Label       string   `json:"label"`
	CascadeSize int      `json:"cascade_size"`
	Dependents  []string `json:"dependents"`
	Challengers []string `json:"challengers"` // Claims with conflict edges into the keystone
}

// ChainPattern records a prerequisite chain of at least three steps
type ChainPattern struct {
	Steps     []string `json:"steps"`      // Claim ids in chain order
	WeakLinks []string `json:"weak_links"` // Steps with exactly one supporter
}

// FragilePattern flags a peak resting on a weakly supported prerequisite
type FragilePattern struct {
	PeakID            string  `json:"peak_id"`
	DependencyID      string  `json:"dependency_id"`
	DependencySupport float64 `json:"dependency_support"`
}

// ConditionalBranch is one conditional claim with downstream prerequisites
type ConditionalBranch struct {
	ClaimID     string `json:"claim_id"`
	BranchCount int    `json:"branch_count"` // Outgoing prerequisite edges
}

// ConditionalPattern records answers that fork on stated conditions
type ConditionalPattern struct {
	Branches []ConditionalBranch `json:"branches"` // At least two
}

// OrphanedPattern flags a peak with no incident edges at all
type OrphanedPattern struct {
	PeakID string `json:"peak_id"`
	Label  string `json:"label"`
}
