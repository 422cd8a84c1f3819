package model

// GraphAnalysis describes the whole claim graph as one derived structure
type GraphAnalysis struct {
	ComponentCount     int        `json:"component_count"`
	Components         [][]string `json:"components"`           // Claim ids per connected component, input order
	LongestChain       []string   `json:"longest_chain"`        // Ordered ids along the longest prerequisite chain
	ChainRootCount     int        `json:"chain_root_count"`     // Claims with no incoming prerequisite edge
	HubClaimID         string     `json:"hub_claim_id"`         // Empty when no hub dominates
	HubDominance       float64    `json:"hub_dominance"`        // Hub out-degree / runner-up out-degree
	ArticulationPoints []string   `json:"articulation_points"`  // Ids whose removal disconnects a component
	ClusterCohesion    float64    `json:"cluster_cohesion"`     // Actual / possible edges among high-support claims
	LocalCoherence     float64    `json:"local_coherence"`      // Size- and support-weighted component density
}

// CoreRatios are the five scalar summaries of the whole graph
type CoreRatios struct {
	Concentration float64  `json:"concentration"` // Max supporter count / model count
	Alignment     *float64 `json:"alignment"`     // Reinforcing share among top claims; nil when no edges among them
	Tension       float64  `json:"tension"`       // Conflict+tradeoff edges / all edges
	Fragmentation float64  `json:"fragmentation"` // (components-1) / (claims-1)
	Depth         float64  `json:"depth"`         // Longest chain length / claim count
}

// Landscape aggregates population-level distribution statistics
type Landscape struct {
	TypeDistribution map[ClaimType]int `json:"type_distribution"`
	RoleDistribution map[ClaimRole]int `json:"role_distribution"`
	DominantType     ClaimType         `json:"dominant_type"`
	DominantRole     ClaimRole         `json:"dominant_role"`
	ModelCount       int               `json:"model_count"`       // Explicit count, else inferred, floored at 1
	ConvergenceRatio float64           `json:"convergence_ratio"` // Share of claims at or above the top-30% support cutoff
}

// SupportTier is the support-ratio tier a claim falls into
type SupportTier string

const (
	TierPeak  SupportTier = "peak"  // Majority support ratio with at least 2 supporters
	TierHill  SupportTier = "hill"  // Support ratio in (0.25, 0.5), or majority with a lone supporter
	TierFloor SupportTier = "floor" // Support ratio <= 0.25
)

// PeakAnalysis partitions claims into support tiers and classifies
// the edges running between peaks.
type PeakAnalysis struct {
	Peaks []EnrichedClaim `json:"peaks"`
	Hills []EnrichedClaim `json:"hills"`
	Floor []EnrichedClaim `json:"floor"`

	// Edges with both endpoints on peaks, split by signal. Prerequisite
	// edges between peaks are always cohesive, never tension.
	PeakConflicts []Edge `json:"peak_conflicts"`
	PeakTradeoffs []Edge `json:"peak_tradeoffs"`
	PeakCohesive  []Edge `json:"peak_cohesive"`
}
