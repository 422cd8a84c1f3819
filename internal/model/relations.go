package model

// ConflictPair enriches one conflict edge with pairwise statistics
type ConflictPair struct {
	AID             string  `json:"a_id"`
	BID             string  `json:"b_id"`
	CombinedSupport float64 `json:"combined_support"` // Sum of both support ratios
	SupportDelta    float64 `json:"support_delta"`    // Absolute difference of support ratios
	Symmetric       bool    `json:"symmetric"`        // Delta below 0.15
	Axis            string  `json:"axis"`             // What the disagreement is about
	AxisExplicit    bool    `json:"axis_explicit"`    // Axis came from an explicit dispute, not inferred
	Significance    float64 `json:"significance"`     // Combined support plus high-support/keystone bonuses
}

// ConflictCluster groups challengers attacking one shared target
type ConflictCluster struct {
	TargetID      string   `json:"target_id"`
	ChallengerIDs []string `json:"challenger_ids"` // At least two
}

// TradeoffPair enriches one tradeoff edge with pairwise statistics
type TradeoffPair struct {
	AID             string  `json:"a_id"`
	BID             string  `json:"b_id"`
	CombinedSupport float64 `json:"combined_support"`
	SupportDelta    float64 `json:"support_delta"`
	Dominated       bool    `json:"dominated"` // One side clearly outweighs the other
	Significance    float64 `json:"significance"`
}

// ConvergencePoint is a claim that multiple reinforcing edges flow into
type ConvergencePoint struct {
	TargetID        string   `json:"target_id"`
	SourceIDs       []string `json:"source_ids"` // At least two
	CombinedSupport float64  `json:"combined_support"`
}

// CascadeRisk is the transitive prerequisite closure below one source claim
type CascadeRisk struct {
	SourceID   string   `json:"source_id"`
	Dependents []string `json:"dependents"` // Every claim reachable via prerequisite edges
	MaxDepth   int      `json:"max_depth"`  // Longest prerequisite distance to a dependent
}
