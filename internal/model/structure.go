package model

// ProblemShape is the primary topology archetype of the collective answer
type ProblemShape string

const (
	ShapeSparse      ProblemShape = "sparse"      // No dominant claims
	ShapeConvergent  ProblemShape = "convergent"  // Consensus around one position
	ShapeForked      ProblemShape = "forked"      // Peaks in direct conflict
	ShapeConstrained ProblemShape = "constrained" // Peaks trading off against each other
	ShapeParallel    ProblemShape = "parallel"    // Disconnected peaks answering different dimensions
)

// PeakRelationKind summarizes how the peaks relate to one another
type PeakRelationKind string

const (
	PeaksConflicting PeakRelationKind = "conflicting"
	PeaksTradingOff  PeakRelationKind = "trading-off"
	PeaksSupporting  PeakRelationKind = "supporting"
	PeaksIndependent PeakRelationKind = "independent"
	PeaksNone        PeakRelationKind = "none" // Fewer than two peaks
)

// PeakRelation is the classified relation between one pair of peaks
type PeakRelation struct {
	AID          string           `json:"a_id"`
	BID          string           `json:"b_id"`
	Kind         PeakRelationKind `json:"kind"`
	SupportDelta float64          `json:"support_delta"`
	Symmetric    bool             `json:"symmetric"` // Delta below 0.15
}

// ProblemStructure is the externally consumed description of the answer's shape
type ProblemStructure struct {
	Shape            ProblemShape       `json:"shape"`
	Confidence       float64            `json:"confidence"` // In [0,1]
	Patterns         []SecondaryPattern `json:"patterns"`
	Peaks            []ClaimRef         `json:"peaks"`
	PeakRelationship PeakRelationKind   `json:"peak_relationship"`
	PeakRelations    []PeakRelation     `json:"peak_relations"`
	Evidence         []string           `json:"evidence"`          // Human-auditable classification rationale
	TransferQuestion string             `json:"transfer_question"` // Generated follow-up surfacing the ambiguity
	Diagnostics      []string           `json:"diagnostics,omitempty"` // Builder degradations, never failures
	Data             ShapeData          `json:"data"`
}

// ShapeData is a five-variant tagged union selected by Shape. Exactly one
// payload pointer is non-nil; consumers must branch on Shape, never assume
// a particular variant.
type ShapeData struct {
	Shape       ProblemShape     `json:"shape"`
	Convergent  *ConvergentData  `json:"convergent,omitempty"`
	Forked      *ForkedData      `json:"forked,omitempty"`
	Constrained *ConstrainedData `json:"constrained,omitempty"`
	Parallel    *ParallelData    `json:"parallel,omitempty"`
	Sparse      *SparseData      `json:"sparse,omitempty"`
}

// ConvergentData describes consensus plus what the consensus ignores
type ConvergentData struct {
	Core             *ClaimRef  `json:"core,omitempty"` // The consensus claim, when one exists
	FloorClaims      []ClaimRef `json:"floor_claims"`
	Assumptions      []string   `json:"assumptions"`                 // Prerequisites the consensus rests on
	StrongestOutlier *ClaimRef  `json:"strongest_outlier,omitempty"` // Highest-leverage minority claim
}

// CentralConflictKind distinguishes a duel from a pile-on
type CentralConflictKind string

const (
	ConflictOneVsOne        CentralConflictKind = "one_vs_one"
	ConflictTargetVsCluster CentralConflictKind = "target_vs_cluster"
)

// CentralConflict is the dominant disagreement in a forked answer
type CentralConflict struct {
	Kind          CentralConflictKind `json:"kind"`
	AID           string              `json:"a_id"`                     // One side, or the cluster target
	BID           string              `json:"b_id,omitempty"`           // Other side for one_vs_one
	ChallengerIDs []string            `json:"challenger_ids,omitempty"` // Cluster members for target_vs_cluster
	Axis          string              `json:"axis"`
}

// ForkedData describes an answer split by direct conflict
type ForkedData struct {
	Central            *CentralConflict `json:"central,omitempty"`
	SecondaryConflicts []ConflictPair   `json:"secondary_conflicts"`
	ResidualFloor      []ClaimRef       `json:"residual_floor"`
}

// ConstrainedData describes an answer shaped by tradeoffs
type ConstrainedData struct {
	ActiveTradeoffs    []TradeoffPair `json:"active_tradeoffs"`    // Neither side dominates
	DominatedTradeoffs []TradeoffPair `json:"dominated_tradeoffs"` // One side clearly outweighs
	Floor              []ClaimRef     `json:"floor"`
}

// DimensionCluster is one graph component treated as an answer dimension
type DimensionCluster struct {
	ClaimIDs   []string `json:"claim_ids"`
	Label      string   `json:"label"` // Label of the strongest claim in the cluster
	AvgSupport float64  `json:"avg_support"`
}

// DimensionInteraction classifies how two dimensions touch, if at all
type DimensionInteraction struct {
	A    int              `json:"a"` // Index into Dimensions
	B    int              `json:"b"`
	Kind PeakRelationKind `json:"kind"`
}

// ParallelData describes disconnected peaks answering different questions.
// HiddenDimension is deliberately placed last: the dimension no model
// connected to the rest is the one worth asking about.
type ParallelData struct {
	Dimensions      []DimensionCluster     `json:"dimensions"`
	Interactions    []DimensionInteraction `json:"interactions"`
	HiddenDimension *ClaimRef              `json:"hidden_dimension,omitempty"`
}

// SparseData describes a fragmented answer with no dominant position
type SparseData struct {
	StrongestSignals []ClaimRef `json:"strongest_signals"`
	LooseClusters    [][]string `json:"loose_clusters"` // Component id groups with >1 member
	Isolated         []ClaimRef `json:"isolated"`
	OuterBoundary    *ClaimRef  `json:"outer_boundary,omitempty"` // The least connected, least supported claim
	Reasoning        string     `json:"reasoning"`
}
