package model

// Document is the input handed over by the upstream claim-extraction stage
type Document struct {
	Query      string          `json:"query,omitempty"`
	ModelCount int             `json:"model_count,omitempty"` // 0 means infer from supporters
	Claims     []Claim         `json:"claims"`
	Edges      []Edge          `json:"edges"`
	Ghosts     []string        `json:"ghosts,omitempty"` // Topics no model addressed
	Responses  []ModelResponse `json:"responses,omitempty"`
}

// ModelResponse is one raw model answer, used only by the shadow pass
type ModelResponse struct {
	ModelIndex int    `json:"model_index"`
	Text       string `json:"text"`
}

// StructuralAnalysis is the complete envelope consumed downstream.
// Every field is read-only once returned; consumers branch on
// Structure.Shape rather than assuming a payload variant.
type StructuralAnalysis struct {
	Query      string   `json:"query,omitempty"`
	ModelCount int      `json:"model_count"`
	Ghosts     []string `json:"ghosts"`

	Claims []EnrichedClaim `json:"claims"`
	Edges  []Edge          `json:"edges"`

	Landscape Landscape     `json:"landscape"`
	Ratios    CoreRatios    `json:"ratios"`
	Graph     GraphAnalysis `json:"graph"`
	Peaks     PeakAnalysis  `json:"peaks"`

	Conflicts         []ConflictPair     `json:"conflicts"`
	ConflictClusters  []ConflictCluster  `json:"conflict_clusters"`
	Tradeoffs         []TradeoffPair     `json:"tradeoffs"`
	ConvergencePoints []ConvergencePoint `json:"convergence_points"`
	CascadeRisks      []CascadeRisk      `json:"cascade_risks"`

	Structure ProblemStructure `json:"structure"`
}

// RankedStatement is one model statement the claim index missed
type RankedStatement struct {
	Text       string  `json:"text"`
	ModelIndex int     `json:"model_index"`
	Score      float64 `json:"score"`
	Reason     string  `json:"reason,omitempty"`
}

// ShadowAudit is the output of the optional secondary extraction pass.
// It is additive: the primary analysis is computed first and never
// modified by the shadow pass.
type ShadowAudit struct {
	Provider            string            `json:"provider"`
	Model               string            `json:"model"`
	UnindexedStatements []RankedStatement `json:"unindexed_statements"` // Capped to a fixed top-N
	Warnings            []string          `json:"warnings,omitempty"`
}

// ExtendedAnalysis is StructuralAnalysis plus the shadow audit
type ExtendedAnalysis struct {
	StructuralAnalysis
	Shadow *ShadowAudit `json:"shadow,omitempty"`
}
