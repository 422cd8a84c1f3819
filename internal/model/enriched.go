package model

// EnrichedClaim is a Claim plus derived scores and population-relative flags.
// All fields are recomputed fresh on every analysis and never persisted.
type EnrichedClaim struct {
	Claim

	SupportRatio  float64 `json:"support_ratio"`  // supporters / model count, in [0,1]
	Leverage      float64 `json:"leverage"`       // Composite structural-importance score
	KeystoneScore float64 `json:"keystone_score"` // out-degree x supporter count
	SupportSkew   float64 `json:"support_skew"`   // Max claims from one supporting model / total supporters
	InDegree      int     `json:"in_degree"`
	OutDegree     int     `json:"out_degree"`

	// Percentile-relative flags, derived in a second pass over the
	// whole population so thresholds never drift mid-flagging.
	IsHighSupport       bool `json:"is_high_support"`       // Top 30% by support ratio
	IsLeverageInversion bool `json:"is_leverage_inversion"` // Bottom 30% support and top 25% leverage
	IsKeystone          bool `json:"is_keystone"`           // Top 20% keystone score, out-degree >=2, >=2 outgoing prerequisites
	IsEvidenceGap       bool `json:"is_evidence_gap"`       // Top 20% cascade dependents per supporter
	IsOutlier           bool `json:"is_outlier"`            // Top 20% support skew with >=2 supporters
	IsContested         bool `json:"is_contested"`          // Contested type, disputed, or on a conflict edge
	IsConditional       bool `json:"is_conditional"`        // Conditional claim type
	IsChallenger        bool `json:"is_challenger"`         // Low support challenger aimed at a top claim
	IsIsolated          bool `json:"is_isolated"`           // No incident edges at all
}

// Ref returns the lightweight reference used in shape payloads and peak lists
func (e EnrichedClaim) Ref() ClaimRef {
	return ClaimRef{ID: e.ID, Label: e.Label, SupportRatio: e.SupportRatio}
}

// ClaimRef is a lightweight pointer to a claim inside result payloads
type ClaimRef struct {
	ID           string  `json:"id"`
	Label        string  `json:"label"`
	SupportRatio float64 `json:"support_ratio"`
}
