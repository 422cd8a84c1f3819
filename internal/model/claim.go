package model

// Claim represents an atomic assertion extracted from one or more model answers
type Claim struct {
	ID         string    `json:"id"`                 // Stable claim identifier
	Label      string    `json:"label"`              // Short human-readable label
	Text       string    `json:"text"`               // Full claim text
	Supporters []int     `json:"supporters"`         // Source-model indices asserting this claim
	Type       ClaimType `json:"type"`               // Semantic category
	Role       ClaimRole `json:"role"`               // Structural role in the answer
	Disputes   string    `json:"disputes,omitempty"` // Claim id this claim directly disputes
}

// ClaimType categorizes the semantic nature of the claim
type ClaimType string

const (
	ClaimFactual      ClaimType = "factual"      // Asserts a fact
	ClaimPrescriptive ClaimType = "prescriptive" // Recommends an action
	ClaimConditional  ClaimType = "conditional"  // Holds only under stated conditions
	ClaimContested    ClaimType = "contested"    // Known to be disputed among models
	ClaimSpeculative  ClaimType = "speculative"  // Uncertain or forward-looking
)

// ClaimRole categorizes the structural role a claim plays
type ClaimRole string

const (
	RoleAnchor     ClaimRole = "anchor"     // Central claim the answer hangs on
	RoleBranch     ClaimRole = "branch"     // Elaboration of an anchor
	RoleChallenger ClaimRole = "challenger" // Pushes back against another claim
	RoleSupplement ClaimRole = "supplement" // Peripheral addition
)

// Edge is a directed, typed relation between two claim ids
type Edge struct {
	From string   `json:"from"`
	To   string   `json:"to"`
	Type EdgeType `json:"type"`
}

// EdgeType classifies the relation an edge expresses
type EdgeType string

const (
	EdgeSupports     EdgeType = "supports"
	EdgeConflicts    EdgeType = "conflicts"
	EdgeTradeoff     EdgeType = "tradeoff"
	EdgePrerequisite EdgeType = "prerequisite" // From enables To; not guaranteed acyclic
)

// SupporterCount returns the number of distinct supporters
func (c Claim) SupporterCount() int {
	return len(c.Supporters)
}
