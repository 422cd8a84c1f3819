// Package validate enforces the input boundary: structurally invalid
// documents are rejected before analysis. Only what the engine cannot
// repair is an error here; dangling edges and self-loops pass through
// and are dropped downstream.
package validate

import (
	"fmt"

	"github.com/mahdieldaw/strata/internal/model"
)

// Validator checks documents against the input contract
type Validator struct{}

// NewValidator creates a new document validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateDocument returns the first contract violation found, or nil
func (v *Validator) ValidateDocument(doc *model.Document) error {
	if doc.ModelCount < 0 {
		return fmt.Errorf("model_count must not be negative, got %d", doc.ModelCount)
	}

	seen := make(map[string]bool, len(doc.Claims))
	for i, c := range doc.Claims {
		if c.ID == "" {
			return fmt.Errorf("claim %d: empty id", i)
		}
		if seen[c.ID] {
			return fmt.Errorf("claim %d: duplicate id %q", i, c.ID)
		}
		seen[c.ID] = true

		if !ValidClaimType(c.Type) {
			return fmt.Errorf("claim %q: unknown type %q", c.ID, c.Type)
		}
		if !ValidClaimRole(c.Role) {
			return fmt.Errorf("claim %q: unknown role %q", c.ID, c.Role)
		}
		for _, m := range c.Supporters {
			if m < 0 {
				return fmt.Errorf("claim %q: negative supporter index %d", c.ID, m)
			}
		}
	}

	for i, e := range doc.Edges {
		if !ValidEdgeType(e.Type) {
			return fmt.Errorf("edge %d: unknown type %q", i, e.Type)
		}
	}

	return nil
}

// ValidClaimType reports whether t is a known claim type. The empty
// string means unclassified and is allowed.
func ValidClaimType(t model.ClaimType) bool {
	switch t {
	case "", model.ClaimFactual, model.ClaimPrescriptive, model.ClaimConditional,
		model.ClaimContested, model.ClaimSpeculative:
		return true
	}
	return false
}

// ValidClaimRole reports whether r is a known claim role
func ValidClaimRole(r model.ClaimRole) bool {
	switch r {
	case "", model.RoleAnchor, model.RoleBranch, model.RoleChallenger, model.RoleSupplement:
		return true
	}
	return false
}

// ValidEdgeType reports whether t is a known edge type. Unlike claim
// enums, an edge without a type carries no meaning, so empty is invalid.
func ValidEdgeType(t model.EdgeType) bool {
	switch t {
	case model.EdgeSupports, model.EdgeConflicts, model.EdgeTradeoff, model.EdgePrerequisite:
		return true
	}
	return false
}
