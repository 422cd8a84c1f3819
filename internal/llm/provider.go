// Package llm runs the optional shadow audit: a second model pass over the
// raw responses that surfaces statements the claim index missed. The audit
// is strictly additive; the structural analysis is computed first and never
// modified by anything found here.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/mahdieldaw/strata/internal/model"
)

// Provider defines the interface for shadow audit backends
type Provider interface {
	// Name returns the provider name
	Name() string

	// Audit compares raw model responses against the claim index and
	// returns statements no claim covers, ranked by the backing model
	Audit(ctx context.Context, req AuditRequest) (*model.ShadowAudit, error)

	// IsAvailable checks if the provider is properly configured and reachable
	IsAvailable(ctx context.Context) bool
}

// AuditRequest contains the input for one shadow audit pass
type AuditRequest struct {
	// Query is the original user question, for context
	Query string

	// ClaimTexts is the full claim index the responses were distilled into
	ClaimTexts []string

	// Responses are the raw model answers to audit
	Responses []model.ModelResponse

	// MaxStatements caps the returned list; 0 means the default cap
	MaxStatements int

	// Model overrides the configured model for this request
	Model string
}

// DefaultMaxStatements caps the unindexed statement list
const DefaultMaxStatements = 10

// Config holds shadow audit provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests, seconds
	Timeout int

	// MaxTokens for response generation
	MaxTokens int

	// RequestsPerSecond throttles outbound API calls
	RequestsPerSecond float64
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:          "", // Disabled by default
		Timeout:           30,
		MaxTokens:         1000,
		RequestsPerSecond: 1,
	}
}

// BuildAuditPrompt constructs the audit prompt. The model sees the claim
// index and the raw responses and must answer with a JSON array only.
func BuildAuditPrompt(req AuditRequest) string {
	var b strings.Builder

	b.WriteString("Several AI models answered the same question and their answers were distilled into an index of atomic claims. ")
	b.WriteString("Find substantive statements in the raw answers that NO claim in the index covers.\n\n")

	if req.Query != "" {
		fmt.Fprintf(&b, "Question: %s\n\n", req.Query)
	}

	b.WriteString("Claim index:\n")
	if len(req.ClaimTexts) == 0 {
		b.WriteString("(empty)\n")
	}
	for _, text := range req.ClaimTexts {
		fmt.Fprintf(&b, "- %s\n", text)
	}

	b.WriteString("\nRaw answers:\n")
	for _, r := range req.Responses {
		fmt.Fprintf(&b, "[model %d]\n%s\n\n", r.ModelIndex, r.Text)
	}

	b.WriteString(`Respond with a JSON array only, no prose. Each element:
{"text": "<the statement, verbatim or lightly trimmed>", "model_index": <int>, "score": <0..1 importance>, "reason": "<why it matters>"}
Return [] if the index covers everything substantive.`)

	return b.String()
}

// ParseAuditResponse decodes the model's JSON answer, tolerating code
// fences, then ranks and caps the statements. Malformed output is an
// error; callers downgrade it to a warning.
func ParseAuditResponse(raw string, maxStatements int) ([]model.RankedStatement, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var statements []model.RankedStatement
	if err := json.Unmarshal([]byte(raw), &statements); err != nil {
		return nil, fmt.Errorf("parse audit response: %w", err)
	}

	sort.SliceStable(statements, func(i, j int) bool {
		return statements[i].Score > statements[j].Score
	})

	if maxStatements <= 0 {
		maxStatements = DefaultMaxStatements
	}
	if len(statements) > maxStatements {
		statements = statements[:maxStatements]
	}
	return statements, nil
}
