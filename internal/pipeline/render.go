package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mahdieldaw/strata/internal/model"
)

// Renderer writes analyses as JSON or Markdown
type Renderer struct {
	pretty        bool
	includeFooter bool
}

// NewRenderer creates a new renderer
func NewRenderer(pretty, includeFooter bool) *Renderer {
	return &Renderer{
		pretty:        pretty,
		includeFooter: includeFooter,
	}
}

// RenderJSON writes the full analysis to a file, or stdout for path "-"
func (r *Renderer) RenderJSON(result *model.ExtendedAnalysis, path string) error {
	var data []byte
	var err error
	if r.pretty {
		data, err = json.MarshalIndent(result, "", "  ")
	} else {
		data, err = json.Marshal(result)
	}
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}
	data = append(data, '\n')

	if path == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// RenderMarkdown writes the human-readable report
func (r *Renderer) RenderMarkdown(result *model.ExtendedAnalysis, path string) error {
	md := r.Markdown(result)
	if path == "-" {
		_, err := os.Stdout.WriteString(md)
		return err
	}
	return os.WriteFile(path, []byte(md), 0644)
}

// Markdown builds the report text
func (r *Renderer) Markdown(result *model.ExtendedAnalysis) string {
	var b strings.Builder
	s := result.Structure

	b.WriteString("# Deliberation Structure\n\n")
	if result.Query != "" {
		fmt.Fprintf(&b, "**Query:** %s\n\n", result.Query)
	}

	fmt.Fprintf(&b, "**Shape:** %s (confidence %.0f%%)\n\n", s.Shape, s.Confidence*100)
	for _, ev := range s.Evidence {
		fmt.Fprintf(&b, "- %s\n", ev)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "**Models:** %d | **Claims:** %d | **Convergence:** %.0f%% | **Tension:** %.0f%%\n\n",
		result.ModelCount, len(result.Claims),
		result.Landscape.ConvergenceRatio*100, result.Ratios.Tension*100)

	if len(s.Peaks) > 0 {
		b.WriteString("## Peaks\n\n")
		b.WriteString("| Claim | Support |\n|---|---|\n")
		for _, p := range s.Peaks {
			fmt.Fprintf(&b, "| %s | %.0f%% |\n", p.Label, p.SupportRatio*100)
		}
		if len(s.Peaks) > 1 {
			fmt.Fprintf(&b, "\nPeak relationship: %s\n", s.PeakRelationship)
		}
		b.WriteString("\n")
	}

	if len(s.Patterns) > 0 {
		b.WriteString("## Patterns\n\n")
		for _, p := range s.Patterns {
			fmt.Fprintf(&b, "- **%s** (%s): %s\n", p.Kind, p.Severity, p.Description)
		}
		b.WriteString("\n")
	}

	if len(result.Conflicts) > 0 {
		b.WriteString("## Conflicts\n\n")
		for _, c := range result.Conflicts {
			marker := "asymmetric"
			if c.Symmetric {
				marker = "symmetric"
			}
			fmt.Fprintf(&b, "- %s (%s, significance %.2f)\n", c.Axis, marker, c.Significance)
		}
		b.WriteString("\n")
	}

	if len(result.Ghosts) > 0 {
		b.WriteString("## Unaddressed\n\n")
		for _, g := range result.Ghosts {
			fmt.Fprintf(&b, "- %s\n", g)
		}
		b.WriteString("\n")
	}

	if result.Shadow != nil {
		b.WriteString("## Shadow Audit\n\n")
		fmt.Fprintf(&b, "Provider: %s\n\n", result.Shadow.Provider)
		for _, st := range result.Shadow.UnindexedStatements {
			fmt.Fprintf(&b, "- [model %d, %.2f] %s\n", st.ModelIndex, st.Score, st.Text)
		}
		for _, w := range result.Shadow.Warnings {
			fmt.Fprintf(&b, "- ⚠ %s\n", w)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Transfer Question\n\n")
	fmt.Fprintf(&b, "%s\n", s.TransferQuestion)

	if r.includeFooter {
		b.WriteString("\n---\n")
		b.WriteString("Generated by strata. Describes the structure of disagreement, not which side is right.\n")
	}

	return b.String()
}

// RenderSummary prints a one-screen summary to stdout
func (r *Renderer) RenderSummary(result *model.ExtendedAnalysis) {
	s := result.Structure

	fmt.Printf("\nShape: %s (%.0f%%)\n", s.Shape, s.Confidence*100)
	fmt.Printf("Claims: %d across %d models, %d peak(s)\n",
		len(result.Claims), result.ModelCount, len(s.Peaks))

	if len(s.Patterns) > 0 {
		kinds := make([]string, len(s.Patterns))
		for i, p := range s.Patterns {
			kinds[i] = string(p.Kind)
		}
		fmt.Printf("Patterns: %s\n", strings.Join(kinds, ", "))
	}

	fmt.Printf("\n%s\n", s.TransferQuestion)
}
