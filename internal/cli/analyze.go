package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mahdieldaw/strata/internal/model"
	"github.com/mahdieldaw/strata/internal/pipeline"
)

var (
	outJSON     string
	outMD       string
	timeout     time.Duration
	noCache     bool
	noFooter    bool
	compact     bool
	llmEnabled  bool
	llmProvider string
	llmModel    string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <document.json>",
	Short: "Analyze one claim graph and describe its structure",
	Long: `Analyze reads a claim-graph document (JSON, "-" for stdin) and computes:
- Support tiers and the primary shape of the collective answer
- Secondary patterns: dissent, challenges, keystones, fragile consensus
- Pairwise conflict, tradeoff and convergence enrichment
- A transfer question surfacing the central ambiguity

Example:
  strata analyze claims.json
  strata analyze claims.json --json analysis.json --md analysis.md
  strata analyze - < claims.json
  strata analyze claims.json --llm --llm-provider openai`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Output flags
	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (\"-\" for stdout)")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	analyzeCmd.Flags().BoolVar(&compact, "compact", false, "compact JSON output")
	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall analysis timeout")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable result cache")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// Shadow audit flags
	analyzeCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable the shadow audit pass")
	analyzeCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "shadow audit provider (openai, anthropic, ollama)")
	analyzeCmd.Flags().StringVar(&llmModel, "llm-model", "", "shadow audit model name")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	p := pipeline.NewPipeline(cfg)

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing: %s\n\n", path)
	}

	result, err := p.Run(ctx, path)
	if err != nil {
		return fmt.Errorf("analyze failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ %d claims across %d models\n", len(result.Claims), result.ModelCount)
		fmt.Fprintf(os.Stderr, "✓ Shape: %s (%.0f%%)\n", result.Structure.Shape, result.Structure.Confidence*100)
		if result.Shadow != nil {
			fmt.Fprintf(os.Stderr, "✓ Shadow audit via %s\n", result.Shadow.Provider)
		}
		fmt.Fprintln(os.Stderr)
	}

	if err := p.Render(result, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	return nil
}

// buildConfig assembles the runtime configuration from defaults and flags
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = !noCache
	cfg.Output.Pretty = !compact
	cfg.Output.IncludeFooter = !noFooter

	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		if llmModel != "" {
			cfg.LLM.Model = llmModel
		}

		switch llmProvider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		case "anthropic", "claude":
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
			}
		case "ollama":
			if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
				cfg.LLM.BaseURL = baseURL
			}
		}
	}
	return cfg, nil
}
