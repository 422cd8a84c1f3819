package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mahdieldaw/strata/internal/pipeline"
	"github.com/mahdieldaw/strata/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <manifest>",
	Short: "Analyze multiple claim-graph documents in parallel",
	Long: `Batch reads a manifest of document paths (one per line, # comments
allowed) and analyzes them concurrently. One bad document fails its own
entry, never the batch.

Example:
  strata batch manifest.txt
  strata batch manifest.txt --concurrency 8 --output-dir ./analyses
  strata batch manifest.txt --llm --llm-provider ollama`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./strata-analyses", "output directory for analyses")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")

	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable result cache")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	batchCmd.Flags().BoolVar(&compact, "compact", false, "compact JSON output")

	batchCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable the shadow audit pass")
	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "shadow audit provider (openai, anthropic, ollama)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "", "shadow audit model name")
}

func runBatch(cmd *cobra.Command, args []string) error {
	manifest := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	cfg.Concurrency.BatchWorkers = concurrency

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Batch: %s, %d workers, output %s\n\n", manifest, concurrency, outputDir)

	p := pipeline.NewPipeline(cfg)
	processor := worker.NewBatchProcessor(p, concurrency)

	results, err := processor.ProcessManifest(ctx, manifest)
	if err != nil {
		return err
	}

	renderer := pipeline.NewRenderer(!compact, !noFooter)
	succeeded, failed := 0, 0
	for _, r := range results {
		if r.Error != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", r.Path, r.Error)
			continue
		}

		outPath := filepath.Join(outputDir, outputName(r.Path))
		if err := renderer.RenderJSON(r.Analysis, outPath); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: write: %v\n", r.Path, err)
			continue
		}
		succeeded++
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ %s → %s (%s)\n", r.Path, outPath, r.Analysis.Structure.Shape)
		}
	}

	fmt.Fprintf(os.Stderr, "\nDone: %d succeeded, %d failed\n", succeeded, failed)
	if failed > 0 {
		return fmt.Errorf("%d document(s) failed", failed)
	}
	return nil
}

// outputName maps a document path to its analysis filename
func outputName(docPath string) string {
	base := filepath.Base(docPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + ".analysis.json"
}
