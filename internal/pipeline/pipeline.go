// Package pipeline orchestrates one analysis run: load and validate the
// document, consult the result cache, run the engine, optionally run the
// shadow audit, and render the output.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mahdieldaw/strata/internal/cache"
	"github.com/mahdieldaw/strata/internal/engine"
	"github.com/mahdieldaw/strata/internal/llm"
	"github.com/mahdieldaw/strata/internal/model"
	"github.com/mahdieldaw/strata/internal/worker"
)

// Pipeline runs documents through the analysis stages
type Pipeline struct {
	analyzer *engine.Analyzer
	cache    cache.Cache // nil when caching is disabled
	provider llm.Provider
	limiter  *worker.Limiter // Shared across batch workers
	renderer *Renderer
	config   *model.Config
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config) *Pipeline {
	var resultCache cache.Cache
	if cfg.Cache.Enabled {
		resultCache = cache.NewLayeredCache(
			cfg.Cache.TTL,
			filepath.Join(configDir(), "cache"),
			cfg.Cache.TTL,
		)
	}

	var provider llm.Provider
	if cfg.LLM.Provider != "" {
		p, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: shadow audit disabled: %v\n", err)
		} else {
			provider = p
		}
	}

	rps := cfg.LLM.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}

	return &Pipeline{
		analyzer: engine.NewAnalyzer(),
		cache:    resultCache,
		provider: provider,
		limiter:  worker.NewLimiter(rps, 1),
		renderer: NewRenderer(cfg.Output.Pretty, cfg.Output.IncludeFooter),
		config:   cfg,
	}
}

// Run analyzes one document file ("-" for stdin) end to end
func (p *Pipeline) Run(ctx context.Context, path string) (*model.ExtendedAnalysis, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		return nil, err
	}
	return p.Analyze(ctx, doc)
}

// Analyze runs a loaded document through the engine, the cache, and the
// optional shadow pass. The shadow audit never fails the run: its errors
// become warnings on the result.
func (p *Pipeline) Analyze(ctx context.Context, doc *model.Document) (*model.ExtendedAnalysis, error) {
	structural, err := p.analyzeStructural(*doc)
	if err != nil {
		return nil, err
	}

	result := &model.ExtendedAnalysis{StructuralAnalysis: *structural}

	if p.provider != nil && len(doc.Responses) > 0 {
		result.Shadow = p.runShadow(ctx, doc, structural)
	}

	return result, nil
}

// analyzeStructural returns the cached analysis when available; the engine
// is deterministic, so a hit is always exact
func (p *Pipeline) analyzeStructural(doc model.Document) (*model.StructuralAnalysis, error) {
	key := cache.DocumentKey(doc)

	if p.cache != nil {
		if data, found := p.cache.Get(key); found {
			var cached model.StructuralAnalysis
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
			// A corrupt entry is dropped and recomputed.
			_ = p.cache.Delete(key)
		}
	}

	sa := p.analyzer.Analyze(doc)

	if p.cache != nil {
		if data, err := json.Marshal(sa); err == nil {
			if err := p.cache.Set(key, data, p.config.Cache.TTL); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: cache write failed: %v\n", err)
			}
		}
	}

	return &sa, nil
}

// runShadow executes the audit pass. Any failure is reported inside the
// audit envelope, never as a pipeline error.
func (p *Pipeline) runShadow(ctx context.Context, doc *model.Document, sa *model.StructuralAnalysis) *model.ShadowAudit {
	claimTexts := make([]string, len(sa.Claims))
	for i, c := range sa.Claims {
		claimTexts[i] = c.Text
	}

	// The limiter is shared across batch workers; one slow provider must
	// not be hammered by a wide batch.
	if err := p.limiter.Wait(ctx, p.provider.Name()); err != nil {
		return &model.ShadowAudit{
			Provider: p.provider.Name(),
			Warnings: []string{fmt.Sprintf("shadow audit cancelled: %v", err)},
		}
	}

	audit, err := p.provider.Audit(ctx, llm.AuditRequest{
		Query:         doc.Query,
		ClaimTexts:    claimTexts,
		Responses:     doc.Responses,
		MaxStatements: p.config.Analysis.TopStatements,
	})
	if err != nil {
		return &model.ShadowAudit{
			Provider: p.provider.Name(),
			Warnings: []string{fmt.Sprintf("shadow audit failed: %v", err)},
		}
	}
	return audit
}

// Render writes the analysis to the configured outputs
func (p *Pipeline) Render(result *model.ExtendedAnalysis, jsonPath, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(result, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(result, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	p.renderer.RenderSummary(result)
	return nil
}

// configDir is where strata keeps its config and disk cache
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".strata"
	}
	return filepath.Join(home, ".strata")
}
