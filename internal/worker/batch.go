package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mahdieldaw/strata/internal/model"
)

// Runner analyzes one document file
type Runner interface {
	Run(ctx context.Context, path string) (*model.ExtendedAnalysis, error)
}

// AnalyzeJob is one document analysis unit
type AnalyzeJob struct {
	Path   string
	Runner Runner
}

// Execute runs the analysis job
func (j *AnalyzeJob) Execute(ctx context.Context) Result {
	result, err := j.Runner.Run(ctx, j.Path)
	return &AnalyzeResult{
		Path:     j.Path,
		Analysis: result,
		Error:    err,
	}
}

// AnalyzeResult is the outcome of one document analysis
type AnalyzeResult struct {
	Path     string
	Analysis *model.ExtendedAnalysis
	Error    error
}

// GetError returns the error from the analysis result
func (r *AnalyzeResult) GetError() error {
	return r.Error
}

// BatchProcessor analyzes multiple document files concurrently. One bad
// document fails its own result, never the batch.
type BatchProcessor struct {
	runner      Runner
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(runner Runner, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		runner:      runner,
		concurrency: concurrency,
	}
}

// ProcessPaths analyzes the given document files concurrently
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*AnalyzeResult {
	if len(paths) == 0 {
		return []*AnalyzeResult{}
	}

	pool := NewPoolWithContext(ctx, b.concurrency)
	pool.Start()

	for _, path := range paths {
		pool.Submit(&AnalyzeJob{
			Path:   path,
			Runner: b.runner,
		})
	}

	results := pool.Wait()

	analyzeResults := make([]*AnalyzeResult, len(results))
	for i, result := range results {
		analyzeResults[i] = result.(*AnalyzeResult)
	}
	return analyzeResults
}

// ProcessManifest reads document paths from a manifest file and analyzes
// them concurrently
func (b *BatchProcessor) ProcessManifest(ctx context.Context, manifestPath string) ([]*AnalyzeResult, error) {
	paths, err := ReadManifest(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return b.ProcessPaths(ctx, paths), nil
}

// ReadManifest reads document paths from a file, one per line, skipping
// blank lines and # comments, deduplicating
func ReadManifest(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return paths, nil
}
