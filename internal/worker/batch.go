package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/symptomlab/triagent/internal/model"
)

// Analyzer defines the interface for running one analysis
type Analyzer interface {
	Analyze(ctx context.Context, req model.SymptomRequest) (*model.AnalysisResult, error)
}

// AnalyzeJob represents one symptom description to analyze
type AnalyzeJob struct {
	Symptoms string
	Analyzer Analyzer
}

// Execute executes the analysis job
func (j *AnalyzeJob) Execute(ctx context.Context) Result {
	result, err := j.Analyzer.Analyze(ctx, model.SymptomRequest{Symptoms: j.Symptoms})
	if err != nil {
		return &AnalyzeResult{
			Symptoms: j.Symptoms,
			Error:    err,
		}
	}
	return &AnalyzeResult{
		Symptoms: j.Symptoms,
		Result:   result,
	}
}

// AnalyzeResult represents the result of an analysis job
type AnalyzeResult struct {
	Symptoms string
	Result   *model.AnalysisResult
	Error    error
}

// GetError returns the error from the analysis result
func (r *AnalyzeResult) GetError() error {
	return r.Error
}

// BatchProcessor analyzes multiple symptom descriptions concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(analyzer Analyzer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
	}
}

// Process analyzes multiple descriptions concurrently
func (b *BatchProcessor) Process(ctx context.Context, descriptions []string) []*AnalyzeResult {
	if len(descriptions) == 0 {
		return []*AnalyzeResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, desc := range descriptions {
		pool.Submit(&AnalyzeJob{
			Symptoms: desc,
			Analyzer: b.analyzer,
		})
	}

	results := pool.Wait()

	analyzeResults := make([]*AnalyzeResult, len(results))
	for i, result := range results {
		analyzeResults[i] = result.(*AnalyzeResult)
	}

	return analyzeResults
}

// ProcessFile reads descriptions from a file (one per line) and analyzes
// them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*AnalyzeResult, error) {
	descriptions, err := ReadDescriptionsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read descriptions: %w", err)
	}

	return b.Process(ctx, descriptions), nil
}

// ReadDescriptionsFromFile reads symptom descriptions from a file, skipping
// blank lines, comments, and duplicates
func ReadDescriptionsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var descriptions []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			descriptions = append(descriptions, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return descriptions, nil
}
