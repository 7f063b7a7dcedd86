package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"github.com/symptomlab/triagent/internal/engine"
	"github.com/symptomlab/triagent/internal/model"
	"github.com/symptomlab/triagent/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	// noCache, reasonerName and reasonerModel are defined in analyze.go and shared here
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze multiple symptom descriptions from a file in parallel",
	Long: `Batch processes multiple symptom descriptions concurrently:
- Read descriptions from the input file (one per line, # for comments)
- Analyze them in parallel with a configurable worker count
- Write one JSON result per description into the output directory

Example:
  triagent batch complaints.txt
  triagent batch complaints.txt --concurrency 8 --output-dir ./results
  triagent batch complaints.txt --reasoner ollama --model llama3`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./triagent-results", "output directory for results")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable result caching")

	// Reasoner flags
	batchCmd.Flags().StringVar(&reasonerName, "reasoner", "", "AI reasoner provider (openai, gemini, ollama; empty = rules only)")
	batchCmd.Flags().StringVar(&reasonerModel, "model", "", "reasoner model name (provider default when empty)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = !noCache
	cfg.Concurrency.Workers = concurrency
	cfg.Output.Verbose = verbose
	if err := applyReasonerEnv(cfg, reasonerName, reasonerModel); err != nil {
		return err
	}

	eng, err := engine.New(cfg)
	if err != nil {
		return fmt.Errorf("initialize engine: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Input file: %s\n", file)
	fmt.Fprintf(os.Stderr, "Workers:    %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "Output dir: %s\n\n", outputDir)

	processor := worker.NewBatchProcessor(eng, concurrency)
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("batch failed: %w", err)
	}

	succeeded, failed := 0, 0
	for i, r := range results {
		if r.Error != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %q: %v\n", truncate(r.Symptoms, 60), r.Error)
			continue
		}

		outPath := filepath.Join(outputDir, fmt.Sprintf("result-%03d.json", i+1))
		data, err := json.MarshalIndent(r.Result, "", "  ")
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %q: marshal result: %v\n", truncate(r.Symptoms, 60), err)
			continue
		}
		if err := os.WriteFile(outPath, data, 0644); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %q: write result: %v\n", truncate(r.Symptoms, 60), err)
			continue
		}

		succeeded++
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ %q → %s (urgency %d/10)\n",
				truncate(r.Symptoms, 60), r.Result.Severity, r.Result.UrgencyScore)
		}
	}

	fmt.Fprintf(os.Stderr, "\nDone: %d succeeded, %d failed, results in %s\n", succeeded, failed, outputDir)
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
