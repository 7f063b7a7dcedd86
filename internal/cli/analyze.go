package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/symptomlab/triagent/internal/engine"
	"github.com/symptomlab/triagent/internal/model"
)

var (
	age            int
	gender         string
	reasonerName   string
	reasonerModel  string
	outJSON        string
	analyzeTimeout time.Duration
	noCache        bool
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <symptom description>",
	Short: "Analyze a symptom description and print a triage assessment",
	Long: `Analyze runs one symptom description through the full pipeline:
- Extract recognized medical terms
- Ask the configured AI reasoner for an assessment (when enabled)
- Fall back to the rule-based classifier when the reasoner is unavailable
- Score urgency on a 1-10 scale

Example:
  triagent analyze "headache for two days with mild pain"
  triagent analyze "crushing chest pain" --age 58 --reasoner openai
  triagent analyze "persistent dry cough" --reasoner ollama --model llama3 --json result.json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Patient context flags
	analyzeCmd.Flags().IntVar(&age, "age", 0, "patient age (optional, 1-120)")
	analyzeCmd.Flags().StringVar(&gender, "gender", "", "patient gender (optional)")

	// Reasoner flags
	analyzeCmd.Flags().StringVar(&reasonerName, "reasoner", "", "AI reasoner provider (openai, gemini, ollama; empty = rules only)")
	analyzeCmd.Flags().StringVar(&reasonerModel, "model", "", "reasoner model name (provider default when empty)")

	// Output flags
	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "write the full result as JSON to this path ('-' for stdout)")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 30*time.Second, "overall analysis timeout")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable result caching")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
	defer cancel()

	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose
	if err := applyReasonerEnv(cfg, reasonerName, reasonerModel); err != nil {
		return err
	}

	eng, err := engine.New(cfg)
	if err != nil {
		return fmt.Errorf("initialize engine: %w", err)
	}

	req := model.SymptomRequest{
		Symptoms: args[0],
		Age:      age,
		Gender:   gender,
	}

	result, err := eng.Analyze(ctx, req)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if outJSON != "" {
		if err := writeResultJSON(result, outJSON); err != nil {
			return err
		}
	}
	if outJSON != "-" {
		renderResult(os.Stdout, result)
	}

	return nil
}

// applyReasonerEnv wires the reasoner provider selected by flag, pulling
// credentials from the environment.
func applyReasonerEnv(cfg *model.Config, provider, modelName string) error {
	if provider == "" {
		return nil
	}

	cfg.Reasoner.Provider = provider
	cfg.Reasoner.Model = modelName

	switch provider {
	case "openai":
		cfg.Reasoner.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.Reasoner.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "gemini", "google":
		cfg.Reasoner.APIKey = os.Getenv("GEMINI_API_KEY")
		if cfg.Reasoner.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.Reasoner.BaseURL = baseURL
		}
	default:
		return fmt.Errorf("unknown reasoner provider: %s", provider)
	}

	return nil
}

func writeResultJSON(result *model.AnalysisResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if path == "-" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}

func renderResult(w *os.File, result *model.AnalysisResult) {
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Condition:   %s\n", result.Condition)
	fmt.Fprintf(w, "Severity:    %s\n", result.Severity)
	fmt.Fprintf(w, "Confidence:  %d/100\n", result.Confidence)
	fmt.Fprintf(w, "Urgency:     %d/10\n", result.UrgencyScore)
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Advice: %s\n", result.Advice)

	if len(result.Recommendations) > 0 {
		fmt.Fprintf(w, "\nRecommendations:\n")
		for _, rec := range result.Recommendations {
			fmt.Fprintf(w, "  - %s\n", rec)
		}
	}
	if result.WhenToSeekHelp != "" {
		fmt.Fprintf(w, "\nWhen to seek help: %s\n", result.WhenToSeekHelp)
	}
	if len(result.Entities) > 0 {
		fmt.Fprintf(w, "\nRecognized terms: %s\n", strings.Join(result.Entities, ", "))
	}
	fmt.Fprintf(w, "\nAnalyzers: %s\n", result.ModelsUsed)
	fmt.Fprintf(w, "\n%s\n", result.Disclaimer)
}
