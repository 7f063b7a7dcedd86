package reason

import (
	"context"
	"fmt"
	"strings"

	"github.com/symptomlab/triagent/internal/model"
)

// Provider defines the interface for clinical-reasoning providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Reason produces a structured clinical assessment for the request
	Reason(ctx context.Context, req Request) (*Response, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Request contains the input for one reasoning call
type Request struct {
	// Symptoms is the raw free-text description from the caller
	Symptoms string

	// Entities optionally enrich the prompt; the reasoner works without them
	Entities []model.EntityRecord

	// Age and Gender are optional patient context (zero values mean absent)
	Age    int
	Gender string

	// Model overrides the configured model for this call
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// Response contains the structured assessment produced by a provider
type Response struct {
	// Assessment is the primary condition/assessment text
	Assessment string

	// Severity is one of the four triage labels
	Severity model.Severity

	// Confidence is the provider's self-reported confidence, 0-1
	Confidence float64

	// Recommendations are ordered action items
	Recommendations []string

	// WhenToSeekHelp describes escalation conditions
	WhenToSeekHelp string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds reasoner provider configuration
type Config struct {
	// Provider name: "openai", "gemini", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Gemini
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Model:     "",
		Timeout:   12,
		MaxTokens: 800,
	}
}

const systemPrompt = "You are a clinical triage assistant. You assess symptom " +
	"descriptions conservatively and you never diagnose. You respond with " +
	"strict JSON only; any text outside the JSON object is an error."

// BuildPrompt constructs the reasoning prompt. The provider must answer with
// strict JSON matching the payload schema so the response can be parsed
// without heuristics.
func BuildPrompt(req Request) string {
	var b strings.Builder

	b.WriteString("Assess the following symptom description and respond with a single JSON object:\n")
	b.WriteString(`{"assessment": "<1-3 sentence assessment>", "severity": "Low|Medium|High|Critical", "confidence": <0.0-1.0>, "recommendations": ["<action>", ...], "when_to_seek_help": "<escalation conditions>"}`)
	b.WriteString("\n\nSymptoms: ")
	b.WriteString(req.Symptoms)

	if req.Age > 0 {
		fmt.Fprintf(&b, "\nAge: %d", req.Age)
	}
	if req.Gender != "" {
		fmt.Fprintf(&b, "\nGender: %s", req.Gender)
	}

	if len(req.Entities) > 0 {
		b.WriteString("\nRecognized terms:")
		for _, ent := range req.Entities {
			fmt.Fprintf(&b, " %s (%s);", ent.Text, ent.Category)
		}
	}

	b.WriteString("\n\nBe conservative: prefer the higher severity when uncertain. Output only the JSON object.")

	return b.String()
}

// payload is the strict JSON shape every provider asks the model for.
type payload struct {
	Assessment      string   `json:"assessment"`
	Severity        string   `json:"severity"`
	Confidence      float64  `json:"confidence"`
	Recommendations []string `json:"recommendations"`
	WhenToSeekHelp  string   `json:"when_to_seek_help"`
}

func (p payload) toResponse(model_ string, tokens int) *Response {
	return &Response{
		Assessment:      strings.TrimSpace(p.Assessment),
		Severity:        model.ParseSeverity(p.Severity),
		Confidence:      p.Confidence,
		Recommendations: p.Recommendations,
		WhenToSeekHelp:  strings.TrimSpace(p.WhenToSeekHelp),
		Model:           model_,
		TokensUsed:      tokens,
	}
}
