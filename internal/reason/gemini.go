package reason

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiProvider implements the Provider interface for Google Gemini models.
// The client is created per call: genai clients are bound to a context and
// this keeps the provider itself stateless.
type GeminiProvider struct {
	config Config
}

// NewGeminiProvider creates a new Gemini provider
func NewGeminiProvider(config Config) (*GeminiProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	return &GeminiProvider{config: config}, nil
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// IsAvailable checks if the provider is properly configured
func (p *GeminiProvider) IsAvailable(ctx context.Context) bool {
	cl, err := genai.NewClient(ctx, option.WithAPIKey(p.config.APIKey))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Gemini API check failed: %v\n", err)
		return false
	}
	defer cl.Close()
	return true
}

// Reason produces an assessment using Gemini's GenerateContent API
func (p *GeminiProvider) Reason(ctx context.Context, req Request) (*Response, error) {
	timeout := time.Duration(p.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 12 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cl, err := genai.NewClient(ctxWithTimeout, option.WithAPIKey(p.config.APIKey))
	if err != nil {
		return nil, classifyTransport(p.Name(), err)
	}
	defer cl.Close()

	modelName := req.Model
	if modelName == "" {
		modelName = p.config.Model
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	m := cl.GenerativeModel(strings.TrimSpace(modelName))

	temperature := float32(0.2)
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:      &temperature,
		ResponseMIMEType: "application/json", // Force strict JSON output
	}
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}

	resp, err := m.GenerateContent(ctxWithTimeout, genai.Text(BuildPrompt(req)))
	if err != nil {
		return nil, classifyTransport(p.Name(), err)
	}

	text := firstText(resp)
	if text == "" {
		return nil, &ProviderError{
			Provider: p.Name(),
			Kind:     KindBadResponse,
			Err:      fmt.Errorf("empty response"),
		}
	}

	parsed, err := parsePayload(p.Name(), text)
	if err != nil {
		return nil, err
	}

	tokens := 0
	if resp.UsageMetadata != nil {
		tokens = int(resp.UsageMetadata.TotalTokenCount)
	}

	return parsed.toResponse(modelName, tokens), nil
}

// firstText returns the first text part from a Gemini response.
func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, part := range c.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}
