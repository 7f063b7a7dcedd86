package reason

import (
	"fmt"
	"strings"

	"github.com/symptomlab/triagent/internal/model"
)

// NewProvider creates a reasoner provider based on configuration
func NewProvider(config Config) (Provider, error) {
	provider := strings.ToLower(config.Provider)

	switch provider {
	case "openai":
		return NewOpenAIProvider(config)

	case "gemini", "google":
		return NewGeminiProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	case "":
		// No provider configured - return nil (reasoner disabled, rules path only)
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown reasoner provider: %s (supported: openai, gemini, ollama)", config.Provider)
	}
}

// ConfigFromModel converts model.ReasonerConfig to reason.Config
func ConfigFromModel(cfg model.ReasonerConfig) Config {
	return Config{
		Provider:  cfg.Provider,
		Model:     cfg.Model,
		APIKey:    cfg.APIKey,
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.Timeout,
		MaxTokens: cfg.MaxTokens,
	}
}
