package model

import "time"

// Config holds all read-only engine configuration. It is loaded once at
// process start and passed into constructors; nothing reads it at request
// time through ambient state.
type Config struct {
	Reasoner    ReasonerConfig    `yaml:"reasoner"`
	Extractor   ExtractorConfig   `yaml:"extractor"`
	Rules       RulesConfig       `yaml:"rules"`
	Cache       CacheConfig       `yaml:"cache"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Server      ServerConfig      `yaml:"server"`
	Output      OutputConfig      `yaml:"output"`
}

// ReasonerConfig configures the remote clinical-reasoning provider.
type ReasonerConfig struct {
	Provider  string `yaml:"provider"` // "openai", "gemini", "ollama", "" (disabled)
	Model     string `yaml:"model"`
	APIKey    string `yaml:"api_key,omitempty"`
	BaseURL   string `yaml:"base_url,omitempty"`
	Timeout   int    `yaml:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens"`
}

// ExtractorConfig configures the local entity extractor.
type ExtractorConfig struct {
	Timeout     time.Duration `yaml:"timeout"`
	LexiconPath string        `yaml:"lexicon_path,omitempty"` // optional custom YAML lexicon
}

// RulesConfig configures the rule-based classifier.
type RulesConfig struct {
	TablePath string `yaml:"table_path,omitempty"` // optional custom YAML category table
}

// CacheConfig configures result caching.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
}

// RateLimitConfig bounds outbound reasoner calls.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size"`
}

// ConcurrencyConfig configures batch processing.
type ConcurrencyConfig struct {
	Workers int `yaml:"workers"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// OutputConfig configures CLI output.
type OutputConfig struct {
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Reasoner: ReasonerConfig{
			Provider:  "", // Disabled by default; rules path still works offline
			Timeout:   12,
			MaxTokens: 800,
		},
		Extractor: ExtractorConfig{
			Timeout: 3 * time.Second,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     15 * time.Minute,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 2.0,
			BurstSize:         5,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
	}
}
