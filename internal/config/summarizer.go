package config

import (
	"fmt"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// Provider names accepted in the summarizer chain.
const (
	ProviderClaude      = "claude"
	ProviderOpenAI      = "openai"
	ProviderHuggingFace = "huggingface"
)

const (
	minSummaryLength = 100
	maxSummaryLength = 5000
	minSentences     = 2
	maxSentences     = 50
)

var defaultAPIKeyEnv = map[string]string{
	ProviderClaude:      "ANTHROPIC_API_KEY",
	ProviderOpenAI:      "OPENAI_API_KEY",
	ProviderHuggingFace: "HUGGINGFACE_API_TOKEN",
}

// SummarizerConfig describes the summary budget and the ordered list of remote
// providers tried before the local extractive summarizer.
type SummarizerConfig struct {
	MaxLength    int              `yaml:"max_length"`
	MaxSentences int              `yaml:"max_sentences"`
	Timeout      time.Duration    `yaml:"timeout"`
	Providers    []ProviderConfig `yaml:"providers"`
}

// ProviderConfig configures one remote provider.
type ProviderConfig struct {
	Name string `yaml:"name"`
	// Models are tried in order. Chat providers only use the first one.
	Models            []string `yaml:"models"`
	BaseURL           string   `yaml:"base_url"`
	APIKeyEnv         string   `yaml:"api_key_env"`
	MaxTokens         int      `yaml:"max_tokens"`
	RequestsPerMinute int      `yaml:"requests_per_minute"`

	// APIKey is resolved from APIKeyEnv and never read from the file.
	APIKey string `yaml:"-"`
}

// DefaultSummarizerConfig returns the budget used for uploaded documents
// with no remote providers.
func DefaultSummarizerConfig() SummarizerConfig {
	return SummarizerConfig{
		MaxLength:    400,
		MaxSentences: 5,
		Timeout:      60 * time.Second,
	}
}

// LoadSummarizerConfig builds the summarizer configuration.
//
// Sources, later ones winning:
//   - defaults
//   - the YAML file named by SUMMARIZER_CONFIG_FILE
//   - SUMMARIZER_PROVIDERS (comma list, replaces the file's providers)
//   - SUMMARY_MAX_LENGTH, SUMMARY_MAX_SENTENCES, SUMMARIZER_TIMEOUT
func LoadSummarizerConfig() (*SummarizerConfig, error) {
	cfg := DefaultSummarizerConfig()

	if path := GetEnvString("SUMMARIZER_CONFIG_FILE", ""); path != "" {
		fileCfg, err := readSummarizerFile(path)
		if err != nil {
			return nil, err
		}
		mergeSummarizerConfig(&cfg, fileCfg)
	}

	if names := GetEnvStringList("SUMMARIZER_PROVIDERS", nil); names != nil {
		cfg.Providers = make([]ProviderConfig, 0, len(names))
		for _, name := range names {
			cfg.Providers = append(cfg.Providers, ProviderConfig{Name: name})
		}
	}

	cfg.MaxLength = GetEnvInt("SUMMARY_MAX_LENGTH", cfg.MaxLength)
	cfg.MaxSentences = GetEnvInt("SUMMARY_MAX_SENTENCES", cfg.MaxSentences)
	cfg.Timeout = GetEnvDuration("SUMMARIZER_TIMEOUT", cfg.Timeout)

	for i := range cfg.Providers {
		p := &cfg.Providers[i]
		if p.APIKeyEnv == "" {
			p.APIKeyEnv = defaultAPIKeyEnv[p.Name]
		}
		if p.APIKeyEnv != "" {
			p.APIKey = os.Getenv(p.APIKeyEnv)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid summarizer configuration: %w", err)
	}
	return &cfg, nil
}

// The path comes from the operator's environment, not from request input.
func readSummarizerFile(path string) (*SummarizerConfig, error) {
	// #nosec G304 -- path is provided by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read summarizer config file: %w", err)
	}

	var cfg SummarizerConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse summarizer config file: %w", err)
	}
	return &cfg, nil
}

func mergeSummarizerConfig(dst *SummarizerConfig, src *SummarizerConfig) {
	if src.MaxLength != 0 {
		dst.MaxLength = src.MaxLength
	}
	if src.MaxSentences != 0 {
		dst.MaxSentences = src.MaxSentences
	}
	if src.Timeout != 0 {
		dst.Timeout = src.Timeout
	}
	if src.Providers != nil {
		dst.Providers = src.Providers
	}
}

// Validate checks the budget ranges and every provider entry.
func (c *SummarizerConfig) Validate() error {
	if c.MaxLength < minSummaryLength || c.MaxLength > maxSummaryLength {
		return fmt.Errorf("max length %d must be between %d and %d", c.MaxLength, minSummaryLength, maxSummaryLength)
	}
	if c.MaxSentences < minSentences || c.MaxSentences > maxSentences {
		return fmt.Errorf("max sentences %d must be between %d and %d", c.MaxSentences, minSentences, maxSentences)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}

	seen := make(map[string]bool, len(c.Providers))
	for _, p := range c.Providers {
		if !slices.Contains([]string{ProviderClaude, ProviderOpenAI, ProviderHuggingFace}, p.Name) {
			return fmt.Errorf("unknown provider %q", p.Name)
		}
		if seen[p.Name] {
			return fmt.Errorf("provider %q listed twice", p.Name)
		}
		seen[p.Name] = true

		// The Hugging Face inference API accepts anonymous, rate-limited calls.
		if p.APIKey == "" && p.Name != ProviderHuggingFace {
			return fmt.Errorf("provider %q requires %s to be set", p.Name, p.APIKeyEnv)
		}
		if p.MaxTokens < 0 || p.RequestsPerMinute < 0 {
			return fmt.Errorf("provider %q: max_tokens and requests_per_minute must not be negative", p.Name)
		}
	}
	return nil
}
