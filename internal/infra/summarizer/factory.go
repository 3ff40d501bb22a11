package summarizer

import (
	"fmt"
	"log/slog"

	"docsumm/internal/config"
)

// NewFromConfig builds the provider chain described by cfg. Providers keep the
// configured order and the local engine is always appended last.
func NewFromConfig(cfg *config.SummarizerConfig) (*Chain, error) {
	providers := make([]Summarizer, 0, len(cfg.Providers))

	for _, p := range cfg.Providers {
		s, err := newProvider(p, cfg)
		if err != nil {
			return nil, fmt.Errorf("summarizer provider %q: %w", p.Name, err)
		}
		providers = append(providers, s)
	}

	chain := NewChain(NewLocal(), providers...)
	slog.Info("summarizer chain configured",
		slog.Any("providers", chain.Providers()),
		slog.Int("max_length", cfg.MaxLength),
		slog.Int("max_sentences", cfg.MaxSentences))
	return chain, nil
}

func newProvider(p config.ProviderConfig, cfg *config.SummarizerConfig) (Summarizer, error) {
	model := ""
	if len(p.Models) > 0 {
		model = p.Models[0]
	}

	switch p.Name {
	case config.ProviderClaude:
		return NewClaude(ClaudeConfig{
			APIKey:            p.APIKey,
			Model:             model,
			MaxTokens:         p.MaxTokens,
			BaseURL:           p.BaseURL,
			Timeout:           cfg.Timeout,
			RequestsPerMinute: p.RequestsPerMinute,
		})
	case config.ProviderOpenAI:
		return NewOpenAI(OpenAIConfig{
			APIKey:            p.APIKey,
			Model:             model,
			MaxTokens:         p.MaxTokens,
			BaseURL:           p.BaseURL,
			Timeout:           cfg.Timeout,
			RequestsPerMinute: p.RequestsPerMinute,
		})
	case config.ProviderHuggingFace:
		return NewHuggingFace(HuggingFaceConfig{
			APIToken:          p.APIKey,
			BaseURL:           p.BaseURL,
			Models:            p.Models,
			Timeout:           cfg.Timeout,
			RequestsPerMinute: p.RequestsPerMinute,
		}), nil
	default:
		return nil, fmt.Errorf("unknown provider")
	}
}
