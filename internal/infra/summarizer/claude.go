package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/uuid"

	"docsumm/internal/domain/entity"
	"docsumm/internal/resilience/circuitbreaker"
	"docsumm/internal/resilience/retry"
	"docsumm/internal/utils/text"
)

// ClaudeConfig configures the Claude summarizer.
type ClaudeConfig struct {
	APIKey    string
	Model     string
	MaxTokens int
	// BaseURL overrides the Anthropic endpoint; empty uses the SDK default.
	BaseURL           string
	Timeout           time.Duration
	RequestsPerMinute int
}

// Validate checks the configuration after defaults have been applied.
func (c *ClaudeConfig) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("api key cannot be empty")
	}
	if c.Model == "" {
		return fmt.Errorf("model cannot be empty")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	return nil
}

func (c *ClaudeConfig) applyDefaults() {
	if c.Model == "" {
		c.Model = string(anthropic.ModelClaudeSonnet4_5_20250929)
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 1024
	}
	if c.Timeout == 0 {
		c.Timeout = 60 * time.Second
	}
}

// Claude summarizes with Anthropic's Messages API.
type Claude struct {
	client anthropic.Client
	config ClaudeConfig
	guard  *guard
}

// NewClaude creates a Claude summarizer. The SDK's own retries are disabled because
// the guard retries with backoff.
func NewClaude(cfg ClaudeConfig) (*Claude, error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid claude configuration: %w", err)
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey), option.WithMaxRetries(0)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	slog.Info("initialized claude summarizer",
		slog.String("model", cfg.Model),
		slog.Int("requests_per_minute", cfg.RequestsPerMinute))

	return &Claude{
		client: anthropic.NewClient(opts...),
		config: cfg,
		guard: newGuard("claude", circuitbreaker.ProviderConfig("claude"), retry.ProviderConfig(),
			cfg.RequestsPerMinute, NewPrometheusSummaryMetrics()),
	}, nil
}

func (c *Claude) Name() string { return "claude" }

// Summarize generates a summary of input within opts.MaxLength characters.
func (c *Claude) Summarize(ctx context.Context, input string, opts entity.SummaryOptions) (*entity.Summary, error) {
	start := time.Now()
	opts = withDefaults(opts)

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	summary, err := c.guard.call(ctx, func(ctx context.Context) (string, error) {
		return c.doSummarize(ctx, input, opts.MaxLength)
	})
	if err != nil {
		return nil, fmt.Errorf("claude summarize failed after retries: %w", err)
	}
	return newAISummary(input, summary, c.config.Model, start), nil
}

// doSummarize performs one API call without retry or circuit breaker.
func (c *Claude) doSummarize(ctx context.Context, input string, maxLength int) (string, error) {
	requestID := uuid.New().String()

	truncated, cut := truncateInput(input)
	if cut {
		slog.WarnContext(ctx, "text truncated for claude api",
			slog.String("request_id", requestID),
			slog.Int("original_length", text.CountRunes(input)),
			slog.Int("truncated_length", text.CountRunes(truncated)))
	}

	slog.InfoContext(ctx, "starting summarization",
		slog.String("provider", c.Name()),
		slog.String("request_id", requestID),
		slog.Int("input_length", text.CountRunes(truncated)),
		slog.Int("max_length", maxLength))

	start := time.Now()
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.config.Model),
		MaxTokens: int64(c.config.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(truncated, maxLength))),
		},
	})
	duration := time.Since(start)

	if err != nil {
		slog.ErrorContext(ctx, "summarization failed",
			slog.String("provider", c.Name()),
			slog.String("request_id", requestID),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("claude api error: %w", &retry.HTTPError{StatusCode: apiErr.StatusCode, Message: "claude request failed"})
		}
		return "", fmt.Errorf("claude api error: %w", err)
	}

	if len(message.Content) == 0 {
		return "", fmt.Errorf("claude api returned empty response")
	}
	block, ok := message.Content[0].AsAny().(anthropic.TextBlock)
	if !ok {
		return "", fmt.Errorf("claude api returned unexpected response type")
	}

	summary := strings.TrimSpace(block.Text)
	if summary == "" {
		return "", fmt.Errorf("claude api returned empty summary")
	}
	recordSummary(ctx, c.guard.metrics, c.Name(), requestID, summary, maxLength, duration)
	return summary, nil
}

// recordSummary logs and records the outcome of a successful remote call.
func recordSummary(ctx context.Context, m SummaryMetricsRecorder, provider, requestID, summary string, maxLength int, duration time.Duration) {
	length := text.CountRunes(summary)
	withinLimit := length <= maxLength

	slog.InfoContext(ctx, "summarization completed",
		slog.String("provider", provider),
		slog.String("request_id", requestID),
		slog.Int("summary_length", length),
		slog.Int("max_length", maxLength),
		slog.Bool("within_limit", withinLimit),
		slog.Duration("duration", duration))

	m.RecordLength(provider, length)
	if !withinLimit {
		slog.WarnContext(ctx, "summary exceeds character budget",
			slog.String("provider", provider),
			slog.Int("excess", length-maxLength))
		m.RecordLimitExceeded(provider)
	}
}
