package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	"docsumm/internal/domain/entity"
	"docsumm/internal/resilience/circuitbreaker"
	"docsumm/internal/resilience/retry"
	"docsumm/internal/utils/text"
)

// OpenAIConfig configures the OpenAI summarizer.
type OpenAIConfig struct {
	APIKey    string
	Model     string
	MaxTokens int
	// BaseURL overrides the API endpoint, e.g. for an OpenAI-compatible gateway.
	BaseURL           string
	Timeout           time.Duration
	RequestsPerMinute int
}

// Validate checks the configuration after defaults have been applied.
func (c *OpenAIConfig) Validate() error {
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

func (c *OpenAIConfig) applyDefaults() {
	if c.Model == "" {
		c.Model = openai.GPT4oMini
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 1024
	}
	if c.Timeout == 0 {
		c.Timeout = 60 * time.Second
	}
}

// OpenAI summarizes with the chat completions API.
type OpenAI struct {
	client *openai.Client
	config OpenAIConfig
	guard  *guard
}

// NewOpenAI creates an OpenAI summarizer.
func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid openai configuration: %w", err)
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	slog.Info("initialized openai summarizer",
		slog.String("model", cfg.Model),
		slog.Int("requests_per_minute", cfg.RequestsPerMinute))

	return &OpenAI{
		client: openai.NewClientWithConfig(clientCfg),
		config: cfg,
		guard: newGuard("openai", circuitbreaker.ProviderConfig("openai"), retry.ProviderConfig(),
			cfg.RequestsPerMinute, NewPrometheusSummaryMetrics()),
	}, nil
}

func (o *OpenAI) Name() string { return "openai" }

// Summarize generates a summary of input within opts.MaxLength characters.
func (o *OpenAI) Summarize(ctx context.Context, input string, opts entity.SummaryOptions) (*entity.Summary, error) {
	start := time.Now()
	opts = withDefaults(opts)

	ctx, cancel := context.WithTimeout(ctx, o.config.Timeout)
	defer cancel()

	summary, err := o.guard.call(ctx, func(ctx context.Context) (string, error) {
		return o.doSummarize(ctx, input, opts.MaxLength)
	})
	if err != nil {
		return nil, fmt.Errorf("openai summarize failed after retries: %w", err)
	}
	return newAISummary(input, summary, o.config.Model, start), nil
}

func (o *OpenAI) doSummarize(ctx context.Context, input string, maxLength int) (string, error) {
	requestID := uuid.New().String()

	truncated, cut := truncateInput(input)
	if cut {
		slog.WarnContext(ctx, "text truncated for openai api",
			slog.String("request_id", requestID),
			slog.Int("original_length", text.CountRunes(input)),
			slog.Int("truncated_length", text.CountRunes(truncated)))
	}

	slog.InfoContext(ctx, "starting summarization",
		slog.String("provider", o.Name()),
		slog.String("request_id", requestID),
		slog.Int("input_length", text.CountRunes(truncated)),
		slog.Int("max_length", maxLength))

	start := time.Now()
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.config.Model,
		MaxTokens: o.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: buildPrompt(truncated, maxLength),
		}},
	})
	duration := time.Since(start)

	if err != nil {
		slog.ErrorContext(ctx, "summarization failed",
			slog.String("provider", o.Name()),
			slog.String("request_id", requestID),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("openai api error: %w", asHTTPError(err))
	}

	// Guard against an empty choices array before indexing.
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai api returned empty response")
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	if summary == "" {
		return "", fmt.Errorf("openai api returned empty summary")
	}
	recordSummary(ctx, o.guard.metrics, o.Name(), requestID, summary, maxLength, duration)
	return summary, nil
}

// asHTTPError maps go-openai errors carrying a status code onto retry.HTTPError.
func asHTTPError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &retry.HTTPError{StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &retry.HTTPError{StatusCode: reqErr.HTTPStatusCode, Message: "openai request failed"}
	}
	return err
}
