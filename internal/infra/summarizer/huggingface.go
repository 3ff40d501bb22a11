package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"docsumm/internal/domain/entity"
	"docsumm/internal/resilience/circuitbreaker"
	"docsumm/internal/resilience/retry"
	"docsumm/internal/utils/text"
)

const (
	defaultHuggingFaceURL = "https://api-inference.huggingface.co/models"
	defaultChunkSize      = 1000
	maxErrorBodyBytes     = 4096

	chunkMaxTokens     = 150
	chunkMinTokens     = 40
	finalPassMaxTokens = 200
	finalPassMinTokens = 50
)

// DefaultHuggingFaceModels are tried in order for every chunk.
var DefaultHuggingFaceModels = []string{
	"facebook/bart-large-cnn",
	"sshleifer/distilbart-cnn-12-6",
	"google/pegasus-xsum",
}

var chunkDelimRe = regexp.MustCompile(`[.!?]+`)

// HuggingFaceConfig configures the Hugging Face inference API summarizer.
type HuggingFaceConfig struct {
	// APIToken is optional; anonymous calls are rate limited more aggressively.
	APIToken          string
	BaseURL           string
	Models            []string
	ChunkSize         int
	Timeout           time.Duration
	RequestsPerMinute int
	HTTPClient        *http.Client
}

func (c *HuggingFaceConfig) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = defaultHuggingFaceURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if len(c.Models) == 0 {
		c.Models = DefaultHuggingFaceModels
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = defaultChunkSize
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
}

// HuggingFace summarizes with hosted seq2seq models. Long input is split into chunks
// on sentence boundaries, each chunk is summarized with the first model that answers,
// and a long combination gets a final pass through the primary model.
type HuggingFace struct {
	config HuggingFaceConfig
	guard  *guard
}

// NewHuggingFace creates a Hugging Face summarizer.
func NewHuggingFace(cfg HuggingFaceConfig) *HuggingFace {
	cfg.applyDefaults()

	slog.Info("initialized huggingface summarizer",
		slog.Any("models", cfg.Models),
		slog.Int("chunk_size", cfg.ChunkSize),
		slog.Bool("authenticated", cfg.APIToken != ""))

	return &HuggingFace{
		config: cfg,
		guard: newGuard("huggingface", circuitbreaker.ProviderConfig("huggingface"), retry.ColdStartConfig(),
			cfg.RequestsPerMinute, NewPrometheusSummaryMetrics()),
	}
}

func (h *HuggingFace) Name() string { return "huggingface" }

// Summarize fails when some chunk could not be summarized by any model.
func (h *HuggingFace) Summarize(ctx context.Context, input string, opts entity.SummaryOptions) (*entity.Summary, error) {
	start := time.Now()
	opts = withDefaults(opts)

	chunks := SplitChunks(strings.TrimSpace(input), h.config.ChunkSize)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("huggingface: no sentences to summarize")
	}
	summaries := make([]string, 0, len(chunks))
	usedModel := ""

	for i, chunk := range chunks {
		summary, model, err := h.summarizeChunk(ctx, chunk, chunkMaxTokens, chunkMinTokens)
		if err != nil {
			return nil, fmt.Errorf("huggingface chunk %d/%d: %w", i+1, len(chunks), err)
		}
		summaries = append(summaries, summary)
		usedModel = model
	}

	combined := strings.Join(summaries, " ")
	if len(chunks) > 1 && text.CountRunes(combined) > opts.MaxLength {
		final, err := h.callModel(ctx, h.config.Models[0], combined, finalPassMaxTokens, finalPassMinTokens)
		if err != nil {
			slog.WarnContext(ctx, "huggingface final pass failed, keeping combined summary",
				slog.Int("chunks", len(chunks)),
				slog.String("error", err.Error()))
		} else {
			combined = final
			usedModel += " + final_pass"
		}
	}

	recordSummary(ctx, h.guard.metrics, h.Name(), uuid.New().String(), combined, opts.MaxLength, time.Since(start))
	return newAISummary(input, combined, usedModel, start), nil
}

// summarizeChunk tries each configured model in order.
func (h *HuggingFace) summarizeChunk(ctx context.Context, chunk string, maxTokens, minTokens int) (string, string, error) {
	var lastErr error
	for _, model := range h.config.Models {
		if err := ctx.Err(); err != nil {
			return "", "", err
		}
		summary, err := h.callModel(ctx, model, chunk, maxTokens, minTokens)
		if err == nil {
			return summary, model, nil
		}
		slog.WarnContext(ctx, "huggingface model failed, trying next",
			slog.String("model", model),
			slog.String("error", err.Error()))
		lastErr = err
	}
	return "", "", fmt.Errorf("all models failed: %w", lastErr)
}

func (h *HuggingFace) callModel(ctx context.Context, model, input string, maxTokens, minTokens int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	return h.guard.call(ctx, func(ctx context.Context) (string, error) {
		return h.doRequest(ctx, model, input, maxTokens, minTokens)
	})
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfParameters struct {
	MaxLength int  `json:"max_length"`
	MinLength int  `json:"min_length"`
	DoSample  bool `json:"do_sample"`
}

type hfResult struct {
	SummaryText   string `json:"summary_text"`
	GeneratedText string `json:"generated_text"`
}

type hfError struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time"`
}

// doRequest performs one inference call without retry or circuit breaker.
func (h *HuggingFace) doRequest(ctx context.Context, model, input string, maxTokens, minTokens int) (string, error) {
	requestID := uuid.New().String()

	body, err := json.Marshal(hfRequest{
		Inputs:     input,
		Parameters: hfParameters{MaxLength: maxTokens, MinLength: minTokens},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.config.BaseURL+"/"+model, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if h.config.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+h.config.APIToken)
	}

	slog.DebugContext(ctx, "starting summarization",
		slog.String("provider", h.Name()),
		slog.String("request_id", requestID),
		slog.String("model", model),
		slog.Int("input_length", text.CountRunes(input)))

	start := time.Now()
	resp, err := h.config.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("huggingface request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	duration := time.Since(start)

	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp)
	}

	var results []hfResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(results) == 0 {
		return "", fmt.Errorf("huggingface returned invalid response format")
	}

	summary := results[0].SummaryText
	if summary == "" {
		summary = results[0].GeneratedText
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return "", fmt.Errorf("huggingface returned empty summary")
	}

	slog.DebugContext(ctx, "chunk summarized",
		slog.String("request_id", requestID),
		slog.String("model", model),
		slog.Duration("duration", duration))
	return summary, nil
}

// statusError converts a non-200 response into a retry.HTTPError.
// 503 means the model is still loading; its estimated_time becomes RetryAfter.
func statusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))

	httpErr := &retry.HTTPError{StatusCode: resp.StatusCode}
	switch resp.StatusCode {
	case http.StatusServiceUnavailable:
		httpErr.Message = "model is loading"
		var body hfError
		if json.Unmarshal(raw, &body) == nil && body.EstimatedTime > 0 {
			httpErr.RetryAfter = time.Duration(body.EstimatedTime * float64(time.Second))
		}
	case http.StatusTooManyRequests:
		httpErr.Message = "rate limit exceeded"
	default:
		var body hfError
		if json.Unmarshal(raw, &body) == nil && body.Error != "" {
			httpErr.Message = body.Error
		} else {
			httpErr.Message = http.StatusText(resp.StatusCode)
		}
	}
	return httpErr
}

// SplitChunks splits s on sentence delimiters and packs sentences into chunks of at
// most size characters, each closed with a period. A sentence longer than size is cut.
func SplitChunks(s string, size int) []string {
	var chunks []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if currentLen > 0 {
			chunks = append(chunks, current.String()+".")
			current.Reset()
			currentLen = 0
		}
	}

	for _, part := range chunkDelimRe.Split(s, -1) {
		sentence := strings.TrimSpace(part)
		if sentence == "" {
			continue
		}
		sentence = text.Truncate(sentence, size-1)
		n := text.CountRunes(sentence)

		// +2 for the ". " joining sentences, +1 for the closing period
		if currentLen > 0 && currentLen+2+n+1 > size {
			flush()
		}
		if currentLen > 0 {
			current.WriteString(". ")
			currentLen += 2
		}
		current.WriteString(sentence)
		currentLen += n
	}
	flush()

	return chunks
}
