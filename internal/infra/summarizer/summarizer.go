// Package summarizer turns document text into summaries.
//
// Local wraps the in-process extractive engine and is always available. Claude, OpenAI
// and HuggingFace call remote models through a shared guard (retry with backoff, a
// circuit breaker and a rate limiter). Chain tries the remote providers in order and
// falls back to Local, so a configured chain only fails on invalid input or a
// cancelled context.
package summarizer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"docsumm/internal/domain/entity"
	"docsumm/internal/extractive"
	"docsumm/internal/utils/text"
)

// MethodAI is the Summary.Method of every remote provider.
const MethodAI = "ai"

// maxInputChars bounds the text sent to a chat model in one request.
const maxInputChars = 10000

// Summarizer produces a summary of text under the budget in opts.
type Summarizer interface {
	Name() string
	Summarize(ctx context.Context, text string, opts entity.SummaryOptions) (*entity.Summary, error)
}

// withDefaults fills zero budget fields with the extractive defaults.
func withDefaults(opts entity.SummaryOptions) entity.SummaryOptions {
	if opts.MaxLength <= 0 {
		opts.MaxLength = extractive.DefaultMaxLength
	}
	if opts.MaxSentences <= 0 {
		opts.MaxSentences = extractive.DefaultMaxSentences
	}
	return opts
}

// buildPrompt asks a chat model for a plain summary within maxLength characters.
func buildPrompt(input string, maxLength int) string {
	return fmt.Sprintf("Summarize the following text in at most %d characters. "+
		"Reply with the summary only, without any preamble.\n\n%s", maxLength, input)
}

// truncateInput caps input at maxInputChars characters.
func truncateInput(input string) (string, bool) {
	cut := text.TruncateWithSuffix(input, maxInputChars, "...\n(content truncated)")
	return cut, len(cut) != len(input)
}

// newAISummary builds the Summary of a remote provider.
func newAISummary(input, summary, model string, start time.Time) *entity.Summary {
	originalLen := text.CountRunes(strings.TrimSpace(input))
	summaryLen := text.CountRunes(summary)
	return &entity.Summary{
		Text:             summary,
		Method:           MethodAI,
		Model:            model,
		OriginalLength:   originalLen,
		SummaryLength:    summaryLen,
		CompressionRatio: extractive.CompressionRatio(originalLen, summaryLen),
		ProcessingTime:   time.Since(start),
	}
}
