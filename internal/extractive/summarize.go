// Package extractive implements the local extractive summarization engine.
//
// Sentences are scored by normalised word frequency, position, closeness to the average
// sentence length and keyword density, then the best ones are returned in reading order.
// The strategy depends on the trimmed input length:
//
//	length < 200        pass-through, the text is its own summary
//	200 ≤ length < 2000 single-pass extractive selection
//	length ≥ 2000       hybrid: best sentence per paragraph, then an optional second pass
//
// Every function in this package is pure and safe for concurrent use.
package extractive

import (
	"math"
	"strings"
	"time"

	"docsumm/internal/utils/text"
)

// Method names the strategy that produced a summary.
type Method string

const (
	MethodTooShort   Method = "too_short"
	MethodExtractive Method = "extractive"
	MethodHybrid     Method = "hybrid"
)

const (
	// ExtractiveThreshold is the first input length that is summarized instead of passed through.
	ExtractiveThreshold = 200
	// HybridThreshold is the first input length handled by the hybrid strategy.
	HybridThreshold = 2000

	DefaultMaxLength    = 500
	DefaultMaxSentences = 3
	MinSentences        = 2
)

// Options sets the summary budget. Zero values select the defaults.
type Options struct {
	// MaxLength is the character budget of a hybrid summary and the truncation
	// length used when no sentence can be extracted.
	MaxLength int
	// MaxSentences is the number of sentences an extractive summary keeps (at least 2).
	MaxSentences int
}

func (o Options) normalize() Options {
	if o.MaxLength <= 0 {
		o.MaxLength = DefaultMaxLength
	}
	if o.MaxSentences <= 0 {
		o.MaxSentences = DefaultMaxSentences
	}
	o.MaxSentences = max(MinSentences, o.MaxSentences)
	return o
}

// Result describes a summary and how it was produced.
type Result struct {
	Success          bool
	Summary          string
	OriginalLength   int
	SummaryLength    int
	CompressionRatio float64
	Method           Method
	ProcessingTime   time.Duration

	// Extractive only.
	SentencesSelected int
	TotalSentences    int

	// Hybrid only.
	ParagraphsProcessed int
	FinalSentences      int
}

// Summarize produces an extractive summary of input.
// It fails only when input is empty or whitespace; every other anomaly degrades to a
// truncated prefix of the text.
func Summarize(input string, opts Options) (*Result, error) {
	start := time.Now()

	clean := strings.TrimSpace(input)
	if clean == "" {
		return nil, &InvalidInputError{Reason: "text is required for summarization"}
	}
	opts = opts.normalize()

	var res *Result
	switch n := text.CountRunes(clean); {
	case n < ExtractiveThreshold:
		res = newResult(clean, clean, MethodTooShort)
	case n < HybridThreshold:
		res = extractiveSummary(clean, opts)
	default:
		res = hybridSummary(clean, opts)
	}

	res.ProcessingTime = time.Since(start)
	return res, nil
}

func extractiveSummary(s string, opts Options) *Result {
	sentences := SplitSentences(s)
	if len(sentences) == 0 {
		return newResult(s, fallbackSummary(s, opts.MaxLength), MethodExtractive)
	}

	target := max(MinSentences, min(len(sentences), opts.MaxSentences))
	selected := topSentences(scoreSentences(sentences, wordFrequency(s)), target)

	res := newResult(s, strings.Join(selected, " "), MethodExtractive)
	res.SentencesSelected = len(selected)
	res.TotalSentences = len(sentences)
	return res
}

func hybridSummary(s string, opts Options) *Result {
	paragraphs := splitParagraphs(s)
	if len(paragraphs) == 0 {
		return extractiveSummary(s, opts)
	}

	picks := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		sentences := SplitSentences(p)
		switch {
		case len(sentences) > 1:
			best := topSentences(scoreSentences(sentences, wordFrequency(p)), 1)
			picks = append(picks, best[0])
		case len(sentences) == 1:
			picks = append(picks, sentences[0])
		}
	}

	combined := strings.Join(picks, " ")
	switch {
	case combined == "":
		combined = fallbackSummary(s, opts.MaxLength)
	case text.CountRunes(combined) > opts.MaxLength:
		second := extractiveSummary(combined, Options{
			MaxLength:    opts.MaxLength,
			MaxSentences: max(MinSentences, len(picks)/2),
		})
		combined = second.Summary
	}

	res := newResult(s, combined, MethodHybrid)
	res.ParagraphsProcessed = len(paragraphs)
	res.FinalSentences = len(picks)
	return res
}

// fallbackSummary is used when no sentence survives filtering.
func fallbackSummary(s string, maxLength int) string {
	return strings.TrimSpace(text.Truncate(s, maxLength))
}

// newResult fills the length fields. A summary longer than its source (possible once
// periods are re-appended to every sentence) is replaced by the source itself.
func newResult(original, summary string, method Method) *Result {
	originalLen := text.CountRunes(original)
	summaryLen := text.CountRunes(summary)
	if summaryLen > originalLen {
		summary, summaryLen = original, originalLen
	}
	return &Result{
		Success:          true,
		Summary:          summary,
		OriginalLength:   originalLen,
		SummaryLength:    summaryLen,
		CompressionRatio: CompressionRatio(originalLen, summaryLen),
		Method:           method,
	}
}

// CompressionRatio returns summaryLen/originalLen rounded to two decimals.
func CompressionRatio(originalLen, summaryLen int) float64 {
	ratio := float64(summaryLen) / float64(max(1, originalLen))
	return math.Round(ratio*100) / 100
}
