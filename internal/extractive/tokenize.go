package extractive

import (
	"regexp"
	"strings"

	"docsumm/internal/utils/text"
)

// MinSentenceLength is the length a fragment must exceed to count as a sentence.
const MinSentenceLength = 10

// MinParagraphLength is the length a paragraph must exceed to take part in hybrid summarization.
const MinParagraphLength = 50

var (
	nonWordRe        = regexp.MustCompile(`[^\w\s]`)
	sentenceDelimRe  = regexp.MustCompile(`[.!?]+`)
	paragraphBreakRe = regexp.MustCompile(`\n\s*\n`)
)

// Tokenize lowercases s, replaces every non-word, non-space character with a space and
// splits the result on whitespace. Empty tokens are dropped.
func Tokenize(s string) []string {
	return strings.Fields(nonWordRe.ReplaceAllString(strings.ToLower(s), " "))
}

// SplitSentences splits s on runs of '.', '!' and '?'. Each fragment is trimmed, kept only
// when it is longer than MinSentenceLength characters, and closed with a period.
func SplitSentences(s string) []string {
	parts := sentenceDelimRe.Split(s, -1)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if text.CountRunes(p) > MinSentenceLength {
			sentences = append(sentences, p+".")
		}
	}
	return sentences
}

// splitParagraphs splits s on blank lines and keeps paragraphs longer than MinParagraphLength.
// Text without any blank line has no paragraphs.
func splitParagraphs(s string) []string {
	parts := paragraphBreakRe.Split(s, -1)
	if len(parts) < 2 {
		return nil
	}
	paragraphs := make([]string, 0, len(parts))
	for _, p := range parts {
		if text.CountRunes(strings.TrimSpace(p)) > MinParagraphLength {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}
