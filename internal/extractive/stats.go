package extractive

import (
	"math"

	"docsumm/internal/utils/text"
)

// WordsPerMinute is the reading speed behind ReadingTime.
const WordsPerMinute = 200

// Stats are descriptive statistics of a text.
type Stats struct {
	CharacterCount          int
	WordCount               int
	SentenceCount           int
	AverageWordsPerSentence int
	ReadingTime             int // minutes
}

// TextStats computes Stats for any string, including the empty one.
func TextStats(s string) Stats {
	words := len(Tokenize(s))
	sentences := len(SplitSentences(s))
	return Stats{
		CharacterCount:          text.CountRunes(s),
		WordCount:               words,
		SentenceCount:           sentences,
		AverageWordsPerSentence: int(math.Round(float64(words) / float64(max(1, sentences)))),
		ReadingTime:             ReadingTime(words),
	}
}

// ReadingTime converts a word count to whole minutes, never less than one.
func ReadingTime(wordCount int) int {
	return max(1, int(math.Ceil(float64(wordCount)/WordsPerMinute)))
}
