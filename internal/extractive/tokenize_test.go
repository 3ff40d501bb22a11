package extractive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"hello", "world", "it", "s", "2024"}, Tokenize("Hello, World! It's 2024."))
	assert.Empty(t, Tokenize(" ... !!! "))
}

func TestSplitSentences(t *testing.T) {
	got := SplitSentences("Short. This is a long enough sentence!! And another long one? ok")
	assert.Equal(t, []string{"This is a long enough sentence.", "And another long one."}, got)
}

func TestSplitSentences_LengthBoundary(t *testing.T) {
	// exactly 10 characters is dropped, 11 is kept
	assert.Empty(t, SplitSentences("abcdefghij."))
	assert.Equal(t, []string{"abcdefghijk."}, SplitSentences("abcdefghijk."))
}

func TestSplitParagraphs(t *testing.T) {
	long := "This paragraph is long enough to be considered by the hybrid pass."
	input := long + "\n\nToo short.\n   \n" + long

	got := splitParagraphs(input)
	require.Len(t, got, 2)
	assert.Nil(t, splitParagraphs(long+" "+long))
}

func TestIsStopWord(t *testing.T) {
	assert.True(t, IsStopWord("the"))
	assert.True(t, IsStopWord("them"))
	assert.False(t, IsStopWord("The"))
	assert.False(t, IsStopWord("summary"))
}

func TestWordFrequency(t *testing.T) {
	freq := wordFrequency("Apple apple banana the is go")

	assert.Equal(t, map[string]float64{"apple": 1, "banana": 0.5}, freq)
}

func TestScoreSentences_PositionBonus(t *testing.T) {
	sentences := []string{"alpha beta gamma.", "alpha beta gamma.", "alpha beta gamma."}
	scored := scoreSentences(sentences, wordFrequency("alpha beta gamma"))

	require.Len(t, scored, 3)
	assert.InDelta(t, scored[0].score-positionBonus, scored[1].score, 1e-9)
	assert.InDelta(t, scored[0].score, scored[2].score, 1e-9)
	// freq 1 per word, full length match, full keyword density
	assert.InDelta(t, 1+0.3+1+0.5, scored[0].score, 1e-9)
}

func TestScoreSentences_StopWordsAndLength(t *testing.T) {
	// 20 and 36 runes, average 28: both sentences sit 8 runes from it.
	sentences := []string{"The alpha is a beta.", "Alpha beta gamma delta epsilon zeta."}
	freq := map[string]float64{"alpha": 1, "beta": 0.5}

	scored := scoreSentences(sentences, freq)
	require.Len(t, scored, 2)

	lengthTerm := 1 - 8.0/28.0
	// stop-words count in the denominator: 1.5/5 frequency, 2/5 keyword density
	assert.InDelta(t, 1.5/5+positionBonus+lengthTerm+2.0/5*0.5, scored[0].score, 1e-9)
	// words without a frequency still count: 1.5/6 frequency, 2/6 keyword density
	assert.InDelta(t, 1.5/6+positionBonus+lengthTerm+2.0/6*0.5, scored[1].score, 1e-9)

	assert.Equal(t, []string{"The alpha is a beta."}, topSentences(scored, 1))
}

func TestTopSentences_TiesKeepSourceOrder(t *testing.T) {
	scored := []scoredSentence{
		{sentence: "a", score: 1, index: 0},
		{sentence: "b", score: 2, index: 1},
		{sentence: "c", score: 1, index: 2},
		{sentence: "d", score: 1, index: 3},
	}

	assert.Equal(t, []string{"a", "b"}, topSentences(scored, 2))
	assert.Equal(t, []string{"a", "b", "c", "d"}, topSentences(scored, 10))
}
