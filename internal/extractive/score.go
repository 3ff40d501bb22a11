package extractive

import (
	"cmp"
	"math"
	"slices"

	"docsumm/internal/utils/text"
)

const (
	positionBonus      = 0.3
	keywordDensityRate = 0.5
	minWordLength      = 2
)

type scoredSentence struct {
	sentence string
	score    float64
	index    int
}

// wordFrequency counts every non-stop word longer than minWordLength characters and
// normalises the counts by the highest one, so the most frequent word scores 1.
func wordFrequency(s string) map[string]float64 {
	counts := make(map[string]int)
	maxCount := 1
	for _, w := range Tokenize(s) {
		if IsStopWord(w) || text.CountRunes(w) <= minWordLength {
			continue
		}
		counts[w]++
		maxCount = max(maxCount, counts[w])
	}

	freq := make(map[string]float64, len(counts))
	for w, c := range counts {
		freq[w] = float64(c) / float64(maxCount)
	}
	return freq
}

// scoreSentences rates each sentence by word frequency, position, length and keyword density.
func scoreSentences(sentences []string, freq map[string]float64) []scoredSentence {
	if len(sentences) == 0 {
		return nil
	}

	totalLen := 0
	for _, s := range sentences {
		totalLen += text.CountRunes(s)
	}
	avgLen := math.Max(1, float64(totalLen)/float64(len(sentences)))

	scored := make([]scoredSentence, len(sentences))
	for i, s := range sentences {
		words := Tokenize(s)
		denom := float64(max(1, len(words)))

		var sum float64
		var keywords int
		for _, w := range words {
			if IsStopWord(w) {
				continue
			}
			f := freq[w]
			sum += f
			if f > 0 {
				keywords++
			}
		}

		score := sum / denom
		if i == 0 || i == len(sentences)-1 {
			score += positionBonus
		}
		lengthDiff := math.Abs(float64(text.CountRunes(s)) - avgLen)
		score += math.Max(0, 1-lengthDiff/avgLen)
		score += float64(keywords) / denom * keywordDensityRate

		scored[i] = scoredSentence{sentence: s, score: score, index: i}
	}
	return scored
}

// topSentences returns the n best sentences in their original order.
// Equal scores keep source order.
func topSentences(scored []scoredSentence, n int) []string {
	ranked := slices.Clone(scored)
	slices.SortStableFunc(ranked, func(a, b scoredSentence) int {
		return cmp.Compare(b.score, a.score)
	})
	ranked = ranked[:min(n, len(ranked))]
	slices.SortFunc(ranked, func(a, b scoredSentence) int {
		return cmp.Compare(a.index, b.index)
	})

	out := make([]string, len(ranked))
	for i, s := range ranked {
		out[i] = s.sentence
	}
	return out
}
