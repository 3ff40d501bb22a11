package extractive

import (
	"cmp"
	"slices"

	"docsumm/internal/utils/text"
)

// DefaultKeywordCount is used by Keywords when n is not positive.
const DefaultKeywordCount = 10

const minKeywordLength = 3

// Keywords returns the n most frequent non-stop words longer than three characters.
// Words with the same count are ordered by first appearance.
func Keywords(s string, n int) []string {
	if n <= 0 {
		n = DefaultKeywordCount
	}

	counts := make(map[string]int)
	var order []string
	for _, w := range Tokenize(s) {
		if IsStopWord(w) || text.CountRunes(w) <= minKeywordLength {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	slices.SortStableFunc(order, func(a, b string) int {
		return cmp.Compare(counts[b], counts[a])
	})
	return order[:min(n, len(order))]
}
