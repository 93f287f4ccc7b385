package mapreduce

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// TopN returns the n most frequent words, count descending. Words with equal
// counts keep their order in counts. The input is not modified.
func TopN(counts Frequencies, n int) (Frequencies, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: top-N must be non-negative, got %d", ErrInvalidArgument, n)
	}

	sorted := slices.Clone(counts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Count > sorted[j].Count
	})

	limit := n
	if len(sorted) < n {
		limit = len(sorted)
	}

	return sorted[:limit:limit], nil
}

// GetTopWords ranks a plain word-count map. Maps have no order, so words with
// equal counts are ordered alphabetically.
func GetTopWords(counts map[string]int, n int) (Frequencies, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: top-N must be non-negative, got %d", ErrInvalidArgument, n)
	}

	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Strings(words)

	freqs := make(Frequencies, len(words))
	for i, w := range words {
		freqs[i] = WordCount{Word: w, Count: counts[w]}
	}

	return TopN(freqs, n)
}

// TopKeywords returns the top N words formatted as "word:count"
// (e.g., "alice:398"). A negative n yields no keywords.
func TopKeywords(counts Frequencies, n int) []string {
	top, err := TopN(counts, n)
	if err != nil {
		return []string{}
	}

	keywords := make([]string, len(top))
	for i, wc := range top {
		keywords[i] = fmt.Sprintf("%s:%d", wc.Word, wc.Count)
	}
	return keywords
}

// FormatTopKeywords renders ranked words as a numbered list, one per line.
func FormatTopKeywords(top Frequencies) string {
	var sb strings.Builder
	for i, wc := range top {
		fmt.Fprintf(&sb, "%d. %s: %d\n", i+1, wc.Word, wc.Count)
	}
	return sb.String()
}
