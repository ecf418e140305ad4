package tools

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// BestMatch returns the index of the element of seq most similar to target
// and its similarity ratio between 0 and 1. The index is -1 for an empty seq.
func BestMatch(seq []string, target string) (int, float64) {
	best, bestRatio := -1, -1.0
	for i, s := range seq {
		if r := Similarity(s, target); r > bestRatio {
			best, bestRatio = i, r
		}
	}
	if best < 0 {
		return -1, 0
	}
	return best, bestRatio
}

// Similarity is 1 minus the Levenshtein distance relative to the longer string.
func Similarity(a, b string) float64 {
	n := max(len([]rune(a)), len([]rune(b)))
	if n == 0 {
		return 1
	}
	return 1 - float64(fuzzy.LevenshteinDistance(a, b))/float64(n)
}

// FuzzyFind returns the targets containing the characters of source in
// order, ignoring case, closest first.
func FuzzyFind(source string, targets []string) []string {
	ranks := fuzzy.RankFindFold(source, targets)
	sort.Sort(ranks)
	out := make([]string, len(ranks))
	for i, r := range ranks {
		out[i] = r.Target
	}
	return out
}
