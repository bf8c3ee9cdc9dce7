package services

import (
	"strings"

	"mamoritalk-ai/internal/domain/models"
)

// MatchPatterns matches text against a pattern table and returns one
// MatchResult per category with at least one keyword hit, preserving
// table order. Matching is exact case-sensitive substring containment;
// the source texts are Japanese, so no case folding or stemming is
// applied. Pure function, total over all inputs: empty or short text
// simply yields no matches.
func MatchPatterns(text string, table []models.PatternEntry) []models.MatchResult {
	var matches []models.MatchResult

	for _, entry := range table {
		var found []string
		for _, kw := range entry.Keywords {
			if strings.Contains(text, kw) {
				found = append(found, kw)
			}
		}
		if len(found) > 0 {
			matches = append(matches, models.MatchResult{
				Category:        entry.Category,
				MatchedKeywords: found,
				Weight:          entry.Weight,
			})
		}
	}

	return matches
}

// countContained returns how many entries of words are substrings of text,
// along with the matched entries in list order.
func countContained(text string, words []string) []string {
	var found []string
	for _, w := range words {
		if strings.Contains(text, w) {
			found = append(found, w)
		}
	}
	return found
}

// clampScore bounds a raw weight sum to the [0, 100] score range.
func clampScore(score int) int {
	if score > 100 {
		return 100
	}
	if score < 0 {
		return 0
	}
	return score
}

// dedupeKeywords removes duplicates while keeping first-seen order.
func dedupeKeywords(keywords []string) []string {
	seen := make(map[string]struct{}, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if _, ok := seen[kw]; ok {
			continue
		}
		seen[kw] = struct{}{}
		out = append(out, kw)
	}
	return out
}
