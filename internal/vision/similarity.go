package vision

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// SimilarityRatio returns the longest-matching-blocks ratio of two strings in
// [0, 1]. The matcher is evaluated in both orders and the larger value is
// kept, which makes the measure symmetric.
func SimilarityRatio(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == b {
		return 1.0
	}

	ab := difflib.NewMatcher(splitRunes(a), splitRunes(b)).Ratio()
	ba := difflib.NewMatcher(splitRunes(b), splitRunes(a)).Ratio()
	if ba > ab {
		return ba
	}
	return ab
}

func splitRunes(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, "")
}
