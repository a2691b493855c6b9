package catalog

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// minSimilarity is the lowest difflib ratio accepted as a suggestion.
const minSimilarity = 0.6

// Suggest returns the candidate closest to input (case-insensitive), if any is similar enough.
func Suggest(candidates []string, input string) (string, bool) {
	in := strings.Split(strings.ToLower(input), "")
	var (
		best      string
		bestRatio float64
	)
	for _, c := range candidates {
		ratio := difflib.NewMatcher(in, strings.Split(strings.ToLower(c), "")).Ratio()
		if ratio > bestRatio {
			best, bestRatio = c, ratio
		}
	}
	return best, bestRatio >= minSimilarity
}
