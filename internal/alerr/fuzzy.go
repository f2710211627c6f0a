package alerr

import (
	"fmt"
	"strings"
)

// nameKey is the form names are compared in: lower case, without the
// PostGIS "st_" prefix, so "Contians", "st_contians" and "ST_CONTIANS" all
// measure against "contains".
func nameKey(s string) string {
	s = strings.ToLower(s)
	return strings.TrimPrefix(s, "st_")
}

// maxEdits is the largest edit distance still treated as a typo of s.
// Short names get less slack so "id" does not suggest every short column.
func maxEdits(s string) int {
	switch n := len([]rune(s)); {
	case n <= 3:
		return 1
	case n <= 6:
		return 2
	default:
		return 3
	}
}

// editDistance is the Levenshtein distance between a and b, over runes.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}
	row := make([]int, len(rb)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		diag := row[0]
		row[0] = i
		for j := 1; j <= len(rb); j++ {
			above := row[j]
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			row[j] = min(row[j]+1, row[j-1]+1, diag+cost)
			diag = above
		}
	}
	return row[len(rb)]
}

// FindClosestMatch returns the option closest to input, compared without case
// or ST_ prefix. The option is returned as spelled in options. Ties go to the
// earlier option.
func FindClosestMatch(input string, options []string) (string, bool) {
	key := nameKey(input)
	limit := maxEdits(key)

	best, bestDist := "", limit+1
	for _, opt := range options {
		if d := editDistance(key, nameKey(opt)); d < bestDist {
			best, bestDist = opt, d
		}
	}
	return best, bestDist <= limit
}

// SuggestSimilar returns "did you mean 'X'?" for the closest option, or "".
func SuggestSimilar(input string, options []string) string {
	if match, ok := FindClosestMatch(input, options); ok {
		return fmt.Sprintf("did you mean '%s'?", match)
	}
	return ""
}
