package matcher

import (
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// normalizeTitle lowercases a title, strips punctuation, and sorts its
// tokens so word order and decoration ("Deluxe Edition", bracketed remaster
// tags shuffled to the front) do not dominate the distance.
func normalizeTitle(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	tokens := strings.Fields(b.String())
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// TokenSortRatio computes a token-order-independent similarity between two
// strings on a 0-100 scale. 100 means the normalized forms are identical.
func TokenSortRatio(a, b string) int {
	na, nb := normalizeTitle(a), normalizeTitle(b)
	if na == nb {
		return 100
	}
	if na == "" || nb == "" {
		return 0
	}

	dist := levenshtein.ComputeDistance(na, nb)
	longest := len([]rune(na))
	if l := len([]rune(nb)); l > longest {
		longest = l
	}

	ratio := 100 * (longest - dist) / longest
	if ratio < 0 {
		ratio = 0
	}
	return ratio
}

// artistsMatch reports a case-insensitive artist name match after trimming.
func artistsMatch(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
