// Package match implements description similarity scoring and the matcher
// that finds candidate explanations in previously explained transactions.
package match

import "strings"

// Score returns a similarity ratio in [0, 1] between two transaction
// descriptions. Comparison is case-insensitive and whitespace-normalized.
// Identical inputs score 1.0; if either input is empty the score is 0.0.
// The ratio is twice the number of matching runes divided by the combined
// length of both inputs (Ratcliff-Obershelp), so a description extended
// with a trailing reference number still scores close to its bare form.
func Score(a, b string) float64 {
	a = normalize(a)
	b = normalize(b)

	if a == "" || b == "" {
		return 0.0
	}
	if a == b {
		return 1.0
	}

	ra := []rune(a)
	rb := []rune(b)

	return 2.0 * float64(matchingRunes(ra, rb)) / float64(len(ra)+len(rb))
}

// normalize lowercases a description and collapses runs of whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// matchingRunes counts the runes covered by the longest common block plus,
// recursively, the longest blocks in the unmatched regions on either side.
func matchingRunes(a, b []rune) int {
	ai, bi, size := longestCommonBlock(a, b)
	if size == 0 {
		return 0
	}

	total := size
	total += matchingRunes(a[:ai], b[:bi])
	total += matchingRunes(a[ai+size:], b[bi+size:])
	return total
}

// longestCommonBlock finds the longest contiguous run of runes shared by a
// and b with a two-row table, returning its start offsets in each input and
// its length. Ties resolve to the earliest block in a.
func longestCommonBlock(a, b []rune) (bestA, bestB, best int) {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] != b[j-1] {
				curr[j] = 0
				continue
			}

			curr[j] = prev[j-1] + 1
			if curr[j] > best {
				best = curr[j]
				bestA = i - best
				bestB = j - best
			}
		}

		prev, curr = curr, prev
		for j := range curr {
			curr[j] = 0
		}
	}

	return bestA, bestB, best
}
