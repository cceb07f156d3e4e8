// Package similarity scores how alike two issue titles are. Titles are
// normalized before comparison, so "feat: add dark mode" and "Add dark mode"
// compare as equal.
package similarity

import (
	"strings"

	"github.com/triagehq/triage-bot/internal/utils/text"
)

// SubstringFloor is the minimum score assigned when one normalized title is
// fully contained in the other. Containment usually means one title is an
// elaboration of the other, which the alignment ratio alone undervalues.
const SubstringFloor = 0.8

// Score returns a similarity in [0, 1] between two raw titles.
//
// Both titles are normalized first. The base score is a longest-common-
// subsequence ratio (2*lcs/(len(a)+len(b))) over the normalized strings;
// containment raises the result to at least SubstringFloor. Score is
// symmetric, and two titles that normalize to the empty string score 1.0.
func Score(a, b string) float64 {
	na := text.Normalize(a)
	nb := text.Normalize(b)

	if na == "" && nb == "" {
		return 1.0
	}

	score := Ratio(na, nb)

	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		if score < SubstringFloor {
			score = SubstringFloor
		}
	}

	return score
}

// Ratio computes the longest-common-subsequence alignment ratio between two
// strings without normalizing them. Identical strings score 1.0; strings
// with no characters in common score 0.0.
func Ratio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	ra := []rune(a)
	rb := []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}

	return 2.0 * float64(lcsLength(ra, rb)) / float64(total)
}

// lcsLength computes the longest-common-subsequence length with a rolling
// single-row table, O(len(a)*len(b)) time and O(min) space.
func lcsLength(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	// Keep the shorter string as the row to bound memory.
	if len(b) > len(a) {
		a, b = b, a
	}

	row := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		prevDiag := 0
		for j := 1; j <= len(b); j++ {
			tmp := row[j]
			if a[i-1] == b[j-1] {
				row[j] = prevDiag + 1
			} else if row[j-1] > row[j] {
				row[j] = row[j-1]
			}
			prevDiag = tmp
		}
	}
	return row[len(b)]
}
