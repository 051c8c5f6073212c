package similarity

import (
	"math"
	"strings"
)

// Distance returns the case-insensitive Levenshtein edit distance between a
// and b, counted in runes.
func Distance(a, b string) int {
	ar := []rune(strings.ToLower(a))
	br := []rune(strings.ToLower(b))

	if len(ar) == 0 {
		return len(br)
	}
	if len(br) == 0 {
		return len(ar)
	}

	prev := make([]int, len(ar)+1)
	curr := make([]int, len(ar)+1)
	for j := 0; j <= len(ar); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(br); i++ {
		curr[0] = i
		for j := 1; j <= len(ar); j++ {
			if br[i-1] == ar[j-1] {
				curr[j] = prev[j-1]
			} else {
				curr[j] = min3(prev[j-1]+1, curr[j-1]+1, prev[j]+1)
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(ar)]
}

// Ratio normalizes the edit distance between a and b into a 0–100 similarity
// score.  Two empty strings are identical by definition.
func Ratio(a, b string) int {
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 100
	}
	distance := Distance(a, b)
	return int(math.Round((1 - float64(distance)/float64(maxLen)) * 100))
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
