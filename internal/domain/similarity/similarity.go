// Package similarity implements the pure scoring functions of the
// collision-detection engine: phonetic folding, visual edit distance, core
// word extraction, and the combined 0–100 verdict.  Nothing in this package
// performs I/O or holds state; identical inputs always produce identical
// outputs.
package similarity

import (
	"fmt"
	"math"
	"strings"
)

// Weighting of the combined score.  Sound carries more legal weight than
// shape in trademark collision practice.
const (
	phoneticWeight = 0.6
	visualWeight   = 0.4
)

// Result is the scorer's verdict on one candidate/hit pair.
type Result struct {
	Phonetic      int    `json:"phonetic"`
	Visual        int    `json:"visual"`
	Combined      int    `json:"combined"`
	CoreWordMatch bool   `json:"core_word_match"`
	Explanation   string `json:"explanation"`

	// MatchedQuery and MatchedMark are the word pair that produced the
	// score, kept for explainability.
	MatchedQuery string `json:"matched_query"`
	MatchedMark  string `json:"matched_mark"`
}

// combine blends phonetic and visual scores into the single verdict.  It is
// monotonic in both inputs and yields 100 only when both are 100.
func combine(phonetic, visual int) int {
	return int(math.Round(float64(phonetic)*phoneticWeight + float64(visual)*visualWeight))
}

// Score compares a candidate name against a registered mark name.  The
// comparison runs word-by-word over the core words of both names and keeps
// the best-scoring pair, so "Altana" still scores high against
// "ALTANA Pharma GmbH".
func Score(query, mark string) Result {
	queryTrimmed := strings.TrimSpace(query)
	markTrimmed := strings.TrimSpace(mark)

	if queryTrimmed != "" && strings.EqualFold(queryTrimmed, markTrimmed) {
		return Result{
			Phonetic:      100,
			Visual:        100,
			Combined:      100,
			CoreWordMatch: true,
			Explanation:   fmt.Sprintf("exact match: %q equals %q", queryTrimmed, markTrimmed),
			MatchedQuery:  queryTrimmed,
			MatchedMark:   markTrimmed,
		}
	}

	queryWords := CoreWords(query)
	markWords := CoreWords(mark)

	if len(queryWords) == 0 || len(markWords) == 0 {
		return Result{
			Explanation:  "no comparable words found",
			MatchedQuery: queryTrimmed,
			MatchedMark:  markTrimmed,
		}
	}

	best := findBestWordMatch(queryWords, markWords)

	// The dominant words of each name anchor the score even when a later
	// word pair happens to match better.
	phonetic := maxInt(best.phonetic, PhoneticRatio(queryWords[0], markWords[0]))
	visual := maxInt(best.visual, VisualRatio(queryWords[0], markWords[0]))

	// A second visual pass over confusable-normalized forms catches
	// lookalike substitutions plain edit distance misses (c1ick vs click).
	visual = maxInt(visual, Ratio(NormalizeVisual(best.matchedQuery), NormalizeVisual(best.matchedMark)))

	combined := combine(phonetic, visual)

	coreWordMatch := best.coreWordMatch ||
		queryWords[0] == markWords[0] ||
		Distance(queryWords[0], markWords[0]) <= 1

	return Result{
		Phonetic:      phonetic,
		Visual:        visual,
		Combined:      combined,
		CoreWordMatch: coreWordMatch,
		Explanation:   explain(coreWordMatch, phonetic, visual, combined, best),
		MatchedQuery:  best.matchedQuery,
		MatchedMark:   best.matchedMark,
	}
}

type wordMatch struct {
	phonetic      int
	visual        int
	matchedQuery  string
	matchedMark   string
	coreWordMatch bool
}

// findBestWordMatch scans every word pair and keeps the one with the highest
// combined score.  A pair of identical words, or words one edit apart, sets
// the core-word-match signal regardless of which pair scores best.
func findBestWordMatch(queryWords, markWords []string) wordMatch {
	best := wordMatch{
		matchedQuery: queryWords[0],
		matchedMark:  markWords[0],
	}

	for _, qw := range queryWords {
		for _, mw := range markWords {
			phonetic := PhoneticRatio(qw, mw)
			visual := VisualRatio(qw, mw)

			if combine(phonetic, visual) > combine(best.phonetic, best.visual) {
				best.phonetic = phonetic
				best.visual = visual
				best.matchedQuery = qw
				best.matchedMark = mw
			}

			if qw == mw || Distance(qw, mw) <= 1 {
				best.coreWordMatch = true
			}
		}
	}
	return best
}

func explain(coreWordMatch bool, phonetic, visual, combined int, best wordMatch) string {
	switch {
	case coreWordMatch:
		return fmt.Sprintf("core word match: %q ≈ %q", best.matchedQuery, best.matchedMark)
	case phonetic >= 80:
		return fmt.Sprintf("high phonetic similarity: %q sounds like %q", best.matchedQuery, best.matchedMark)
	case visual >= 80:
		return fmt.Sprintf("high visual similarity: %q looks like %q", best.matchedQuery, best.matchedMark)
	case combined >= 60:
		return fmt.Sprintf("medium overall similarity between %q and %q", best.matchedQuery, best.matchedMark)
	default:
		return fmt.Sprintf("low similarity: %q differs from %q", best.matchedQuery, best.matchedMark)
	}
}

func maxInt(a, b int) int {
	if b > a {
		return b
	}
	return a
}
