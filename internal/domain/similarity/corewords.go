package similarity

import (
	"regexp"
	"strings"
)

// ─────────────────────────────────────────────────────────────────────────────
// Core word extraction
// ─────────────────────────────────────────────────────────────────────────────

// reLegalForms matches titles and company legal forms that carry no
// distinguishing power in a mark name.
var reLegalForms = regexp.MustCompile(`(?i)\b(dr\.?|prof\.?|ing\.?|gmbh|ag|ltd|inc|corp|llc|co\.?|kg|ohg|ug|se|sa|srl|bv|nv|partner|partners|group|holding|international)\b`)

var reNonWord = regexp.MustCompile(`[^a-z0-9äöüß\s]`)

var reSpaces = regexp.MustCompile(`\s+`)

// CoreWords extracts the legally salient words of a mark name: lowercased,
// stripped of titles, legal forms and punctuation.  Words of three or more
// characters win; when none survive that filter the shorter words are
// returned instead so a two-letter mark still has a core word.
func CoreWords(input string) []string {
	result := strings.ToLower(strings.TrimSpace(input))
	result = reLegalForms.ReplaceAllString(result, "")
	result = strings.ReplaceAll(result, "&", " ")
	result = reNonWord.ReplaceAllString(result, "")
	result = strings.TrimSpace(reSpaces.ReplaceAllString(result, " "))

	if result == "" {
		return nil
	}

	words := strings.Split(result, " ")
	significant := make([]string, 0, len(words))
	for _, w := range words {
		if len([]rune(w)) > 2 {
			significant = append(significant, w)
		}
	}
	if len(significant) > 0 {
		return significant
	}
	return words
}

// CoreWord returns the dominant word of a mark name, or "".
func CoreWord(input string) string {
	if words := CoreWords(input); len(words) > 0 {
		return words[0]
	}
	return ""
}
