package similarity

import "strings"

// ─────────────────────────────────────────────────────────────────────────────
// Phonetic folding
// ─────────────────────────────────────────────────────────────────────────────

// phoneticRule rewrites one grapheme cluster into its canonical sound.
type phoneticRule struct {
	pattern     string
	replacement string
	suffixOnly  bool
}

// phoneticRules fold German and English spellings of the same sound onto one
// canonical form.  Order matters: multi-letter clusters must rewrite before
// their single-letter constituents.
var phoneticRules = []phoneticRule{
	{pattern: "ph", replacement: "f"},
	{pattern: "ck", replacement: "k"},
	{pattern: "cc", replacement: "k"},
	{pattern: "ce", replacement: "se"},
	{pattern: "ci", replacement: "si"},
	{pattern: "cy", replacement: "sy"},
	{pattern: "sc", replacement: "s"},
	{pattern: "sch", replacement: "sh"},
	{pattern: "ch", replacement: "k"},
	{pattern: "qu", replacement: "kw"},
	{pattern: "x", replacement: "ks"},
	{pattern: "z", replacement: "s"},
	{pattern: "th", replacement: "t"},
	{pattern: "wh", replacement: "w"},
	{pattern: "wr", replacement: "r"},
	{pattern: "kn", replacement: "n"},
	{pattern: "gn", replacement: "n"},
	{pattern: "gh", replacement: ""},
	{pattern: "mb", replacement: "m", suffixOnly: true},
	{pattern: "ng", replacement: "n", suffixOnly: true},
	{pattern: "ie", replacement: "i"},
	{pattern: "ei", replacement: "ai"},
	{pattern: "ey", replacement: "i"},
	{pattern: "ay", replacement: "ai"},
	{pattern: "ea", replacement: "i"},
	{pattern: "ee", replacement: "i"},
	{pattern: "oo", replacement: "u"},
	{pattern: "ou", replacement: "u"},
	{pattern: "ow", replacement: "o"},
	{pattern: "ue", replacement: "u"},
	{pattern: "oe", replacement: "o"},
	{pattern: "ae", replacement: "e"},
	{pattern: "ä", replacement: "e"},
	{pattern: "ö", replacement: "o"},
	{pattern: "ü", replacement: "u"},
	{pattern: "ß", replacement: "ss"},
	{pattern: "ll", replacement: "l"},
	{pattern: "rr", replacement: "r"},
	{pattern: "tt", replacement: "t"},
	{pattern: "ss", replacement: "s"},
	{pattern: "ff", replacement: "f"},
	{pattern: "pp", replacement: "p"},
	{pattern: "bb", replacement: "b"},
	{pattern: "dd", replacement: "d"},
	{pattern: "gg", replacement: "g"},
	{pattern: "mm", replacement: "m"},
	{pattern: "nn", replacement: "n"},
	{pattern: "é", replacement: "e"},
	{pattern: "è", replacement: "e"},
	{pattern: "ê", replacement: "e"},
	{pattern: "ë", replacement: "e"},
	{pattern: "á", replacement: "a"},
	{pattern: "à", replacement: "a"},
	{pattern: "â", replacement: "a"},
	{pattern: "í", replacement: "i"},
	{pattern: "ì", replacement: "i"},
	{pattern: "î", replacement: "i"},
	{pattern: "ó", replacement: "o"},
	{pattern: "ò", replacement: "o"},
	{pattern: "ô", replacement: "o"},
	{pattern: "ú", replacement: "u"},
	{pattern: "ù", replacement: "u"},
	{pattern: "û", replacement: "u"},
	{pattern: "ñ", replacement: "n"},
	{pattern: "ç", replacement: "s"},
}

// phoneticAlphabet keeps letters, digits and the accented characters the rule
// table knows how to fold.
const phoneticAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789äöüßéèêëáàâíìîóòôúùûñç"

// FoldPhonetic reduces a name to its canonical phonetic form: lowercase,
// stripped of punctuation and whitespace, with sound-alike clusters rewritten.
func FoldPhonetic(input string) string {
	lowered := strings.ToLower(strings.TrimSpace(input))

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if strings.ContainsRune(phoneticAlphabet, r) {
			b.WriteRune(r)
		}
	}
	result := b.String()

	for _, rule := range phoneticRules {
		if rule.suffixOnly {
			if strings.HasSuffix(result, rule.pattern) {
				result = strings.TrimSuffix(result, rule.pattern) + rule.replacement
			}
			continue
		}
		result = strings.ReplaceAll(result, rule.pattern, rule.replacement)
	}
	return result
}

// PhoneticRatio scores how alike two names sound, 0–100.
func PhoneticRatio(a, b string) int {
	return Ratio(FoldPhonetic(a), FoldPhonetic(b))
}
