package similarity

import "strings"

// ─────────────────────────────────────────────────────────────────────────────
// Visual similarity
// ─────────────────────────────────────────────────────────────────────────────

// visualConfusables maps character sequences a reader commonly mistakes for
// one another onto a single representative.  The rules apply in order; the
// l→i→l chain deliberately collapses every l and i onto the same letter
// before the two-letter shapes (rn, cl, vv) are folded.
var visualConfusables = []struct {
	from, to string
}{
	{"0", "o"},
	{"1", "l"},
	{"l", "i"},
	{"i", "l"},
	{"5", "s"},
	{"8", "b"},
	{"rn", "m"},
	{"cl", "d"},
	{"vv", "w"},
}

// stripToAlnum lowercases and keeps ASCII letters and digits only, so that
// hyphenation and spacing differences do not count as edits.
func stripToAlnum(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	for _, r := range strings.ToLower(input) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeVisual collapses confusable character sequences so that "c1ick"
// and "click" compare as equal shapes.
func NormalizeVisual(input string) string {
	result := strings.ToLower(input)
	for _, c := range visualConfusables {
		result = strings.ReplaceAll(result, c.from, c.to)
	}
	return result
}

// VisualRatio scores the character-level similarity of two names, 0–100,
// ignoring case, punctuation and spacing.
func VisualRatio(a, b string) int {
	return Ratio(stripToAlnum(a), stripToAlnum(b))
}
