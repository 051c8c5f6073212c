package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	assert.Equal(t, 0, Distance("altana", "altana"))
	assert.Equal(t, 0, Distance("Altana", "ALTANA"))
	assert.Equal(t, 3, Distance("kitten", "sitting"))
	assert.Equal(t, 6, Distance("", "altana"))
	assert.Equal(t, 1, Distance("altana", "altena"))
}

func TestRatio(t *testing.T) {
	assert.Equal(t, 100, Ratio("altana", "altana"))
	assert.Equal(t, 100, Ratio("", ""))
	assert.Equal(t, 75, Ratio("abcd", "abce"))
	assert.Equal(t, 0, Ratio("abc", "xyz"))
}

func TestFoldPhonetic(t *testing.T) {
	// Identical folded forms for sound-alike spellings.
	assert.Equal(t, FoldPhonetic("Phoenix"), FoldPhonetic("Foniks"))
	assert.Equal(t, FoldPhonetic("Katze"), FoldPhonetic("KATZE"))

	// Umlauts fold onto plain vowels.
	assert.Equal(t, FoldPhonetic("Müller"), FoldPhonetic("Muler"))

	// Punctuation and spacing are ignored.
	assert.Equal(t, FoldPhonetic("Coca-Cola"), FoldPhonetic("Coca Cola"))
}

func TestPhoneticRatio(t *testing.T) {
	assert.Equal(t, 100, PhoneticRatio("Phoenix", "Foniks"))
	assert.Equal(t, 100, PhoneticRatio("altana", "ALTANA"))
	assert.Less(t, PhoneticRatio("Altana", "Zebra"), 50)
}

func TestNormalizeVisual(t *testing.T) {
	// Digit and letter lookalikes converge on the same shape.
	assert.Equal(t, NormalizeVisual("c1ick"), NormalizeVisual("click"))
	assert.Equal(t, NormalizeVisual("rnars"), NormalizeVisual("mars"))
	assert.Equal(t, NormalizeVisual("vvave"), NormalizeVisual("wave"))
	assert.Equal(t, NormalizeVisual("0tto"), NormalizeVisual("otto"))
}

func TestVisualRatio(t *testing.T) {
	assert.Equal(t, 100, VisualRatio("Coca-Cola", "cocacola"))
	assert.Equal(t, 100, VisualRatio("ALTANA", "altana"))
	assert.Less(t, VisualRatio("Altana", "Zebra"), 50)
}

func TestVisualRatioMonotonicity(t *testing.T) {
	// A single-character edit never increases visual similarity.
	base := VisualRatio("altana", "altana")
	for _, edited := range []string{"altena", "altan", "altanaa", "xltana"} {
		assert.LessOrEqual(t, VisualRatio("altana", edited), base, edited)
	}
}

func TestCoreWords(t *testing.T) {
	assert.Equal(t, []string{"altana"}, CoreWords("ALTANA GmbH"))
	assert.Equal(t, []string{"oetker"}, CoreWords("Dr. Oetker"))
	assert.Equal(t, []string{"miele"}, CoreWords("Miele & Co. KG"))
	assert.Equal(t, []string{"acme", "tools"}, CoreWords("ACME Tools International Ltd"))
	assert.Nil(t, CoreWords("   "))
}

func TestCoreWordsShortFallback(t *testing.T) {
	// No word longer than two characters: the short words survive.
	assert.Equal(t, []string{"xy"}, CoreWords("XY"))
}

func TestCoreWord(t *testing.T) {
	assert.Equal(t, "altana", CoreWord("ALTANA Pharma GmbH"))
	assert.Equal(t, "", CoreWord(""))
}

func TestScoreExactMatchIsAlwaysHundred(t *testing.T) {
	for _, name := range []string{"Altana", "Dr. Oetker", "Group AG", "X"} {
		got := Score(name, name)
		assert.Equal(t, 100, got.Combined, name)
		assert.True(t, got.CoreWordMatch, name)
	}

	got := Score("altana", "ALTANA")
	assert.Equal(t, 100, got.Combined)
	assert.Equal(t, 100, got.Phonetic)
	assert.Equal(t, 100, got.Visual)
}

func TestScoreAgainstLongerMarkName(t *testing.T) {
	// The candidate's core word anchors the score even when the registered
	// name carries extra words and a legal form.
	got := Score("Altana", "ALTANA Pharma GmbH")

	assert.Equal(t, 100, got.Phonetic)
	assert.Equal(t, 100, got.Visual)
	assert.Equal(t, 100, got.Combined)
	assert.True(t, got.CoreWordMatch)
	assert.Equal(t, "altana", got.MatchedQuery)
	assert.Equal(t, "altana", got.MatchedMark)
}

func TestScoreCoreWordMatchWithinOneEdit(t *testing.T) {
	got := Score("Altana", "Altena Software")
	assert.True(t, got.CoreWordMatch)
}

func TestScoreUnrelatedNames(t *testing.T) {
	got := Score("Altana", "Zephyr Industries")
	assert.False(t, got.CoreWordMatch)
	assert.Less(t, got.Combined, 50)
	assert.Contains(t, got.Explanation, "low similarity")
}

func TestScoreEmptyInput(t *testing.T) {
	got := Score("", "Altana")
	assert.Zero(t, got.Combined)
	assert.False(t, got.CoreWordMatch)
	assert.Equal(t, "no comparable words found", got.Explanation)
}

func TestScoreDeterminism(t *testing.T) {
	first := Score("Lumira", "Lumira Labs GmbH")
	for i := 0; i < 10; i++ {
		require.Equal(t, first, Score("Lumira", "Lumira Labs GmbH"))
	}
}

func TestScoreCombinedBlend(t *testing.T) {
	got := Score("Altana", "Altanax")
	// One trailing character of difference: high on both signals, and the
	// blend stays monotonic between them.
	assert.GreaterOrEqual(t, got.Combined, minInt(got.Phonetic, got.Visual))
	assert.LessOrEqual(t, got.Combined, maxInt(got.Phonetic, got.Visual))
}

func minInt(a, b int) int {
	if b < a {
		return b
	}
	return a
}
