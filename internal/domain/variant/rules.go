package variant

import "regexp"

// Rule tables for the deterministic generator.  Each rule carries the
// rationale string surfaced to the caller, so the audit trail explains every
// derived term.

type rewriteRule struct {
	pattern     *regexp.Regexp
	replacement string
	rationale   string
}

// germanPhoneticRules rewrite German spellings onto their sound-alikes.
var germanPhoneticRules = []rewriteRule{
	{regexp.MustCompile(`(?i)ä`), "ae", `umlaut ä → ae`},
	{regexp.MustCompile(`(?i)ö`), "oe", `umlaut ö → oe`},
	{regexp.MustCompile(`(?i)ü`), "ue", `umlaut ü → ue`},
	{regexp.MustCompile(`(?i)ß`), "ss", `ß → ss`},
	{regexp.MustCompile(`(?i)sch`), "sh", `sch → sh`},
	{regexp.MustCompile(`(?i)ch`), "k", `ch → k`},
	{regexp.MustCompile(`(?i)ei`), "ai", `ei → ai`},
	{regexp.MustCompile(`(?i)eu`), "oi", `eu → oi`},
	{regexp.MustCompile(`(?i)ph`), "f", `ph → f`},
	{regexp.MustCompile(`(?i)qu`), "kw", `qu → kw`},
	{regexp.MustCompile(`(?i)v`), "f", `v → f (German)`},
	{regexp.MustCompile(`(?i)z`), "ts", `z → ts`},
}

// englishPhoneticRules rewrite English spellings onto their sound-alikes.
// RE2 has no lookahead, so the c-before-e/i rule captures the vowel and puts
// it back.
var englishPhoneticRules = []rewriteRule{
	{regexp.MustCompile(`(?i)ph`), "f", `ph → f`},
	{regexp.MustCompile(`(?i)ck`), "k", `ck → k`},
	{regexp.MustCompile(`(?i)ough`), "o", `ough → o`},
	{regexp.MustCompile(`(?i)gh`), "", `silent gh dropped`},
	{regexp.MustCompile(`(?i)tion`), "shun", `tion → shun`},
	{regexp.MustCompile(`(?i)th`), "t", `th → t`},
	{regexp.MustCompile(`(?i)wh`), "w", `wh → w`},
	{regexp.MustCompile(`(?i)wr`), "r", `wr → r`},
	{regexp.MustCompile(`(?i)kn`), "n", `kn → n`},
	{regexp.MustCompile(`(?i)c([ei])`), "s$1", `c → s before e/i`},
	{regexp.MustCompile(`(?i)x`), "ks", `x → ks`},
}

// visualRules substitute characters a reader commonly confuses.
var visualRules = []rewriteRule{
	{regexp.MustCompile(`l`), "i", `l → i lookalike`},
	{regexp.MustCompile(`I`), "l", `I → l lookalike`},
	{regexp.MustCompile(`0`), "o", `0 → o lookalike`},
	{regexp.MustCompile(`(?i)o`), "0", `o → 0 lookalike`},
	{regexp.MustCompile(`(?i)rn`), "m", `rn → m lookalike`},
	{regexp.MustCompile(`(?i)cl`), "d", `cl → d lookalike`},
	{regexp.MustCompile(`(?i)vv`), "w", `vv → w lookalike`},
	{regexp.MustCompile(`1`), "l", `1 → l lookalike`},
}

// rootPrefixes and rootSuffixes are the marketing affixes stripped to expose
// a mark's stem.
var rootPrefixes = []string{"e", "i", "my", "smart", "eco", "bio", "cyber", "digi", "pro", "neo", "meta"}

var rootSuffixes = []string{"ify", "ly", "ware", "tech", "soft", "cloud", "ai", "io", "app", "hub"}

// conceptualPairs map words onto same-meaning counterparts in the other
// search language (German/English) or a common synonym.  Both directions are
// listed explicitly to keep the table greppable.
var conceptualPairs = map[string]string{
	"sonne":   "sun",
	"sun":     "sonne",
	"mond":    "moon",
	"moon":    "mond",
	"stern":   "star",
	"star":    "stern",
	"berg":    "mountain",
	"mountain": "berg",
	"wald":    "forest",
	"forest":  "wald",
	"haus":    "house",
	"house":   "haus",
	"grün":    "green",
	"green":   "grün",
	"blau":    "blue",
	"blue":    "blau",
	"rot":     "red",
	"red":     "rot",
	"schwarz": "black",
	"black":   "schwarz",
	"weiss":   "white",
	"white":   "weiss",
	"gold":    "golden",
	"golden":  "gold",
	"königs":  "royal",
	"royal":   "königs",
	"kraft":   "power",
	"power":   "kraft",
	"licht":   "light",
	"light":   "licht",
	"wasser":  "water",
	"water":   "wasser",
	"feuer":   "fire",
	"fire":    "feuer",
	"erde":    "earth",
	"earth":   "erde",
	"luft":    "air",
	"air":     "luft",
	"schnell": "fast",
	"fast":    "schnell",
	"tech":    "technik",
	"technik": "tech",
	"lab":     "labor",
	"labor":   "lab",
}
