// Package variant derives the search terms of a detection run from the
// candidate mark name: the exact form plus phonetic, visual, conceptual,
// root and misspelling variations.  Generation is rule-based and fully
// deterministic; there is no randomness, no clock and no network in this
// package, which is what makes the output cacheable by input fingerprint.
package variant

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/accelari/trademarkiq2-sub002/pkg/errors"
	"github.com/accelari/trademarkiq2-sub002/pkg/types/trademark"
)

// AlgorithmVersion is baked into every fingerprint so cached strategies
// self-invalidate when the rule tables change.
const AlgorithmVersion = "v2"

// DefaultMaxVariants bounds a run's term list when the caller passes no
// explicit limit.
const DefaultMaxVariants = 8

// Per-kind caps on the prioritized list.  The split guarantees every kind is
// represented within the default limit before any kind gets a second slot.
const (
	maxPhonetic    = 2
	maxVisual      = 2
	maxConceptual  = 1
	maxRoot        = 1
	maxMisspelling = 2
)

// Generator derives search variants.  It is stateless and safe for
// concurrent use.
type Generator struct{}

// NewGenerator returns the rule-based generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate returns the ordered, deduplicated variant list for the candidate
// name.  The first element is always the exact trimmed form; the remainder
// covers the other kinds as far as the name's letters allow and maxVariants
// permits.  Deduplication is case-insensitive and keeps the earliest entry.
func (g *Generator) Generate(candidateName string, maxVariants int) ([]trademark.SearchVariant, error) {
	term := strings.TrimSpace(candidateName)
	if term == "" {
		return nil, errors.New(errors.ErrCodeMarkNameEmpty, "candidate name is empty")
	}
	if maxVariants <= 0 {
		maxVariants = DefaultMaxVariants
	}

	variants := []trademark.SearchVariant{{
		Term:      term,
		Kind:      trademark.VariantExact,
		Rationale: "exact spelling",
	}}
	seen := map[string]bool{strings.ToLower(term): true}

	prioritized := make([]trademark.SearchVariant, 0, 16)
	prioritized = append(prioritized, capKind(phoneticVariants(term), maxPhonetic)...)
	prioritized = append(prioritized, capKind(visualVariants(term), maxVisual)...)
	prioritized = append(prioritized, capKind(conceptualVariants(term), maxConceptual)...)
	prioritized = append(prioritized, capKind(rootVariants(term), maxRoot)...)
	prioritized = append(prioritized, capKind(misspellingVariants(term), maxMisspelling)...)

	for _, v := range prioritized {
		if len(variants) >= maxVariants {
			break
		}
		key := strings.ToLower(v.Term)
		if seen[key] {
			continue
		}
		seen[key] = true
		variants = append(variants, v)
	}

	return variants, nil
}

func capKind(variants []trademark.SearchVariant, limit int) []trademark.SearchVariant {
	if len(variants) > limit {
		return variants[:limit]
	}
	return variants
}

// ─────────────────────────────────────────────────────────────────────────────
// Per-kind sub-generators
// ─────────────────────────────────────────────────────────────────────────────

func applyRules(term string, rules []rewriteRule, kind trademark.VariantKind, rationalePrefix string) []trademark.SearchVariant {
	var variants []trademark.SearchVariant
	seen := map[string]bool{strings.ToLower(term): true}

	for _, rule := range rules {
		if !rule.pattern.MatchString(term) {
			continue
		}
		rewritten := rule.pattern.ReplaceAllString(term, rule.replacement)
		key := strings.ToLower(rewritten)
		if seen[key] {
			continue
		}
		seen[key] = true
		variants = append(variants, trademark.SearchVariant{
			Term:      rewritten,
			Kind:      kind,
			Rationale: rationalePrefix + rule.rationale,
		})
	}
	return variants
}

func phoneticVariants(term string) []trademark.SearchVariant {
	variants := applyRules(term, germanPhoneticRules, trademark.VariantPhonetic, "German phonetics: ")
	english := applyRules(term, englishPhoneticRules, trademark.VariantPhonetic, "English phonetics: ")

	seen := make(map[string]bool, len(variants)+1)
	seen[strings.ToLower(term)] = true
	for _, v := range variants {
		seen[strings.ToLower(v.Term)] = true
	}
	for _, v := range english {
		if !seen[strings.ToLower(v.Term)] {
			seen[strings.ToLower(v.Term)] = true
			variants = append(variants, v)
		}
	}
	return variants
}

func visualVariants(term string) []trademark.SearchVariant {
	variants := applyRules(term, visualRules, trademark.VariantVisual, "visual similarity: ")

	seen := map[string]bool{strings.ToLower(term): true}
	for _, v := range variants {
		seen[strings.ToLower(v.Term)] = true
	}

	if noSpaces := strings.Join(strings.Fields(term), ""); !seen[strings.ToLower(noSpaces)] {
		seen[strings.ToLower(noSpaces)] = true
		variants = append(variants, trademark.SearchVariant{
			Term:      noSpaces,
			Kind:      trademark.VariantVisual,
			Rationale: "spaces removed",
		})
	}
	if hyphenated := strings.Join(strings.Fields(term), "-"); !seen[strings.ToLower(hyphenated)] {
		variants = append(variants, trademark.SearchVariant{
			Term:      hyphenated,
			Kind:      trademark.VariantVisual,
			Rationale: "hyphenated",
		})
	}
	return variants
}

// conceptualVariants substitutes same-meaning words from the translation
// table, so "Sonnenkraft" also searches as "sunkraft".  Only whole-word or
// prefix/suffix occurrences of table entries are rewritten.
func conceptualVariants(term string) []trademark.SearchVariant {
	var variants []trademark.SearchVariant
	lowered := strings.ToLower(term)
	seen := map[string]bool{lowered: true}

	// Longest concepts first, so "sonne" wins over "sonn" style overlaps.
	concepts := make([]string, 0, len(conceptualPairs))
	for concept := range conceptualPairs {
		concepts = append(concepts, concept)
	}
	sort.Slice(concepts, func(i, j int) bool {
		if len(concepts[i]) != len(concepts[j]) {
			return len(concepts[i]) > len(concepts[j])
		}
		return concepts[i] < concepts[j]
	})

	for _, concept := range concepts {
		if !strings.Contains(lowered, concept) {
			continue
		}
		counterpart := conceptualPairs[concept]
		rewritten := strings.ReplaceAll(lowered, concept, counterpart)
		if seen[rewritten] {
			continue
		}
		seen[rewritten] = true
		variants = append(variants, trademark.SearchVariant{
			Term:      rewritten,
			Kind:      trademark.VariantConceptual,
			Rationale: fmt.Sprintf("same meaning: %q ↔ %q", concept, counterpart),
		})
	}
	return variants
}

func rootVariants(term string) []trademark.SearchVariant {
	var variants []trademark.SearchVariant
	lowered := strings.ToLower(term)
	seen := map[string]bool{lowered: true}

	for _, prefix := range rootPrefixes {
		if strings.HasPrefix(lowered, prefix) && len(term) > len(prefix)+2 {
			root := term[len(prefix):]
			if !seen[strings.ToLower(root)] {
				seen[strings.ToLower(root)] = true
				variants = append(variants, trademark.SearchVariant{
					Term:      root,
					Kind:      trademark.VariantRoot,
					Rationale: fmt.Sprintf("stem without prefix %q", prefix),
				})
			}
		}
	}
	for _, suffix := range rootSuffixes {
		if strings.HasSuffix(lowered, suffix) && len(term) > len(suffix)+2 {
			root := term[:len(term)-len(suffix)]
			if !seen[strings.ToLower(root)] {
				seen[strings.ToLower(root)] = true
				variants = append(variants, trademark.SearchVariant{
					Term:      root,
					Kind:      trademark.VariantRoot,
					Rationale: fmt.Sprintf("stem without suffix %q", suffix),
				})
			}
		}
	}
	return variants
}

// misspellingVariants covers the typo space: a doubled letter, an omitted
// inner letter, and a transposed pair.
func misspellingVariants(term string) []trademark.SearchVariant {
	var variants []trademark.SearchVariant
	runes := []rune(term)
	seen := map[string]bool{strings.ToLower(term): true}

	add := func(t, rationale string) {
		key := strings.ToLower(t)
		if seen[key] {
			return
		}
		seen[key] = true
		variants = append(variants, trademark.SearchVariant{
			Term:      t,
			Kind:      trademark.VariantMisspelling,
			Rationale: rationale,
		})
	}

	for i := 0; i < len(runes); i++ {
		doubled := string(runes[:i]) + string(runes[i]) + string(runes[i:])
		add(doubled, fmt.Sprintf("letter %q doubled", string(runes[i])))
	}

	if len(runes) > 3 {
		for i := 1; i < len(runes)-1; i++ {
			omitted := string(runes[:i]) + string(runes[i+1:])
			add(omitted, fmt.Sprintf("letter %q omitted", string(runes[i])))
		}
	}

	for i := 0; i < len(runes)-1; i++ {
		swapped := string(runes[:i]) + string(runes[i+1]) + string(runes[i]) + string(runes[i+2:])
		add(swapped, fmt.Sprintf("letters %q transposed", string(runes[i:i+2])))
	}

	return variants
}

// ─────────────────────────────────────────────────────────────────────────────
// Fingerprint
// ─────────────────────────────────────────────────────────────────────────────

// Fingerprint derives the cache key of a variant strategy from its inputs.
// Classes and countries are sorted so argument order does not fragment the
// cache, and the algorithm version is included so stale entries die with a
// rule-table change.
func Fingerprint(candidateName string, niceClasses []int, countries []string, mode trademark.GenerationMode) string {
	classes := append([]int(nil), niceClasses...)
	sort.Ints(classes)
	classStrs := make([]string, len(classes))
	for i, c := range classes {
		classStrs[i] = strconv.Itoa(c)
	}

	countryList := make([]string, 0, len(countries))
	for _, c := range countries {
		countryList = append(countryList, strings.ToUpper(strings.TrimSpace(c)))
	}
	sort.Strings(countryList)

	payload := strings.Join([]string{
		strings.ToLower(strings.TrimSpace(candidateName)),
		strings.Join(classStrs, ","),
		strings.Join(countryList, ","),
		string(mode),
		AlgorithmVersion,
	}, "|")

	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}
