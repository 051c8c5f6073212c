// Package trademark defines the shared value types of the collision-detection
// engine: search variants, registry hits, scored conflicts, and the enums they
// carry.  Business logic lives in the domain packages; this package holds only
// data shapes and the pure classification helpers every layer must agree on.
package trademark

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Enums
// ─────────────────────────────────────────────────────────────────────────────

// MarkStatus is the lifecycle state of a registered mark, normalized from the
// provider's LIVE/DEAD/UNKN codes at the transport boundary.
type MarkStatus string

const (
	StatusActive  MarkStatus = "active"
	StatusExpired MarkStatus = "expired"
	StatusUnknown MarkStatus = "unknown"
)

// IsValid reports whether s is a known status.
func (s MarkStatus) IsValid() bool {
	switch s {
	case StatusActive, StatusExpired, StatusUnknown:
		return true
	default:
		return false
	}
}

// VariantKind classifies how a search term was derived from the candidate.
type VariantKind string

const (
	VariantExact       VariantKind = "exact"
	VariantPhonetic    VariantKind = "phonetic"
	VariantVisual      VariantKind = "visual"
	VariantConceptual  VariantKind = "conceptual"
	VariantRoot        VariantKind = "root"
	VariantMisspelling VariantKind = "misspelling"
)

// IsValid reports whether k is a known variant kind.
func (k VariantKind) IsValid() bool {
	switch k {
	case VariantExact, VariantPhonetic, VariantVisual, VariantConceptual, VariantRoot, VariantMisspelling:
		return true
	default:
		return false
	}
}

// OfficeType classifies a registry office.
type OfficeType string

const (
	OfficeNational OfficeType = "national"
	OfficeRegional OfficeType = "regional"
	OfficeWIPO     OfficeType = "wipo"
)

// RiskLevel buckets a conflict by its combined similarity score.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "high"
	RiskMedium RiskLevel = "medium"
	RiskLow    RiskLevel = "low"
)

// RiskLevelForScore maps a combined score onto a risk bucket.  Every layer
// that derives a risk level must go through this function; the boundaries are
// an invariant of the scoring contract, not a per-caller choice.
func RiskLevelForScore(combined int) RiskLevel {
	switch {
	case combined >= 80:
		return RiskHigh
	case combined >= 60:
		return RiskMedium
	default:
		return RiskLow
	}
}

// GenerationMode selects the variant source for a detection run.
type GenerationMode string

const (
	// ModeFast is the rule-based deterministic generator.
	ModeFast GenerationMode = "fast"
	// ModeRich allows an external generative variant source; it degrades to
	// fast-mode output when no such source is configured.
	ModeRich GenerationMode = "rich"
)

// IsValid reports whether m is a known generation mode.
func (m GenerationMode) IsValid() bool {
	return m == ModeFast || m == ModeRich
}

// ─────────────────────────────────────────────────────────────────────────────
// Value types
// ─────────────────────────────────────────────────────────────────────────────

// SearchVariant is one derived search term.  A run produces an ordered,
// deduplicated list of these with the exact form always first.
type SearchVariant struct {
	Term      string      `json:"term"`
	Kind      VariantKind `json:"kind"`
	Rationale string      `json:"rationale"`
}

// RawRegistryHit is a single provider record for one office/term pair, already
// normalized out of the provider's wire format.
type RawRegistryHit struct {
	RegistryID         string     `json:"registry_id"`
	Name               string     `json:"name"`
	Status             MarkStatus `json:"status"`
	NiceClasses        []int      `json:"nice_classes"`
	Office             string     `json:"office"`
	DesignationCodes   []string   `json:"designation_codes"`
	Accuracy           int        `json:"accuracy"`
	ApplicationNumber  string     `json:"application_number,omitempty"`
	RegistrationNumber string     `json:"registration_number,omitempty"`
	ApplicationDate    *time.Time `json:"application_date,omitempty"`
	RegistrationDate   *time.Time `json:"registration_date,omitempty"`
	ExpiryDate         *time.Time `json:"expiry_date,omitempty"`
}

// AggregatedHit is a RawRegistryHit deduplicated across search terms.  There
// is exactly one AggregatedHit per distinct registry id within a run; it keeps
// the maximum provider accuracy seen and the terms that produced it.
type AggregatedHit struct {
	RawRegistryHit
	MatchedTerms []string `json:"matched_terms"`
}

// HolderDetail is the enriched record fetched for top-ranked hits only.
type HolderDetail struct {
	Holder        string `json:"holder,omitempty"`
	HolderCountry string `json:"holder_country,omitempty"`
	GoodsServices string `json:"goods_services,omitempty"`
}

// ScoredConflict is the engine's terminal output entity: an aggregated hit
// plus the engine's own similarity verdict.
type ScoredConflict struct {
	AggregatedHit
	PhoneticScore int       `json:"phonetic_score"`
	VisualScore   int       `json:"visual_score"`
	CombinedScore int       `json:"combined_score"`
	CoreWordMatch bool      `json:"core_word_match"`
	Explanation   string    `json:"explanation"`
	RiskLevel     RiskLevel `json:"risk_level"`

	// FamousMark flags a hit whose name matches a well-known mark, where
	// dilution claims reach beyond class boundaries.
	FamousMark bool `json:"famous_mark,omitempty"`

	// RelevantCountries is the intersection of the hit's territorial reach
	// with the countries the caller searched.
	RelevantCountries []string `json:"relevant_countries,omitempty"`

	// RegisterURL deep-links into the official register when one is known.
	RegisterURL string `json:"register_url,omitempty"`

	Detail *HolderDetail `json:"detail,omitempty"`
}

// CoverageWarning tells the caller that a searched country had no directly
// searchable national register and zero conflicts were found for it, so a
// manual check of the national office is advisable.
type CoverageWarning struct {
	Country string `json:"country"`
	Message string `json:"message"`
}
