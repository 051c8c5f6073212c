// Package jurisdiction maps target countries onto the registry offices that
// must be searched, and back from office codes to display names.  The rules
// are table-driven so they stay auditable in isolation from the rest of the
// engine.
package jurisdiction

import (
	"fmt"
	"sort"
	"strings"

	"github.com/accelari/trademarkiq2-sub002/pkg/types/trademark"
)

// ─────────────────────────────────────────────────────────────────────────────
// Office
// ─────────────────────────────────────────────────────────────────────────────

// Office identifies one registry that a detection run must query.
type Office struct {
	// Code is the office code sent to the provider ("DE", "EU", "WO", …).
	Code string `json:"code"`

	// Name is the customary short name of the office.
	Name string `json:"name"`

	// Type classifies the office as national, regional, or the WIPO
	// international register.
	Type trademark.OfficeType `json:"type"`

	// Designation is the code used when filtering WIPO hits for this
	// jurisdiction.  For Benelux members this is "BX" and for OAPI members
	// "OA": the international register records the union, not the member
	// state, as the designation target.  Empty for non-WIPO offices.
	Designation string `json:"designation,omitempty"`

	// Reason explains why this office is part of the strategy.
	Reason string `json:"reason"`
}

// Map resolves countries to office strategies.  It is immutable after
// construction and safe for concurrent use.
type Map struct{}

// NewMap returns the jurisdiction map.
func NewMap() *Map {
	return &Map{}
}

// ─────────────────────────────────────────────────────────────────────────────
// Country → offices
// ─────────────────────────────────────────────────────────────────────────────

// OfficesForCountry returns the ordered office strategy for one target
// country: national office first when the provider covers it directly, then
// WIPO when the country (or its union) is a Madrid member, then EUIPO when
// the country is an EU member.  The order reflects query priority.
//
// Unknown codes yield a single synthetic national office echoing the input
// uppercased.  Resolution fails open: absence of coverage data must not
// silently skip a jurisdiction.
func (m *Map) OfficesForCountry(countryCode string) []Office {
	code := strings.ToUpper(strings.TrimSpace(countryCode))
	if code == "" {
		return nil
	}

	var offices []Office

	if directNationalRegisters[code] {
		offices = append(offices, Office{
			Code:   code,
			Name:   OfficeName(code),
			Type:   trademark.OfficeNational,
			Reason: fmt.Sprintf("direct search in national office %s", OfficeName(code)),
		})
	}
	if code == "EU" || code == "EM" {
		// The caller targeted the EU as a whole.
		return append(offices, Office{
			Code:   "EU",
			Name:   OfficeName("EU"),
			Type:   trademark.OfficeRegional,
			Reason: "EU-wide marks registered at EUIPO",
		})
	}

	if beneluxMembers[code] {
		offices = append(offices, Office{
			Code:   "BX",
			Name:   OfficeName("BX"),
			Type:   trademark.OfficeRegional,
			Reason: fmt.Sprintf("%s is a Benelux member, marks are registered at BOIP", code),
		})
	}

	if designation, member := wipoDesignation(code); member {
		reason := fmt.Sprintf("%s is a Madrid member, searching WIPO marks designating %s", code, designation)
		if designation != code {
			reason = fmt.Sprintf("%s is covered through the %s union designation at WIPO", code, designation)
		}
		offices = append(offices, Office{
			Code:        "WO",
			Name:        OfficeName("WO"),
			Type:        trademark.OfficeWIPO,
			Designation: designation,
			Reason:      reason,
		})
	}

	if euMembers[code] {
		offices = append(offices, Office{
			Code:   "EU",
			Name:   OfficeName("EU"),
			Type:   trademark.OfficeRegional,
			Reason: fmt.Sprintf("%s is an EU member, EU-wide marks apply", code),
		})
	}

	if oapiMembers[code] {
		offices = append(offices, Office{
			Code:   "OA",
			Name:   OfficeName("OA"),
			Type:   trademark.OfficeRegional,
			Reason: fmt.Sprintf("%s is an OAPI member, the union registers marks for it", code),
		})
	}

	if len(offices) == 0 {
		offices = append(offices, Office{
			Code:   code,
			Name:   OfficeName(code),
			Type:   trademark.OfficeNational,
			Reason: fmt.Sprintf("no coverage data for %s, querying it as a national office", code),
		})
	}
	return offices
}

// wipoDesignation returns the designation code used at WIPO for the given
// country and whether the country is reachable through the Madrid system.
func wipoDesignation(code string) (string, bool) {
	switch {
	case beneluxMembers[code]:
		return "BX", true
	case oapiMembers[code]:
		return "OA", true
	case wipoMembers[code]:
		return code, true
	default:
		return "", false
	}
}

// WIPODesignation exposes the designation used when filtering WIPO hits for
// the given country; it returns the country code itself when no union applies.
func (m *Map) WIPODesignation(countryCode string) string {
	code := strings.ToUpper(strings.TrimSpace(countryCode))
	if designation, ok := wipoDesignation(code); ok {
		return designation
	}
	return code
}

// ─────────────────────────────────────────────────────────────────────────────
// Names and normalization
// ─────────────────────────────────────────────────────────────────────────────

// OfficeName returns the display name for an office code, falling back to the
// code itself.
func OfficeName(officeCode string) string {
	code := strings.ToUpper(strings.TrimSpace(officeCode))
	if name, ok := officeNames[code]; ok {
		return name
	}
	return code
}

// NormalizeCountry maps a free-text country name or code onto the office code
// the provider understands.  Unrecognized input is returned uppercased.
func NormalizeCountry(input string) string {
	normalized := strings.ToUpper(strings.TrimSpace(input))
	if code, ok := countryAliases[normalized]; ok {
		return code
	}
	return normalized
}

// NormalizeCountries maps NormalizeCountry over a list, preserving order and
// dropping duplicates and empty entries.
func NormalizeCountries(inputs []string) []string {
	seen := make(map[string]bool, len(inputs))
	out := make([]string, 0, len(inputs))
	for _, input := range inputs {
		code := NormalizeCountry(input)
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, code)
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Membership queries
// ─────────────────────────────────────────────────────────────────────────────

// IsEUMember reports whether the country is an EU member state.
func IsEUMember(countryCode string) bool {
	return euMembers[strings.ToUpper(strings.TrimSpace(countryCode))]
}

// IsRegionalRegister reports whether the office code denotes a regional
// system that covers multiple countries.
func IsRegionalRegister(officeCode string) bool {
	_, ok := regionalRegisters[strings.ToUpper(strings.TrimSpace(officeCode))]
	return ok
}

// RegisterCountries returns the member states of a regional register, or nil
// for national and unknown codes.
func RegisterCountries(officeCode string) []string {
	return regionalRegisters[strings.ToUpper(strings.TrimSpace(officeCode))]
}

// HasDirectNationalRegister reports whether the provider covers the country's
// national office directly.
func HasDirectNationalRegister(countryCode string) bool {
	return directNationalRegisters[strings.ToUpper(strings.TrimSpace(countryCode))]
}

// ─────────────────────────────────────────────────────────────────────────────
// Relevant countries
// ─────────────────────────────────────────────────────────────────────────────

// RelevantCountries computes which of the searched countries a hit actually
// touches, given the hit's register and its designation/protection list.
// Regional codes found in either position expand to their member states
// before intersecting.
func RelevantCountries(register string, protection []string, searched []string) []string {
	relevant := make(map[string]bool)
	registerUpper := strings.ToUpper(strings.TrimSpace(register))

	searchedSet := make(map[string]bool, len(searched))
	for _, c := range searched {
		searchedSet[strings.ToUpper(strings.TrimSpace(c))] = true
	}

	if members, ok := regionalRegisters[registerUpper]; ok {
		for _, c := range members {
			if searchedSet[c] {
				relevant[c] = true
			}
		}
	} else if len(registerUpper) == 2 && registerUpper != "WO" {
		// National register: the register code is the country.
		if searchedSet[registerUpper] {
			relevant[registerUpper] = true
		}
	}

	for _, p := range protection {
		code := strings.ToUpper(strings.TrimSpace(p))
		if searchedSet[code] {
			relevant[code] = true
		}
		// A regional code in the protection list (BX, OA, EU) covers each
		// of its member states.
		for _, member := range regionalRegisters[code] {
			if searchedSet[member] {
				relevant[member] = true
			}
		}
	}

	out := make([]string, 0, len(relevant))
	for c := range relevant {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Coverage warnings
// ─────────────────────────────────────────────────────────────────────────────

// CoverageWarnings reports, for each searched country without a directly
// searchable national register, a warning advising a manual check of the
// national office.  The warning is suppressed for countries where conflicts
// were found: coverage through EUIPO/WIPO evidently sufficed, and warning
// anyway would contradict a populated result.
func CoverageWarnings(searched []string, conflictsByCountry map[string]int) []trademark.CoverageWarning {
	var warnings []trademark.CoverageWarning
	for _, raw := range searched {
		code := strings.ToUpper(strings.TrimSpace(raw))
		if code == "" || HasDirectNationalRegister(code) || IsRegionalRegister(code) || code == "WO" {
			continue
		}
		if conflictsByCountry[code] > 0 {
			continue
		}
		warnings = append(warnings, trademark.CoverageWarning{
			Country: code,
			Message: fmt.Sprintf(
				"coverage for %s came only via EUIPO/WIPO, a manual check of the national office (%s) is advisable",
				code, OfficeName(code)),
		})
	}
	return warnings
}
