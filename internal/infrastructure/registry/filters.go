package registry

import (
	"github.com/accelari/trademarkiq2-sub002/internal/domain/jurisdiction"
	"github.com/accelari/trademarkiq2-sub002/pkg/types/trademark"
)

// StatusAll disables status filtering.
const StatusAll = "all"

// Filters narrows one raw provider result client-side.  The provider's
// search endpoint takes only a keyword, so status, class, office and accuracy
// constraints all apply here.
type Filters struct {
	// Status keeps only hits with this normalized status.  Empty or
	// StatusAll keeps everything.
	Status string

	// Classes keeps hits sharing at least one Nice class with the set.
	// Empty keeps everything.
	Classes []int

	// Offices keeps hits registered at one of the listed offices, plus two
	// umbrella expansions: EUIPO marks count for every EU member country,
	// and WIPO marks count for any office they designate.
	Offices []string

	// Countries keeps hits whose designation list intersects the set.
	Countries []string

	// MinAccuracy drops hits the provider scored below this value.
	MinAccuracy int
}

// Apply runs all configured filters over hits and returns the surviving hits
// together with the number removed.
func (f Filters) Apply(hits []trademark.RawRegistryHit) ([]trademark.RawRegistryHit, int) {
	kept := make([]trademark.RawRegistryHit, 0, len(hits))
	for _, hit := range hits {
		if f.keep(hit) {
			kept = append(kept, hit)
		}
	}
	return kept, len(hits) - len(kept)
}

func (f Filters) keep(hit trademark.RawRegistryHit) bool {
	if f.Status != "" && f.Status != StatusAll && string(hit.Status) != f.Status {
		return false
	}
	if len(f.Classes) > 0 && !intersectsInt(hit.NiceClasses, f.Classes) {
		return false
	}
	if len(f.Offices) > 0 && !f.matchesOffice(hit) {
		return false
	}
	if len(f.Countries) > 0 && !intersectsString(hit.DesignationCodes, f.Countries) {
		return false
	}
	if f.MinAccuracy > 0 && hit.Accuracy < f.MinAccuracy {
		return false
	}
	return true
}

// matchesOffice implements the office filter with its two umbrella rules.
//
// An EUIPO registration protects every EU member state, so when any selected
// office is an EU country the hit is retained even though "EU" itself was
// never selected.  A WIPO international registration protects exactly the
// offices it designates, so a WO hit is retained when its designation list
// reaches any selected office, including via an "EU" designation when an EU
// country was selected.
func (f Filters) matchesOffice(hit trademark.RawRegistryHit) bool {
	selected := make(map[string]bool, len(f.Offices))
	hasEUCountry := false
	for _, o := range f.Offices {
		selected[o] = true
		if jurisdiction.IsEUMember(o) {
			hasEUCountry = true
		}
	}

	if selected[hit.Office] {
		return true
	}

	if hit.Office == "EU" && hasEUCountry && !selected["EU"] {
		return true
	}

	if hit.Office == "WO" && len(hit.DesignationCodes) > 0 {
		for _, code := range hit.DesignationCodes {
			if selected[code] {
				return true
			}
			if code == "EU" && hasEUCountry {
				return true
			}
			// A designation of a regional register reaches each of its
			// member countries.  BX covers Benelux, OA the OAPI states.
			if jurisdiction.IsRegionalRegister(code) {
				for _, member := range jurisdiction.RegisterCountries(code) {
					if selected[member] {
						return true
					}
				}
			}
		}
	}

	return false
}

func intersectsInt(haystack, needles []int) bool {
	for _, h := range haystack {
		for _, n := range needles {
			if h == n {
				return true
			}
		}
	}
	return false
}

func intersectsString(haystack, needles []string) bool {
	for _, h := range haystack {
		for _, n := range needles {
			if h == n {
				return true
			}
		}
	}
	return false
}
