package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accelari/trademarkiq2-sub002/pkg/types/trademark"
)

func hit(id, office string, designations []string, status trademark.MarkStatus, classes []int, accuracy int) trademark.RawRegistryHit {
	return trademark.RawRegistryHit{
		RegistryID:       id,
		Name:             id,
		Status:           status,
		NiceClasses:      classes,
		Office:           office,
		DesignationCodes: designations,
		Accuracy:         accuracy,
	}
}

func TestFiltersEmptyKeepsEverything(t *testing.T) {
	hits := []trademark.RawRegistryHit{
		hit("tm-1", "DE", []string{"DE"}, trademark.StatusActive, []int{5}, 90),
		hit("tm-2", "US", []string{"US"}, trademark.StatusExpired, []int{9}, 10),
	}
	kept, dropped := Filters{}.Apply(hits)
	assert.Len(t, kept, 2)
	assert.Zero(t, dropped)
}

func TestFiltersStatus(t *testing.T) {
	hits := []trademark.RawRegistryHit{
		hit("tm-1", "DE", nil, trademark.StatusActive, nil, 90),
		hit("tm-2", "DE", nil, trademark.StatusExpired, nil, 90),
		hit("tm-3", "DE", nil, trademark.StatusUnknown, nil, 90),
	}

	kept, _ := Filters{Status: string(trademark.StatusActive)}.Apply(hits)
	require.Len(t, kept, 1)
	assert.Equal(t, "tm-1", kept[0].RegistryID)

	kept, dropped := Filters{Status: StatusAll}.Apply(hits)
	assert.Len(t, kept, 3)
	assert.Zero(t, dropped)
}

func TestFiltersClassIntersection(t *testing.T) {
	hits := []trademark.RawRegistryHit{
		hit("tm-1", "DE", nil, trademark.StatusActive, []int{5, 10}, 90),
		hit("tm-2", "DE", nil, trademark.StatusActive, []int{9}, 90),
		hit("tm-3", "DE", nil, trademark.StatusActive, nil, 90),
	}
	kept, _ := Filters{Classes: []int{10, 42}}.Apply(hits)
	require.Len(t, kept, 1)
	assert.Equal(t, "tm-1", kept[0].RegistryID)
}

func TestFiltersOfficeDirectMatch(t *testing.T) {
	hits := []trademark.RawRegistryHit{
		hit("tm-1", "DE", []string{"DE"}, trademark.StatusActive, nil, 90),
		hit("tm-2", "US", []string{"US"}, trademark.StatusActive, nil, 90),
	}
	kept, _ := Filters{Offices: []string{"DE"}}.Apply(hits)
	require.Len(t, kept, 1)
	assert.Equal(t, "tm-1", kept[0].RegistryID)
}

func TestFiltersEUUmbrella(t *testing.T) {
	euHit := hit("tm-eu", "EU", []string{"EU"}, trademark.StatusActive, nil, 90)

	// Searching a German office pulls in EUIPO marks: an EU registration
	// protects Germany even though "EU" itself was never selected.
	kept, _ := Filters{Offices: []string{"DE"}}.Apply([]trademark.RawRegistryHit{euHit})
	require.Len(t, kept, 1)
	assert.Equal(t, "tm-eu", kept[0].RegistryID)

	// A non-EU office selection does not.
	kept, _ = Filters{Offices: []string{"CH"}}.Apply([]trademark.RawRegistryHit{euHit})
	assert.Empty(t, kept)

	// Selecting "EU" directly matches without the umbrella.
	kept, _ = Filters{Offices: []string{"EU"}}.Apply([]trademark.RawRegistryHit{euHit})
	assert.Len(t, kept, 1)
}

func TestFiltersWIPODesignation(t *testing.T) {
	woDE := hit("tm-wo-de", "WO", []string{"DE", "CH"}, trademark.StatusActive, nil, 90)
	woEU := hit("tm-wo-eu", "WO", []string{"EU"}, trademark.StatusActive, nil, 90)
	woUS := hit("tm-wo-us", "WO", []string{"US"}, trademark.StatusActive, nil, 90)
	all := []trademark.RawRegistryHit{woDE, woEU, woUS}

	// A WIPO mark counts for any selected office it designates.
	kept, _ := Filters{Offices: []string{"CH"}}.Apply(all)
	require.Len(t, kept, 1)
	assert.Equal(t, "tm-wo-de", kept[0].RegistryID)

	// A WIPO mark designating "EU" counts when an EU country is selected.
	kept, _ = Filters{Offices: []string{"FR"}}.Apply(all)
	require.Len(t, kept, 1)
	assert.Equal(t, "tm-wo-eu", kept[0].RegistryID)

	// Neither rule reaches a mark designating only the US.
	kept, _ = Filters{Offices: []string{"GB"}}.Apply(all)
	assert.Empty(t, kept)
}

func TestFiltersWIPORegionalDesignation(t *testing.T) {
	woBX := hit("tm-wo-bx", "WO", []string{"BX"}, trademark.StatusActive, nil, 90)

	// A BX designation protects each Benelux member individually.
	for _, office := range []string{"BE", "NL", "LU"} {
		kept, _ := Filters{Offices: []string{office}}.Apply([]trademark.RawRegistryHit{woBX})
		assert.Len(t, kept, 1, "office %s should reach a BX designation", office)
	}

	// France is not Benelux; the designation does not reach it.  The EU
	// umbrella does not apply either, since the mark designates BX, not EU.
	kept, _ := Filters{Offices: []string{"FR"}}.Apply([]trademark.RawRegistryHit{woBX})
	assert.Empty(t, kept)
}

func TestFiltersCountryDesignation(t *testing.T) {
	hits := []trademark.RawRegistryHit{
		hit("tm-1", "WO", []string{"DE", "AT"}, trademark.StatusActive, nil, 90),
		hit("tm-2", "WO", []string{"CH"}, trademark.StatusActive, nil, 90),
	}
	kept, _ := Filters{Countries: []string{"AT"}}.Apply(hits)
	require.Len(t, kept, 1)
	assert.Equal(t, "tm-1", kept[0].RegistryID)
}

func TestFiltersMinAccuracy(t *testing.T) {
	hits := []trademark.RawRegistryHit{
		hit("tm-1", "DE", nil, trademark.StatusActive, nil, 80),
		hit("tm-2", "DE", nil, trademark.StatusActive, nil, 79),
	}
	kept, dropped := Filters{MinAccuracy: 80}.Apply(hits)
	require.Len(t, kept, 1)
	assert.Equal(t, "tm-1", kept[0].RegistryID)
	assert.Equal(t, 1, dropped)
}

func TestFiltersCombined(t *testing.T) {
	hits := []trademark.RawRegistryHit{
		hit("tm-keep", "DE", []string{"DE"}, trademark.StatusActive, []int{5}, 92),
		hit("tm-class", "DE", []string{"DE"}, trademark.StatusActive, []int{9}, 92),
		hit("tm-dead", "DE", []string{"DE"}, trademark.StatusExpired, []int{5}, 92),
		hit("tm-low", "DE", []string{"DE"}, trademark.StatusActive, []int{5}, 30),
	}
	kept, dropped := Filters{
		Status:      string(trademark.StatusActive),
		Classes:     []int{5},
		Offices:     []string{"DE"},
		MinAccuracy: 50,
	}.Apply(hits)
	require.Len(t, kept, 1)
	assert.Equal(t, "tm-keep", kept[0].RegistryID)
	assert.Equal(t, 3, dropped)
}
