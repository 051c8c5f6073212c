package jurisdiction

import "sort"

// Static membership and naming tables.  Everything here is data; the rules
// that interpret it live in jurisdiction.go.  The tables are loaded once and
// never mutated at runtime.

// ─────────────────────────────────────────────────────────────────────────────
// Office display names
// ─────────────────────────────────────────────────────────────────────────────

// officeNames maps an office code to its customary short name.
var officeNames = map[string]string{
	"WO": "WIPO",
	"EU": "EUIPO",
	"EM": "EUIPO",
	"BX": "BOIP",
	"OA": "OAPI",
	"AP": "ARIPO",
	"DE": "DPMA",
	"US": "USPTO",
	"UK": "UKIPO",
	"GB": "UKIPO",
	"FR": "INPI",
	"ES": "OEPM",
	"IT": "UIBM",
	"CH": "IGE",
	"AT": "ÖPA",
	"TR": "TÜRKPATENT",
	"CN": "CNIPA",
	"JP": "JPO",
	"KR": "KIPO",
	"AU": "IP Australia",
	"CA": "CIPO",
	"BR": "INPI",
	"RU": "ROSPATENT",
	"IN": "CGPDTM",
}

// ─────────────────────────────────────────────────────────────────────────────
// Union and treaty membership
// ─────────────────────────────────────────────────────────────────────────────

var euMembers = stringSet(
	"AT", "BE", "BG", "HR", "CY", "CZ", "DK", "EE", "FI", "FR",
	"DE", "GR", "HU", "IE", "IT", "LV", "LT", "LU", "MT", "NL",
	"PL", "PT", "RO", "SK", "SI", "ES", "SE",
)

var beneluxMembers = stringSet("BE", "NL", "LU")

// OAPI member states.  Members have no separate national trademark register;
// the union registers for all of them.
var oapiMembers = stringSet(
	"BF", "BJ", "CF", "CG", "CI", "CM", "GA", "GN", "GQ", "GW",
	"KM", "ML", "MR", "NE", "SN", "TD", "TG",
)

var aripoMembers = stringSet(
	"BW", "GM", "GH", "KE", "LS", "LR", "MW", "MZ", "NA", "RW",
	"ST", "SL", "SO", "SD", "SZ", "TZ", "UG", "ZM", "ZW",
)

// wipoMembers lists Madrid Protocol contracting parties.
var wipoMembers = stringSet(
	"AL", "AM", "AT", "AU", "AZ", "BA", "BE", "BG", "BH", "BN", "BT", "BW", "BY", "CA",
	"CH", "CN", "CU", "CY", "CZ", "DE", "DK", "DZ", "EE", "EG", "ES", "FI", "FR", "GB",
	"GE", "GH", "GR", "HR", "HU", "ID", "IE", "IL", "IN", "IR", "IS", "IT", "JP", "KE",
	"KG", "KH", "KP", "KR", "KZ", "LA", "LI", "LR", "LS", "LT", "LU", "LV", "MA", "MC",
	"MD", "ME", "MG", "MK", "MN", "MO", "MW", "MX", "MY", "MZ", "NA", "NL", "NO", "NZ",
	"OM", "PH", "PL", "PT", "RO", "RS", "RU", "RW", "SD", "SE", "SG", "SI", "SK", "SL",
	"SM", "ST", "SY", "SZ", "TH", "TJ", "TM", "TN", "TR", "UA", "US", "UZ", "VN", "ZM", "ZW",
)

// directNationalRegisters lists countries whose national office the search
// provider covers directly.  Searches targeting any other country reach it
// only through EUIPO or WIPO, which is what the coverage warning is about.
var directNationalRegisters = stringSet(
	"DE", "AT", "FR", "ES", "IT", "US", "GB", "CH", "TR",
)

// regionalRegisters expands a regional office code into its member states.
var regionalRegisters = map[string][]string{
	"EU": setToSorted(euMembers),
	"EM": setToSorted(euMembers),
	"BX": setToSorted(beneluxMembers),
	"OA": setToSorted(oapiMembers),
	"AP": setToSorted(aripoMembers),
}

// ─────────────────────────────────────────────────────────────────────────────
// Free-text country normalization
// ─────────────────────────────────────────────────────────────────────────────

// countryAliases maps common country names and spellings (German and English)
// to the office code used by the provider.
var countryAliases = map[string]string{
	"USA": "US", "UNITED STATES": "US", "VEREINIGTE STAATEN": "US",
	"AMERIKA": "US", "UNITED STATES OF AMERICA": "US",
	"DEUTSCHLAND": "DE", "GERMANY": "DE", "BRD": "DE",
	"EUROPA": "EU", "EM": "EU", "EUROPEAN UNION": "EU",
	"EUROPÄISCHE UNION": "EU", "EUIPO": "EU",
	"UK": "GB", "UNITED KINGDOM": "GB", "GROSSBRITANNIEN": "GB",
	"ENGLAND": "GB", "GREAT BRITAIN": "GB",
	"SCHWEIZ": "CH", "SWITZERLAND": "CH", "SUISSE": "CH",
	"ÖSTERREICH": "AT", "AUSTRIA": "AT",
	"FRANKREICH": "FR", "FRANCE": "FR",
	"ITALIEN": "IT", "ITALY": "IT", "ITALIA": "IT",
	"SPANIEN": "ES", "SPAIN": "ES", "ESPAÑA": "ES",
	"NIEDERLANDE": "NL", "NETHERLANDS": "NL", "HOLLAND": "NL",
	"BELGIEN": "BE", "BELGIUM": "BE",
	"CHINA": "CN", "JAPAN": "JP", "KOREA": "KR", "SÜDKOREA": "KR", "SOUTH KOREA": "KR",
	"INDIEN": "IN", "INDIA": "IN", "BRASILIEN": "BR", "BRAZIL": "BR",
	"KANADA": "CA", "CANADA": "CA", "AUSTRALIEN": "AU", "AUSTRALIA": "AU",
	"WIPO": "WO", "INTERNATIONAL": "WO", "WELTWEIT": "WO",
	"PORTUGAL": "PT", "POLEN": "PL", "POLAND": "PL",
	"GRIECHENLAND": "GR", "GREECE": "GR",
	"IRLAND": "IE", "IRELAND": "IE", "DÄNEMARK": "DK", "DENMARK": "DK",
	"SCHWEDEN": "SE", "SWEDEN": "SE", "FINNLAND": "FI", "FINLAND": "FI",
	"NORWEGEN": "NO", "NORWAY": "NO", "TSCHECHIEN": "CZ", "CZECH REPUBLIC": "CZ",
	"UNGARN": "HU", "HUNGARY": "HU", "RUMÄNIEN": "RO", "ROMANIA": "RO",
	"BULGARIEN": "BG", "BULGARIA": "BG", "KROATIEN": "HR", "CROATIA": "HR",
	"TÜRKEI": "TR", "TURKEY": "TR", "RUSSLAND": "RU", "RUSSIA": "RU",
	"MEXIKO": "MX", "MEXICO": "MX", "ARGENTINIEN": "AR", "ARGENTINA": "AR",
	"SINGAPUR": "SG", "SINGAPORE": "SG", "HONGKONG": "HK", "HONG KONG": "HK",
	"TAIWAN": "TW", "THAILAND": "TH", "VIETNAM": "VN",
	"INDONESIEN": "ID", "INDONESIA": "ID",
	"MALAYSIA": "MY", "PHILIPPINEN": "PH", "PHILIPPINES": "PH",
	"SÜDAFRIKA": "ZA", "SOUTH AFRICA": "ZA", "ÄGYPTEN": "EG", "EGYPT": "EG",
	"ISRAEL": "IL", "SAUDI-ARABIEN": "SA", "SAUDI ARABIA": "SA",
	"VEREINIGTE ARABISCHE EMIRATE": "AE", "UAE": "AE", "UNITED ARAB EMIRATES": "AE",
}

// ─────────────────────────────────────────────────────────────────────────────
// Set helpers
// ─────────────────────────────────────────────────────────────────────────────

func stringSet(items ...string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}

func setToSorted(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for item := range set {
		out = append(out, item)
	}
	sort.Strings(out)
	return out
}
