package jurisdiction

import (
	"fmt"
	"strings"
)

// ─────────────────────────────────────────────────────────────────────────────
// Official register deep links
// ─────────────────────────────────────────────────────────────────────────────

// RegisterURLParams identifies a record in an official register.
type RegisterURLParams struct {
	Office             string
	ApplicationNumber  string
	RegistrationNumber string
}

// cleanNumber strips whitespace, hyphens and dots from register numbers.
func cleanNumber(num string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '-', '.':
			return -1
		}
		return r
	}, num)
}

// RegisterURL builds a deep link into the official register for the given
// record, or "" when the office has no known URL scheme.  Each office prefers
// a different number: DPMA and WIPO link by registration number, EUIPO and
// most others by application number.
func RegisterURL(params RegisterURLParams) string {
	office := strings.ToUpper(strings.TrimSpace(params.Office))
	appNum := cleanNumber(params.ApplicationNumber)
	regNum := cleanNumber(params.RegistrationNumber)

	switch office {
	case "DE":
		if regNum != "" {
			return fmt.Sprintf("https://register.dpma.de/DPMAregister/marke/register/%s", regNum)
		}
		if appNum != "" {
			return fmt.Sprintf("https://register.dpma.de/DPMAregister/marke/anmeldung/%s", appNum)
		}

	case "EU", "EM":
		if appNum != "" {
			// EUIPO expects the number without leading zeros.
			return fmt.Sprintf("https://euipo.europa.eu/eSearch/#details/trademarks/%s",
				strings.TrimLeft(appNum, "0"))
		}

	case "WO":
		if regNum != "" {
			return fmt.Sprintf("https://www3.wipo.int/madrid/monitor/en/showData.jsp?ID=%s", regNum)
		}

	case "US":
		if appNum != "" {
			return fmt.Sprintf("https://tsdr.uspto.gov/#caseNumber=%s&caseType=SERIAL_NO", appNum)
		}
		if regNum != "" {
			return fmt.Sprintf("https://tsdr.uspto.gov/#caseNumber=%s&caseType=US_REGISTRATION_NO", regNum)
		}

	case "GB", "UK":
		if appNum != "" {
			return fmt.Sprintf("https://trademarks.ipo.gov.uk/ipo-tmcase/page/Results/1/UK%s", appNum)
		}

	case "CH":
		if regNum != "" {
			return fmt.Sprintf("https://www.swissreg.ch/srclient/faces/jsp/trademark/sr30.jsp?language=de&section=tm&id=%s", regNum)
		}

	case "AT":
		if regNum != "" {
			return fmt.Sprintf("https://www.patentamt.at/marken/markenregister/?tx_marcua_marcua%%5Baction%%5D=detail&tx_marcua_marcua%%5Bcontroller%%5D=Default&tx_marcua_marcua%%5Bid%%5D=%s", regNum)
		}

	case "FR":
		if appNum != "" {
			return fmt.Sprintf("https://data.inpi.fr/marques/%s", appNum)
		}

	case "ES":
		if appNum != "" {
			return fmt.Sprintf("https://consultas2.oepm.es/LocalizadorWeb/BusquedaMarcas?numSolicitud=%s", appNum)
		}
	}

	return ""
}

// RegisterDisplayName returns the human name of the official register behind
// RegisterURL links.
func RegisterDisplayName(office string) string {
	names := map[string]string{
		"DE": "DPMA Register",
		"EU": "EUIPO eSearch",
		"EM": "EUIPO eSearch",
		"WO": "WIPO Madrid Monitor",
		"US": "USPTO TSDR",
		"GB": "UKIPO",
		"UK": "UKIPO",
		"CH": "Swissreg",
		"AT": "Österr. Patentamt",
		"FR": "INPI",
		"ES": "OEPM",
	}
	if name, ok := names[strings.ToUpper(strings.TrimSpace(office))]; ok {
		return name
	}
	return "Register"
}
