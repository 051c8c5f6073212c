package conflict

import "strings"

// famousMarks are marks with a reputation broad enough that dilution claims
// reach across class boundaries.  A hit matching one of these is flagged so
// the caller can surface it regardless of class overlap.
var famousMarks = []string{
	"ADIDAS", "NIKE", "APPLE", "GOOGLE", "MICROSOFT", "AMAZON", "FACEBOOK", "META",
	"COCA-COLA", "COCA COLA", "PEPSI", "MCDONALD'S", "MCDONALDS", "STARBUCKS",
	"MERCEDES", "MERCEDES-BENZ", "BMW", "AUDI", "PORSCHE", "VOLKSWAGEN", "VW",
	"SAMSUNG", "SONY", "LG", "HUAWEI", "XIAOMI",
	"LOUIS VUITTON", "GUCCI", "PRADA", "CHANEL", "HERMES", "ROLEX",
	"DISNEY", "WARNER", "NETFLIX", "SPOTIFY",
	"VISA", "MASTERCARD", "PAYPAL",
	"INTEL", "AMD", "NVIDIA",
	"TOYOTA", "HONDA", "FORD", "TESLA",
	"IKEA", "ZARA", "H&M",
}

// IsFamousMark reports whether name matches a well-known mark, either as a
// whole word within the name or as the entire name once punctuation is
// stripped.
func IsFamousMark(name string) bool {
	upper := strings.ToUpper(strings.TrimSpace(name))
	if upper == "" {
		return false
	}
	cleaned := stripNonAlpha(upper)

	for _, famous := range famousMarks {
		if cleaned == stripNonAlpha(famous) {
			return true
		}
		if containsWord(upper, famous) {
			return true
		}
	}
	return false
}

// containsWord reports whether word appears in s bounded by non-letters, so
// "NIKE STORE" matches NIKE but "MONIKER" does not.
func containsWord(s, word string) bool {
	for start := 0; ; {
		idx := strings.Index(s[start:], word)
		if idx < 0 {
			return false
		}
		idx += start
		end := idx + len(word)
		beforeOK := idx == 0 || !isLetter(s[idx-1])
		afterOK := end == len(s) || !isLetter(s[end])
		if beforeOK && afterOK {
			return true
		}
		start = idx + 1
	}
}

func stripNonAlpha(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if isLetter(s[i]) || s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func isLetter(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z'
}
