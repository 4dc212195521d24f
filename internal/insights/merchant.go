package insights

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// processor and card-network prefixes banks put ahead of the merchant
var merchantPrefixes = []string{
	"DEBIT CARD PURCHASE ",
	"RECURRING PAYMENT ",
	"ONLINE PAYMENT ",
	"POS PURCHASE ",
	"POS DEBIT ",
	"CHECKCARD ",
	"PURCHASE ",
	"PAYPAL *",
	"PAYPAL ",
	"SQ *",
	"TST* ",
	"TST*",
	"SP * ",
	"SP *",
	"POS ",
	"ACH ",
	"DBT ",
}

var (
	storeNumber = regexp.MustCompile(`\s*#\s*\d+`)
	longNumber  = regexp.MustCompile(`(?:\bX{2,}|\*{2,})?\d{3,}\b`)
	dateToken   = regexp.MustCompile(`\b\d{1,2}/\d{1,2}(/\d{2,4})?\b`)
)

// ExtractMerchant reduces a bank description to a merchant name: known
// prefixes, store numbers, card fragments and dates are removed, anything
// after " - " is dropped, and the rest is title cased.
func ExtractMerchant(desc string) string {
	s := strings.ToUpper(strings.TrimSpace(desc))
	if i := strings.Index(s, " - "); i > 0 {
		s = s[:i]
	}
	for stripped := true; stripped; {
		stripped = false
		for _, p := range merchantPrefixes {
			if strings.HasPrefix(s, p) {
				s = strings.TrimSpace(s[len(p):])
				stripped = true
			}
		}
	}
	s = storeNumber.ReplaceAllString(s, "")
	s = dateToken.ReplaceAllString(s, "")
	s = longNumber.ReplaceAllString(s, "")
	s = strings.Trim(strings.Join(strings.Fields(s), " "), " *-#")
	if s == "" {
		return "Unknown"
	}
	return cases.Title(language.English).String(strings.ToLower(s))
}
