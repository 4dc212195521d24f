// Package normalize holds the leaf helpers shared by parsers and validators:
// lenient currency parsing, header synonym resolution and markup tag lookup.
package normalize

import (
	"strings"

	"github.com/shopspring/decimal"
)

// numericNoise is stripped before parsing: currency symbols, thousands
// separators, parentheses and whitespace.
var numericNoise = strings.NewReplacer(
	"$", "", "€", "", "£", "", "¥", "", "₹", "",
	",", "",
	"(", "", ")", "",
	" ", "", "\u00a0", "",
)

// ParseAmount parses a bank-export numeric string. Empty input is a
// legitimate zero (ok=true). Anything that fails to parse yields zero with
// ok=false. Parentheses are stripped but never negate the value; callers that
// care about sign use IsNegative on the raw string.
func ParseAmount(raw string) (decimal.Decimal, bool) {
	s := numericNoise.Replace(strings.TrimSpace(raw))
	s = strings.TrimPrefix(s, "+")
	if s == "" || s == "-" {
		return decimal.Zero, s == ""
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ParseNumeric is ParseAmount with the failure flag dropped: noisy values
// silently become zero.
func ParseNumeric(raw string) decimal.Decimal {
	d, _ := ParseAmount(raw)
	return d
}

// IsNegative reports whether a raw value is written as a negative number,
// either with a minus sign or in accounting parentheses.
func IsNegative(raw string) bool {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		return true
	}
	s = strings.TrimLeft(s, "$€£¥₹ ")
	return strings.HasPrefix(s, "-")
}
