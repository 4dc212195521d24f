// Package id formats the identifiers written into exports and the opaque
// keys that group split fragments.
package id

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// NewGroupID returns a fresh key shared by every fragment of one split.
func NewGroupID() string {
	return uuid.NewString()
}

// NewRuleID returns a fresh custom rule id.
func NewRuleID() string {
	return uuid.NewString()
}

// FormatTrnsID returns the TRNSID for the seq-th exported transaction (1-based).
func FormatTrnsID(seq int) string {
	return strconv.Itoa(seq)
}

// FormatSplID returns an SPLID like "12a" (leg 0='a', 1='b', 26="aa").
func FormatSplID(seq, leg int) string {
	return FormatTrnsID(seq) + legSuffix(leg)
}

func legSuffix(leg int) string {
	var b []byte
	for {
		b = append([]byte{byte('a' + leg%26)}, b...)
		leg = leg/26 - 1
		if leg < 0 {
			return string(b)
		}
	}
}

// ParseTrnsID parses a TRNSID or SPLID into its transaction sequence.
func ParseTrnsID(s string) (int, error) {
	base := EntryGroup(s)
	if base == "" {
		return 0, fmt.Errorf("invalid transaction ID: %q", s)
	}
	seq, err := strconv.Atoi(base)
	if err != nil || seq < 1 {
		return 0, fmt.Errorf("invalid transaction ID: %q", s)
	}
	return seq, nil
}

// EntryGroup strips the leg suffix from an SPLID.
// "12a" -> "12"
func EntryGroup(legID string) string {
	if len(legID) == 0 {
		return ""
	}
	i := len(legID)
	for i > 0 && legID[i-1] >= 'a' && legID[i-1] <= 'z' {
		i--
	}
	return legID[:i]
}
