package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TxnType carries the direction of a transaction. Amounts are always magnitudes.
type TxnType string

const (
	TxnIncome  TxnType = "income"
	TxnExpense TxnType = "expense"
)

// Tolerance is the largest difference, in currency units, at which two
// amounts still count as equal.
var Tolerance = decimal.New(1, -2)

// CategoryUncategorized is the sentinel for transactions no categorizer or rule has labelled.
const CategoryUncategorized = "Uncategorized"

// Transaction is the canonical unit of financial activity.
type Transaction struct {
	Date        time.Time // calendar date, UTC midnight
	Description string
	Amount      decimal.Decimal // >= 0; direction lives in Type
	Type        TxnType
	Category    string
	Balance     decimal.Decimal // running balance after this transaction, zero if unknown
	Account     string
	Reference   string // bank-assigned id (FITID) when the source carries one

	// Split is nil for a plain transaction and set for a split fragment.
	Split *SplitInfo
}

// SplitInfo tags a transaction as one fragment of an original that a rule divided.
type SplitInfo struct {
	ParentID            string
	Index               int
	OriginalAmount      decimal.Decimal
	OriginalDescription string
	Memo                string
}

// IsSplit reports whether t is a split fragment.
func (t Transaction) IsSplit() bool {
	return t.Split != nil
}

// Signed returns the amount with income positive and expense negative.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == TxnExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// IsUncategorized reports whether the category is empty or the sentinel.
func (t Transaction) IsUncategorized() bool {
	return t.Category == "" || t.Category == CategoryUncategorized
}

// Clone returns a copy that shares no SplitInfo with t.
func (t Transaction) Clone() Transaction {
	c := t
	if t.Split != nil {
		s := *t.Split
		c.Split = &s
	}
	return c
}

// DateOnly truncates a time to UTC midnight of its calendar date.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
