// Package validate checks raw statement rows before they are canonicalized:
// structure, required columns and running-balance consistency. Checks never
// fail; they report.
package validate

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bankflow/internal/normalize"
)

// Issue is one problem found in a file.
type Issue struct {
	File     string
	Row      int // 1-based file line including the header, 0 when not row-specific
	Column   string
	Message  string
	Expected decimal.NullDecimal
	Actual   decimal.NullDecimal
}

func (i Issue) String() string {
	var b strings.Builder
	b.WriteString(i.File)
	if i.Row > 0 {
		fmt.Fprintf(&b, ":%d", i.Row)
	}
	if i.Column != "" {
		fmt.Fprintf(&b, " [%s]", i.Column)
	}
	b.WriteString(": ")
	b.WriteString(i.Message)
	if i.Expected.Valid && i.Actual.Valid {
		fmt.Fprintf(&b, " (expected %s, got %s)", i.Expected.Decimal.StringFixed(2), i.Actual.Decimal.StringFixed(2))
	}
	return b.String()
}

// Result collects the issues of one or more checks.
type Result struct {
	Valid    bool
	Errors   []Issue
	Warnings []Issue
}

// OK returns an empty, valid result.
func OK() Result {
	return Result{Valid: true}
}

func (r *Result) addError(i Issue) {
	r.Valid = false
	r.Errors = append(r.Errors, i)
}

func (r *Result) addWarning(i Issue) {
	r.Warnings = append(r.Warnings, i)
}

// Merge combines results; the union is valid only if both are.
func (r Result) Merge(other Result) Result {
	return Result{
		Valid:    r.Valid && other.Valid,
		Errors:   append(append([]Issue(nil), r.Errors...), other.Errors...),
		Warnings: append(append([]Issue(nil), r.Warnings...), other.Warnings...),
	}
}

// CheckStructure fails when records is empty or the header has no columns.
// Rows whose field count differs from the header are summarized as a warning.
func CheckStructure(records [][]string, file string) Result {
	res := OK()
	if len(records) == 0 {
		res.addError(Issue{File: file, Message: "file is empty"})
		return res
	}
	if !hasColumns(records[0]) {
		res.addError(Issue{File: file, Row: 1, Message: "header row has no columns"})
		return res
	}
	if len(records) == 1 {
		res.addWarning(Issue{File: file, Message: "file has a header but no data rows"})
		return res
	}

	width := len(records[0])
	ragged, first := 0, 0
	for i, rec := range records[1:] {
		if len(rec) != width {
			ragged++
			if first == 0 {
				first = i + 2
			}
		}
	}
	if ragged > 0 {
		res.addWarning(Issue{
			File:    file,
			Row:     first,
			Message: fmt.Sprintf("%d row(s) have a different number of fields than the header (%d)", ragged, width),
		})
	}
	return res
}

func hasColumns(header []string) bool {
	for _, h := range header {
		if strings.TrimSpace(h) != "" {
			return true
		}
	}
	return false
}

// CheckRequiredColumns reports every required column with no recognised
// spelling in header. A signed amount column stands in for deposit and
// withdrawal.
func CheckRequiredColumns(header []string, required []normalize.Column, file string) Result {
	res := OK()
	if len(required) == 0 {
		required = normalize.DefaultRequired
	}
	cols := normalize.ResolveColumns(header)
	for _, c := range required {
		if cols.Has(c) {
			continue
		}
		if (c == normalize.ColDeposit || c == normalize.ColWithdrawal) && cols.Has(normalize.ColAmount) {
			continue
		}
		res.addError(Issue{
			File:    file,
			Row:     1,
			Column:  string(c),
			Message: fmt.Sprintf("missing required column %q (accepted: %s)", c, strings.Join(normalize.Synonyms(c), ", ")),
		})
	}
	return res
}
