package iif

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bankflow/internal/id"
	"github.com/cleared-dev/bankflow/internal/model"
	"github.com/cleared-dev/bankflow/internal/validate"
)

// Stats summarizes a checked export.
type Stats struct {
	TransactionCount int
	SplitCount       int
	TotalDebit       decimal.Decimal // sum of positive amounts
	TotalCredit      decimal.Decimal // sum of magnitudes of negative amounts
}

// Result is the outcome of Validate.
type Result struct {
	validate.Result
	Stats Stats
}

// column positions, overridable by the file's own header lines
type layout struct {
	id     int
	amount int
}

var defaultLayout = layout{id: 1, amount: 6}

type validator struct {
	file    string
	res     Result
	layouts map[string]layout

	open      bool
	openLine  int
	openID    string
	primary   decimal.Decimal
	blockSum  decimal.Decimal
	sawHeader bool
	lastSeq   int
}

// Validate checks IIF text: TRNS/SPL/ENDTRNS nesting, that each block's
// amounts sum to zero within model.Tolerance, and well-formed amounts.
// Unknown row types are warnings. Validate never fails; it reports.
func Validate(text, file string) Result {
	v := &validator{
		file:    file,
		res:     Result{Result: validate.OK()},
		layouts: map[string]layout{RowTrns: defaultLayout, RowSpl: defaultLayout},
	}

	lines := strings.Split(text, "\n")
	for i, raw := range lines {
		line := strings.TrimRight(raw, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		v.line(i+1, strings.Split(line, "\t"))
	}

	if v.open {
		v.error(v.openLine, "", "file ends inside an open transaction")
	}
	if !v.sawHeader {
		v.warning(0, "", "missing !TRNS header line")
	}
	if v.res.Stats.TransactionCount == 0 && v.res.Valid {
		v.warning(0, "", "export contains no transactions")
	}
	return v.res
}

func (v *validator) line(n int, fields []string) {
	kind := strings.ToUpper(strings.TrimSpace(fields[0]))
	switch kind {
	case "!TRNS", "!SPL":
		v.sawHeader = v.sawHeader || kind == "!TRNS"
		v.layouts[kind[1:]] = headerLayout(fields)
	case "!ENDTRNS":
	case RowTrns:
		v.trns(n, fields)
	case RowSpl:
		v.spl(n, fields)
	case RowEndTrns:
		v.endTrns(n)
	default:
		v.warning(n, "", fmt.Sprintf("unknown row type %q", fields[0]))
	}
}

func headerLayout(fields []string) layout {
	l := layout{id: -1, amount: -1}
	for i, f := range fields {
		switch strings.ToUpper(strings.TrimSpace(f)) {
		case "TRNSID", "SPLID":
			l.id = i
		case "AMOUNT":
			l.amount = i
		}
	}
	return l
}

func (v *validator) trns(n int, fields []string) {
	if v.open {
		v.error(n, "", fmt.Sprintf("TRNS while the transaction opened on line %d is still open", v.openLine))
	}
	v.res.Stats.TransactionCount++
	amount, _ := v.amount(n, RowTrns, fields)

	v.open = true
	v.openLine = n
	v.openID = field(fields, v.layouts[RowTrns].id)
	v.primary = amount
	v.blockSum = amount
	v.checkSequence(n)
}

// checkSequence warns when TRNSID is not the next transaction number.
func (v *validator) checkSequence(n int) {
	if v.layouts[RowTrns].id < 0 {
		return
	}
	seq, err := id.ParseTrnsID(v.openID)
	if err != nil || v.openID != id.EntryGroup(v.openID) {
		v.warning(n, "TRNSID", fmt.Sprintf("TRNSID %q is not a transaction number", v.openID))
		return
	}
	if want := v.lastSeq + 1; seq != want {
		v.warning(n, "TRNSID", fmt.Sprintf("TRNSID %d out of sequence, expected %d", seq, want))
	}
	v.lastSeq = seq
}

func (v *validator) spl(n int, fields []string) {
	v.res.Stats.SplitCount++
	amount, _ := v.amount(n, RowSpl, fields)
	if !v.open {
		v.error(n, "", "SPL outside a transaction")
		return
	}
	v.blockSum = v.blockSum.Add(amount)

	splID := field(fields, v.layouts[RowSpl].id)
	if splID != "" && v.openID != "" && id.EntryGroup(splID) != v.openID {
		v.warning(n, "SPLID", fmt.Sprintf("split %s does not belong to transaction %s", splID, v.openID))
	}
}

func (v *validator) endTrns(n int) {
	if !v.open {
		v.error(n, "", "ENDTRNS without an open transaction")
		return
	}
	v.open = false
	if v.blockSum.Abs().GreaterThan(model.Tolerance) {
		v.res.Valid = false
		v.res.Errors = append(v.res.Errors, validate.Issue{
			File:     v.file,
			Row:      v.openLine,
			Column:   "AMOUNT",
			Message:  "transaction does not balance",
			Expected: decimal.NewNullDecimal(v.primary.Neg()),
			Actual:   decimal.NewNullDecimal(v.blockSum.Sub(v.primary)),
		})
	}
}

// amount parses the AMOUNT field and adds it to the debit or credit total.
func (v *validator) amount(n int, kind string, fields []string) (decimal.Decimal, bool) {
	raw := strings.TrimSpace(field(fields, v.layouts[kind].amount))
	d, err := decimal.NewFromString(raw)
	if err != nil {
		v.error(n, "AMOUNT", fmt.Sprintf("invalid amount %q", raw))
		return decimal.Zero, false
	}
	if d.IsPositive() {
		v.res.Stats.TotalDebit = v.res.Stats.TotalDebit.Add(d)
	} else {
		v.res.Stats.TotalCredit = v.res.Stats.TotalCredit.Add(d.Abs())
	}
	return d, true
}

func (v *validator) error(row int, column, msg string) {
	v.res.Valid = false
	v.res.Errors = append(v.res.Errors, validate.Issue{File: v.file, Row: row, Column: column, Message: msg})
}

func (v *validator) warning(row int, column, msg string) {
	v.res.Warnings = append(v.res.Warnings, validate.Issue{File: v.file, Row: row, Column: column, Message: msg})
}

func field(fields []string, i int) string {
	if i < 0 || i >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[i])
}
