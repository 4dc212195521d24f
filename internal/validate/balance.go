package validate

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bankflow/internal/model"
	"github.com/cleared-dev/bankflow/internal/normalize"
)

// MaxBalanceErrors is how many balance mismatches are reported individually.
const MaxBalanceErrors = 5

// BalanceRow is one statement row reduced to what the balance check needs.
type BalanceRow struct {
	Line       int // 1-based file line, 0 if unknown
	Date       time.Time
	Deposit    decimal.Decimal
	Withdrawal decimal.Decimal
	Balance    decimal.Decimal
}

// BalanceRows extracts balance rows from raw records (header first), newest
// first. Files written oldest first are reversed; file line numbers are kept.
// It returns false when the file has no balance column.
func BalanceRows(records [][]string) ([]BalanceRow, bool) {
	if len(records) == 0 {
		return nil, false
	}
	cols := normalize.ResolveColumns(records[0])
	if !cols.Has(normalize.ColBalance) {
		return nil, false
	}

	var rows []BalanceRow
	for i, rec := range records[1:] {
		rawBal := cols.Get(rec, normalize.ColBalance)
		date, ok := normalize.ParseDate(cols.Get(rec, normalize.ColDate))
		if rawBal == "" || !ok {
			continue
		}
		row := BalanceRow{
			Line:    i + 2,
			Date:    date,
			Balance: normalize.ParseNumeric(rawBal),
		}
		if cols.Has(normalize.ColAmount) {
			raw := cols.Get(rec, normalize.ColAmount)
			v := normalize.ParseNumeric(raw).Abs()
			if normalize.IsNegative(raw) {
				row.Withdrawal = v
			} else {
				row.Deposit = v
			}
		} else {
			row.Withdrawal = normalize.ParseNumeric(cols.Get(rec, normalize.ColWithdrawal)).Abs()
			row.Deposit = normalize.ParseNumeric(cols.Get(rec, normalize.ColDeposit)).Abs()
		}
		rows = append(rows, row)
	}

	if n := len(rows); n > 1 && rows[0].Date.Before(rows[n-1].Date) {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			rows[i], rows[j] = rows[j], rows[i]
		}
	}
	return rows, true
}

// CheckBalances verifies, for rows ordered newest first, that each row's
// balance equals the older row's balance minus its withdrawal plus its
// deposit. At most MaxBalanceErrors mismatches are itemized.
func CheckBalances(rows []BalanceRow, file string) Result {
	res := OK()
	if len(rows) < 2 {
		return res
	}

	mismatches := 0
	for i := len(rows) - 2; i >= 0; i-- {
		r := rows[i]
		expected := rows[i+1].Balance.Sub(r.Withdrawal).Add(r.Deposit)
		if expected.Sub(r.Balance).Abs().LessThanOrEqual(model.Tolerance) {
			continue
		}
		mismatches++
		if mismatches > MaxBalanceErrors {
			continue
		}
		line := r.Line
		if line == 0 {
			line = i + 2
		}
		res.addError(Issue{
			File:     file,
			Row:      line,
			Column:   string(normalize.ColBalance),
			Message:  "running balance mismatch",
			Expected: decimal.NewNullDecimal(expected),
			Actual:   decimal.NewNullDecimal(r.Balance),
		})
	}
	if extra := mismatches - MaxBalanceErrors; extra > 0 {
		res.addError(Issue{
			File:    file,
			Column:  string(normalize.ColBalance),
			Message: fmt.Sprintf("%d more balance mismatch(es) not shown", extra),
		})
	}
	return res
}
