package rules

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bankflow/internal/id"
	"github.com/cleared-dev/bankflow/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Split divides txn by allocs. Fixed amounts take min(amount, remainder);
// percentages take that share of the original magnitude, capped at the
// remainder; the allocation with neither takes the whole remainder. A
// remainder above model.Tolerance, or any remainder when nothing else was
// allocated, becomes a trailing uncategorized fragment. Amounts are rounded to cents and zero-amount fragments are not
// emitted.
//
// Splitting a fragment keeps its group id, original amount and original
// description. ok is false when allocs is malformed; callers then keep txn
// as is.
func Split(txn model.Transaction, allocs []model.SplitAllocation) (parts []model.Transaction, ok bool) {
	if !wellFormed(allocs) {
		return nil, false
	}

	info := model.SplitInfo{
		ParentID:            id.NewGroupID(),
		OriginalAmount:      txn.Amount,
		OriginalDescription: txn.Description,
	}
	if txn.Split != nil {
		info.ParentID = txn.Split.ParentID
		info.OriginalAmount = txn.Split.OriginalAmount
		info.OriginalDescription = txn.Split.OriginalDescription
	}

	total := txn.Amount
	remainder := total
	emit := func(amount decimal.Decimal, category, memo string) {
		if !amount.IsPositive() {
			return
		}
		if category == "" {
			category = model.CategoryUncategorized
		}
		f := txn.Clone()
		f.Amount = amount
		f.Category = category
		s := info
		s.Index = len(parts)
		s.Memo = memo
		f.Split = &s
		parts = append(parts, f)
	}

	for _, a := range allocs {
		var amount decimal.Decimal
		switch {
		case a.FixedAmount != nil:
			amount = decimal.Min(*a.FixedAmount, remainder)
		case a.Percentage != nil:
			amount = decimal.Min(total.Mul(*a.Percentage).Div(hundred), decimal.Max(remainder, decimal.Zero))
		default:
			amount = remainder
		}
		amount = amount.Round(2)
		if amount.IsNegative() {
			amount = decimal.Zero
		}
		remainder = remainder.Sub(amount)
		emit(amount, a.Category, a.Memo)
	}

	if remainder.GreaterThan(model.Tolerance) || (len(parts) == 0 && remainder.IsPositive()) {
		emit(remainder.Round(2), model.CategoryUncategorized, "")
	}
	if len(parts) == 0 {
		return nil, false
	}
	return parts, true
}

func wellFormed(allocs []model.SplitAllocation) bool {
	if len(allocs) == 0 {
		return false
	}
	remainders := 0
	for _, a := range allocs {
		switch {
		case a.FixedAmount != nil && a.Percentage != nil:
			return false
		case a.FixedAmount != nil:
			if a.FixedAmount.IsNegative() {
				return false
			}
		case a.Percentage != nil:
			if a.Percentage.IsNegative() || a.Percentage.GreaterThan(hundred) {
				return false
			}
		default:
			remainders++
		}
	}
	return remainders <= 1
}
