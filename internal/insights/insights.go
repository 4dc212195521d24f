// Package insights derives spending analytics from categorized
// transactions. Every function is a read-only pass over its input.
package insights

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bankflow/internal/model"
)

// Trend classifies a change between two periods.
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// Change thresholds, in percent.
var (
	VelocityThreshold = decimal.NewFromInt(10)
	CategoryThreshold = decimal.NewFromInt(15)
)

var hundred = decimal.NewFromInt(100)

// Report bundles every insight for one transaction set.
type Report struct {
	Daily     []Period
	Weekly    []Period
	Velocity  Velocity
	Recurring RecurringReport
	Burn      BurnRate
	Savings   Savings
	Trends    []CategoryTrend
	Breakdown []CategoryShare
}

// Compute runs every insight over txns. balance is the current account
// balance used for the runway projection.
func Compute(txns []model.Transaction, balance decimal.Decimal) Report {
	return Report{
		Daily:     Daily(txns),
		Weekly:    Weekly(txns),
		Velocity:  ComputeVelocity(txns),
		Recurring: Recurring(txns),
		Burn:      ComputeBurnRate(txns, balance),
		Savings:   SavingsRate(txns),
		Trends:    CategoryTrends(txns),
		Breakdown: CategoryBreakdown(txns),
	}
}

// Period aggregates the transactions of one day or week.
type Period struct {
	Start   time.Time
	Income  decimal.Decimal
	Expense decimal.Decimal
	Net     decimal.Decimal
	Count   int
}

// Daily buckets txns by calendar date, oldest first.
func Daily(txns []model.Transaction) []Period {
	return bucket(txns, model.DateOnly)
}

// Weekly buckets txns by the Monday starting their week, oldest first.
func Weekly(txns []model.Transaction) []Period {
	return bucket(txns, WeekStart)
}

// WeekStart returns the Monday on or before t.
func WeekStart(t time.Time) time.Time {
	d := model.DateOnly(t)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

func bucket(txns []model.Transaction, key func(time.Time) time.Time) []Period {
	byStart := make(map[time.Time]*Period)
	for _, t := range txns {
		k := key(t.Date)
		p, ok := byStart[k]
		if !ok {
			p = &Period{Start: k}
			byStart[k] = p
		}
		if t.Type == model.TxnIncome {
			p.Income = p.Income.Add(t.Amount)
		} else {
			p.Expense = p.Expense.Add(t.Amount)
		}
		p.Count++
	}

	out := make([]Period, 0, len(byStart))
	for _, p := range byStart {
		p.Net = p.Income.Sub(p.Expense)
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

// span returns the first and last calendar dates of txns and the number
// of days between them, inclusive.
func span(txns []model.Transaction) (first, last time.Time, days int) {
	for i, t := range txns {
		d := model.DateOnly(t.Date)
		if i == 0 || d.Before(first) {
			first = d
		}
		if i == 0 || d.After(last) {
			last = d
		}
	}
	if len(txns) == 0 {
		return first, last, 0
	}
	return first, last, int(last.Sub(first).Hours()/24) + 1
}

// halves is a date range cut into two runs of calendar days.
type halves struct {
	cut        time.Time // first day of the second half
	firstDays  int
	secondDays int
}

// splitHalves cuts the date range of txns in two. The first half gets the
// extra day of an odd span; secondDays is zero for a single-day range.
func splitHalves(txns []model.Transaction) halves {
	first, _, days := span(txns)
	firstDays := (days + 1) / 2
	return halves{
		cut:        first.AddDate(0, 0, firstDays),
		firstDays:  firstDays,
		secondDays: days - firstDays,
	}
}

func (h halves) inFirst(t time.Time) bool {
	return model.DateOnly(t).Before(h.cut)
}

// classify compares two values. A change larger than threshold percent
// either way is a trend; growth from zero counts as +100%.
func classify(before, after, threshold decimal.Decimal) (decimal.Decimal, Trend) {
	var change decimal.Decimal
	switch {
	case before.IsZero() && after.IsZero():
		return decimal.Zero, TrendStable
	case before.IsZero():
		change = hundred
	default:
		change = after.Sub(before).Div(before).Mul(hundred).Round(2)
	}
	switch {
	case change.GreaterThan(threshold):
		return change, TrendIncreasing
	case change.LessThan(threshold.Neg()):
		return change, TrendDecreasing
	default:
		return change, TrendStable
	}
}

func perDay(total decimal.Decimal, days int) decimal.Decimal {
	if days <= 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(days))).Round(2)
}
