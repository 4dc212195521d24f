package insights

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bankflow/internal/model"
)

// MaxRunwayMonths stands in for an unbounded runway.
var MaxRunwayMonths = decimal.NewFromInt(999)

var daysPerMonth = decimal.NewFromInt(30)

// MerchantSummary aggregates the expenses of one merchant.
type MerchantSummary struct {
	Merchant string
	Category string // category of the most recent charge
	Count    int
	Total    decimal.Decimal
	Average  decimal.Decimal
}

// RecurringReport splits spending into recurring and one-time merchants.
type RecurringReport struct {
	Recurring      []MerchantSummary
	OneTime        []MerchantSummary
	RecurringTotal decimal.Decimal
	OneTimeTotal   decimal.Decimal
}

// Recurring groups expenses by merchant. A merchant charged in at least two
// different calendar months is recurring; everything else is one-time.
// Both lists are sorted by total, largest first.
func Recurring(txns []model.Transaction) RecurringReport {
	type acc struct {
		summary MerchantSummary
		months  map[[2]int]bool
		latest  model.Transaction
	}
	byMerchant := make(map[string]*acc)
	for _, t := range txns {
		if t.Type != model.TxnExpense {
			continue
		}
		m := ExtractMerchant(t.Description)
		a, ok := byMerchant[m]
		if !ok {
			a = &acc{summary: MerchantSummary{Merchant: m}, months: make(map[[2]int]bool), latest: t}
			byMerchant[m] = a
		}
		a.summary.Count++
		a.summary.Total = a.summary.Total.Add(t.Amount)
		a.months[[2]int{t.Date.Year(), int(t.Date.Month())}] = true
		if !t.Date.Before(a.latest.Date) {
			a.latest = t
		}
	}

	var r RecurringReport
	for _, a := range byMerchant {
		s := a.summary
		s.Category = categoryOf(a.latest)
		s.Average = s.Total.Div(decimal.NewFromInt(int64(s.Count))).Round(2)
		if len(a.months) >= 2 {
			r.Recurring = append(r.Recurring, s)
			r.RecurringTotal = r.RecurringTotal.Add(s.Total)
		} else {
			r.OneTime = append(r.OneTime, s)
			r.OneTimeTotal = r.OneTimeTotal.Add(s.Total)
		}
	}
	sortMerchants(r.Recurring)
	sortMerchants(r.OneTime)
	return r
}

func sortMerchants(s []MerchantSummary) {
	sort.Slice(s, func(i, j int) bool {
		if !s[i].Total.Equal(s[j].Total) {
			return s[i].Total.GreaterThan(s[j].Total)
		}
		return s[i].Merchant < s[j].Merchant
	})
}

// BurnRate projects spending forward from the observed period.
type BurnRate struct {
	Days            int
	DailyExpense    decimal.Decimal
	MonthlyBurn     decimal.Decimal // DailyExpense * 30
	NetDaily        decimal.Decimal // (income - expense) / days
	RunwayMonths    decimal.Decimal
	UnlimitedRunway bool
}

// ComputeBurnRate averages spending over the covered days. Runway is the
// balance divided by the net daily loss, in 30-day months, capped at
// MaxRunwayMonths; a period that is not losing money has unlimited runway.
func ComputeBurnRate(txns []model.Transaction, balance decimal.Decimal) BurnRate {
	_, _, days := span(txns)
	var income, expense decimal.Decimal
	for _, t := range txns {
		if t.Type == model.TxnIncome {
			income = income.Add(t.Amount)
		} else {
			expense = expense.Add(t.Amount)
		}
	}

	b := BurnRate{Days: days}
	if days == 0 {
		b.RunwayMonths = MaxRunwayMonths
		b.UnlimitedRunway = true
		return b
	}
	n := decimal.NewFromInt(int64(days))
	b.DailyExpense = expense.Div(n).Round(2)
	b.MonthlyBurn = b.DailyExpense.Mul(daysPerMonth)
	b.NetDaily = income.Sub(expense).Div(n).Round(2)

	switch {
	case !b.NetDaily.IsNegative():
		b.RunwayMonths = MaxRunwayMonths
		b.UnlimitedRunway = true
	case !balance.IsPositive():
		b.RunwayMonths = decimal.Zero
	default:
		months := balance.Div(b.NetDaily.Abs()).Div(daysPerMonth).Round(1)
		if months.GreaterThan(MaxRunwayMonths) {
			months = MaxRunwayMonths
			b.UnlimitedRunway = true
		}
		b.RunwayMonths = months
	}
	return b
}

// Savings summarizes how much income was kept.
type Savings struct {
	Income      decimal.Decimal
	Expense     decimal.Decimal
	Saved       decimal.Decimal
	RatePercent decimal.Decimal // zero when there is no income
}

// SavingsRate computes (income - expense) / income as a percentage.
func SavingsRate(txns []model.Transaction) Savings {
	var s Savings
	for _, t := range txns {
		if t.Type == model.TxnIncome {
			s.Income = s.Income.Add(t.Amount)
		} else {
			s.Expense = s.Expense.Add(t.Amount)
		}
	}
	s.Saved = s.Income.Sub(s.Expense)
	if s.Income.IsPositive() {
		s.RatePercent = s.Saved.Div(s.Income).Mul(hundred).Round(2)
	}
	return s
}
