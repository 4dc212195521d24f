package insights

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bankflow/internal/model"
)

// Velocity compares average daily spending across the two halves of the
// date range.
type Velocity struct {
	DailyAverage      decimal.Decimal
	FirstHalfAverage  decimal.Decimal
	SecondHalfAverage decimal.Decimal
	ChangePercent     decimal.Decimal
	Trend             Trend
}

// ComputeVelocity reports spending velocity; a change beyond
// VelocityThreshold is a trend.
func ComputeVelocity(txns []model.Transaction) Velocity {
	_, _, days := span(txns)
	h := splitHalves(txns)

	var total, first, second decimal.Decimal
	for _, t := range txns {
		if t.Type != model.TxnExpense {
			continue
		}
		total = total.Add(t.Amount)
		if h.inFirst(t.Date) {
			first = first.Add(t.Amount)
		} else {
			second = second.Add(t.Amount)
		}
	}

	v := Velocity{
		DailyAverage:      perDay(total, days),
		FirstHalfAverage:  perDay(first, h.firstDays),
		SecondHalfAverage: perDay(second, h.secondDays),
		Trend:             TrendStable,
	}
	if h.secondDays > 0 {
		v.ChangePercent, v.Trend = classify(v.FirstHalfAverage, v.SecondHalfAverage, VelocityThreshold)
	}
	return v
}

// CategoryTrend compares one expense category across the two halves of the
// date range, by average daily spend.
type CategoryTrend struct {
	Category      string
	FirstHalf     decimal.Decimal
	SecondHalf    decimal.Decimal
	ChangePercent decimal.Decimal
	Trend         Trend
}

// CategoryTrends reports a trend per expense category, sorted by name. A
// change beyond CategoryThreshold is a trend.
func CategoryTrends(txns []model.Transaction) []CategoryTrend {
	h := splitHalves(txns)
	type sums struct{ first, second decimal.Decimal }
	byCat := make(map[string]*sums)
	for _, t := range txns {
		if t.Type != model.TxnExpense {
			continue
		}
		s, ok := byCat[categoryOf(t)]
		if !ok {
			s = &sums{}
			byCat[categoryOf(t)] = s
		}
		if h.inFirst(t.Date) {
			s.first = s.first.Add(t.Amount)
		} else {
			s.second = s.second.Add(t.Amount)
		}
	}

	out := make([]CategoryTrend, 0, len(byCat))
	for cat, s := range byCat {
		ct := CategoryTrend{
			Category:   cat,
			FirstHalf:  perDay(s.first, h.firstDays),
			SecondHalf: perDay(s.second, h.secondDays),
			Trend:      TrendStable,
		}
		if h.secondDays > 0 {
			ct.ChangePercent, ct.Trend = classify(ct.FirstHalf, ct.SecondHalf, CategoryThreshold)
		}
		out = append(out, ct)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// CategoryShare is one category's part of total spending.
type CategoryShare struct {
	Category string
	Total    decimal.Decimal
	Count    int
	Percent  decimal.Decimal
}

// CategoryBreakdown totals expenses per category, largest first.
func CategoryBreakdown(txns []model.Transaction) []CategoryShare {
	byCat := make(map[string]*CategoryShare)
	total := decimal.Zero
	for _, t := range txns {
		if t.Type != model.TxnExpense {
			continue
		}
		cat := categoryOf(t)
		s, ok := byCat[cat]
		if !ok {
			s = &CategoryShare{Category: cat}
			byCat[cat] = s
		}
		s.Total = s.Total.Add(t.Amount)
		s.Count++
		total = total.Add(t.Amount)
	}

	out := make([]CategoryShare, 0, len(byCat))
	for _, s := range byCat {
		if total.IsPositive() {
			s.Percent = s.Total.Div(total).Mul(hundred).Round(2)
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Total.Equal(out[j].Total) {
			return out[i].Total.GreaterThan(out[j].Total)
		}
		return out[i].Category < out[j].Category
	})
	return out
}

func categoryOf(t model.Transaction) string {
	if t.Category == "" {
		return model.CategoryUncategorized
	}
	return t.Category
}
