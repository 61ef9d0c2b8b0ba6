package core

import "sort"

// CategoryTotal is an amount summed over one category for a period.
type CategoryTotal struct {
	Category string `json:"category"`
	Total    Money  `json:"total"`
}

// MonthSummary holds the per-category totals and net balance for one
// reporting period.
type MonthSummary struct {
	Year             int             `json:"year"`
	Month            int             `json:"month"`
	TotalSpend       Money           `json:"total_spend"`
	TotalIncome      Money           `json:"total_income"`
	Net              Money           `json:"net"`
	SpendByCategory  []CategoryTotal `json:"spend_by_category"`
	IncomeByCategory []CategoryTotal `json:"income_by_category"`
}

// Summarize reduces one month's transactions to per-category totals and a
// net balance. Sums are accumulated in cents, so the result is identical
// for any permutation of the input. Per-category rows are sorted by total
// descending; ties keep first-seen order.
func Summarize(year, month int, txns []Transaction) MonthSummary {
	sum := MonthSummary{
		Year:             year,
		Month:            month,
		SpendByCategory:  []CategoryTotal{},
		IncomeByCategory: []CategoryTotal{},
	}

	spend := newTotals()
	income := newTotals()
	for _, t := range txns {
		if t.Type == Spend {
			sum.TotalSpend = sum.TotalSpend.Add(t.Amount)
			spend.add(t.CategoryName, t.Amount)
		} else {
			sum.TotalIncome = sum.TotalIncome.Add(t.Amount)
			income.add(t.CategoryName, t.Amount)
		}
	}
	sum.Net = sum.TotalIncome.Sub(sum.TotalSpend)
	sum.SpendByCategory = spend.rows()
	sum.IncomeByCategory = income.rows()
	return sum
}

// totals accumulates per-category cents while remembering insertion order
// so equal totals stay deterministic.
type totals struct {
	byName map[string]int
	order  []CategoryTotal
}

func newTotals() *totals {
	return &totals{byName: make(map[string]int)}
}

func (a *totals) add(name string, amount Money) {
	i, ok := a.byName[name]
	if !ok {
		i = len(a.order)
		a.byName[name] = i
		a.order = append(a.order, CategoryTotal{Category: name})
	}
	a.order[i].Total = a.order[i].Total.Add(amount)
}

func (a *totals) rows() []CategoryTotal {
	rows := make([]CategoryTotal, len(a.order))
	copy(rows, a.order)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Total.Cents > rows[j].Total.Cents
	})
	return rows
}
