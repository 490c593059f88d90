// Package analytics computes derived monthly views of a transaction set:
// income/expense aggregates, category rankings, and trend series, with a
// bounded LRU cache in front of recomputation.
package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/tallied-dev/tallied/internal/model"
	"github.com/tallied-dev/tallied/internal/recurring"
)

// CategorySpend is one entry in a category ranking.
type CategorySpend struct {
	Category string
	Amount   decimal.Decimal
}

// Summary is the per-month aggregate. Value data: derived, reconstructable,
// owned by the cache once cached.
type Summary struct {
	Month         model.Month
	Income        decimal.Decimal
	Expenses      decimal.Decimal
	Net           decimal.Decimal
	SavingsRate   decimal.Decimal // net/income, 0 when income is 0
	TopCategories []CategorySpend
	Subscriptions decimal.Decimal // recurring-charge spend within the month
}

// TopN is the number of ranked categories a Summary carries.
const TopN = 5

// savingsRatePlaces fixes rounding so identical input always yields a
// byte-identical Summary.
const savingsRatePlaces = 4

// Summarize computes the aggregate for one month. Pure: same transactions
// and candidates produce an identical Summary. Transactions outside the
// month are ignored rather than assumed pre-filtered.
func Summarize(month model.Month, txns []model.Transaction, candidates []recurring.Candidate) Summary {
	income := decimal.Zero
	expenses := decimal.Zero
	byCategory := make(map[string]decimal.Decimal)

	for _, t := range txns {
		if t.MonthKey() != month {
			continue
		}
		switch t.Kind {
		case model.KindIncome:
			income = income.Add(t.Amount)
		case model.KindExpense:
			expenses = expenses.Add(t.Amount)
			byCategory[t.Category] = byCategory[t.Category].Add(t.Amount)
		}
	}

	net := income.Sub(expenses)
	rate := decimal.Zero
	if income.IsPositive() {
		rate = net.DivRound(income, savingsRatePlaces)
	}

	subs := decimal.Zero
	for _, c := range candidates {
		for _, t := range c.Transactions {
			if t.MonthKey() == month {
				subs = subs.Add(t.Amount)
			}
		}
	}

	return Summary{
		Month:         month,
		Income:        income,
		Expenses:      expenses,
		Net:           net,
		SavingsRate:   rate,
		TopCategories: rankCategories(byCategory, TopN),
		Subscriptions: subs,
	}
}

// rankCategories orders categories by spend descending, ties broken by
// name so the ranking is deterministic.
func rankCategories(byCategory map[string]decimal.Decimal, n int) []CategorySpend {
	ranked := make([]CategorySpend, 0, len(byCategory))
	for cat, amt := range byCategory {
		ranked = append(ranked, CategorySpend{Category: cat, Amount: amt})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if !ranked[i].Amount.Equal(ranked[j].Amount) {
			return ranked[i].Amount.GreaterThan(ranked[j].Amount)
		}
		return ranked[i].Category < ranked[j].Category
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
