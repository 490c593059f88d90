package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallied-dev/tallied/internal/model"
	"github.com/tallied-dev/tallied/internal/recurring"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func txn(id, amount string, kind model.Kind, category string, on time.Time) model.Transaction {
	return model.Transaction{
		ID: id, Date: on, Amount: dec(amount), Kind: kind,
		Category: category, Description: id,
	}
}

func januaryTxns() []model.Transaction {
	return []model.Transaction{
		txn("i1", "2500.00", model.KindIncome, "Income", date(2025, 1, 2)),
		txn("e1", "1200.00", model.KindExpense, "Housing", date(2025, 1, 3)),
		txn("e2", "300.00", model.KindExpense, "Food", date(2025, 1, 10)),
		txn("e3", "300.00", model.KindExpense, "Transport", date(2025, 1, 12)),
		txn("e4", "15.99", model.KindExpense, "Subscriptions", date(2025, 1, 5)),
		// Belongs to February; must be ignored.
		txn("x1", "999.00", model.KindExpense, "Food", date(2025, 2, 1)),
	}
}

func TestSummarizeTotals(t *testing.T) {
	s := Summarize("2025-01", januaryTxns(), nil)

	assert.True(t, s.Income.Equal(dec("2500")), "income %s", s.Income)
	assert.True(t, s.Expenses.Equal(dec("1815.99")), "expenses %s", s.Expenses)
	assert.True(t, s.Net.Equal(dec("684.01")), "net %s", s.Net)
	assert.True(t, s.SavingsRate.Equal(dec("0.2736")), "savings rate %s", s.SavingsRate)
}

func TestSummarizeZeroIncome(t *testing.T) {
	txns := []model.Transaction{
		txn("e1", "100.00", model.KindExpense, "Food", date(2025, 1, 3)),
	}
	s := Summarize("2025-01", txns, nil)
	assert.True(t, s.SavingsRate.IsZero(), "savings rate defined as 0 when income is 0")
	assert.True(t, s.Net.Equal(dec("-100")))
}

func TestSummarizeCategoryRankingDeterministic(t *testing.T) {
	s := Summarize("2025-01", januaryTxns(), nil)

	require.Len(t, s.TopCategories, 4)
	assert.Equal(t, "Housing", s.TopCategories[0].Category)
	// Food and Transport tie at 300; name order breaks the tie.
	assert.Equal(t, "Food", s.TopCategories[1].Category)
	assert.Equal(t, "Transport", s.TopCategories[2].Category)
	assert.Equal(t, "Subscriptions", s.TopCategories[3].Category)
}

func TestSummarizeSubscriptionTotalRestrictedToMonth(t *testing.T) {
	sub := recurring.Candidate{
		Merchant: "NETFLIX.COM",
		Monthly:  dec("15.99"),
		Transactions: []model.Transaction{
			txn("e4", "15.99", model.KindExpense, "Subscriptions", date(2025, 1, 5)),
			txn("f1", "15.99", model.KindExpense, "Subscriptions", date(2025, 2, 4)),
		},
	}
	s := Summarize("2025-01", januaryTxns(), []recurring.Candidate{sub})
	assert.True(t, s.Subscriptions.Equal(dec("15.99")), "subscriptions %s", s.Subscriptions)
}

func TestSummarizeIdempotent(t *testing.T) {
	txns := januaryTxns()
	first := Summarize("2025-01", txns, nil)
	second := Summarize("2025-01", txns, nil)
	assert.Equal(t, first, second, "identical input must produce an identical aggregate")
}
