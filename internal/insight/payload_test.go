package insight

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallied-dev/tallied/internal/analytics"
	"github.com/tallied-dev/tallied/internal/recurring"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestBuildClampsMoneyFields(t *testing.T) {
	summary := analytics.Summary{
		Month:    "2025-06",
		Income:   dec("-50"),
		Expenses: dec("2000000000"),
	}

	p := Build(summary, nil, dec("1500"))
	assert.Equal(t, 0.0, p.Income, "negative money clamps to zero")
	assert.Equal(t, 1e9, p.Expenses, "money caps at the contract ceiling")
	assert.Equal(t, 1500.0, p.Budget)
	assert.Equal(t, "2025-06", p.MonthLabel)
}

func TestBuildTruncatesCategories(t *testing.T) {
	summary := analytics.Summary{Month: "2025-06"}
	for i := 0; i < MaxCategories+5; i++ {
		summary.TopCategories = append(summary.TopCategories, analytics.CategorySpend{
			Category: fmt.Sprintf("bucket-%02d", i),
			Amount:   dec("10"),
		})
	}

	p := Build(summary, nil, decimal.Zero)
	assert.Len(t, p.Categories, MaxCategories)
	assert.Equal(t, "bucket-00", p.Categories[0].Name, "truncation keeps the leading entries")
}

func TestMarshalFieldNames(t *testing.T) {
	summary := analytics.Summary{
		Month:    "2025-06",
		Income:   dec("2100"),
		Expenses: dec("1799.50"),
		TopCategories: []analytics.CategorySpend{
			{Category: "Food", Amount: dec("412.80")},
		},
	}
	candidates := []recurring.Candidate{{Merchant: "netflix", Monthly: dec("15.99")}}

	data, err := Marshal(Build(summary, candidates, dec("1500")))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	for _, key := range []string{"income", "expenses", "categories", "budget", "subscriptions", "monthLabel"} {
		assert.Contains(t, decoded, key)
	}

	cats := decoded["categories"].([]any)
	require.Len(t, cats, 1)
	cat := cats[0].(map[string]any)
	assert.Equal(t, "Food", cat["name"])
	assert.InDelta(t, 412.80, cat["amount"], 0.001)

	subs := decoded["subscriptions"].([]any)
	require.Len(t, subs, 1)
	sub := subs[0].(map[string]any)
	assert.Equal(t, "netflix", sub["merchant"])
	assert.InDelta(t, 15.99, sub["monthly"], 0.001)
}
