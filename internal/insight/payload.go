// Package insight builds the request payload the hosted insight proxy
// accepts. The proxy and its transport live elsewhere; this package only
// guarantees the payload stays inside the contract's bounds.
package insight

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/tallied-dev/tallied/internal/analytics"
	"github.com/tallied-dev/tallied/internal/recurring"
)

// MaxCategories is the most category entries the proxy accepts.
const MaxCategories = 20

// maxMoney is the contract's upper bound for income and expenses.
var maxMoney = decimal.NewFromInt(1_000_000_000)

// Category is one spend entry in the payload.
type Category struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// Subscription is one recurring charge in the payload.
type Subscription struct {
	Merchant string  `json:"merchant"`
	Monthly  float64 `json:"monthly"`
}

// Payload is the insight request body: {income, expenses, categories[],
// budget, subscriptions[], monthLabel}.
type Payload struct {
	Income        float64        `json:"income"`
	Expenses      float64        `json:"expenses"`
	Categories    []Category     `json:"categories"`
	Budget        float64        `json:"budget"`
	Subscriptions []Subscription `json:"subscriptions"`
	MonthLabel    string         `json:"monthLabel"`
}

// Build assembles a Payload from a monthly summary, clamping money fields
// to [0, 1e9] and truncating categories to the contract limit.
func Build(summary analytics.Summary, candidates []recurring.Candidate, budget decimal.Decimal) Payload {
	categories := make([]Category, 0, len(summary.TopCategories))
	for _, c := range summary.TopCategories {
		if len(categories) == MaxCategories {
			break
		}
		categories = append(categories, Category{Name: c.Category, Amount: clamp(c.Amount)})
	}

	subs := make([]Subscription, 0, len(candidates))
	for _, c := range candidates {
		subs = append(subs, Subscription{Merchant: c.Merchant, Monthly: clamp(c.Monthly)})
	}

	return Payload{
		Income:        clamp(summary.Income),
		Expenses:      clamp(summary.Expenses),
		Categories:    categories,
		Budget:        clamp(budget),
		Subscriptions: subs,
		MonthLabel:    string(summary.Month),
	}
}

// Marshal encodes a Payload as JSON.
func Marshal(p Payload) ([]byte, error) {
	return json.Marshal(p)
}

func clamp(d decimal.Decimal) float64 {
	if d.IsNegative() {
		return 0
	}
	if d.GreaterThan(maxMoney) {
		d = maxMoney
	}
	f, _ := d.Float64()
	return f
}
