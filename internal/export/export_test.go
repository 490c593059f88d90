package export

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallied-dev/tallied/internal/categorize"
	"github.com/tallied-dev/tallied/internal/dialect"
	"github.com/tallied-dev/tallied/internal/model"
	"github.com/tallied-dev/tallied/internal/normalize"
	"github.com/tallied-dev/tallied/internal/pipeline"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestNeutralize(t *testing.T) {
	cases := map[string]string{
		"=1+1":            "'=1+1",
		"+SUM(A1:A9)":     "'+SUM(A1:A9)",
		"-2+3":            "'-2+3",
		"@cmd":            "'@cmd",
		"plain groceries": "plain groceries",
		"":                "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Neutralize(in), "input %q", in)
	}
}

func TestWriteNeutralizesFormulaFields(t *testing.T) {
	txns := []model.Transaction{{
		ID:          "a",
		Date:        date(2025, 6, 15),
		Amount:      dec("12.50"),
		Kind:        model.KindExpense,
		Category:    "Other",
		Description: "=HYPERLINK(\"http://evil\",\"click\")",
	}}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, txns))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, Header+"\n"))
	assert.Contains(t, out, `'=HYPERLINK`)
	assert.NotContains(t, out, "\n\"=HYPERLINK", "no raw formula may start a field")
}

func TestExportRoundTrip(t *testing.T) {
	txns := []model.Transaction{
		{
			ID:          "a",
			Date:        date(2025, 6, 3),
			Amount:      dec("42.17"),
			Kind:        model.KindExpense,
			Category:    "Food",
			Description: "corner grocery",
		},
		{
			ID:          "b",
			Date:        date(2025, 6, 27),
			Amount:      dec("2100.00"),
			Kind:        model.KindIncome,
			Category:    "Income",
			Description: "=payroll deposit",
		},
		{
			ID:          "c",
			Date:        date(2025, 6, 28),
			Amount:      dec("12.345"),
			Kind:        model.KindExpense,
			Category:    "Transport",
			Description: "fuel at 3.45/gal",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, txns))

	p := pipeline.New(dialect.DefaultRegistry(), normalize.New(categorize.Default()), zerolog.Nop())
	result, err := p.Run(context.Background(), buf.Bytes(), "export.csv", pipeline.Options{})
	require.NoError(t, err)
	require.Len(t, result.Transactions, 3)
	assert.Empty(t, result.Errors)

	for i, got := range result.Transactions {
		want := txns[i]
		assert.True(t, got.Date.Equal(want.Date))
		assert.True(t, got.Amount.Equal(want.Amount), "amount %s came back %s", want.Amount, got.Amount)
		assert.Equal(t, want.Kind, got.Kind)
		assert.Equal(t, want.Category, got.Category)
		assert.Equal(t, want.Description, got.Description, "neutralizing apostrophe must not survive re-import")
	}
}

func TestWriteKeepsSubCentPrecision(t *testing.T) {
	txns := []model.Transaction{{
		ID:          "a",
		Date:        date(2025, 6, 15),
		Amount:      dec("12.345"),
		Kind:        model.KindExpense,
		Category:    "Other",
		Description: "metered parking",
	}}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, txns))
	assert.Contains(t, buf.String(), ",12.345,", "amounts are written verbatim, never rounded")
}
