package dialect

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallied-dev/tallied/internal/model"
)

const sampleQIF = `!Type:Bank
D01/15/2024
T-50.00
PGrocery Store
^
D01/16/2024
T100.00
PSalary
MJanuary pay
^
`

func TestQIFParse(t *testing.T) {
	p := &QIFParser{}
	rows, rowErrs, err := p.Parse(strings.NewReader(sampleQIF))
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, rows, 2)

	assert.Equal(t, "01/15/2024", rows[0].Date)
	assert.Equal(t, "-50.00", rows[0].Amount)
	assert.Equal(t, "Grocery Store", rows[0].Description)

	assert.Equal(t, "100.00", rows[1].Amount)
	assert.Equal(t, "Salary", rows[1].Description)
}

func TestQIFCategoryAndMemoFallback(t *testing.T) {
	input := "!Type:Bank\nD02/01/2024\nT-9.99\nMmemo only\nLEntertainment\n^\n"
	p := &QIFParser{}
	rows, _, err := p.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "memo only", rows[0].Description)
	assert.Equal(t, "Entertainment", rows[0].Category)
}

func TestQIFRecordMissingAmount(t *testing.T) {
	input := "!Type:Bank\nD01/15/2024\nPNo amount here\n^\nD01/16/2024\nT-5.00\n^\n"
	p := &QIFParser{}
	rows, rowErrs, err := p.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Len(t, rowErrs, 1)
	assert.Equal(t, "amount", rowErrs[0].Field)
}

func TestQIFMissingTrailingSeparator(t *testing.T) {
	input := "!Type:Bank\nD01/15/2024\nT-50.00\nPDangling"
	p := &QIFParser{}
	rows, _, err := p.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Dangling", rows[0].Description)
}

func TestQIFEmptyInput(t *testing.T) {
	p := &QIFParser{}
	_, _, err := p.Parse(strings.NewReader(""))
	assert.ErrorIs(t, err, model.ErrNoValidRows)

	_, _, err = p.Parse(strings.NewReader("!Type:Bank\n"))
	assert.ErrorIs(t, err, model.ErrNoValidRows)
}

func TestResolveTwoDigitYearPivot(t *testing.T) {
	// Fixed "current year" 2025: pivot is (25+10) mod 100 = 35.
	cases := []struct {
		y    int
		want int
	}{
		{30, 2030},
		{40, 1940},
		{35, 2035},
		{36, 1936},
		{0, 2000},
		{99, 1999},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ResolveTwoDigitYear(tc.y, 2025), "year code %02d", tc.y)
	}
}

func TestResolveTwoDigitYearPivotSlides(t *testing.T) {
	// The window follows the current date instead of a fixed cutoff.
	assert.Equal(t, 2040, ResolveTwoDigitYear(40, 2030))
	assert.Equal(t, 1941, ResolveTwoDigitYear(41, 2030))
}
