package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallied-dev/tallied/internal/categorize"
	"github.com/tallied-dev/tallied/internal/dialect"
	"github.com/tallied-dev/tallied/internal/model"
	"github.com/tallied-dev/tallied/internal/normalize"
)

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	return New(dialect.DefaultRegistry(), normalize.New(categorize.Default()), zerolog.Nop())
}

// buildCSV produces n data rows; badLine (1-based data row, 0 for none)
// gets a non-numeric amount.
func buildCSV(n, badLine int) []byte {
	var b strings.Builder
	b.WriteString("Date,Description,Amount,Type,Category\n")
	for i := 1; i <= n; i++ {
		amount := "12.50"
		if i == badLine {
			amount = "twelve"
		}
		fmt.Fprintf(&b, "2025-06-%02d,grocery run %d,%s,expense,Food\n", i%28+1, i, amount)
	}
	return []byte(b.String())
}

func TestRunOneBadRowAmongThousand(t *testing.T) {
	p := newTestPipeline(t)

	result, err := p.Run(context.Background(), buildCSV(1000, 500), "bank.csv", Options{})
	require.NoError(t, err)
	assert.Equal(t, model.DialectCSV, result.Dialect)
	assert.Len(t, result.Transactions, 999)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 501, result.Errors[0].Line, "header is line 1")
	assert.Contains(t, result.Errors[0].Reason, "amount")
}

func TestRunProgressReported(t *testing.T) {
	p := newTestPipeline(t)

	var reports []Progress
	opts := Options{
		BatchSize:  100,
		OnProgress: func(pr Progress) { reports = append(reports, pr) },
	}
	result, err := p.Run(context.Background(), buildCSV(250, 0), "bank.csv", opts)
	require.NoError(t, err)
	assert.Len(t, result.Transactions, 250)

	require.Len(t, reports, 3)
	assert.Equal(t, Progress{Rows: 100, Parsed: 100}, reports[0])
	assert.Equal(t, Progress{Rows: 250, Parsed: 250}, reports[2])
}

func TestRunCancellationKeepsPartialResults(t *testing.T) {
	p := newTestPipeline(t)

	ctx, cancel := context.WithCancel(context.Background())
	opts := Options{
		BatchSize: 100,
		OnProgress: func(pr Progress) {
			if pr.Parsed >= 200 {
				cancel()
			}
		},
	}
	result, err := p.Run(ctx, buildCSV(1000, 0), "bank.csv", opts)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 200, len(result.Transactions), "batches finished before cancellation survive")
}

func TestRunUnrecognizedFormatIsTerminal(t *testing.T) {
	p := newTestPipeline(t)

	_, err := p.Run(context.Background(), []byte("%PDF-1.4 not a statement"), "statement.pdf", Options{})
	assert.ErrorIs(t, err, model.ErrFormatUnrecognized)
	assert.True(t, IsTerminal(err))
}

func TestRunNoValidRowsIsTerminal(t *testing.T) {
	p := newTestPipeline(t)

	blob := []byte("Date,Description,Amount\nnonsense,shrug,not-money\n")
	result, err := p.Run(context.Background(), blob, "bank.csv", Options{})
	assert.ErrorIs(t, err, model.ErrNoValidRows)
	assert.True(t, IsTerminal(err))
	assert.NotEmpty(t, result.Errors)
}

func TestRunDetectsByExtensionAndContent(t *testing.T) {
	p := newTestPipeline(t)

	qif := "!Type:Bank\nD6/15/2025\nT-15.99\nPNETFLIX.COM\n^\n"
	result, err := p.Run(context.Background(), []byte(qif), "export.qif", Options{})
	require.NoError(t, err)
	assert.Equal(t, model.DialectQIF, result.Dialect)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, model.KindExpense, result.Transactions[0].Kind)

	// Same content, no extension: content sniffing decides.
	result, err = p.Run(context.Background(), []byte(qif), "download", Options{})
	require.NoError(t, err)
	assert.Equal(t, model.DialectQIF, result.Dialect)
}

func TestRunRowErrorsAreNotTerminal(t *testing.T) {
	p := newTestPipeline(t)

	result, err := p.Run(context.Background(), buildCSV(10, 3), "bank.csv", Options{})
	require.NoError(t, err)
	assert.False(t, IsTerminal(err))
	assert.Len(t, result.Transactions, 9)
	assert.Equal(t, 10, result.Rows)
}
