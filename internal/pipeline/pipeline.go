// Package pipeline orchestrates an import: detect the dialect, parse,
// normalize, and categorize, in bounded batches with observable progress.
package pipeline

import (
	"bytes"
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/tallied-dev/tallied/internal/dialect"
	"github.com/tallied-dev/tallied/internal/model"
	"github.com/tallied-dev/tallied/internal/normalize"
)

// DefaultBatchSize bounds how many rows are normalized between progress
// reports and cancellation checks.
const DefaultBatchSize = 500

// Progress is reported after each batch, before the import completes.
type Progress struct {
	Rows     int // rows consumed so far
	Parsed   int // transactions produced so far
	Rejected int // rows dropped so far
}

// Options tunes one import run.
type Options struct {
	BatchSize  int
	OnProgress func(Progress)
}

// Result is the outcome of an import: transactions plus the accumulated
// per-row errors, so callers can report "imported N of M, K rejected".
type Result struct {
	Dialect      model.Dialect
	Transactions []model.Transaction
	Errors       []model.RowError
	Rows         int
}

// Pipeline runs imports.
type Pipeline struct {
	registry   *dialect.Registry
	normalizer *normalize.Normalizer
	log        zerolog.Logger
}

// New creates a Pipeline.
func New(registry *dialect.Registry, normalizer *normalize.Normalizer, log zerolog.Logger) *Pipeline {
	return &Pipeline{registry: registry, normalizer: normalizer, log: log}
}

// Run imports one blob. Terminal failures are an unrecognized format or a
// file yielding zero valid rows; everything else degrades to RowErrors in
// the Result. Cancellation is honored between batches: transactions
// already produced are returned with ctx.Err(), not discarded.
func (p *Pipeline) Run(ctx context.Context, blob []byte, filename string, opts Options) (Result, error) {
	d, err := dialect.Detect(blob, filename)
	if err != nil {
		return Result{}, err
	}

	parser := p.registry.Get(d)
	if parser == nil {
		return Result{Dialect: d}, model.ErrFormatUnrecognized
	}

	rows, rowErrs, err := parser.Parse(bytes.NewReader(blob))
	result := Result{Dialect: d, Errors: rowErrs, Rows: len(rows) + len(rowErrs)}
	if err != nil {
		return result, err
	}

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	for start := 0; start < len(rows); start += batchSize {
		if err := ctx.Err(); err != nil {
			p.log.Warn().Str("dialect", string(d)).Int("parsed", len(result.Transactions)).Msg("import cancelled between batches")
			return result, err
		}

		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}

		txns, nerrs := p.normalizer.Normalize(rows[start:end], d)
		result.Transactions = append(result.Transactions, txns...)
		result.Errors = append(result.Errors, nerrs...)

		if opts.OnProgress != nil {
			opts.OnProgress(Progress{
				Rows:     end + len(rowErrs),
				Parsed:   len(result.Transactions),
				Rejected: len(result.Errors),
			})
		}
	}

	if len(result.Transactions) == 0 {
		return result, model.ErrNoValidRows
	}

	p.log.Info().
		Str("dialect", string(d)).
		Int("parsed", len(result.Transactions)).
		Int("rejected", len(result.Errors)).
		Msg("import complete")
	return result, nil
}

// IsTerminal reports whether an import error is a whole-file failure
// rather than a per-row one.
func IsTerminal(err error) bool {
	return errors.Is(err, model.ErrFormatUnrecognized) || errors.Is(err, model.ErrNoValidRows)
}
