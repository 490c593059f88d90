package dialect

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tallied-dev/tallied/internal/model"
)

// MintParser parses Mint CSV exports. Amounts are unsigned; direction is
// the "Transaction Type" column (debit/credit). Column names drifted over
// the tool's lifetime ("Description" vs "Original Description"), so the
// header is normalized before mapping.
type MintParser struct{}

// Dialect returns the parser's dialect tag.
func (p *MintParser) Dialect() model.Dialect { return model.DialectMintCSV }

// Parse reads a Mint CSV export.
func (p *MintParser) Parse(r io.Reader) ([]Row, []model.RowError, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, model.ErrNoValidRows
	}
	if err != nil {
		return nil, nil, fmt.Errorf("reading mint header: %w", err)
	}
	if !isMintHeader(strings.Join(header, ",")) {
		return nil, nil, fmt.Errorf("%w: not a mint export header", model.ErrFormatUnrecognized)
	}

	cols := mintColumns(header)

	var rows []Row
	var rowErrs []model.RowError
	line := 1
	for {
		line++
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			rowErrs = append(rowErrs, model.RowError{Line: line, Reason: err.Error()})
			continue
		}

		row, rerr := mapRecord(rec, cols, line)
		if rerr != nil {
			rowErrs = append(rowErrs, *rerr)
			continue
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, rowErrs, model.ErrNoValidRows
	}
	return rows, rowErrs, nil
}

// mintColumns maps the Mint schema onto the generic column map, preferring
// the original (pre-cleanup) description when both variants are present.
func mintColumns(header []string) columnMap {
	cols := columnMap{date: -1, desc: -1, amount: -1, kind: -1, category: -1, debit: -1, credit: -1}
	for i, name := range header {
		switch normalizeHeader(name) {
		case "date":
			cols.date = i
		case "original description":
			cols.desc = i
		case "description":
			if cols.desc == -1 {
				cols.desc = i
			}
		case "amount":
			cols.amount = i
		case "transaction type":
			cols.kind = i
		case "category":
			cols.category = i
		}
	}
	return cols
}
