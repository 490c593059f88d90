package dialect

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tallied-dev/tallied/internal/model"
)

// CSVParser parses generic delimited exports with a header row. Column
// mapping is header-driven, so exports with reordered or extra columns
// still import.
type CSVParser struct{}

// Dialect returns the parser's dialect tag.
func (p *CSVParser) Dialect() model.Dialect { return model.DialectCSV }

// Parse reads a generic CSV export.
func (p *CSVParser) Parse(r io.Reader) ([]Row, []model.RowError, error) {
	return parseDelimited(r, ',')
}

// SpreadsheetParser parses tab-delimited spreadsheet table exports. The
// format is the generic delimited one with a tab separator.
type SpreadsheetParser struct{}

// Dialect returns the parser's dialect tag.
func (p *SpreadsheetParser) Dialect() model.Dialect { return model.DialectSpreadsheet }

// Parse reads a tab-delimited export.
func (p *SpreadsheetParser) Parse(r io.Reader) ([]Row, []model.RowError, error) {
	return parseDelimited(r, '\t')
}

// columnMap resolves header names to field positions. -1 = absent.
type columnMap struct {
	date, desc, amount, kind, category, debit, credit int
}

func parseDelimited(r io.Reader, comma rune) ([]Row, []model.RowError, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, model.ErrNoValidRows
	}
	if err != nil {
		return nil, nil, fmt.Errorf("reading header row: %w", err)
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, nil, err
	}

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

// mapColumns locates known columns in a header row, matching common name
// variants case-insensitively.
func mapColumns(header []string) (columnMap, error) {
	cols := columnMap{date: -1, desc: -1, amount: -1, kind: -1, category: -1, debit: -1, credit: -1}
	for i, name := range header {
		switch normalizeHeader(name) {
		case "date", "transaction date", "posting date", "posted date":
			cols.date = i
		case "description", "desc", "payee", "name", "merchant", "memo", "original description":
			if cols.desc == -1 {
				cols.desc = i
			}
		case "amount", "value", "transaction amount":
			cols.amount = i
		case "type", "kind", "transaction type":
			cols.kind = i
		case "category":
			cols.category = i
		case "debit", "withdrawal", "money out":
			cols.debit = i
		case "credit", "deposit", "money in":
			cols.credit = i
		}
	}

	if cols.date == -1 {
		return cols, fmt.Errorf("%w: no date column in header", model.ErrNoValidRows)
	}
	if cols.amount == -1 && cols.debit == -1 && cols.credit == -1 {
		return cols, fmt.Errorf("%w: no amount column in header", model.ErrNoValidRows)
	}
	return cols, nil
}

func normalizeHeader(name string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF")))
}

func mapRecord(rec []string, cols columnMap, line int) (Row, *model.RowError) {
	field := func(i int) string {
		if i < 0 || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	row := Row{
		Line:        line,
		Date:        field(cols.date),
		Description: field(cols.desc),
		Amount:      field(cols.amount),
		Debit:       field(cols.debit),
		Credit:      field(cols.credit),
		Kind:        field(cols.kind),
		Category:    field(cols.category),
	}

	if row.Date == "" {
		return Row{}, &model.RowError{Line: line, Field: "date", Reason: "missing required field"}
	}
	if row.Amount == "" && row.Debit == "" && row.Credit == "" {
		return Row{}, &model.RowError{Line: line, Field: "amount", Reason: "missing required field"}
	}
	return row, nil
}
