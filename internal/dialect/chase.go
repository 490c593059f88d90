package dialect

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tallied-dev/tallied/internal/model"
)

// ChaseParser parses Chase bank checking CSV exports, which carry a fixed
// column schema with the direction in the leading Details column.
type ChaseParser struct{}

const (
	chaseNumFields  = 7
	chaseColDetails = 0 // DEBIT / CREDIT
	chaseColDate    = 1 // Posting Date
	chaseColDesc    = 2
	chaseColAmount  = 3
	chaseColType    = 4
)

// Dialect returns the parser's dialect tag.
func (p *ChaseParser) Dialect() model.Dialect { return model.DialectChaseCSV }

// Parse reads a Chase CSV export.
func (p *ChaseParser) Parse(r io.Reader) ([]Row, []model.RowError, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, model.ErrNoValidRows
	}
	if err != nil {
		return nil, nil, fmt.Errorf("reading chase header: %w", err)
	}
	if !isChaseHeader(strings.Join(header, ",")) {
		return nil, nil, fmt.Errorf("%w: not a chase export header", model.ErrFormatUnrecognized)
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
		if len(rec) < chaseNumFields-2 { // trailing Balance/Check cols are often absent
			rowErrs = append(rowErrs, model.RowError{Line: line, Reason: fmt.Sprintf("expected %d fields, got %d", chaseNumFields, len(rec))})
			continue
		}

		row := Row{
			Line:        line,
			Date:        strings.TrimSpace(rec[chaseColDate]),
			Description: strings.TrimSpace(rec[chaseColDesc]),
			Amount:      strings.TrimSpace(rec[chaseColAmount]),
			Kind:        strings.TrimSpace(rec[chaseColDetails]),
		}
		if row.Date == "" || row.Amount == "" {
			rowErrs = append(rowErrs, model.RowError{Line: line, Reason: "missing date or amount"})
			continue
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, rowErrs, model.ErrNoValidRows
	}
	return rows, rowErrs, nil
}
