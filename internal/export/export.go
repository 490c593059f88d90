// Package export writes transactions back out as delimited text, with
// spreadsheet formula injection neutralized.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/tallied-dev/tallied/internal/model"
)

// Header is the exported CSV header. The column set matches what the
// generic CSV parser maps, so an export re-imports cleanly.
const Header = "Date,Description,Amount,Type,Category"

const dateFormat = "2006-01-02"

// Write exports transactions as CSV. Any field that would be interpreted
// as a formula by spreadsheet software (leading =, +, -, @) is prefixed
// with a neutralizing apostrophe.
func Write(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, t := range txns {
		row := []string{
			t.Date.Format(dateFormat),
			Neutralize(t.Description),
			t.Amount.String(),
			string(t.Kind),
			Neutralize(t.Category),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// Neutralize defends against formula injection: a field starting with a
// formula trigger character gets a leading apostrophe, which spreadsheet
// applications display as a text marker and do not evaluate.
func Neutralize(field string) string {
	if field == "" {
		return field
	}
	switch field[0] {
	case '=', '+', '-', '@':
		return "'" + field
	}
	return field
}
