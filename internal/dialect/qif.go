package dialect

import (
	"bufio"
	"io"
	"strings"

	"github.com/tallied-dev/tallied/internal/model"
)

// QIFParser parses Quicken interchange files: one field code per line,
// records terminated by a "^" line, sections introduced by "!Type:" headers.
type QIFParser struct{}

// Dialect returns the parser's dialect tag.
func (p *QIFParser) Dialect() model.Dialect { return model.DialectQIF }

// Parse reads a QIF stream. Field codes: D date, T/U amount, P payee,
// M memo, L category. Unknown codes are ignored, not errors.
func (p *QIFParser) Parse(r io.Reader) ([]Row, []model.RowError, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var rows []Row
	var rowErrs []model.RowError
	cur := Row{}
	started := false
	line := 0

	flush := func(endLine int) {
		if !started {
			return
		}
		switch {
		case cur.Date == "":
			rowErrs = append(rowErrs, model.RowError{Line: endLine, Field: "date", Reason: "missing required field"})
		case cur.Amount == "":
			rowErrs = append(rowErrs, model.RowError{Line: endLine, Field: "amount", Reason: "missing required field"})
		default:
			rows = append(rows, cur)
		}
		cur = Row{}
		started = false
	}

	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")
		if text == "" {
			continue
		}
		if strings.HasPrefix(text, "!") {
			// Section header (!Type:Bank etc). Starts a fresh record scope.
			flush(line)
			continue
		}

		code, value := text[0], strings.TrimSpace(text[1:])
		if !started {
			cur.Line = line
		}
		switch code {
		case '^':
			flush(line)
			continue
		case 'D':
			cur.Date = value
		case 'T', 'U':
			cur.Amount = value
		case 'P':
			cur.Description = value
		case 'M':
			if cur.Description == "" {
				cur.Description = value
			}
		case 'L':
			cur.Category = value
		default:
			// Codes we don't model (N, C, A, splits) are skipped.
			continue
		}
		started = true
	}
	if err := scanner.Err(); err != nil {
		return nil, rowErrs, err
	}
	flush(line + 1) // file may end without a trailing '^'

	if len(rows) == 0 {
		return nil, rowErrs, model.ErrNoValidRows
	}
	return rows, rowErrs, nil
}

// ResolveTwoDigitYear expands a two-digit year using a dynamic pivot: given
// the current two-digit year cy, y resolves to 20yy when y <= (cy+10) mod
// 100, else 19yy. The window slides forward as real current dates advance,
// so the century boundary never needs a hard-coded cutoff.
func ResolveTwoDigitYear(y, currentYear int) int {
	cy := currentYear % 100
	pivot := (cy + 10) % 100
	if y <= pivot {
		return 2000 + y
	}
	return 1900 + y
}
