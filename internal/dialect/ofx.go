package dialect

import (
	"io"
	"strings"

	"github.com/tallied-dev/tallied/internal/model"
)

// OFXParser parses OFX/QFX statements. Real bank exports are SGML tag
// soup, not XML: close tags are optional and values run to the next tag or
// newline, so this is a tolerant scanner rather than a strict document
// parser. A structurally broken STMTTRN block costs one RowError, never
// the whole file.
type OFXParser struct{}

// Dialect returns the parser's dialect tag.
func (p *OFXParser) Dialect() model.Dialect { return model.DialectOFX }

// Parse scans STMTTRN blocks out of an OFX/QFX stream.
func (p *OFXParser) Parse(r io.Reader) ([]Row, []model.RowError, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}

	var rows []Row
	var rowErrs []model.RowError
	cur := Row{}
	inTxn := false
	line := 1

	flush := func() {
		if !inTxn {
			return
		}
		switch {
		case cur.Date == "":
			rowErrs = append(rowErrs, model.RowError{Line: cur.Line, Field: "DTPOSTED", Reason: "missing required field"})
		case cur.Amount == "":
			rowErrs = append(rowErrs, model.RowError{Line: cur.Line, Field: "TRNAMT", Reason: "missing required field"})
		default:
			rows = append(rows, cur)
		}
		cur = Row{}
		inTxn = false
	}

	for _, chunk := range strings.Split(string(data), "<") {
		name, value, ok := strings.Cut(chunk, ">")
		if !ok {
			line += strings.Count(chunk, "\n")
			continue
		}
		value = strings.TrimSpace(firstLine(value))

		switch strings.ToUpper(strings.TrimSpace(name)) {
		case "STMTTRN":
			flush()
			inTxn = true
			cur.Line = line
		case "/STMTTRN":
			flush()
		case "DTPOSTED":
			if inTxn {
				cur.Date = value
			}
		case "TRNAMT":
			if inTxn {
				cur.Amount = value
			}
		case "NAME", "PAYEE":
			if inTxn && cur.Description == "" {
				cur.Description = value
			}
		case "MEMO":
			if inTxn && cur.Description == "" {
				cur.Description = value
			}
		case "TRNTYPE":
			if inTxn {
				cur.Kind = value
			}
		}
		line += strings.Count(chunk, "\n")
	}
	flush() // tag soup may omit the final close tag

	if len(rows) == 0 {
		return nil, rowErrs, model.ErrNoValidRows
	}
	return rows, rowErrs, nil
}
