package dialect

import (
	"path/filepath"
	"strings"

	"github.com/tallied-dev/tallied/internal/model"
)

// sniffLimit bounds how much of a blob Detect inspects.
const sniffLimit = 4096

// Detect classifies a raw blob into a dialect. The filename hint (may be
// empty) is consulted first; ambiguous or absent extensions fall through to
// content sniffing. Pure text classification: nothing in the blob is ever
// executed or interpreted.
func Detect(blob []byte, filename string) (model.Dialect, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".qif":
		return model.DialectQIF, nil
	case ".ofx", ".qfx":
		return model.DialectOFX, nil
	case ".tsv", ".tab":
		return model.DialectSpreadsheet, nil
	case ".csv", ".txt", "":
		// Fall through to content sniffing; CSV needs bank-variant
		// disambiguation anyway.
	default:
		// Unknown extension: still try the content.
	}

	head := blob
	if len(head) > sniffLimit {
		head = head[:sniffLimit]
	}
	text := strings.TrimLeft(string(head), "\uFEFF \t\r\n")
	upper := strings.ToUpper(text)

	switch {
	case strings.Contains(upper, "OFXHEADER") || strings.Contains(upper, "<OFX>") || strings.Contains(upper, "<?OFX"):
		return model.DialectOFX, nil
	case strings.HasPrefix(text, "!Type:") || strings.Contains(text, "\n!Type:"):
		return model.DialectQIF, nil
	}

	header := firstLine(text)
	switch {
	case isMintHeader(header):
		return model.DialectMintCSV, nil
	case isChaseHeader(header):
		return model.DialectChaseCSV, nil
	case strings.Contains(header, "\t"):
		return model.DialectSpreadsheet, nil
	case strings.Contains(header, ","):
		return model.DialectCSV, nil
	}

	return "", model.ErrFormatUnrecognized
}

func firstLine(s string) string {
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		return s[:i]
	}
	return s
}

// isMintHeader matches the Mint export header, tolerating column-name
// variants ("Original Description" vs "Description").
func isMintHeader(header string) bool {
	h := strings.ToLower(header)
	return strings.Contains(h, "transaction type") &&
		strings.Contains(h, "category") &&
		strings.Contains(h, "account name")
}

// isChaseHeader matches the Chase checking export header.
func isChaseHeader(header string) bool {
	h := strings.ToLower(header)
	return strings.Contains(h, "posting date") &&
		strings.Contains(h, "details") &&
		strings.Contains(h, "amount")
}
