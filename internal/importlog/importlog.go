// Package importlog keeps a CSV audit trail of import runs: which file,
// which dialect, how many rows made it in and how many were rejected.
package importlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Entry is one row in the import log.
type Entry struct {
	Timestamp time.Time
	File      string
	Dialect   string
	Imported  int
	Rejected  int
	Duration  time.Duration
}

// Header is the CSV header for import-log.csv.
const Header = "timestamp,file,dialect,imported,rejected,duration_ms"

const (
	numFields   = 6
	logDir      = "logs"
	logFile     = "logs/import-log.csv"
	colTime     = 0
	colFile     = 1
	colDialect  = 2
	colImported = 3
	colRejected = 4
	colDuration = 5
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTime] = e.Timestamp.Format(time.RFC3339)
	row[colFile] = e.File
	row[colDialect] = e.Dialect
	row[colImported] = strconv.Itoa(e.Imported)
	row[colRejected] = strconv.Itoa(e.Rejected)
	row[colDuration] = strconv.FormatInt(e.Duration.Milliseconds(), 10)
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTime])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTime], err)
	}

	imported, err := strconv.Atoi(record[colImported])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing imported %q: %w", record[colImported], err)
	}

	rejected, err := strconv.Atoi(record[colRejected])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing rejected %q: %w", record[colRejected], err)
	}

	ms, err := strconv.ParseInt(record[colDuration], 10, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing duration %q: %w", record[colDuration], err)
	}

	return Entry{
		Timestamp: ts,
		File:      record[colFile],
		Dialect:   record[colDialect],
		Imported:  imported,
		Rejected:  rejected,
		Duration:  time.Duration(ms) * time.Millisecond,
	}, nil
}

// Append adds an entry to <root>/logs/import-log.csv, creating the file
// with a header if needed.
func Append(root string, e Entry) error {
	if err := os.MkdirAll(filepath.Join(root, logDir), 0o755); err != nil {
		return fmt.Errorf("creating log dir: %w", err)
	}

	path := filepath.Join(root, logFile)
	isNew := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	cw := csv.NewWriter(f)
	if err := cw.Write(MarshalEntry(e)); err != nil {
		return fmt.Errorf("writing log entry: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <root>/logs/import-log.csv. A missing
// log is an empty history, not an error.
func Read(root string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(root, logFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = numFields

	var entries []Entry
	line := 0
	for {
		line++
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading import log row %d: %w", line, err)
		}
		if line == 1 && strings.HasPrefix(strings.Join(rec, ","), "timestamp,") {
			continue
		}
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("import log row %d: %w", line, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
