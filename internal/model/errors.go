package model

import (
	"errors"
	"fmt"
)

// ErrFormatUnrecognized means no dialect could be determined for an input
// blob. Fatal for the file, reported to the caller.
var ErrFormatUnrecognized = errors.New("file format not recognized")

// ErrNoValidRows means a file was recognized but yielded zero usable rows.
var ErrNoValidRows = errors.New("no valid rows in file")

// ErrSettingNotFound distinguishes a missing setting from a store failure.
var ErrSettingNotFound = errors.New("setting not found")

// RowError records one malformed row. Collected, never thrown: a single
// bad row must not abort an import.
type RowError struct {
	Line   int // 1-based position in the source file, 0 if unknown
	Field  string
	Reason string
}

func (e RowError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("row %d: %s: %s", e.Line, e.Field, e.Reason)
	}
	return fmt.Sprintf("row %d: %s", e.Line, e.Reason)
}

// CommitError wraps a store failure so callers can tell a failed commit
// apart from validation problems. Never swallowed.
type CommitError struct {
	Op  string
	Err error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("store commit failed during %s: %v", e.Op, e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }
