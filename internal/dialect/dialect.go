// Package dialect classifies raw export blobs into supported file formats
// and parses each format into loosely-typed row records. Parsers never
// abort on a single malformed row: structural failures are collected as
// RowErrors and the rest of the file is still used.
package dialect

import (
	"io"
	"strings"

	"github.com/tallied-dev/tallied/internal/model"
)

// Row is the loosely-typed field set a dialect parser extracts from one
// source record. All values are raw strings; numeric and date sanitization
// happens in the normalizer.
type Row struct {
	Line        int // 1-based position in the source file
	Date        string
	Description string
	Amount      string // signed; empty if Debit/Credit are used instead
	Debit       string
	Credit      string
	Kind        string // "income"/"expense"/"debit"/"credit" when the format says so
	Category    string
}

// Parser converts a raw blob into rows plus per-row errors.
type Parser interface {
	Parse(r io.Reader) ([]Row, []model.RowError, error)
	Dialect() model.Dialect
}

// Registry holds parsers keyed by dialect.
type Registry struct {
	parsers map[model.Dialect]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[model.Dialect]Parser)}
}

// Register adds a parser. Panics on duplicate dialect.
func (r *Registry) Register(p Parser) {
	key := model.Dialect(strings.ToLower(string(p.Dialect())))
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser dialect: " + string(key))
	}
	r.parsers[key] = p
}

// Get returns the parser for a dialect, or nil.
func (r *Registry) Get(d model.Dialect) Parser {
	return r.parsers[model.Dialect(strings.ToLower(string(d)))]
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&CSVParser{})
	r.Register(&SpreadsheetParser{})
	r.Register(&OFXParser{})
	r.Register(&QIFParser{})
	r.Register(&MintParser{})
	r.Register(&ChaseParser{})
	return r
}
