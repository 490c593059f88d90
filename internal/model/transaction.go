package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind classifies the direction of a transaction.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// Dialect identifies the source file format a transaction was imported from.
type Dialect string

const (
	DialectCSV         Dialect = "csv"
	DialectSpreadsheet Dialect = "spreadsheet"
	DialectOFX         Dialect = "ofx"
	DialectQIF         Dialect = "qif"
	DialectMintCSV     Dialect = "mint"
	DialectChaseCSV    Dialect = "chase"
)

// Transaction is the canonical, format-independent record of a single
// financial event. Amount is always non-negative; direction lives in Kind.
type Transaction struct {
	ID            string
	Date          time.Time // date-only, UTC midnight
	Amount        decimal.Decimal
	Kind          Kind
	Category      string
	Description   string
	SourceDialect Dialect // provenance, diagnostics only
}

// MonthKey returns the month identifier ("2025-01") for the transaction date.
func (t Transaction) MonthKey() Month {
	return MonthOf(t.Date)
}

// Signed returns the amount with the sign implied by Kind
// (expenses negative, income positive).
func (t Transaction) Signed() decimal.Decimal {
	if t.Kind == KindExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}
