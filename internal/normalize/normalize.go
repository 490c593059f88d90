// Package normalize converts loosely-typed dialect rows into canonical
// Transactions: amount and date sanitization, direction resolution,
// description cleanup, and bounds enforcement.
package normalize

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tallied-dev/tallied/internal/dialect"
	"github.com/tallied-dev/tallied/internal/model"
)

// DefaultAmountCeiling rejects absurd values from corrupt files. Matches
// the upper bound the insight payload contract accepts.
var DefaultAmountCeiling = decimal.NewFromInt(1_000_000_000)

// DefaultMaxDescription bounds description length in runes.
const DefaultMaxDescription = 200

// CategoryResolver maps a raw source category and description to a member
// of the closed category allow-list.
type CategoryResolver interface {
	Resolve(rawCategory, description string) string
}

// Normalizer turns dialect rows into Transactions.
type Normalizer struct {
	Ceiling        decimal.Decimal
	MaxDescription int
	Resolver       CategoryResolver

	// Now supplies the current date for two-digit-year resolution.
	// Overridable in tests.
	Now func() time.Time
	// NewID mints transaction IDs. Overridable in tests.
	NewID func() string
}

// New returns a Normalizer with default bounds.
func New(resolver CategoryResolver) *Normalizer {
	return &Normalizer{
		Ceiling:        DefaultAmountCeiling,
		MaxDescription: DefaultMaxDescription,
		Resolver:       resolver,
		Now:            time.Now,
		NewID:          uuid.NewString,
	}
}

// Normalize converts rows into Transactions. Rows that fail value parsing
// or bounds checks are dropped with a recorded reason; the error list is
// returned alongside the survivors, never instead of them.
func (n *Normalizer) Normalize(rows []dialect.Row, d model.Dialect) ([]model.Transaction, []model.RowError) {
	var txns []model.Transaction
	var rowErrs []model.RowError

	for _, row := range rows {
		txn, rerr := n.normalizeRow(row, d)
		if rerr != nil {
			rowErrs = append(rowErrs, *rerr)
			continue
		}
		txns = append(txns, txn)
	}
	return txns, rowErrs
}

func (n *Normalizer) normalizeRow(row dialect.Row, d model.Dialect) (model.Transaction, *model.RowError) {
	date, err := ParseDate(row.Date, n.Now())
	if err != nil {
		return model.Transaction{}, &model.RowError{Line: row.Line, Field: "date", Reason: err.Error()}
	}

	amount, kind, rerr := n.resolveAmount(row)
	if rerr != nil {
		rerr.Line = row.Line
		return model.Transaction{}, rerr
	}

	if amount.GreaterThan(n.Ceiling) {
		return model.Transaction{}, &model.RowError{
			Line: row.Line, Field: "amount",
			Reason: "amount " + amount.String() + " exceeds ceiling " + n.Ceiling.String(),
		}
	}

	desc := n.sanitizeDescription(row.Description)

	return model.Transaction{
		ID:            n.NewID(),
		Date:          date,
		Amount:        amount,
		Kind:          kind,
		Category:      n.Resolver.Resolve(row.Category, desc),
		Description:   desc,
		SourceDialect: d,
	}, nil
}

// resolveAmount determines magnitude and direction from whichever of the
// amount/debit/credit/kind fields the dialect populated. An explicit kind
// column wins over the sign; the stored amount is always the magnitude.
func (n *Normalizer) resolveAmount(row dialect.Row) (decimal.Decimal, model.Kind, *model.RowError) {
	var raw string
	kind := kindFromLabel(row.Kind)

	switch {
	case row.Debit != "":
		raw = row.Debit
		kind = model.KindExpense
	case row.Credit != "":
		raw = row.Credit
		kind = model.KindIncome
	default:
		raw = row.Amount
	}

	amount, err := ParseAmount(raw)
	if err != nil {
		return decimal.Decimal{}, "", &model.RowError{Field: "amount", Reason: err.Error()}
	}

	if kind == "" {
		if amount.IsNegative() {
			kind = model.KindExpense
		} else {
			kind = model.KindIncome
		}
	}
	return amount.Abs(), kind, nil
}

// kindFromLabel maps dialect direction labels onto Kind. Unknown labels
// return "" so the sign decides.
func kindFromLabel(label string) model.Kind {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "income", "credit", "deposit":
		return model.KindIncome
	case "expense", "debit", "withdrawal", "ach_debit", "debit_card":
		return model.KindExpense
	default:
		return ""
	}
}

// sanitizeDescription strips control characters and markup, drops a
// leading formula-neutralizer quote (so exported files re-import
// identically), collapses whitespace, and truncates to the rune bound.
func (n *Normalizer) sanitizeDescription(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	runes := []rune(s)
	inTag := false
	for i, r := range runes {
		switch {
		case inTag:
			if r == '>' {
				inTag = false
			}
		case r == '<' && i+1 < len(runes) && (unicode.IsLetter(runes[i+1]) || runes[i+1] == '/'):
			// Only a tag-shaped "<" opens markup; a bare comparison
			// sign ("cost < 5") passes through.
			inTag = true
		case r < 0x20 || r == 0x7f:
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}

	out := strings.Join(strings.Fields(b.String()), " ")

	if len(out) > 1 && out[0] == '\'' && strings.ContainsRune("=+-@", rune(out[1])) {
		out = out[1:]
	}

	runes = []rune(out)
	if len(runes) > n.MaxDescription {
		out = string(runes[:n.MaxDescription])
	}
	return out
}
