package store

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tallied-dev/tallied/internal/model"
)

// ValidationError describes a single invariant violation found before a
// write is committed.
type ValidationError struct {
	ID          string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s]: %s", e.ID, e.Description)
}

// CategoryChecker tests allow-list membership for a category name.
type CategoryChecker interface {
	Allowed(category string) bool
}

// ValidateTransactions enforces the canonical-record invariants on a set
// of transactions destined for one month file.
func ValidateTransactions(txns []model.Transaction, categories CategoryChecker, month model.Month, ceiling decimal.Decimal) []ValidationError {
	var errs []ValidationError

	seen := make(map[string]bool, len(txns))
	for _, t := range txns {
		if t.ID == "" {
			errs = append(errs, ValidationError{ID: "?", Description: "missing transaction ID"})
		} else if seen[t.ID] {
			errs = append(errs, ValidationError{ID: t.ID, Description: "duplicate transaction ID"})
		}
		seen[t.ID] = true

		if t.Amount.IsNegative() {
			errs = append(errs, ValidationError{ID: t.ID, Description: fmt.Sprintf("negative amount %s", t.Amount)})
		}
		if t.Amount.GreaterThan(ceiling) {
			errs = append(errs, ValidationError{ID: t.ID, Description: fmt.Sprintf("amount %s exceeds ceiling %s", t.Amount, ceiling)})
		}

		if t.Kind != model.KindIncome && t.Kind != model.KindExpense {
			errs = append(errs, ValidationError{ID: t.ID, Description: fmt.Sprintf("unknown kind %q", t.Kind)})
		}

		if categories != nil && !categories.Allowed(t.Category) {
			errs = append(errs, ValidationError{ID: t.ID, Description: fmt.Sprintf("category %q outside allow-list", t.Category)})
		}

		if !month.Contains(t.Date) {
			errs = append(errs, ValidationError{ID: t.ID, Description: fmt.Sprintf("date %s not in %s", t.Date.Format(dateFormat), month)})
		}
	}

	return errs
}
