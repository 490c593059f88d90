package normalize

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallied-dev/tallied/internal/dialect"
)

// ParseAmount parses a monetary value tolerating currency symbols,
// accounting parentheses, and both thousands/decimal separator
// conventions ("1,234.56" and "1.234,56").
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("empty amount")
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = strings.Trim(s, "$€£ ")
	// Some locales group thousands with spaces ("1 234,56").
	s = strings.ReplaceAll(s, " ", "")

	s = normalizeSeparators(s)

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("unparseable amount %q", s)
	}
	if negative {
		amount = amount.Neg()
	}
	return amount, nil
}

// normalizeSeparators rewrites locale-specific grouping so the result has
// at most one '.' as the decimal point. When both separators appear, the
// rightmost one is the decimal point. A lone comma followed by exactly
// three trailing digits is read as grouping, anything else as a decimal
// comma.
func normalizeSeparators(s string) string {
	lastComma := strings.LastIndexByte(s, ',')
	lastDot := strings.LastIndexByte(s, '.')

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastDot > lastComma {
			return strings.ReplaceAll(s, ",", "")
		}
		s = strings.ReplaceAll(s, ".", "")
		return strings.Replace(s, ",", ".", 1)
	case lastComma >= 0:
		if strings.Count(s, ",") == 1 && len(s)-lastComma-1 == 3 {
			return strings.ReplaceAll(s, ",", "")
		}
		if strings.Count(s, ",") > 1 {
			return strings.ReplaceAll(s, ",", "")
		}
		return strings.Replace(s, ",", ".", 1)
	case strings.Count(s, ".") > 1:
		return strings.ReplaceAll(s, ".", "")
	default:
		return s
	}
}

var namedMonthLayouts = []string{
	"2-Jan-2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ParseDate parses a calendar date across the formats observed in real
// exports: ISO, compact OFX stamps, US and EU numeric forms, named
// months, and two-digit years (resolved against now via the dynamic
// pivot). The result is date-only, UTC midnight. Impossible dates
// (2023-02-29, month 13) are rejected, not normalized away.
func ParseDate(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	// QIF writes years after an apostrophe: "1/15'24".
	s = strings.ReplaceAll(s, "'", "/")

	// OFX compact stamp: YYYYMMDD with optional time/zone suffix.
	if digits := leadingDigits(s); len(digits) >= 8 {
		y, _ := strconv.Atoi(digits[:4])
		m, _ := strconv.Atoi(digits[4:6])
		d, _ := strconv.Atoi(digits[6:8])
		return makeDate(y, m, d)
	}

	if t, err := time.Parse("2006-01-02", s); err == nil {
		return dateOnly(t), nil
	}
	for _, layout := range namedMonthLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOnly(t), nil
		}
	}

	if parts := splitDate(s); len(parts) == 3 {
		return resolveNumericDate(parts, now)
	}

	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

func leadingDigits(s string) string {
	for i, r := range s {
		if r < '0' || r > '9' {
			return s[:i]
		}
	}
	return s
}

func splitDate(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == '/' || r == '-' || r == '.'
	})
}

// resolveNumericDate disambiguates a three-part numeric date. Four-digit
// parts pin the year; otherwise US order is tried first (the source
// formats are US-centric), then EU order, then year-first for two-digit
// year files like "99/12/31".
func resolveNumericDate(parts []string, now time.Time) (time.Time, error) {
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, fmt.Errorf("unparseable date part %q", p)
		}
		nums[i] = n
	}

	switch {
	case len(parts[0]) == 4:
		return makeDate(nums[0], nums[1], nums[2])
	case len(parts[2]) == 4:
		if nums[0] > 12 && nums[1] <= 12 {
			return makeDate(nums[2], nums[1], nums[0]) // EU day-first
		}
		return makeDate(nums[2], nums[0], nums[1])
	default:
		// Two-digit year.
		if nums[0] > 31 {
			return makeDate(dialect.ResolveTwoDigitYear(nums[0], now.Year()), nums[1], nums[2])
		}
		year := dialect.ResolveTwoDigitYear(nums[2], now.Year())
		if nums[0] > 12 && nums[1] <= 12 {
			return makeDate(year, nums[1], nums[0])
		}
		return makeDate(year, nums[0], nums[1])
	}
}

func makeDate(year, month, day int) (time.Time, error) {
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, fmt.Errorf("invalid date %04d-%02d-%02d", year, month, day)
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (Feb 30 -> Mar 2); reject that.
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return time.Time{}, fmt.Errorf("invalid date %04d-%02d-%02d", year, month, day)
	}
	return t, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
