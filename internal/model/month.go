package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Month is a calendar month identifier in "YYYY-MM" form.
type Month string

// FormatMonth returns a Month like "2025-01".
func FormatMonth(year, month int) Month {
	return Month(fmt.Sprintf("%04d-%02d", year, month))
}

// MonthOf returns the Month containing t.
func MonthOf(t time.Time) Month {
	return FormatMonth(t.Year(), int(t.Month()))
}

// ParseMonth parses "2025-01" into year and month.
func ParseMonth(m Month) (year, month int, err error) {
	parts := strings.SplitN(string(m), "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid month key format: %q", m)
	}

	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year in month key %q: %w", m, err)
	}

	month, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month in month key %q: %w", m, err)
	}
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("month out of range in month key %q", m)
	}

	return year, month, nil
}

// Prev returns the month immediately before m.
func (m Month) Prev() Month {
	year, month, err := ParseMonth(m)
	if err != nil {
		return m
	}
	month--
	if month == 0 {
		month = 12
		year--
	}
	return FormatMonth(year, month)
}

// Next returns the month immediately after m.
func (m Month) Next() Month {
	year, month, err := ParseMonth(m)
	if err != nil {
		return m
	}
	month++
	if month == 13 {
		month = 1
		year++
	}
	return FormatMonth(year, month)
}

// Window returns the n months ending at m, in chronological order.
func (m Month) Window(n int) []Month {
	if n <= 0 {
		return nil
	}
	out := make([]Month, n)
	cur := m
	for i := n - 1; i >= 0; i-- {
		out[i] = cur
		cur = cur.Prev()
	}
	return out
}

// Contains reports whether t falls inside m.
func (m Month) Contains(t time.Time) bool {
	return MonthOf(t) == m
}
