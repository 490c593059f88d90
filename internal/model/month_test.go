package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatParseMonth(t *testing.T) {
	m := FormatMonth(2025, 1)
	assert.Equal(t, Month("2025-01"), m)

	year, month, err := ParseMonth(m)
	require.NoError(t, err)
	assert.Equal(t, 2025, year)
	assert.Equal(t, 1, month)
}

func TestParseMonthRejectsGarbage(t *testing.T) {
	for _, bad := range []Month{"", "2025", "2025-13", "2025-00", "abcd-ef"} {
		_, _, err := ParseMonth(bad)
		assert.Error(t, err, "month %q", bad)
	}
}

func TestPrevNextAcrossYearBoundary(t *testing.T) {
	assert.Equal(t, Month("2024-12"), Month("2025-01").Prev())
	assert.Equal(t, Month("2025-01"), Month("2024-12").Next())
}

func TestWindowChronological(t *testing.T) {
	w := Month("2025-02").Window(4)
	require.Len(t, w, 4)
	assert.Equal(t, []Month{"2024-11", "2024-12", "2025-01", "2025-02"}, w)
}

func TestMonthContains(t *testing.T) {
	m := Month("2025-01")
	assert.True(t, m.Contains(time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)))
	assert.False(t, m.Contains(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)))
}
