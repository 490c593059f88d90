package importlog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadMissingLogIsEmpty(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAppendReadRoundTrip(t *testing.T) {
	root := t.TempDir()
	first := Entry{
		Timestamp: time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC),
		File:      "chase-june.csv",
		Dialect:   "chase",
		Imported:  412,
		Rejected:  3,
		Duration:  842 * time.Millisecond,
	}
	second := Entry{
		Timestamp: time.Date(2025, 6, 16, 18, 2, 0, 0, time.UTC),
		File:      "export.qif",
		Dialect:   "qif",
		Imported:  88,
		Rejected:  0,
		Duration:  120 * time.Millisecond,
	}

	require.NoError(t, Append(root, first))
	require.NoError(t, Append(root, second))

	entries, err := Read(root)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, first, entries[0])
	assert.Equal(t, second, entries[1])
}

func TestUnmarshalEntryRejectsShortRows(t *testing.T) {
	_, err := UnmarshalEntry([]string{"2025-06-15T09:30:00Z", "file.csv"})
	assert.Error(t, err)

	_, err = UnmarshalEntry([]string{"not-a-time", "f", "csv", "1", "0", "5"})
	assert.Error(t, err)

	_, err = UnmarshalEntry([]string{"2025-06-15T09:30:00Z", "f", "csv", "many", "0", "5"})
	assert.Error(t, err)
}
