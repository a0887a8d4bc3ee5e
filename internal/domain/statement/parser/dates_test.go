package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFindDate(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    time.Time
		matched string
	}{
		{"dd-mm-yy", "05-06-07 UPI payment", day(2007, time.June, 5), "05-06-07"},
		{"dd-mm-yyyy", "15-01-2025 ATM WDL 2500.00", day(2025, time.January, 15), "15-01-2025"},
		{"dd/mm/yyyy", "15/01/2025 NEFT transfer", day(2025, time.January, 15), "15/01/2025"},
		{"yyyy-mm-dd", "2025-01-15 salary credit", day(2025, time.January, 15), "2025-01-15"},
		{"dd mmm yyyy", "15 Jan 2025 grocery", day(2025, time.January, 15), "15 Jan 2025"},
		{"dd mmm with ordinal", "1st Mar 2024 rent", day(2024, time.March, 1), "1st Mar 2024"},
		{"full month name", "15 January 2025", day(2025, time.January, 15), "15 January 2025"},
		{"ocr squashed with comma", "15Jan, 2025", day(2025, time.January, 15), "15Jan, 2025"},
		{"two digit year expands forward", "01-01-49 txn", day(2049, time.January, 1), "01-01-49"},
		{"two digit year expands backward", "01-01-99 txn", day(1999, time.January, 1), "01-01-99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, matched, ok := FindDate(tt.line)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.matched, matched)
		})
	}

	t.Run("priority order is fixed", func(t *testing.T) {
		// Both the 2-digit and 4-digit grammars could claim part of this
		// line; the declared order decides.
		got, matched, ok := FindDate("ref 15-01-25 against invoice 2024-03-01")
		require.True(t, ok)
		assert.Equal(t, day(2025, time.January, 15), got)
		assert.Equal(t, "15-01-25", matched)
	})

	t.Run("rejects impossible dates", func(t *testing.T) {
		_, _, ok := FindDate("31-02-2025 bogus row")
		assert.False(t, ok)
	})

	t.Run("no date", func(t *testing.T) {
		_, _, ok := FindDate("UPI transaction id 4412398812")
		assert.False(t, ok)
	})
}

func TestParseCellDate(t *testing.T) {
	tests := []struct {
		cell string
		want time.Time
		ok   bool
	}{
		{"15-01-2025", day(2025, time.January, 15), true},
		{"15/01/2025", day(2025, time.January, 15), true},
		{"2025-01-15", day(2025, time.January, 15), true},
		{"15 Jan 2025", day(2025, time.January, 15), true},
		{"15-Jan-2025", day(2025, time.January, 15), true},
		{"15.01.2025", day(2025, time.January, 15), true},
		{"15-01-2025 10:32", day(2025, time.January, 15), true},
		{"", time.Time{}, false},
		{"not a date", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			got, ok := ParseCellDate(tt.cell)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}

	t.Run("day first, never month first", func(t *testing.T) {
		got, ok := ParseCellDate("03-04-2025")
		require.True(t, ok)
		assert.Equal(t, day(2025, time.April, 3), got)
	})
}
