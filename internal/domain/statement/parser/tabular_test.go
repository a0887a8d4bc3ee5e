package parser

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paisawise/statement-import/internal/domain/statement"
)

func TestDetectLayout(t *testing.T) {
	t.Run("column headers mean tabular", func(t *testing.T) {
		text := "Date Particulars Debit Credit Balance\n15-01-2025 ATM WDL 2500.00 47500.00"
		assert.Equal(t, LayoutTabular, DetectLayout(text))
	})

	t.Run("wallet text means narrative", func(t *testing.T) {
		text := "15 Jan, 2025\nPaid to Raj Kumar Store\n₹350.00"
		assert.Equal(t, LayoutNarrative, DetectLayout(text))
	})

	t.Run("mixed signals resolve tabular", func(t *testing.T) {
		text := "Paid to shop\nDebit Credit\n15-01-2025 350.00"
		assert.Equal(t, LayoutTabular, DetectLayout(text))
	})
}

func TestParseTabular(t *testing.T) {
	t.Run("amount and balance pair", func(t *testing.T) {
		got := ParseTabular("15-01-2025 ATM WDL 2500.00 47500.00")
		require.Len(t, got, 1)

		tx := got[0]
		assert.Equal(t, day(2025, time.January, 15), tx.Date)
		assert.True(t, tx.Amount.Equal(decimal.RequireFromString("2500.00")))
		assert.Equal(t, "ATM WDL", tx.Description)
		assert.Equal(t, statement.Expense, tx.Direction)
		assert.True(t, tx.DirectionKnown)
	})

	t.Run("credit keyword flips direction", func(t *testing.T) {
		got := ParseTabular("16-01-2025 NEFT CR SALARY 50000.00 97500.00")
		require.Len(t, got, 1)
		assert.Equal(t, statement.Income, got[0].Direction)
		assert.True(t, got[0].Amount.Equal(decimal.NewFromInt(50000)))
		assert.Equal(t, got[0].Description, got[0].Source)
	})

	t.Run("withdrawal and deposit columns both populated", func(t *testing.T) {
		// Three amounts: withdrawal, deposit, balance. The balance is
		// discarded and the row yields one expense and one income.
		got := ParseTabular("17-01-2025 REVERSAL ADJ 1200.00 300.00 48100.00")
		require.Len(t, got, 2)
		assert.Equal(t, statement.Expense, got[0].Direction)
		assert.True(t, got[0].Amount.Equal(decimal.NewFromInt(1200)))
		assert.Equal(t, statement.Income, got[1].Direction)
		assert.True(t, got[1].Amount.Equal(decimal.NewFromInt(300)))
		assert.True(t, got[0].DirectionKnown)
	})

	t.Run("no keyword defaults to expense unconfirmed", func(t *testing.T) {
		got := ParseTabular("18-01-2025 RAJ TRADERS 750.00 46750.00")
		require.Len(t, got, 1)
		assert.Equal(t, statement.Expense, got[0].Direction)
		assert.False(t, got[0].DirectionKnown)
	})

	t.Run("skips summary and short lines", func(t *testing.T) {
		text := "Opening Balance 50000.00 01-01-2025\n" +
			"15-01-2025 ATM WDL 2500.00 47500.00\n" +
			"short line\n" +
			"Closing Balance 47500.00 31-01-2025\n" +
			"Page 1 of 2"
		got := ParseTabular(text)
		require.Len(t, got, 1)
		assert.Equal(t, "ATM WDL", got[0].Description)
	})

	t.Run("dateless lines dropped", func(t *testing.T) {
		assert.Empty(t, ParseTabular("UPI reference number 441239881234"))
	})

	t.Run("row numbers recorded", func(t *testing.T) {
		text := "Statement of Account\n15-01-2025 POS AMAZON 999.00 46501.00"
		got := ParseTabular(text)
		require.Len(t, got, 1)
		assert.Equal(t, 2, got[0].Row)
	})
}
