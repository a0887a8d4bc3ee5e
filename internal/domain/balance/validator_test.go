package balance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paisawise/statement-import/internal/domain/statement"
)

func txn(amount string, day int, dir statement.Direction, desc string) statement.CandidateTransaction {
	return statement.CandidateTransaction{
		Date:        time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.RequireFromString(amount),
		Direction:   dir,
		Description: desc,
	}
}

func TestValidateBatch(t *testing.T) {
	t.Run("replays chronologically regardless of input order", func(t *testing.T) {
		// The expense on day 2 only clears because the income on day 1
		// is replayed before it.
		batch := []statement.CandidateTransaction{
			txn("5000.00", 2, statement.Expense, "rent"),
			txn("6000.00", 1, statement.Income, "salary"),
		}

		report := ValidateBatch(batch, decimal.Zero)
		require.Len(t, report.Valid, 2)
		assert.Empty(t, report.Rejected)
		assert.True(t, report.FinalBalance.Equal(decimal.NewFromInt(1000)))
	})

	t.Run("rejects overdrawing expense", func(t *testing.T) {
		batch := []statement.CandidateTransaction{
			txn("150.00", 1, statement.Expense, "groceries"),
		}

		report := ValidateBatch(batch, decimal.NewFromInt(100))
		require.Len(t, report.Rejected, 1)
		assert.Empty(t, report.Valid)

		r := report.Rejected[0]
		assert.Contains(t, r.Reason, "insufficient funds")
		assert.True(t, r.BalanceAtRejection.Equal(decimal.NewFromInt(100)))
		assert.True(t, report.FinalBalance.Equal(decimal.NewFromInt(100)))
	})

	t.Run("rejection does not consume funds", func(t *testing.T) {
		batch := []statement.CandidateTransaction{
			txn("150.00", 1, statement.Expense, "too big"),
			txn("80.00", 2, statement.Expense, "fits"),
		}

		report := ValidateBatch(batch, decimal.NewFromInt(100))
		require.Len(t, report.Rejected, 1)
		require.Len(t, report.Valid, 1)
		assert.Equal(t, "fits", report.Valid[0].Description)
		assert.True(t, report.FinalBalance.Equal(decimal.NewFromInt(20)))
	})

	t.Run("exact spend to zero is allowed", func(t *testing.T) {
		batch := []statement.CandidateTransaction{
			txn("100.00", 1, statement.Expense, "all of it"),
		}

		report := ValidateBatch(batch, decimal.NewFromInt(100))
		assert.Empty(t, report.Rejected)
		assert.True(t, report.FinalBalance.IsZero())
	})

	t.Run("incomes always pass", func(t *testing.T) {
		batch := []statement.CandidateTransaction{
			txn("500.00", 1, statement.Income, "gift"),
		}

		report := ValidateBatch(batch, decimal.Zero)
		assert.Len(t, report.Valid, 1)
		assert.True(t, report.FinalBalance.Equal(decimal.NewFromInt(500)))
	})

	t.Run("same-day order is stable", func(t *testing.T) {
		batch := []statement.CandidateTransaction{
			txn("60.00", 1, statement.Expense, "first"),
			txn("60.00", 1, statement.Expense, "second"),
		}

		report := ValidateBatch(batch, decimal.NewFromInt(100))
		require.Len(t, report.Valid, 1)
		require.Len(t, report.Rejected, 1)
		assert.Equal(t, "first", report.Valid[0].Description)
		assert.Equal(t, "second", report.Rejected[0].Transaction.Description)
	})

	t.Run("empty batch keeps opening balance", func(t *testing.T) {
		report := ValidateBatch(nil, decimal.NewFromInt(42))
		assert.Empty(t, report.Valid)
		assert.True(t, report.FinalBalance.Equal(decimal.NewFromInt(42)))
	})
}

func TestValidateByMethod(t *testing.T) {
	methodOf := func(c statement.CandidateTransaction) string {
		if c.Description == "upi spend" {
			return "upi"
		}
		return "bank"
	}

	batch := []statement.CandidateTransaction{
		txn("300.00", 1, statement.Expense, "upi spend"),
		txn("700.00", 1, statement.Expense, "card bill"),
	}
	openings := map[string]decimal.Decimal{
		"upi":  decimal.NewFromInt(500),
		"bank": decimal.NewFromInt(100),
	}

	reports := ValidateByMethod(batch, openings, methodOf)
	require.Len(t, reports, 2)

	upi := reports["upi"]
	require.NotNil(t, upi)
	assert.Equal(t, "upi", upi.Method)
	assert.Len(t, upi.Valid, 1)
	assert.True(t, upi.FinalBalance.Equal(decimal.NewFromInt(200)))

	bank := reports["bank"]
	require.NotNil(t, bank)
	assert.Len(t, bank.Rejected, 1)
	assert.True(t, bank.FinalBalance.Equal(decimal.NewFromInt(100)))
}
