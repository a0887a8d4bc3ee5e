package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paisawise/statement-import/internal/domain/statement"
)

func TestRepository_FindByUserAndDateRange(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRepository(mock)
	userID := uuid.New()
	start := time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT id, date, amount::text`).
		WithArgs(userID, start, end).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "date", "amount", "description", "type", "source", "category", "payment_method",
		}).AddRow(
			"tx-1", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), "350.00",
			"Raj Kumar Store", "expense", "", "food", "upi",
		).AddRow(
			"tx-2", time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC), "50000.00",
			"SALARY", "income", "Acme Corp", "salary", "bank",
		))

	txns, err := repo.FindByUserAndDateRange(context.Background(), userID, start, end)
	require.NoError(t, err)
	require.Len(t, txns, 2)

	assert.Equal(t, "tx-1", txns[0].ID)
	assert.True(t, txns[0].Amount.Equal(decimal.RequireFromString("350.00")))
	assert.Equal(t, statement.Expense, txns[0].Direction)
	assert.Equal(t, "upi", txns[0].PaymentMethod)
	assert.Equal(t, statement.Income, txns[1].Direction)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindByUserAndDateRange_BadAmount(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRepository(mock)
	userID := uuid.New()

	mock.ExpectQuery(`SELECT id, date, amount::text`).
		WithArgs(userID, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "date", "amount", "description", "type", "source", "category", "payment_method",
		}).AddRow(
			"tx-1", time.Now(), "not-a-number", "x", "expense", "", "", "",
		))

	_, err = repo.FindByUserAndDateRange(context.Background(), userID, time.Now(), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid amount")
}

func TestRepository_InsertBatch(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRepository(mock)
	userID := uuid.New()
	batchID := uuid.New()

	txns := []statement.CandidateTransaction{
		{
			Date:        time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
			Amount:      decimal.RequireFromString("350.00"),
			Description: "Raj Kumar Store",
			Direction:   statement.Expense,
			Category:    "food",
			Confidence:  0.9,
		},
		{
			Date:        time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC),
			Amount:      decimal.RequireFromString("50000.00"),
			Description: "SALARY",
			Direction:   statement.Income,
			Source:      "Acme Corp",
			Category:    "salary",
			Confidence:  0.9,
		},
	}

	mock.ExpectBegin()
	// The second row hits the (user_id, fingerprint) conflict and is
	// silently skipped.
	mock.ExpectExec(`INSERT INTO transactions`).
		WithArgs(pgxmock.AnyArg(), userID, batchID, txns[0].Date, "350.00", "Raj Kumar Store",
			"expense", "", "food", 0.9, false, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO transactions`).
		WithArgs(pgxmock.AnyArg(), userID, batchID, txns[1].Date, "50000.00", "SALARY",
			"income", "Acme Corp", "salary", 0.9, false, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mock.ExpectCommit()

	inserted, err := repo.InsertBatch(context.Background(), userID, batchID, txns)
	require.NoError(t, err)
	assert.Equal(t, int64(1), inserted)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_InsertBatch_Empty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRepository(mock)
	inserted, err := repo.InsertBatch(context.Background(), uuid.New(), uuid.New(), nil)
	require.NoError(t, err)
	assert.Zero(t, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CurrentBalance(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRepository(mock)
	userID := uuid.New()

	t.Run("all methods", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COALESCE\(SUM`).
			WithArgs(userID, "").
			WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow("47500.00"))

		balance, err := repo.CurrentBalance(context.Background(), userID, "")
		require.NoError(t, err)
		assert.True(t, balance.Equal(decimal.RequireFromString("47500.00")))
	})

	t.Run("single method bucket", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COALESCE\(SUM`).
			WithArgs(userID, "upi").
			WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow("-150.00"))

		balance, err := repo.CurrentBalance(context.Background(), userID, "upi")
		require.NoError(t, err)
		assert.True(t, balance.IsNegative())
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
