// Package ledger is the Postgres adapter for the import pipeline's two
// persistence touchpoints: reading the duplicate-comparison window and
// writing admitted transactions. Inserts go through one transaction
// guarded by a unique (user_id, fingerprint) constraint, which is the
// serialization discipline the duplicate filter requires from callers.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/paisawise/statement-import/internal/domain/dedup"
	"github.com/paisawise/statement-import/internal/domain/statement"
)

// DB is the subset of pgxpool.Pool the repository needs.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repository reads and writes ledger transactions.
type Repository struct {
	db DB
}

// NewRepository creates a ledger repository.
func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

// FindByUserAndDateRange returns every stored transaction for the user
// whose date falls within [start, end] inclusive.
func (r *Repository) FindByUserAndDateRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]statement.PersistedTransaction, error) {
	query := `
		SELECT id, date, amount::text, description, type, source, category, payment_method
		FROM transactions
		WHERE user_id = $1
		  AND date >= $2
		  AND date <= $3
		ORDER BY date
	`
	rows, err := r.db.Query(ctx, query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("query ledger window: %w", err)
	}
	defer rows.Close()

	var txns []statement.PersistedTransaction
	for rows.Next() {
		var (
			t         statement.PersistedTransaction
			amountStr string
			direction string
		)
		if err := rows.Scan(&t.ID, &t.Date, &amountStr, &t.Description, &direction, &t.Source, &t.Category, &t.PaymentMethod); err != nil {
			return nil, fmt.Errorf("scan ledger row: %w", err)
		}
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("ledger row %s has invalid amount %q: %w", t.ID, amountStr, err)
		}
		t.Amount = amount
		t.Direction = statement.Direction(direction)
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

// InsertBatch persists the admitted transactions of one import batch
// atomically. Rows whose fingerprint already exists for the user are
// skipped by the unique constraint, so a concurrent overlapping import
// cannot double-insert. Returns the number of rows actually written.
func (r *Repository) InsertBatch(ctx context.Context, userID, batchID uuid.UUID, txns []statement.CandidateTransaction) (int64, error) {
	if len(txns) == 0 {
		return 0, nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin insert batch: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO transactions (id, user_id, batch_id, date, amount, description, type, source, category, confidence, needs_review, fingerprint)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (user_id, fingerprint) DO NOTHING
	`

	var inserted int64
	for _, t := range txns {
		fp, err := dedup.Fingerprint(t)
		if err != nil {
			return 0, fmt.Errorf("fingerprint transaction on %s: %w", t.Date.Format("2006-01-02"), err)
		}
		tag, err := tx.Exec(ctx, query,
			uuid.New(), userID, batchID, t.Date, t.Amount.StringFixed(2), t.Description,
			string(t.Direction), t.Source, t.Category, t.Confidence, t.NeedsReview, fp)
		if err != nil {
			return 0, fmt.Errorf("insert transaction: %w", err)
		}
		inserted += tag.RowsAffected()
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit insert batch: %w", err)
	}
	return inserted, nil
}

// CurrentBalance sums the user's ledger, optionally scoped to one
// payment-method bucket.
func (r *Repository) CurrentBalance(ctx context.Context, userID uuid.UUID, method string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE -amount END), 0)::text
		FROM transactions
		WHERE user_id = $1
		  AND ($2 = '' OR payment_method = $2)
	`
	var totalStr string
	if err := r.db.QueryRow(ctx, query, userID, method).Scan(&totalStr); err != nil {
		return decimal.Zero, fmt.Errorf("query balance: %w", err)
	}
	total, err := decimal.NewFromString(totalStr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid balance %q: %w", totalStr, err)
	}
	return total, nil
}
