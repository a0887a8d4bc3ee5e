package dedup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/paisawise/statement-import/internal/domain/statement"
)

// DefaultBufferDays widens the ledger window on both sides to absorb
// timezone and posting-date skew between statement and stored dates.
const DefaultBufferDays = 2

// DuplicateReason is the exact-match rejection reason reported to the
// caller.
const DuplicateReason = "Duplicate transaction already exists"

// Filter classifies an import batch against the existing ledger.
//
// Concurrency note: the filter only reads a ledger snapshot. Callers
// that persist the "new" set afterwards must serialize read-check-write
// per user (a per-user lock, or a unique fingerprint constraint inside
// one transaction), or two overlapping imports can both admit the same
// row.
type Filter struct {
	ledger         statement.LedgerReader
	bufferDays     int
	fuzzy          bool
	fuzzyThreshold float64
	logger         *slog.Logger
}

// Option configures a Filter.
type Option func(*Filter)

// WithBufferDays overrides the ledger window buffer.
func WithBufferDays(days int) Option {
	return func(f *Filter) { f.bufferDays = days }
}

// WithFuzzyMatching enables the stricter similarity mode: same-day,
// same-amount, same-direction transactions whose descriptions are at
// least threshold similar (0..1) are also treated as duplicates.
func WithFuzzyMatching(threshold float64) Option {
	return func(f *Filter) {
		f.fuzzy = true
		f.fuzzyThreshold = threshold
	}
}

// NewFilter creates a duplicate filter reading existing entries from
// ledger.
func NewFilter(ledger statement.LedgerReader, logger *slog.Logger, opts ...Option) *Filter {
	if logger == nil {
		logger = slog.Default()
	}
	f := &Filter{
		ledger:         ledger,
		bufferDays:     DefaultBufferDays,
		fuzzyThreshold: DefaultFuzzyThreshold,
		logger:         logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Split classifies candidates into new transactions and duplicates. The
// ledger is read once, for the window spanning the batch's dates plus
// the buffer on each side. A candidate classified as new immediately
// joins the lookup set, so the second of two identical in-batch
// transactions is reported as a duplicate rather than admitted twice.
func (f *Filter) Split(ctx context.Context, userID uuid.UUID, candidates []statement.CandidateTransaction) (*statement.ImportResult, error) {
	result := &statement.ImportResult{
		BatchID: uuid.New(),
		Stats:   statement.ImportStats{Total: len(candidates)},
	}
	if len(candidates) == 0 {
		return result, nil
	}

	start, end := dateSpan(candidates)
	start = start.AddDate(0, 0, -f.bufferDays)
	end = end.AddDate(0, 0, f.bufferDays)

	existing, err := f.ledger.FindByUserAndDateRange(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("read ledger window: %w", err)
	}

	lookup := make(map[string]string, len(existing)+len(candidates))
	for _, e := range existing {
		fp, err := FingerprintPersisted(e)
		if err != nil {
			f.logger.Warn("skipping unfingerprintable ledger entry", slog.String("id", e.ID))
			continue
		}
		lookup[fp] = e.ID
	}

	for _, c := range candidates {
		fp, err := Fingerprint(c)
		if err != nil {
			f.logger.Warn("dropping candidate with invalid amount",
				slog.String("description", c.Description),
				slog.String("date", c.Date.Format("2006-01-02")))
			continue
		}

		if matchedID, dup := lookup[fp]; dup {
			result.Duplicates = append(result.Duplicates, statement.Duplicate{
				Transaction: c,
				Reason:      DuplicateReason,
				MatchedID:   matchedID,
				Fingerprint: fp,
			})
			continue
		}

		if f.fuzzy {
			if d, ok := f.findSimilar(c, fp, existing, result.NewTransactions); ok {
				result.Duplicates = append(result.Duplicates, d)
				continue
			}
		}

		lookup[fp] = ""
		result.NewTransactions = append(result.NewTransactions, c)
	}

	result.Stats.New = len(result.NewTransactions)
	result.Stats.Duplicates = len(result.Duplicates)

	f.logger.Info("duplicate filter complete",
		slog.String("batch_id", result.BatchID.String()),
		slog.Int("total", result.Stats.Total),
		slog.Int("new", result.Stats.New),
		slog.Int("duplicates", result.Stats.Duplicates),
		slog.Int("window_entries", len(existing)))

	return result, nil
}

func dateSpan(candidates []statement.CandidateTransaction) (time.Time, time.Time) {
	start, end := candidates[0].Date, candidates[0].Date
	for _, c := range candidates[1:] {
		if c.Date.Before(start) {
			start = c.Date
		}
		if c.Date.After(end) {
			end = c.Date
		}
	}
	return start, end
}
