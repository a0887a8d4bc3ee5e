package categorization

import (
	"log/slog"
	"strings"

	"github.com/paisawise/statement-import/internal/domain/statement"
)

// DefaultReviewThreshold flags transactions whose category confidence is
// below it for manual review.
const DefaultReviewThreshold = 0.7

// Classifier resolves direction and category for candidate transactions.
// It is immutable after construction and safe for concurrent use.
type Classifier struct {
	income          *keywordEngine
	expense         *keywordEngine
	incomeSignals   *indicatorSet
	expenseSignals  *indicatorSet
	reviewThreshold float64
	logger          *slog.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithReviewThreshold overrides the confidence below which transactions
// are flagged for review.
func WithReviewThreshold(threshold float64) Option {
	return func(c *Classifier) { c.reviewThreshold = threshold }
}

// NewClassifier builds a classifier over the fixed keyword tables.
func NewClassifier(logger *slog.Logger, opts ...Option) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Classifier{
		income:          newKeywordEngine(incomeCategories),
		expense:         newKeywordEngine(expenseCategories),
		incomeSignals:   newIndicatorSet(incomeIndicators),
		expenseSignals:  newIndicatorSet(expenseIndicators),
		reviewThreshold: DefaultReviewThreshold,
		logger:          logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify fills in Direction (unless the parser fixed it), Category,
// Confidence and NeedsReview on tx.
func (c *Classifier) Classify(tx *statement.CandidateTransaction) {
	lower := strings.ToLower(tx.Description)

	if !tx.DirectionKnown {
		tx.Direction = c.resolveDirection(lower, tx.Direction)
		tx.DirectionKnown = true
	}

	dict := c.expense
	if tx.Direction == statement.Income {
		dict = c.income
	}
	category, score := dict.best(lower)

	tx.Category = category
	tx.Confidence = confidenceFor(score)
	tx.NeedsReview = tx.Confidence < c.reviewThreshold
}

// ClassifyBatch classifies every candidate in place.
func (c *Classifier) ClassifyBatch(txs []statement.CandidateTransaction) {
	for i := range txs {
		c.Classify(&txs[i])
	}
	c.logger.Debug("classified batch", slog.Int("count", len(txs)))
}

// resolveDirection scores the description against both indicator sets.
// When both signal, the parser's provisional direction wins; when
// neither does, expense is the default.
func (c *Classifier) resolveDirection(lowerDesc string, provisional statement.Direction) statement.Direction {
	income := c.incomeSignals.hits(lowerDesc)
	expense := c.expenseSignals.hits(lowerDesc)

	switch {
	case income && expense:
		if provisional != "" {
			return provisional
		}
		return statement.Expense
	case income:
		return statement.Income
	case expense:
		return statement.Expense
	default:
		return statement.Expense
	}
}

// confidenceFor maps a keyword score to a confidence bucket.
func confidenceFor(score int) float64 {
	switch {
	case score >= 3:
		return 0.9
	case score >= 2:
		return 0.7
	case score >= 1:
		return 0.5
	default:
		return 0.3
	}
}
