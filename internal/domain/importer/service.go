// Package importer orchestrates one synchronous import pipeline run per
// uploaded file: decrypt, extract, parse, classify, deduplicate and
// optionally validate against a stored balance. Any fatal step abandons
// the import; no partial result is returned.
package importer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paisawise/statement-import/internal/domain/balance"
	"github.com/paisawise/statement-import/internal/domain/categorization"
	"github.com/paisawise/statement-import/internal/domain/dedup"
	"github.com/paisawise/statement-import/internal/domain/statement"
	"github.com/paisawise/statement-import/internal/domain/statement/extractor"
	"github.com/paisawise/statement-import/internal/domain/statement/parser"
)

// Service runs the import pipeline. Construct one per process; it is
// stateless across calls and safe for concurrent imports of unrelated
// files. Concurrent imports for the same user with overlapping dates
// must be serialized by the caller (see dedup.Filter).
type Service struct {
	extractor  *extractor.Service
	classifier *categorization.Classifier
	filter     *dedup.Filter
	logger     *slog.Logger
	parserOpts []parser.Option
}

// Option configures a Service.
type Option func(*Service)

// WithParserOptions forwards options to every parse call, such as a
// configured amount ceiling.
func WithParserOptions(opts ...parser.Option) Option {
	return func(s *Service) { s.parserOpts = append(s.parserOpts, opts...) }
}

// NewService wires the pipeline stages together.
func NewService(ext *extractor.Service, classifier *categorization.Classifier, filter *dedup.Filter, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		extractor:  ext,
		classifier: classifier,
		filter:     filter,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Import runs steps 1-6 for one document and returns the split between
// new transactions and duplicates. Persisting the new set is the
// caller's job.
func (s *Service) Import(ctx context.Context, userID uuid.UUID, doc statement.RawDocument) (*statement.ImportResult, error) {
	extraction, err := s.extractor.Extract(ctx, doc)
	if err != nil {
		return nil, err
	}

	candidates := s.parse(extraction)
	s.logger.Info("parsed document",
		slog.String("filename", doc.Filename),
		slog.String("kind", string(extraction.Kind)),
		slog.Int("candidates", len(candidates)))

	s.classifier.ClassifyBatch(candidates)

	result, err := s.filter.Split(ctx, userID, candidates)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", doc.Filename, err)
	}
	return result, nil
}

// ImportWithBalance additionally replays the admitted transactions
// against the user's stored balance and reports expenses that would
// overdraw it. The replay never mutates the import result; the caller
// chooses what to do with rejected transactions.
func (s *Service) ImportWithBalance(ctx context.Context, userID uuid.UUID, doc statement.RawDocument, opening decimal.Decimal) (*statement.ImportResult, *balance.Report, error) {
	result, err := s.Import(ctx, userID, doc)
	if err != nil {
		return nil, nil, err
	}

	report := balance.ValidateBatch(result.NewTransactions, opening)
	if len(report.Rejected) > 0 {
		s.logger.Warn("balance validation rejected transactions",
			slog.String("batch_id", result.BatchID.String()),
			slog.Int("rejected", len(report.Rejected)))
	}
	return result, report, nil
}

// parse selects the parsing strategy. CSV rows skip format detection:
// their layout is already known.
func (s *Service) parse(extraction *extractor.Extraction) []statement.CandidateTransaction {
	if extraction.Kind == extractor.KindRows {
		return parser.MapRows(extraction.Rows)
	}

	layout := parser.DetectLayout(extraction.Text)
	s.logger.Debug("detected layout", slog.String("layout", string(layout)))
	if layout == parser.LayoutTabular {
		return parser.ParseTabular(extraction.Text, s.parserOpts...)
	}
	return parser.ParseNarrative(extraction.Text, s.parserOpts...)
}
