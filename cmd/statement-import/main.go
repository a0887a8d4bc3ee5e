// Command statement-import runs the import pipeline over one statement
// file and prints the result as JSON. With DATABASE_URL set, duplicate
// detection runs against the stored ledger and admitted transactions
// are persisted; without it, only intra-batch duplicates are caught.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/paisawise/statement-import/internal/domain/balance"
	"github.com/paisawise/statement-import/internal/domain/categorization"
	"github.com/paisawise/statement-import/internal/domain/dedup"
	"github.com/paisawise/statement-import/internal/domain/importer"
	"github.com/paisawise/statement-import/internal/domain/ledger"
	"github.com/paisawise/statement-import/internal/domain/statement"
	"github.com/paisawise/statement-import/internal/domain/statement/extractor"
	"github.com/paisawise/statement-import/internal/domain/statement/parser"
	"github.com/paisawise/statement-import/pkg/config"
	"github.com/paisawise/statement-import/pkg/money"
)

func main() {
	var (
		filePath = flag.String("file", "", "statement file to import (pdf, csv, xlsx or image)")
		mimeType = flag.String("mime", "", "MIME type (default: inferred from extension)")
		password = flag.String("password", "", "password for encrypted PDFs")
		userFlag = flag.String("user", "", "user UUID owning the import")
		opening  = flag.String("opening", "", "opening balance for batch validation, e.g. 12500.00")
		persist  = flag.Bool("persist", false, "write admitted transactions to the ledger")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := run(context.Background(), logger, os.Stdout, *filePath, *mimeType, *password, *userFlag, *opening, *persist); err != nil {
		logger.Error("import failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, out io.Writer, filePath, mimeType, password, userFlag, opening string, persist bool) error {
	if filePath == "" {
		return fmt.Errorf("-file is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("read input file: %w", err)
	}
	if mimeType == "" {
		mimeType = inferMIME(filePath)
	}

	userID := uuid.New()
	if userFlag != "" {
		userID, err = uuid.Parse(userFlag)
		if err != nil {
			return fmt.Errorf("invalid -user: %w", err)
		}
	}

	var (
		reader statement.LedgerReader = emptyLedger{}
		repo   *ledger.Repository
	)
	if cfg.Database.URL != "" {
		pool, err := pgxpool.New(ctx, cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer pool.Close()
		repo = ledger.NewRepository(pool)
		reader = repo
	}

	ext := extractor.NewService(logger,
		extractor.WithQPDFPath(cfg.Tools.QPDFPath),
		extractor.WithTesseractPath(cfg.Tools.TesseractPath))
	classifier := categorization.NewClassifier(logger,
		categorization.WithReviewThreshold(cfg.Import.ReviewThreshold))

	filterOpts := []dedup.Option{dedup.WithBufferDays(cfg.Import.BufferDays)}
	if cfg.Import.FuzzyEnabled {
		filterOpts = append(filterOpts, dedup.WithFuzzyMatching(cfg.Import.FuzzyThreshold))
	}
	filter := dedup.NewFilter(reader, logger, filterOpts...)

	var svcOpts []importer.Option
	if cfg.Import.MaxAmount > 0 {
		svcOpts = append(svcOpts, importer.WithParserOptions(
			parser.WithMaxAmount(decimal.NewFromFloat(cfg.Import.MaxAmount))))
	}
	svc := importer.NewService(ext, classifier, filter, logger, svcOpts...)

	doc := statement.RawDocument{
		Content:  content,
		MIMEType: mimeType,
		Password: password,
		Filename: filepath.Base(filePath),
	}

	var (
		result *statement.ImportResult
		report *balance.Report
	)
	if opening != "" {
		openingBalance, err := money.ParseAmount(opening)
		if err != nil {
			return err
		}
		result, report, err = svc.ImportWithBalance(ctx, userID, doc, openingBalance)
		if err != nil {
			return err
		}
	} else {
		result, err = svc.Import(ctx, userID, doc)
		if err != nil {
			return err
		}
	}

	output := map[string]any{
		"batchId":    result.BatchID,
		"stats":      result.Stats,
		"new":        result.NewTransactions,
		"duplicates": result.Duplicates,
	}
	if report != nil {
		output["balance"] = map[string]any{
			"final":    money.FormatINR(report.FinalBalance),
			"rejected": report.Rejected,
		}
	}

	if persist && repo != nil {
		inserted, err := repo.InsertBatch(ctx, userID, result.BatchID, result.NewTransactions)
		if err != nil {
			return fmt.Errorf("persist batch: %w", err)
		}
		output["persisted"] = inserted
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

func inferMIME(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "application/pdf"
	case ".csv":
		return "text/csv"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".xls":
		return "application/vnd.ms-excel"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

// emptyLedger runs the pipeline without a database: nothing is stored,
// so only intra-batch duplicates can match.
type emptyLedger struct{}

func (emptyLedger) FindByUserAndDateRange(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]statement.PersistedTransaction, error) {
	return nil, nil
}
