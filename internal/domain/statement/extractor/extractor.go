// Package extractor turns uploaded statement files into an intermediate
// representation: a newline-delimited text blob for PDF and image
// documents, or canonical rows for CSV and XLSX exports. It also removes
// password protection from encrypted PDFs before reading them.
package extractor

import (
	"context"
	"log/slog"
	"strings"

	"github.com/paisawise/statement-import/internal/domain/statement"
)

// Kind tells downstream parsers which representation was produced.
type Kind string

const (
	KindText Kind = "text"
	KindRows Kind = "rows"
)

// Row is one CSV/XLSX record after header aliases have been collapsed to
// canonical fields. Values are raw strings; the column mapper owns
// parsing and validation.
type Row struct {
	Date        string
	Description string
	Amount      string
	Debit       string
	Credit      string
	Type        string
	Balance     string
	Line        int
}

// Extraction is the output of one Extract call. Exactly one of Text or
// Rows is populated, according to Kind.
type Extraction struct {
	Kind Kind
	Text string
	Rows []Row
}

// Service dispatches a RawDocument to the extraction strategy for its
// MIME type.
type Service struct {
	decryptor *Decryptor
	tesseract string
	logger    *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithQPDFPath overrides the qpdf binary used for PDF decryption.
func WithQPDFPath(path string) Option {
	return func(s *Service) { s.decryptor.qpdfPath = path }
}

// WithTesseractPath overrides the tesseract binary used for image OCR.
func WithTesseractPath(path string) Option {
	return func(s *Service) { s.tesseract = path }
}

// NewService creates an extraction service.
func NewService(logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		decryptor: NewDecryptor(""),
		tesseract: "tesseract",
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Decryptor exposes the service's PDF decryptor for callers that only
// need the password-removal step.
func (s *Service) Decryptor() *Decryptor { return s.decryptor }

// Extract produces the intermediate representation for doc. It returns
// *UnsupportedFormatError for unknown MIME types, *DecryptionError for
// password problems and *ExtractionError for unreadable documents.
func (s *Service) Extract(ctx context.Context, doc statement.RawDocument) (*Extraction, error) {
	mime := normalizeMIME(doc.MIMEType)

	s.logger.Info("extracting document",
		slog.String("mime", mime),
		slog.String("filename", doc.Filename),
		slog.Int("bytes", len(doc.Content)))

	switch {
	case mime == "application/pdf":
		plain, err := s.decryptor.Decrypt(ctx, doc.Content, doc.Password)
		if err != nil {
			return nil, err
		}
		text, err := s.extractPDFText(plain)
		if err != nil {
			return nil, err
		}
		return &Extraction{Kind: KindText, Text: text}, nil

	// Legacy exports are frequently uploaded with the old Excel MIME
	// type but contain plain comma-separated text.
	case mime == "text/csv" || mime == "application/csv" || mime == "application/vnd.ms-excel":
		rows, err := s.extractCSVRows(doc.Content)
		if err != nil {
			return nil, err
		}
		return &Extraction{Kind: KindRows, Rows: rows}, nil

	case mime == "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		rows, err := s.extractXLSXRows(doc.Content)
		if err != nil {
			return nil, err
		}
		return &Extraction{Kind: KindRows, Rows: rows}, nil

	case strings.HasPrefix(mime, "image/"):
		text, err := s.extractImageText(ctx, doc.Content, mime)
		if err != nil {
			return nil, err
		}
		return &Extraction{Kind: KindText, Text: text}, nil

	default:
		return nil, &UnsupportedFormatError{MIMEType: doc.MIMEType}
	}
}

func normalizeMIME(mime string) string {
	mime = strings.ToLower(strings.TrimSpace(mime))
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	return mime
}
