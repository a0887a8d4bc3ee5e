package extractor

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// extractPDFText converts decrypted PDF bytes into a single text blob,
// one visual line per newline. Several extraction methods are tried in
// order because bank PDFs vary wildly in how their text layer is encoded.
func (s *Service) extractPDFText(data []byte) (text string, err error) {
	// The pdf library panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			err = &ExtractionError{Stage: "pdf", Err: fmt.Errorf("reader crashed: %v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Stage: "pdf", Err: err}
	}

	numPages := reader.NumPage()
	if numPages == 0 {
		return "", &ExtractionError{Stage: "pdf", Err: fmt.Errorf("document has no pages")}
	}

	methods := []struct {
		name string
		run  func(*pdf.Reader, int) string
	}{
		{"rows", pdfTextByRow},
		{"content", pdfTextByContent},
		{"plain", pdfTextPlain},
	}
	for _, m := range methods {
		text = m.run(reader, numPages)
		if isReadableStatementText(text) {
			s.logger.Debug("pdf text extracted", slog.String("method", m.name), slog.Int("chars", len(text)))
			return text, nil
		}
	}

	return "", &ExtractionError{
		Stage: "pdf",
		Err:   fmt.Errorf("no readable text layer: document may be scanned or use custom font encodings"),
	}
}

// pdfTextByRow uses GetTextByRow, which preserves layout best on
// well-structured statements.
func pdfTextByRow(r *pdf.Reader, numPages int) string {
	var lines []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			if line := strings.TrimSpace(strings.Join(parts, " ")); line != "" {
				lines = append(lines, line)
			}
		}
	}
	return strings.Join(lines, "\n")
}

// pdfTextByContent reconstructs rows from raw text objects: pieces are
// grouped by rounded Y coordinate, then ordered by X. A horizontal gap
// over 15 units is treated as a column boundary.
func pdfTextByContent(r *pdf.Reader, numPages int) string {
	type piece struct {
		x float64
		s string
	}
	var lines []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		rows := make(map[int][]piece)
		for _, t := range content.Text {
			if strings.TrimSpace(t.S) == "" {
				continue
			}
			y := int(math.Round(t.Y))
			rows[y] = append(rows[y], piece{x: t.X, s: t.S})
		}

		// PDF Y runs bottom-to-top, so higher keys come first.
		ys := make([]int, 0, len(rows))
		for y := range rows {
			ys = append(ys, y)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(ys)))

		for _, y := range ys {
			pieces := rows[y]
			sort.Slice(pieces, func(a, b int) bool { return pieces[a].x < pieces[b].x })
			var sb strings.Builder
			var prevX float64
			for j, p := range pieces {
				if j > 0 && p.x-prevX > 15 {
					sb.WriteString("  ")
				}
				sb.WriteString(p.s)
				prevX = p.x
			}
			if line := strings.TrimSpace(sb.String()); line != "" {
				lines = append(lines, line)
			}
		}
	}
	return strings.Join(lines, "\n")
}

// pdfTextPlain is the whole-document fallback.
func pdfTextPlain(r *pdf.Reader, _ int) string {
	reader, err := r.GetPlainText()
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// statementWords are terms expected in virtually every bank or wallet
// statement. Extracted text containing none of them is treated as
// garbage from an identity-encoded font.
var statementWords = []string{
	"bank", "account", "balance", "date", "statement", "amount",
	"credit", "debit", "transaction", "paid", "received", "upi",
	"withdrawal", "deposit", "total", "page", "period",
}

// isReadableStatementText requires more than 50 characters, over 60%
// plain ASCII and at least one recognizable statement word.
func isReadableStatementText(text string) bool {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) <= 50 {
		return false
	}
	total, readable := 0, 0
	for _, r := range trimmed {
		total++
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || unicode.IsSpace(r) ||
			strings.ContainsRune(".,-/:;()'\"₹$%&@#!?+=*", r) {
			readable++
		}
	}
	if total == 0 || float64(readable)/float64(total) <= 0.6 {
		return false
	}
	lower := strings.ToLower(trimmed)
	for _, w := range statementWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
