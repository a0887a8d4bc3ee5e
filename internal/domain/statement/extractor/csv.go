package extractor

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/gocarina/gocsv"
)

// transactionRow mirrors the header aliases Indian banks use in CSV
// exports. Headers are lowercased before unmarshaling so the match is
// case-insensitive.
type transactionRow struct {
	Date        string `csv:"date"`
	TxnDate     string `csv:"transaction date"`
	TxnDateAbbr string `csv:"txn date"`
	ValueDate   string `csv:"value date"`
	PostingDate string `csv:"posting date"`

	Description string `csv:"description"`
	Narration   string `csv:"narration"`
	Particulars string `csv:"particulars"`
	Details     string `csv:"transaction details"`
	Remarks     string `csv:"remarks"`

	Amount     string `csv:"amount"`
	TxnAmount  string `csv:"transaction amount"`
	Debit      string `csv:"debit"`
	DebitAmt   string `csv:"debit amount"`
	Withdrawal string `csv:"withdrawal"`
	Credit     string `csv:"credit"`
	CreditAmt  string `csv:"credit amount"`
	Deposit    string `csv:"deposit"`

	Type    string `csv:"type"`
	TxnType string `csv:"transaction type"`

	Balance        string `csv:"balance"`
	ClosingBalance string `csv:"closing balance"`
}

// headerKeywords score a line as a candidate header row.
var headerKeywords = []string{
	"date", "description", "narration", "particulars", "amount",
	"debit", "credit", "withdrawal", "deposit", "balance", "type",
}

// extractCSVRows parses a CSV export into canonical rows. Bank exports
// often carry preamble lines (account holder, period) before the real
// header, so the header row is located by keyword score first. Rows with
// the wrong field count are padded or truncated rather than failing the
// batch.
func (s *Service) extractCSVRows(data []byte) ([]Row, error) {
	data = normalizeCSVBytes(data)

	records, err := readRecords(data)
	if err != nil {
		return nil, &ExtractionError{Stage: "csv", Err: err}
	}

	headerIdx := findHeaderRow(records)
	if headerIdx < 0 {
		return nil, &ExtractionError{Stage: "csv", Err: fmt.Errorf("no header row found")}
	}
	records = records[headerIdx:]
	if len(records) < 2 {
		return nil, &ExtractionError{Stage: "csv", Err: fmt.Errorf("no data rows after header")}
	}

	header := records[0]
	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var parsed []*transactionRow
	if err := gocsv.UnmarshalCSV(&recordReader{header: header, records: records[1:]}, &parsed); err != nil {
		return nil, &ExtractionError{Stage: "csv", Err: err}
	}

	rows := make([]Row, 0, len(parsed))
	for i, tr := range parsed {
		rows = append(rows, tr.toRow(headerIdx+i+2))
	}
	return rows, nil
}

func (tr *transactionRow) toRow(line int) Row {
	return Row{
		Date:        coalesce(tr.Date, tr.TxnDate, tr.TxnDateAbbr, tr.ValueDate, tr.PostingDate),
		Description: coalesce(tr.Description, tr.Narration, tr.Particulars, tr.Details, tr.Remarks),
		Amount:      coalesce(tr.Amount, tr.TxnAmount),
		Debit:       coalesce(tr.Debit, tr.DebitAmt, tr.Withdrawal),
		Credit:      coalesce(tr.Credit, tr.CreditAmt, tr.Deposit),
		Type:        coalesce(tr.Type, tr.TxnType),
		Balance:     coalesce(tr.Balance, tr.ClosingBalance),
		Line:        line,
	}
}

func coalesce(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// recordReader feeds pre-read records to gocsv, padding or truncating
// each one to the header width so ragged rows do not abort the batch.
type recordReader struct {
	header  []string
	records [][]string
	pos     int
	sent    bool
}

func (r *recordReader) Read() ([]string, error) {
	if !r.sent {
		r.sent = true
		return r.header, nil
	}
	if r.pos >= len(r.records) {
		return nil, io.EOF
	}
	rec := r.records[r.pos]
	r.pos++
	if len(rec) > len(r.header) {
		rec = rec[:len(r.header)]
	}
	for len(rec) < len(r.header) {
		rec = append(rec, "")
	}
	return rec, nil
}

func (r *recordReader) ReadAll() ([][]string, error) {
	var out [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
}

func readRecords(data []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var records [][]string
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Skip the malformed record, keep the rest of the file.
			continue
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty file")
	}
	return records, nil
}

// findHeaderRow returns the index of the first record matching at least
// two known header keywords, or -1.
func findHeaderRow(records [][]string) int {
	limit := len(records)
	if limit > 10 {
		limit = 10
	}
	for i := 0; i < limit; i++ {
		score := 0
		for _, cell := range records[i] {
			cell = strings.ToLower(strings.TrimSpace(cell))
			for _, kw := range headerKeywords {
				if strings.Contains(cell, kw) {
					score++
					break
				}
			}
		}
		if score >= 2 {
			return i
		}
	}
	return -1
}

// normalizeCSVBytes strips a UTF-8 BOM and re-encodes latin-1 exports so
// the csv reader always sees valid UTF-8.
func normalizeCSVBytes(data []byte) []byte {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(data) {
		return data
	}
	out := make([]rune, 0, len(data))
	for _, b := range data {
		out = append(out, rune(b))
	}
	return []byte(string(out))
}
