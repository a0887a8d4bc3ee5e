package extractor

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// extractXLSXRows reads the first sheet of a workbook and funnels it
// through the same header detection and alias mapping as CSV exports.
func (s *Service) extractXLSXRows(data []byte) ([]Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &ExtractionError{Stage: "xlsx", Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ExtractionError{Stage: "xlsx", Err: fmt.Errorf("workbook has no sheets")}
	}

	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &ExtractionError{Stage: "xlsx", Err: err}
	}
	if len(cells) == 0 {
		return nil, &ExtractionError{Stage: "xlsx", Err: fmt.Errorf("sheet %q is empty", sheets[0])}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, row := range cells {
		if err := w.Write(row); err != nil {
			return nil, &ExtractionError{Stage: "xlsx", Err: err}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, &ExtractionError{Stage: "xlsx", Err: err}
	}

	return s.extractCSVRows(buf.Bytes())
}
