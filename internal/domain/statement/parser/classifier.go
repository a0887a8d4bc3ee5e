package parser

import "strings"

// Layout is the parsing strategy chosen for an extracted text blob.
type Layout string

const (
	LayoutTabular   Layout = "tabular"
	LayoutNarrative Layout = "narrative"
)

// tabularMarkers are the column-header fingerprints of a tabular bank
// statement. Any hit means tabular: those documents are longer and
// higher-value, and the narrative heuristics are more brittle, so
// tabular wins every tie.
var tabularMarkers = []string{
	"debit", "credit",
	"withdrawal", "deposit",
	"particulars", "description",
}

// DetectLayout chooses between the tabular and narrative parsing
// strategies by case-insensitive substring search.
func DetectLayout(text string) Layout {
	lower := strings.ToLower(text)
	for _, marker := range tabularMarkers {
		if strings.Contains(lower, marker) {
			return LayoutTabular
		}
	}
	return LayoutNarrative
}
