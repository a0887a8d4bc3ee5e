package dedup

import (
	"fmt"
	"strings"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/shopspring/decimal"

	"github.com/paisawise/statement-import/internal/domain/statement"
)

// DefaultFuzzyThreshold is the normalized similarity above which two
// same-day, same-amount, same-direction transactions are treated as one.
const DefaultFuzzyThreshold = 0.9

// amountTolerance absorbs paise-level rounding differences between
// statement sources.
var amountTolerance = decimal.New(1, -2)

// findSimilar looks for a near-duplicate of c among the ledger window
// and the batch entries already admitted as new. Exact fingerprint
// matches are handled by the caller; this only fires for non-identical
// descriptions.
func (f *Filter) findSimilar(c statement.CandidateTransaction, fp string, existing []statement.PersistedTransaction, admitted []statement.CandidateTransaction) (statement.Duplicate, bool) {
	for _, e := range existing {
		if e.Direction != c.Direction || !sameDay(e.Date, c.Date) || !closeAmounts(e.Amount, c.Amount) {
			continue
		}
		if sim := descriptionSimilarity(c.Description, e.Description); sim >= f.fuzzyThreshold {
			return similarDuplicate(c, fp, e.ID, sim), true
		}
	}
	for _, a := range admitted {
		if a.Direction != c.Direction || !sameDay(a.Date, c.Date) || !closeAmounts(a.Amount, c.Amount) {
			continue
		}
		if sim := descriptionSimilarity(c.Description, a.Description); sim >= f.fuzzyThreshold {
			return similarDuplicate(c, fp, "", sim), true
		}
	}
	return statement.Duplicate{}, false
}

func similarDuplicate(c statement.CandidateTransaction, fp, matchedID string, sim float64) statement.Duplicate {
	return statement.Duplicate{
		Transaction: c,
		Reason:      fmt.Sprintf("Similar transaction found (%d%% match)", int(sim*100)),
		MatchedID:   matchedID,
		Fingerprint: fp,
		Similarity:  sim,
	}
}

// descriptionSimilarity is normalized edit-distance similarity:
// (longer - levenshtein) / longer over lowercased, space-collapsed text.
func descriptionSimilarity(a, b string) float64 {
	a = strings.ToLower(strings.Join(strings.Fields(a), " "))
	b = strings.ToLower(strings.Join(strings.Fields(b), " "))
	if a == b {
		return 1
	}
	longer := len(a)
	if len(b) > longer {
		longer = len(b)
	}
	if longer == 0 {
		return 1
	}
	dist := fuzzy.LevenshteinDistance(a, b)
	return float64(longer-dist) / float64(longer)
}

func sameDay(a, b time.Time) bool {
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}

func closeAmounts(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(amountTolerance)
}
