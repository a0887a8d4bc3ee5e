package parser

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/paisawise/statement-import/internal/domain/statement"
)

// narrativeKeyword pairs a trigger phrase with the direction it implies.
// OCR tends to concatenate adjacent words, so each phrase also appears
// in its squashed form.
type narrativeKeyword struct {
	phrase    string
	direction statement.Direction
}

var narrativeKeywords = []narrativeKeyword{
	{"paid to", statement.Expense},
	{"paidto", statement.Expense},
	{"sent to", statement.Expense},
	{"sentto", statement.Expense},
	{"received from", statement.Income},
	{"receivedfrom", statement.Income},
}

const (
	narrativeDateWindow   = 2
	narrativeAmountWindow = 4
	minDescriptionLength  = 3
)

var (
	upiHandleRe = regexp.MustCompile(`(?i)\b[\w.\-]+@[a-z][a-z0-9]*\b`)
	phoneRe     = regexp.MustCompile(`\b\d{10}\b`)
	upiRefRe    = regexp.MustCompile(`(?i)\bupi\s*transaction\s*id\s*:?\s*\S*`)
	timeOfDayRe = regexp.MustCompile(`(?i)\b\d{1,2}:\d{2}\s*(?:am|pm)?\b`)
)

// narrativeSkipPhrases are wallet-app header and footer lines.
var narrativeSkipPhrases = []string{
	"transaction statement",
	"statement period",
	"date & time",
	"date&time",
	"page ",
	"opening balance",
	"closing balance",
}

// ParseNarrative parses wallet/UPI statement text, where OCR regularly
// splits one transaction's date, counterparty and amount across
// neighboring lines. For each line carrying a trigger phrase it searches
// a ±2-line window for a date and the line itself plus the next 4 lines
// for an amount; a candidate is emitted only when both were found.
func ParseNarrative(text string, opts ...Option) []statement.CandidateTransaction {
	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		if line := strings.TrimSpace(raw); line != "" {
			lines = append(lines, line)
		}
	}

	var candidates []statement.CandidateTransaction
	seen := make(map[string]bool)

	for i, line := range lines {
		if matchesNarrativeSkip(line) {
			continue
		}
		kw, ok := matchNarrativeKeyword(line)
		if !ok {
			continue
		}

		date, ok := findDateInWindow(lines, i)
		if !ok {
			continue
		}
		amount, ok := findAmountInWindow(lines, i, opts)
		if !ok {
			continue
		}

		description := buildNarrativeDescription(lines, i, kw.phrase)

		// OCR sometimes emits the same receipt block twice.
		key := fmt.Sprintf("%s_%s_%s", date.Format("2006-01-02"), amount.Value.String(), clip(description, 20))
		if seen[key] {
			continue
		}
		seen[key] = true

		candidates = append(candidates, statement.CandidateTransaction{
			Date:           date,
			Amount:         amount.Value,
			Description:    description,
			Direction:      kw.direction,
			DirectionKnown: true,
			Source:         description,
			RawLine:        line,
			Row:            i + 1,
		})
	}

	return candidates
}

func matchNarrativeKeyword(line string) (narrativeKeyword, bool) {
	lower := strings.ToLower(line)
	for _, kw := range narrativeKeywords {
		if strings.Contains(lower, kw.phrase) {
			return kw, true
		}
	}
	return narrativeKeyword{}, false
}

// findDateInWindow searches the matched line first, then outward through
// the ±2-line window, preferring earlier lines (wallet apps print the
// date above the transaction).
func findDateInWindow(lines []string, i int) (time.Time, bool) {
	order := []int{i, i - 1, i + 1, i - 2, i + 2}
	for _, j := range order {
		if j < 0 || j >= len(lines) {
			continue
		}
		if t, _, found := FindDate(lines[j]); found {
			return t, true
		}
	}
	return time.Time{}, false
}

// findAmountInWindow searches the matched line and then the next 1..4
// lines for a currency-amount token.
func findAmountInWindow(lines []string, i int, opts []Option) (AmountToken, bool) {
	for j := i; j <= i+narrativeAmountWindow && j < len(lines); j++ {
		if tok, ok := FindCurrencyAmount(lines[j], opts...); ok {
			return tok, true
		}
	}
	return AmountToken{}, false
}

// buildNarrativeDescription derives the counterparty from the matched
// line: the trigger phrase, UPI handles, phone numbers, reference IDs
// and amounts are stripped. If under 3 characters remain, the next line
// that is neither an amount nor a handle is used instead.
func buildNarrativeDescription(lines []string, i int, phrase string) string {
	desc := stripNarrativeNoise(lines[i], phrase)
	if len(desc) >= minDescriptionLength {
		return desc
	}
	for j := i + 1; j <= i+2 && j < len(lines); j++ {
		fallback := stripNarrativeNoise(lines[j], phrase)
		if len(fallback) >= minDescriptionLength && containsLetter(fallback) {
			return fallback
		}
	}
	return desc
}

func containsLetter(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}

func stripNarrativeNoise(line, phrase string) string {
	desc := line
	if phrase != "" {
		re := regexp.MustCompile(`(?i)` + strings.ReplaceAll(regexp.QuoteMeta(phrase), " ", `\s*`))
		desc = re.ReplaceAllString(desc, " ")
	}
	desc = upiRefRe.ReplaceAllString(desc, " ")
	desc = upiHandleRe.ReplaceAllString(desc, " ")
	desc = phoneRe.ReplaceAllString(desc, " ")
	desc = currencyMarkedRe.ReplaceAllString(desc, " ")
	desc = timeOfDayRe.ReplaceAllString(desc, " ")
	if _, matched, ok := FindDate(desc); ok {
		desc = strings.Replace(desc, matched, " ", 1)
	}
	desc = junkSymbolsRe.ReplaceAllString(desc, " ")
	desc = whitespaceRe.ReplaceAllString(desc, " ")
	return strings.TrimSpace(desc)
}

func matchesNarrativeSkip(line string) bool {
	lower := strings.ToLower(strings.ReplaceAll(line, " ", ""))
	for _, phrase := range narrativeSkipPhrases {
		if strings.Contains(lower, strings.ReplaceAll(phrase, " ", "")) {
			return true
		}
	}
	return false
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
