package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/paisawise/statement-import/internal/domain/statement"
)

const tabularMinLineLength = 15

// skipPhrases mark header, footer and summary lines that must never be
// parsed as transactions.
var skipPhrases = []string{
	"opening balance",
	"closing balance",
	"brought forward",
	"carried forward",
	"b/f", "c/f",
	"statement period",
	"statement of account",
	"transaction statement",
	"date & time",
	"page ",
	"total debits",
	"total credits",
	"grand total",
}

// Line-level direction vocabularies. The two sets are disjoint; income
// is checked first and an unmatched line defaults to expense.
var (
	incomeLineKeywords = []string{
		"interest", "refund", "credited", "credit", "deposit",
		"received", "salary", "cashback", "dividend", "commission",
		"bonus", "reversal", "transfer in", "upi credit", "neft cr",
		"imps cr",
	}
	expenseLineKeywords = []string{
		"withdrawal", "wdl", "debited", "debit", "payment", "purchase",
		"paid", "charged", "charge", "fee", "atm", "pos", "emi",
		"upi debit", "neft dr", "imps dr",
	}
)

var (
	crDrMarkerRe  = regexp.MustCompile(`(?i)\b(cr|dr)\.?\b`)
	junkSymbolsRe = regexp.MustCompile(`[*#!@$%^&()|]+`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
)

// ParseTabular parses a tabular bank statement text blob line by line.
// Lines that do not look like transaction rows are silently dropped:
// precision is favored over recall and the caller keeps the original
// document for manual reconciliation.
func ParseTabular(text string, opts ...Option) []statement.CandidateTransaction {
	var candidates []statement.CandidateTransaction

	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if len(line) < tabularMinLineLength || matchesSkipPhrase(line) {
			continue
		}

		date, dateText, ok := FindDate(line)
		if !ok {
			continue
		}
		remainder := strings.Replace(line, dateText, " ", 1)

		tokens := FindAmounts(remainder, opts...)
		if len(tokens) == 0 {
			continue
		}

		withdrawal, deposit, known := disambiguateAmounts(line, tokens)
		description := buildTabularDescription(remainder, tokens)

		if withdrawal != nil {
			candidates = append(candidates, statement.CandidateTransaction{
				Date:           date,
				Amount:         *withdrawal,
				Description:    description,
				Direction:      statement.Expense,
				DirectionKnown: known,
				RawLine:        line,
				Row:            i + 1,
			})
		}
		if deposit != nil {
			candidates = append(candidates, statement.CandidateTransaction{
				Date:           date,
				Amount:         *deposit,
				Description:    description,
				Direction:      statement.Income,
				DirectionKnown: known,
				Source:         description,
				RawLine:        line,
				Row:            i + 1,
			})
		}
	}

	return candidates
}

// disambiguateAmounts sorts the numeric tokens of one row into
// withdrawal and deposit:
//   - 1 token: direction comes from line keywords, default expense.
//   - 2 tokens: the first is the transaction, the second is the running
//     balance and is discarded.
//   - 3+ tokens: the last is discarded as balance; two survivors are a
//     withdrawal/deposit column pair, one survivor is keyword-classified,
//     more than two survivors fall back to the first token.
//
// The returned flag reports whether the direction was fixed by column
// position or an explicit keyword rather than defaulted.
func disambiguateAmounts(line string, tokens []AmountToken) (withdrawal, deposit *decimal.Decimal, known bool) {
	classify := func(v decimal.Decimal) (w, d *decimal.Decimal, known bool) {
		dir, matched := classifyLineDirection(line)
		if dir == statement.Income {
			return nil, &v, matched
		}
		return &v, nil, matched
	}

	switch len(tokens) {
	case 1, 2:
		return classify(tokens[0].Value)
	default:
		remaining := tokens[:len(tokens)-1]
		switch len(remaining) {
		case 1:
			return classify(remaining[0].Value)
		case 2:
			w, d := remaining[0].Value, remaining[1].Value
			return &w, &d, true
		default:
			return classify(remaining[0].Value)
		}
	}
}

// classifyLineDirection scans the whole line against the income
// vocabulary first, then the expense one. The second return reports
// whether any keyword matched at all.
func classifyLineDirection(line string) (statement.Direction, bool) {
	lower := strings.ToLower(line)
	for _, kw := range incomeLineKeywords {
		if strings.Contains(lower, kw) {
			return statement.Income, true
		}
	}
	for _, kw := range expenseLineKeywords {
		if strings.Contains(lower, kw) {
			return statement.Expense, true
		}
	}
	return statement.Expense, false
}

// buildTabularDescription removes all matched amount substrings from the
// date-stripped remainder, then strips residual Cr/Dr markers and junk
// symbols and collapses whitespace.
func buildTabularDescription(remainder string, tokens []AmountToken) string {
	cut := make([]byte, len(remainder))
	copy(cut, remainder)
	for _, tok := range tokens {
		for j := tok.Start; j < tok.End && j < len(cut); j++ {
			cut[j] = ' '
		}
	}
	desc := crDrMarkerRe.ReplaceAllString(string(cut), " ")
	desc = junkSymbolsRe.ReplaceAllString(desc, " ")
	desc = whitespaceRe.ReplaceAllString(desc, " ")
	return strings.TrimSpace(desc)
}

func matchesSkipPhrase(line string) bool {
	lower := strings.ToLower(line)
	for _, phrase := range skipPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
