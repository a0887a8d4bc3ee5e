package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultMaxAmount is the default sanity ceiling for a single statement
// amount. Tokens above the ceiling are treated as account numbers or
// reference IDs.
const DefaultMaxAmount = 1_000_000

var defaultMaxAmount = decimal.NewFromInt(DefaultMaxAmount)

// Option tunes the token grammars for one parse call. The grammars
// themselves are immutable package state; options never mutate them.
type Option func(*settings)

type settings struct {
	maxAmount decimal.Decimal
}

// WithMaxAmount overrides the amount sanity ceiling.
func WithMaxAmount(ceiling decimal.Decimal) Option {
	return func(s *settings) { s.maxAmount = ceiling }
}

func newSettings(opts []Option) settings {
	s := settings{maxAmount: defaultMaxAmount}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// amountRe is the currency-amount token grammar: optional thousands
// groups and an optional 2-digit paise part.
var amountRe = regexp.MustCompile(`\d+(?:,\d{3})*(?:\.\d{2})?`)

// currencyMarkedRe matches an amount explicitly tagged with a currency
// marker, the strongest signal on narrative statements.
var currencyMarkedRe = regexp.MustCompile(`(?i)(?:₹|rs\.?|inr)\s*([\d,]+(?:\.\d+)?)`)

// AmountToken is one numeric token found in a line, with its position so
// the description builder can cut it back out.
type AmountToken struct {
	Text  string
	Value decimal.Decimal
	Start int
	End   int
}

// FindAmounts extracts all currency-amount tokens from s in positional
// order, discarding 4-digit year lookalikes, zero values and anything
// above the sanity ceiling.
func FindAmounts(s string, opts ...Option) []AmountToken {
	st := newSettings(opts)
	var tokens []AmountToken
	for _, loc := range amountRe.FindAllStringIndex(s, -1) {
		text := s[loc[0]:loc[1]]
		if looksLikeYear(text) {
			continue
		}
		value, err := decimal.NewFromString(strings.ReplaceAll(text, ",", ""))
		if err != nil || !value.IsPositive() || value.GreaterThan(st.maxAmount) {
			continue
		}
		tokens = append(tokens, AmountToken{Text: text, Value: value, Start: loc[0], End: loc[1]})
	}
	return tokens
}

// FindCurrencyAmount returns the first currency-marked amount in s, or
// falls back to the first plain amount token.
func FindCurrencyAmount(s string, opts ...Option) (AmountToken, bool) {
	st := newSettings(opts)
	if m := currencyMarkedRe.FindStringSubmatchIndex(s); m != nil {
		text := s[m[2]:m[3]]
		value, err := decimal.NewFromString(strings.ReplaceAll(text, ",", ""))
		if err == nil && value.IsPositive() && !value.GreaterThan(st.maxAmount) {
			return AmountToken{Text: text, Value: value, Start: m[0], End: m[1]}, true
		}
	}
	tokens := FindAmounts(s, opts...)
	if len(tokens) == 0 {
		return AmountToken{}, false
	}
	return tokens[0], true
}

// ParseCellAmount parses a whole CSV cell as a positive amount,
// tolerating currency symbols, commas and a leading sign. The second
// return reports whether the cell was negative before taking the
// absolute value.
func ParseCellAmount(cell string) (decimal.Decimal, bool, bool) {
	cleaned := strings.TrimSpace(cell)
	if cleaned == "" {
		return decimal.Zero, false, false
	}
	for _, junk := range []string{"₹", "Rs.", "Rs", "INR", ",", " "} {
		cleaned = strings.ReplaceAll(cleaned, junk, "")
	}
	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false, false
	}
	return value.Abs(), value.IsNegative(), true
}

func looksLikeYear(token string) bool {
	if len(token) != 4 || strings.ContainsAny(token, ",.") {
		return false
	}
	return token >= "1900" && token <= "2099"
}
