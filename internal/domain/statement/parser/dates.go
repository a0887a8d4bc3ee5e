// Package parser turns extracted statement text and rows into candidate
// transactions. It carries one parser per recognized layout (tabular
// bank statements, narrative UPI/wallet statements, CSV rows) plus the
// shared date and amount token grammars.
package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// datePattern pairs a token grammar with its interpreter. Patterns are
// tried strictly in declaration order and the first match wins, so the
// 4-digit-year forms are never mis-split by the 2-digit form.
type datePattern struct {
	name  string
	re    *regexp.Regexp
	parse func(m []string) (time.Time, bool)
}

var datePatterns = []datePattern{
	{
		name: "dd-mm-yy",
		re:   regexp.MustCompile(`\b(\d{2})[-/](\d{2})[-/](\d{2})\b`),
		parse: func(m []string) (time.Time, bool) {
			return makeDate(expandYear(atoi(m[3])), atoi(m[2]), atoi(m[1]))
		},
	},
	{
		name: "dd-mm-yyyy",
		re:   regexp.MustCompile(`\b(\d{1,2})[-/](\d{1,2})[-/](\d{4})\b`),
		parse: func(m []string) (time.Time, bool) {
			return makeDate(atoi(m[3]), atoi(m[2]), atoi(m[1]))
		},
	},
	{
		name: "yyyy-mm-dd",
		re:   regexp.MustCompile(`\b(\d{4})[-/](\d{1,2})[-/](\d{1,2})\b`),
		parse: func(m []string) (time.Time, bool) {
			return makeDate(atoi(m[1]), atoi(m[2]), atoi(m[3]))
		},
	},
	{
		name: "dd mmm yyyy",
		re:   regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?[\s-]*(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*[\s-]+(\d{2,4})\b`),
		parse: func(m []string) (time.Time, bool) {
			return makeDate(expandYear(atoi(m[3])), monthNumber(m[2]), atoi(m[1]))
		},
	},
	{
		// OCR output often concatenates the day and month ("15Jan, 2025").
		name: "dd mmm, yyyy",
		re:   regexp.MustCompile(`(?i)\b(\d{1,2})\s*(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*,\s*(\d{2,4})\b`),
		parse: func(m []string) (time.Time, bool) {
			return makeDate(expandYear(atoi(m[3])), monthNumber(m[2]), atoi(m[1]))
		},
	},
}

// FindDate scans line for the first date token, trying each pattern in
// priority order. It returns the parsed day, the matched substring and
// whether anything matched.
func FindDate(line string) (time.Time, string, bool) {
	for _, p := range datePatterns {
		m := p.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if t, ok := p.parse(m); ok {
			return t, m[0], true
		}
	}
	return time.Time{}, "", false
}

// csvDateLayouts are the generic fallbacks for CSV cells once the
// locale-priority patterns have failed.
var csvDateLayouts = []string{
	"02 Jan 2006",
	"02-Jan-2006",
	"02.01.2006",
	"Jan 2, 2006",
	"2006/01/02",
}

// ParseCellDate parses a whole CSV cell as a date. The DD-MM forms are
// tried before anything else so day and month are never swapped into the
// US convention.
func ParseCellDate(cell string) (time.Time, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return time.Time{}, false
	}
	if t, matched, ok := FindDate(cell); ok && strings.TrimSpace(strings.Replace(cell, matched, "", 1)) == "" {
		return t, true
	}
	for _, layout := range csvDateLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			return t, true
		}
	}
	// Cells with a trailing timestamp ("15-01-2025 10:32") still count.
	if t, _, ok := FindDate(cell); ok {
		return t, true
	}
	return time.Time{}, false
}

var monthNumbers = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

func monthNumber(abbr string) int {
	return monthNumbers[strings.ToLower(abbr)]
}

// expandYear widens 2-digit years: 00-49 map to 20xx, 50-99 to 19xx.
func expandYear(y int) int {
	if y >= 100 {
		return y
	}
	if y < 50 {
		return 2000 + y
	}
	return 1900 + y
}

// makeDate builds a UTC calendar day and rejects impossible component
// combinations (time.Date would silently normalize them instead).
func makeDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
