// Package money provides currency-safe parsing and display helpers on
// top of go-money and shopspring/decimal.
package money

import (
	"fmt"
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// INR is the only currency statements are assumed to be denominated in.
const INR = "INR"

// ParseAmount parses a display amount ("₹1,234.56", "Rs. 500") into a
// decimal value. The sign is preserved.
func ParseAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(s)
	for _, junk := range []string{"₹", "Rs.", "Rs", "INR", ",", " "} {
		cleaned = strings.ReplaceAll(cleaned, junk, "")
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}

// FormatINR renders a decimal amount for display ("₹1,234.56").
func FormatINR(d decimal.Decimal) string {
	paise := d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	return gomoney.New(paise, INR).Display()
}
