package parser

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/paisawise/statement-import/internal/domain/statement"
	"github.com/paisawise/statement-import/internal/domain/statement/extractor"
)

// MapRows converts canonical CSV rows into candidate transactions. Rows
// with an unparseable date or a non-positive resolved amount are skipped,
// never fatal to the batch.
//
// Direction resolution follows a fixed priority:
//  1. "received"/"paid" keyword in the description
//  2. a populated Credit column (income, amount from that column)
//  3. a populated Debit column (expense)
//  4. an explicit Type column containing credit/debit
//  5. default to expense
func MapRows(rows []extractor.Row) []statement.CandidateTransaction {
	var candidates []statement.CandidateTransaction

	for _, row := range rows {
		date, ok := ParseCellDate(row.Date)
		if !ok {
			continue
		}

		amount, direction, known, ok := resolveRow(row)
		if !ok || !amount.IsPositive() {
			continue
		}

		description := strings.TrimSpace(row.Description)
		c := statement.CandidateTransaction{
			Date:           date,
			Amount:         amount,
			Description:    description,
			Direction:      direction,
			DirectionKnown: known,
			RawLine:        row.Date + " " + description,
			Row:            row.Line,
		}
		if direction == statement.Income {
			c.Source = description
		}
		candidates = append(candidates, c)
	}

	return candidates
}

func resolveRow(row extractor.Row) (decimal.Decimal, statement.Direction, bool, bool) {
	lowerDesc := strings.ToLower(row.Description)

	if strings.Contains(lowerDesc, "received") {
		if amount, ok := firstAmount(row.Amount, row.Credit, row.Debit); ok {
			return amount, statement.Income, true, true
		}
		return decimal.Zero, statement.Income, false, false
	}
	if strings.Contains(lowerDesc, "paid") {
		if amount, ok := firstAmount(row.Amount, row.Debit, row.Credit); ok {
			return amount, statement.Expense, true, true
		}
		return decimal.Zero, statement.Expense, false, false
	}

	if amount, _, ok := ParseCellAmount(row.Credit); ok && amount.IsPositive() {
		return amount, statement.Income, true, true
	}
	if amount, _, ok := ParseCellAmount(row.Debit); ok && amount.IsPositive() {
		return amount, statement.Expense, true, true
	}

	amount, negative, ok := ParseCellAmount(row.Amount)
	if !ok {
		return decimal.Zero, statement.Expense, false, false
	}

	lowerType := strings.ToLower(row.Type)
	switch {
	case strings.Contains(lowerType, "credit") || lowerType == "cr" || strings.Contains(lowerType, "income"):
		return amount, statement.Income, true, true
	case strings.Contains(lowerType, "debit") || lowerType == "dr" || strings.Contains(lowerType, "expense"):
		return amount, statement.Expense, true, true
	}

	// A signed amount column is an explicit signal too: negative means
	// money out.
	if negative {
		return amount, statement.Expense, true, true
	}
	return amount, statement.Expense, false, true
}

func firstAmount(cells ...string) (decimal.Decimal, bool) {
	for _, cell := range cells {
		if amount, _, ok := ParseCellAmount(cell); ok && amount.IsPositive() {
			return amount, true
		}
	}
	return decimal.Zero, false
}
