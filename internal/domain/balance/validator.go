// Package balance guards the ledger against over-spending from batch
// imports: it replays a batch of new transactions chronologically
// against the user's stored balance and rejects any expense that would
// drive the running total negative.
package balance

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/paisawise/statement-import/internal/domain/statement"
	"github.com/paisawise/statement-import/pkg/money"
)

// Rejection reports one refused expense with the running balance at the
// moment of rejection. Rejections are structured results, not errors;
// the caller decides whether to drop them or abort the batch.
type Rejection struct {
	Transaction        statement.CandidateTransaction
	Reason             string
	BalanceAtRejection decimal.Decimal
}

// Report is the outcome of replaying one batch.
type Report struct {
	Valid        []statement.CandidateTransaction
	Rejected     []Rejection
	FinalBalance decimal.Decimal
	Method       string
}

// ValidateBatch replays candidates in chronological order against the
// opening balance. Incomes add, expenses subtract; an expense that would
// go below zero is rejected and never mutates the running balance, so
// later transactions see the same funds.
func ValidateBatch(candidates []statement.CandidateTransaction, opening decimal.Decimal) *Report {
	ordered := make([]statement.CandidateTransaction, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	report := &Report{FinalBalance: opening}
	running := opening

	for _, c := range ordered {
		if c.Direction == statement.Income {
			running = running.Add(c.Amount)
			report.Valid = append(report.Valid, c)
			continue
		}
		if running.Sub(c.Amount).IsNegative() {
			report.Rejected = append(report.Rejected, Rejection{
				Transaction:        c,
				Reason:             fmt.Sprintf("insufficient funds: expense of %s exceeds available balance %s", money.FormatINR(c.Amount), money.FormatINR(running)),
				BalanceAtRejection: running,
			})
			continue
		}
		running = running.Sub(c.Amount)
		report.Valid = append(report.Valid, c)
	}

	report.FinalBalance = running
	return report
}

// ValidateByMethod replays candidates per payment-method bucket, each
// against its own opening balance. Candidates are routed by methodOf;
// an empty method falls into the "" bucket with a zero default opening.
func ValidateByMethod(candidates []statement.CandidateTransaction, openings map[string]decimal.Decimal, methodOf func(statement.CandidateTransaction) string) map[string]*Report {
	buckets := make(map[string][]statement.CandidateTransaction)
	for _, c := range candidates {
		m := methodOf(c)
		buckets[m] = append(buckets[m], c)
	}

	reports := make(map[string]*Report, len(buckets))
	for m, batch := range buckets {
		report := ValidateBatch(batch, openings[m])
		report.Method = m
		reports[m] = report
	}
	return reports
}
