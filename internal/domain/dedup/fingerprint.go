// Package dedup prevents the same real-world transaction from being
// recorded twice. It fingerprints candidates canonically, compares them
// against a date-bounded window of already-stored ledger entries and
// splits each import batch into new and duplicate sets.
package dedup

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/paisawise/statement-import/internal/domain/statement"
)

// ErrInvalidAmount rejects a candidate whose amount cannot take part in
// fingerprinting.
var ErrInvalidAmount = errors.New("transaction amount must be positive")

// Fingerprint computes the canonical digest of a candidate:
// md5("amount(2dp)|YYYY-MM-DD|direction|normalized description").
// The rounding, day truncation and fallback order are load-bearing;
// every comparison site must use this exact canonicalization.
func Fingerprint(tx statement.CandidateTransaction) (string, error) {
	if !tx.Amount.IsPositive() {
		return "", ErrInvalidAmount
	}
	return digest(tx.Amount, tx.Date, tx.Direction, tx.Description, tx.Source, tx.Category), nil
}

// FingerprintPersisted computes the same digest for a stored ledger row.
func FingerprintPersisted(tx statement.PersistedTransaction) (string, error) {
	if !tx.Amount.IsPositive() {
		return "", ErrInvalidAmount
	}
	return digest(tx.Amount, tx.Date, tx.Direction, tx.Description, tx.Source, tx.Category), nil
}

func digest(amount decimal.Decimal, date time.Time, dir statement.Direction, description, source, category string) string {
	input := strings.Join([]string{
		amount.StringFixed(2),
		date.Format("2006-01-02"),
		string(dir),
		normalizeDescription(description, source, category, dir),
	}, "|")
	sum := md5.Sum([]byte(input))
	return hex.EncodeToString(sum[:])
}

// normalizeDescription lowercases and collapses whitespace. An empty
// description falls back to the income source or the expense category
// label, in that order of relevance to the direction.
func normalizeDescription(description, source, category string, dir statement.Direction) string {
	text := strings.TrimSpace(description)
	if text == "" {
		if dir == statement.Income {
			text = source
		} else {
			text = category
		}
	}
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}
