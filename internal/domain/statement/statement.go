// Package statement defines the shared model for the import pipeline:
// uploaded documents, parser-emitted candidate transactions, and the
// result handed back to the caller for persistence.
package statement

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Direction is the resolved flow of a transaction.
type Direction string

const (
	Income  Direction = "income"
	Expense Direction = "expense"
)

// RawDocument is one uploaded file. It lives only for the duration of a
// single import call and is never persisted.
type RawDocument struct {
	Content  []byte
	MIMEType string
	Password string
	Filename string
}

// CandidateTransaction is the parser's output unit. Date precision is
// calendar-day; Amount is always positive; Direction may be provisional
// until the classifier runs (DirectionKnown reports whether the parser
// already fixed it from an explicit column or phrase).
type CandidateTransaction struct {
	Date           time.Time
	Amount         decimal.Decimal
	Description    string
	Direction      Direction
	DirectionKnown bool

	// Source is the counterparty or account label used as the
	// fingerprint fallback for income rows with empty descriptions.
	Source string

	Category    string
	Confidence  float64
	NeedsReview bool

	RawLine string
	Row     int
}

// Duplicate wraps a candidate that matched an existing or in-batch
// transaction.
type Duplicate struct {
	Transaction CandidateTransaction
	Reason      string
	MatchedID   string
	Fingerprint string
	Similarity  float64
}

// ImportStats summarizes one import run.
type ImportStats struct {
	Total      int `json:"total"`
	New        int `json:"new"`
	Duplicates int `json:"duplicates"`
}

// ImportResult is produced once per upload. The caller persists
// NewTransactions tagged with BatchID and reports Duplicates back to the
// user.
type ImportResult struct {
	BatchID         uuid.UUID
	NewTransactions []CandidateTransaction
	Duplicates      []Duplicate
	Stats           ImportStats
}

// PersistedTransaction is the slice of a stored ledger row the duplicate
// filter needs for fingerprint comparison.
type PersistedTransaction struct {
	ID            string
	Date          time.Time
	Amount        decimal.Decimal
	Description   string
	Direction     Direction
	Source        string
	Category      string
	PaymentMethod string
}

// LedgerReader is the existing-ledger collaborator. Implementations must
// return every stored transaction for the user whose date falls within
// [start, end] inclusive.
type LedgerReader interface {
	FindByUserAndDateRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]PersistedTransaction, error)
}
