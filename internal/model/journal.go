package model

import (
	"github.com/shopspring/decimal"

	"github.com/bocal-dev/bocal/internal/amount"
)

// JournalEntry is a single row of the bank journal (one side of a double-entry).
// Amounts are in display form with a decimal comma.
type JournalEntry struct {
	Journal string // journal code, e.g. "BP"
	Date    string
	Account string
	Label   string
	Debit   string // empty if credit side
	Credit  string // empty if debit side
}

// IsDebit reports whether the entry carries its amount on the debit side.
func (e JournalEntry) IsDebit() bool {
	return e.Debit != ""
}

// DebitAmount parses the debit side. Empty parses as zero.
func (e JournalEntry) DebitAmount() (decimal.Decimal, error) {
	return amount.Parse(e.Debit)
}

// CreditAmount parses the credit side. Empty parses as zero.
func (e JournalEntry) CreditAmount() (decimal.Decimal, error) {
	return amount.Parse(e.Credit)
}
