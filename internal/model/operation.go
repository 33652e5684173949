package model

import "strings"

// BankOperation represents one parsed bank export row, optionally merged with
// a continuation row in Details.
type BankOperation struct {
	Date      string // day-first, e.g. "05/02/2025"
	Operation string // bank narrative
	Debit     string // signed, e.g. "-45.90"
	Credit    string
	Currency  string
	ValueDate string
	Label     string
	Details   string
}

// Valid reports whether the row looks like an operation rather than a header
// or noise: the date is present and starts with a digit 0-3.
func (o BankOperation) Valid() bool {
	if o.Date == "" {
		return false
	}
	c := o.Date[0]
	return c >= '0' && c <= '3'
}

// WithDetails returns a copy of o with text appended to Details.
func (o BankOperation) WithDetails(text string) BankOperation {
	text = strings.TrimSpace(text)
	if text == "" {
		return o
	}
	if o.Details == "" {
		o.Details = text
	} else {
		o.Details = o.Details + " " + text
	}
	return o
}
