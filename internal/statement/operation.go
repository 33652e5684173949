package statement

import (
	"regexp"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/bocal-dev/bocal/internal/model"
)

// ErrTooFewFields is returned by ParseOperation for rows that cannot hold an
// operation.
var ErrTooFewFields = errors.New("too few fields for an operation")

// MinFields is the number of fields an operation row must have.
const MinFields = 6

const (
	colDate = iota
	colOperation
	colDebit
	colCredit
	colCurrency
	colValueDate
	colLabel
	colDetails
)

// ParseOperation maps a row onto a BankOperation. It does not check the
// date; see model.BankOperation.Valid.
func ParseOperation(row Row) (model.BankOperation, error) {
	f := row.Fields
	if len(f) < MinFields {
		return model.BankOperation{}, errors.Wrapf(ErrTooFewFields, "record %d has %d", row.Line, len(f))
	}
	op := model.BankOperation{
		Date:      f[colDate],
		Operation: f[colOperation],
		Debit:     f[colDebit],
		Credit:    f[colCredit],
		Currency:  f[colCurrency],
		ValueDate: f[colValueDate],
	}
	if len(f) > colLabel {
		op.Label = f[colLabel]
	}
	if len(f) > colDetails {
		op.Details = f[colDetails]
	}
	return op, nil
}

var datePattern = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)

// DetectPeriod returns the month and year of the first d/m/yyyy date in
// data with a valid month and a year from 1900 on.
func DetectPeriod(data []byte) (time.Month, int, bool) {
	for _, m := range datePattern.FindAllSubmatch(data, -1) {
		month, _ := strconv.Atoi(string(m[2]))
		year, _ := strconv.Atoi(string(m[3]))
		if month < 1 || month > 12 || year < 1900 {
			continue
		}
		return time.Month(month), year, true
	}
	return 0, 0, false
}
