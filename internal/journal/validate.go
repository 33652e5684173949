package journal

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bocal-dev/bocal/internal/model"
)

// Invariants checked by ValidatePosting.
const (
	InvariantBalance = 1 // sum(debits) == sum(credits)
	InvariantOneSide = 2 // exactly one of debit/credit, numeric
	InvariantAccount = 3 // account code present
)

// ValidationError describes a single invariant violation.
type ValidationError struct {
	Invariant   int
	Account     string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invariant %d [%s]: %s", e.Invariant, e.Account, e.Description)
}

// ValidatePosting checks the legs produced for one bank operation. A single
// leg is not checked for balance.
func ValidatePosting(entries []model.JournalEntry) []ValidationError {
	var errs []ValidationError
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	numeric := true

	for _, e := range entries {
		if e.Account == "" {
			errs = append(errs, ValidationError{
				Invariant:   InvariantAccount,
				Description: "leg has no account",
			})
		}

		if (e.Debit == "") == (e.Credit == "") {
			errs = append(errs, ValidationError{
				Invariant:   InvariantOneSide,
				Account:     e.Account,
				Description: "leg must have exactly one of debit or credit",
			})
			continue
		}

		if e.IsDebit() {
			d, err := e.DebitAmount()
			if err != nil {
				numeric = false
				errs = append(errs, ValidationError{
					Invariant:   InvariantOneSide,
					Account:     e.Account,
					Description: fmt.Sprintf("debit %q is not a number", e.Debit),
				})
				continue
			}
			totalDebit = totalDebit.Add(d)
		} else {
			c, err := e.CreditAmount()
			if err != nil {
				numeric = false
				errs = append(errs, ValidationError{
					Invariant:   InvariantOneSide,
					Account:     e.Account,
					Description: fmt.Sprintf("credit %q is not a number", e.Credit),
				})
				continue
			}
			totalCredit = totalCredit.Add(c)
		}
	}

	if len(entries) > 1 && numeric && !totalDebit.Equal(totalCredit) {
		errs = append(errs, ValidationError{
			Invariant:   InvariantBalance,
			Description: fmt.Sprintf("debits (%s) != credits (%s)", totalDebit.StringFixed(2), totalCredit.StringFixed(2)),
		})
	}
	return errs
}
