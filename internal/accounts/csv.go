package accounts

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/bocal-dev/bocal/internal/amount"
	"github.com/bocal-dev/bocal/internal/csvline"
	"github.com/bocal-dev/bocal/internal/model"
)

// Header is the header row written by WriteChart.
var Header = []string{"Compte", "Intitule"}

const (
	minFields = 2
	colCode   = 0
	colName   = 1
)

// ReadChart reads a semicolon-delimited chart of accounts. The first row is a
// header and is skipped. Rows without both a code and a name are ignored.
func ReadChart(r io.Reader) ([]model.Account, error) {
	lr := csvline.NewReader(r)
	if _, err := lr.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("reading chart of accounts CSV: %w", err)
	}

	var accounts []model.Account
	for {
		rec, err := lr.Read()
		if err == io.EOF {
			return accounts, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading chart of accounts CSV after line %d: %w", lr.Line(), err)
		}
		acct, ok := UnmarshalAccount(rec)
		if !ok {
			continue
		}
		accounts = append(accounts, acct)
	}
}

// WriteChart writes a chart of accounts, header first.
func WriteChart(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(acct model.Account) []string {
	return []string{acct.Code, acct.Name}
}

// UnmarshalAccount converts a CSV row to an Account. Values are stripped of
// surrounding quotes; ok is false when the code or name is missing.
func UnmarshalAccount(record []string) (model.Account, bool) {
	if len(record) < minFields {
		return model.Account{}, false
	}
	code := amount.Clean(record[colCode])
	if code == "" {
		return model.Account{}, false
	}
	return model.Account{
		Code: code,
		Name: amount.Clean(record[colName]),
	}, true
}
