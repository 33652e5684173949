package accounts

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"github.com/bocal-dev/bocal/internal/model"
	"github.com/bocal-dev/bocal/internal/textenc"
)

// SupplierPrefix is the chart prefix for supplier accounts.
const SupplierPrefix = "401"

// Index provides keyword lookup over the chart of accounts. It is built once
// and never mutated, so it can be shared freely.
type Index struct {
	accounts []model.Account
	byCode   map[string]string // upper(code) -> code, first loaded wins
	names    []string          // upper(name), parallel to accounts
}

// NewIndex creates an Index from accounts in load order.
func NewIndex(accounts []model.Account) *Index {
	idx := &Index{
		accounts: make([]model.Account, len(accounts)),
		byCode:   make(map[string]string, len(accounts)),
		names:    make([]string, len(accounts)),
	}
	copy(idx.accounts, accounts)
	for i, a := range idx.accounts {
		key := strings.ToUpper(a.Code)
		if _, ok := idx.byCode[key]; !ok {
			idx.byCode[key] = a.Code
		}
		idx.names[i] = strings.ToUpper(a.Name)
	}
	return idx
}

// LoadChart reads a chart of accounts file from fs and returns its Index. The
// encoding name is one understood by textenc.
func LoadChart(fs afero.Fs, path, encoding string) (*Index, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("opening chart of accounts: %w", err)
	}

	r, err := textenc.NewReader(data, encoding)
	if err != nil {
		return nil, fmt.Errorf("decoding chart of accounts: %w", err)
	}

	accts, err := ReadChart(r)
	if err != nil {
		return nil, fmt.Errorf("reading chart of accounts: %w", err)
	}
	return NewIndex(accts), nil
}

// All returns all accounts in load order.
func (idx *Index) All() []model.Account {
	return idx.accounts
}

// Len returns the number of loaded accounts.
func (idx *Index) Len() int {
	return len(idx.accounts)
}

// Get returns the account with the given code (case-insensitive).
func (idx *Index) Get(code string) (model.Account, bool) {
	want, ok := idx.byCode[strings.ToUpper(code)]
	if !ok {
		return model.Account{}, false
	}
	for _, a := range idx.accounts {
		if a.Code == want {
			return a, true
		}
	}
	return model.Account{}, false
}

// Resolve maps a keyword to an account code. Lookup order, case-insensitive,
// first hit wins:
//
//  1. keyword equals an account code
//  2. keyword is a substring of an account name, in load order
//  3. "401"+keyword equals an account code
//
// Resolve never invents a code; callers supply their own fallback.
func (idx *Index) Resolve(keyword string) (string, bool) {
	if keyword == "" {
		return "", false
	}
	key := strings.ToUpper(keyword)

	if code, ok := idx.byCode[key]; ok {
		return code, true
	}

	for i, name := range idx.names {
		if strings.Contains(name, key) {
			return idx.accounts[i].Code, true
		}
	}

	if code, ok := idx.byCode[SupplierPrefix+key]; ok {
		return code, true
	}
	return "", false
}
