package classify

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Match maps narrative substrings to an account keyword. Every entry in
// Contains must be present (case-insensitive) for the match to apply. An
// empty Label keeps the label already derived from the narrative.
type Match struct {
	Contains []string `yaml:"contains"`
	Keyword  string   `yaml:"keyword"`
	Label    string   `yaml:"label,omitempty"`
}

// FeeRule describes a fixed recurring bank fee. Keyword and Fallback default
// to the fee account from Defaults when empty.
type FeeRule struct {
	Category string   `yaml:"category"`
	Markers  []string `yaml:"markers"`
	Keyword  string   `yaml:"keyword,omitempty"`
	Fallback string   `yaml:"fallback,omitempty"`
	Label    string   `yaml:"label"`
}

// Labels holds the display labels for postings that do not take their label
// from the narrative.
type Labels struct {
	Settlement  string `yaml:"settlement"`
	Card        string `yaml:"card"`
	CashDeposit string `yaml:"cash_deposit"`
	Transfer    string `yaml:"transfer"`
	DirectDebit string `yaml:"direct_debit"`
	Wire        string `yaml:"wire"`
}

// Rules is the curated, data-driven part of classification: merchant tables,
// fee sub-cases and labels. Adding a merchant is a change to this data, not
// to the classifier.
type Rules struct {
	CardMarker    string    `yaml:"card_marker"`
	Labels        Labels    `yaml:"labels"`
	CardMerchants []Match   `yaml:"card_merchants"`
	Transfers     []Match   `yaml:"incoming_transfers"`
	DirectDebits  []Match   `yaml:"direct_debits"`
	Wires         []Match   `yaml:"outgoing_wires"`
	Fees          []FeeRule `yaml:"fees"`
}

// DefaultRules returns the built-in rule tables.
func DefaultRules() Rules {
	return Rules{
		CardMarker: "CARTE X0067",
		Labels: Labels{
			Settlement:  "CB",
			Card:        "CARTE BANCAIRE",
			CashDeposit: "Versement especes",
			Transfer:    "Remboursement TVA",
			DirectDebit: "Prelevement",
			Wire:        "Virement",
		},
		CardMerchants: []Match{
			{Contains: []string{"FACEBK"}, Keyword: "FACEBOOK", Label: "PUB FACEBOOK"},
			{Contains: []string{"AMAZON"}, Keyword: "AMAZON"},
			{Contains: []string{"LEROY MERLIN"}, Keyword: "LEROYMERLIN", Label: "LEROY MERLIN"},
			{Contains: []string{"ADEO*LEROY"}, Keyword: "LEROYMERLIN", Label: "LEROY MERLIN"},
			{Contains: []string{"AVERY"}, Keyword: "AVERY"},
			{Contains: []string{"ORANGE"}, Keyword: "ORANGE"},
			{Contains: []string{"ORANAISE"}, Keyword: "RESTAURANT", Label: "Restaurant"},
		},
		Transfers: []Match{
			{Contains: []string{"SIE MOSSON"}, Keyword: "44567", Label: "Remboursement TVA"},
		},
		DirectDebits: []Match{
			{Contains: []string{"CEP TRESO SANTE PREV"}, Keyword: "4375", Label: "Prevoyance"},
			{Contains: []string{"AXA"}, Keyword: "6161", Label: "AXA"},
			{Contains: []string{"URSSAF", "FEV"}, Keyword: "644101", Label: "URSSAF ASF"},
			{Contains: []string{"URSSAF"}, Keyword: "431", Label: "URSSAF"},
			{Contains: []string{"HAXE DIRECT"}, Keyword: "HAXE DIRECT", Label: "HAXE DIRECT"},
			{Contains: []string{"GC RE HOKODO"}, Keyword: "ANKORSTORE", Label: "Ankorstore"},
			{Contains: []string{"METAC"}, Keyword: "TIME", Label: "TIME METAC"},
			{Contains: []string{"IONOS"}, Keyword: "IONOS", Label: "IONOS"},
		},
		Wires: []Match{
			{Contains: []string{"FREJAVILLE Carla"}, Keyword: "421", Label: "Salaire Janvier"},
			{Contains: []string{"SCOP EPICE"}, Keyword: "SCOPEPICE", Label: "SCOP EPICE"},
			{Contains: []string{"COMPAGNIE DU BICARBONATE"}, Keyword: "COMPAGNIEBIC", Label: "Cie Bicarbonate"},
			{Contains: []string{"ECODIS"}, Keyword: "ECODIS", Label: "ECODIS"},
			{Contains: []string{"SCI JC"}, Keyword: "SCIJC", Label: "Loyer Février 2025"},
		},
		Fees: []FeeRule{
			{Category: CategoryMonthlyFee, Markers: []string{"COTISATION MENSUELLE"}, Label: "Cotisation Jazz Pro"},
			{Category: CategoryStatementCommission, Markers: []string{"COMMISSION RELEVE", "COM REL"}, Label: "Commission LCR"},
			{Category: CategoryLCRStatement, Markers: []string{"RELEVE LCR DOMICIL"}, Keyword: "EVOOTRADE", Fallback: "401EVOOTRADE", Label: "EVOOTRADE"},
		},
	}
}

// Validate checks that every table entry can match and post.
func (r Rules) Validate() error {
	var errs []error
	if r.CardMarker == "" {
		errs = append(errs, errors.New("card_marker is empty"))
	}
	tables := []struct {
		name    string
		matches []Match
	}{
		{"card_merchants", r.CardMerchants},
		{"incoming_transfers", r.Transfers},
		{"direct_debits", r.DirectDebits},
		{"outgoing_wires", r.Wires},
	}
	for _, tbl := range tables {
		for i, m := range tbl.matches {
			if len(m.Contains) == 0 {
				errs = append(errs, fmt.Errorf("%s[%d]: contains is empty", tbl.name, i))
			}
			if m.Keyword == "" {
				errs = append(errs, fmt.Errorf("%s[%d]: keyword is empty", tbl.name, i))
			}
		}
	}
	for i, f := range r.Fees {
		if f.Category == "" {
			errs = append(errs, fmt.Errorf("fees[%d]: category is empty", i))
		}
		if len(f.Markers) == 0 {
			errs = append(errs, fmt.Errorf("fees[%d]: markers is empty", i))
		}
		if f.Label == "" {
			errs = append(errs, fmt.Errorf("fees[%d]: label is empty", i))
		}
	}
	return errors.Join(errs...)
}

// LoadRules reads a rules YAML file. Keys absent from the file keep their
// built-in values; tables present in the file replace the built-in table.
func LoadRules(fs afero.Fs, path string) (Rules, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return Rules{}, fmt.Errorf("reading rules: %w", err)
	}
	rules := DefaultRules()
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("parsing rules: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return Rules{}, fmt.Errorf("invalid rules %s: %w", path, err)
	}
	return rules, nil
}

// SaveRules writes rules to a YAML file.
func SaveRules(path string, rules Rules) error {
	data, err := yaml.Marshal(rules)
	if err != nil {
		return fmt.Errorf("marshaling rules: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing rules: %w", err)
	}
	return nil
}
