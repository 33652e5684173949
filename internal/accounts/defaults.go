package accounts

import "github.com/bocal-dev/bocal/internal/model"

// DefaultChart returns the starter chart of accounts written by `bocal init`.
// It covers the accounts the built-in classification rules refer to.
func DefaultChart() []model.Account {
	return []model.Account{
		{Code: "421", Name: "Personnel - Remunerations dues"},
		{Code: "431", Name: "Securite sociale URSSAF"},
		{Code: "4375", Name: "Prevoyance CEP"},
		{Code: "44567", Name: "Credit de TVA a reporter"},
		{Code: "401DIVERS", Name: "Fournisseurs divers"},
		{Code: "401AMAZON", Name: "AMAZON"},
		{Code: "401FACEBOOK", Name: "FACEBOOK"},
		{Code: "401LEROYMERLIN", Name: "LEROY MERLIN"},
		{Code: "401ORANGE", Name: "ORANGE"},
		{Code: "401IONOS", Name: "IONOS"},
		{Code: "5121", Name: "Banque"},
		{Code: "580", Name: "Virements internes"},
		{Code: "6161", Name: "Assurance multirisque AXA"},
		{Code: "6257", Name: "Receptions RESTAURANT"},
		{Code: "627", Name: "Services bancaires"},
		{Code: "644101", Name: "Cotisations allocations familiales"},
	}
}
