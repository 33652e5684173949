package model

// Account represents a row in the chart of accounts.
type Account struct {
	Code string // e.g. "5121", "401AMAZON"
	Name string
}
