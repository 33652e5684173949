// Package classify turns bank operations into balanced bank-journal postings.
//
// An operation's narrative is matched against an ordered rule table; the
// first matching rule decides the category and its posting template. Account
// codes are resolved through the chart of accounts, falling back to literal
// defaults or to a code synthesized from the label.
package classify

import (
	"github.com/bocal-dev/bocal/internal/accounts"
	"github.com/bocal-dev/bocal/internal/model"
)

// Categories.
const (
	CategoryCardSettlement      = "card-settlement"
	CategoryCardPayment         = "card-payment"
	CategoryCashDeposit         = "cash-deposit"
	CategoryIncomingTransfer    = "incoming-transfer"
	CategoryDirectDebit         = "direct-debit"
	CategoryOutgoingWire        = "outgoing-wire"
	CategoryMonthlyFee          = "monthly-fee"
	CategoryStatementCommission = "statement-commission"
	CategoryLCRStatement        = "lcr-statement"
)

// Narrative markers for the fixed categories.
const (
	markerCardSettlement = "REMISE CB"
	markerCashDeposit    = "VRST GAB"
	markerTransfer       = "VIR RECU"
	markerDirectDebit    = "PRELEVEMENT EUROPEEN"
	markerWire           = "VIR EUROPEEN EMIS"
)

// Resolver maps a keyword to an account code.
type Resolver interface {
	Resolve(keyword string) (string, bool)
}

// Defaults are the literal account codes used when the chart of accounts has
// no better match. Each is passed through the Resolver first.
type Defaults struct {
	Journal   string // journal code written on every entry
	Bank      string
	Clearing  string
	Fees      string
	VATRefund string
	// Supplier, when set, receives direct debits and outgoing wires that no
	// table entry matches. When empty those are posted to an account
	// synthesized from the default label.
	Supplier string
}

// DefaultDefaults returns the standard French chart codes.
func DefaultDefaults() Defaults {
	return Defaults{
		Journal:   "BP",
		Bank:      "5121",
		Clearing:  "580",
		Fees:      "627",
		VATRefund: "44567",
	}
}

// Result is the outcome of classifying one operation.
type Result struct {
	Category string               // empty when no rule matched
	Entries  []model.JournalEntry // 0-3 legs, balanced when more than one
	Notes    []string             // fallbacks taken while posting
}

// Matched reports whether a rule claimed the operation.
func (r Result) Matched() bool {
	return r.Category != ""
}

// ContinuationFunc reports whether the fields of the row following an
// operation carry that operation's secondary narrative.
type ContinuationFunc func(fields []string) bool

type postFunc func(c *Classifier, op model.BankOperation, p *posting)

type rule struct {
	category     string
	markers      []string
	continuation ContinuationFunc
	post         postFunc
}

func (r rule) matches(narrative string) bool {
	for _, m := range r.markers {
		if containsFold(narrative, m) {
			return true
		}
	}
	return false
}

// Classifier classifies bank operations. It holds no mutable state and is
// safe to share once built.
type Classifier struct {
	resolver Resolver
	defaults Defaults
	rules    Rules
	table    []rule

	bank     string
	clearing string
	fees     string
}

// New creates a Classifier. The rule table is evaluated in a fixed priority
// order: card settlement, card payment, cash deposit, incoming transfer,
// direct debit, outgoing wire, then the fee rules in their listed order.
func New(resolver Resolver, defaults Defaults, rules Rules) *Classifier {
	c := &Classifier{
		resolver: resolver,
		defaults: defaults,
		rules:    rules,
	}
	c.bank = c.resolveOr(defaults.Bank, defaults.Bank)
	c.clearing = c.resolveOr(defaults.Clearing, defaults.Clearing)
	c.fees = c.resolveOr(defaults.Fees, defaults.Fees)

	c.table = []rule{
		{CategoryCardSettlement, []string{markerCardSettlement}, isSettlementDetail, (*Classifier).cardSettlement},
		{CategoryCardPayment, []string{rules.CardMarker}, nil, (*Classifier).cardPayment},
		{CategoryCashDeposit, []string{markerCashDeposit}, nil, (*Classifier).cashDeposit},
		{CategoryIncomingTransfer, []string{markerTransfer}, isDetailRow, (*Classifier).incomingTransfer},
		{CategoryDirectDebit, []string{markerDirectDebit}, isDetailRow, (*Classifier).directDebit},
		{CategoryOutgoingWire, []string{markerWire}, isDetailRow, (*Classifier).outgoingWire},
	}
	for _, fee := range rules.Fees {
		c.table = append(c.table, rule{
			category: fee.Category,
			markers:  fee.Markers,
			post:     feePosting(fee),
		})
	}
	return c
}

// Classify dispatches op to the first rule whose marker appears in the
// narrative and returns the resulting journal legs. Operations failing
// BankOperation.Valid or matching no rule yield an empty Result.
func (c *Classifier) Classify(op model.BankOperation) Result {
	if !op.Valid() {
		return Result{}
	}
	r, ok := c.match(op.Operation)
	if !ok {
		return Result{}
	}
	p := &posting{journal: c.defaults.Journal, date: op.Date}
	r.post(c, op, p)
	return Result{Category: r.category, Entries: p.entries, Notes: p.notes}
}

// Continuation returns the continuation pattern of the rule op dispatches to,
// if that rule reads a secondary narrative from the following row.
func (c *Classifier) Continuation(op model.BankOperation) (ContinuationFunc, bool) {
	r, ok := c.match(op.Operation)
	if !ok || r.continuation == nil {
		return nil, false
	}
	return r.continuation, true
}

// Categories lists the rule categories in priority order.
func (c *Classifier) Categories() []string {
	out := make([]string, len(c.table))
	for i, r := range c.table {
		out[i] = r.category
	}
	return out
}

func (c *Classifier) match(narrative string) (rule, bool) {
	for _, r := range c.table {
		if r.matches(narrative) {
			return r, true
		}
	}
	return rule{}, false
}

func (c *Classifier) resolve(keyword string) (string, bool) {
	if c.resolver == nil {
		return "", false
	}
	return c.resolver.Resolve(keyword)
}

func (c *Classifier) resolveOr(keyword, fallback string) string {
	if code, ok := c.resolve(keyword); ok {
		return code
	}
	return fallback
}

// lookup applies the first table entry whose substrings all occur in text.
// matched is false when no entry applies. When the entry's keyword does not
// resolve, the account is synthesized from the (possibly replaced) label.
func (c *Classifier) lookup(table []Match, text, label string) (account, newLabel string, matched, resolved bool) {
	for _, m := range table {
		if !containsAllFold(text, m.Contains) {
			continue
		}
		if m.Label != "" {
			label = m.Label
		}
		if code, ok := c.resolve(m.Keyword); ok {
			return code, label, true, true
		}
		return accounts.SynthesizeAccount(label), label, true, false
	}
	return "", label, false, false
}
