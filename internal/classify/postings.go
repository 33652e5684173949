package classify

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bocal-dev/bocal/internal/accounts"
	"github.com/bocal-dev/bocal/internal/amount"
	"github.com/bocal-dev/bocal/internal/model"
)

// minSearchWord is the length a narrative word must exceed to be tried as a
// resolver keyword.
const minSearchWord = 3

// posting accumulates the legs of one operation.
type posting struct {
	journal string
	date    string
	entries []model.JournalEntry
	notes   []string
}

func (p *posting) debit(account, label, amt string) {
	p.entries = append(p.entries, model.JournalEntry{
		Journal: p.journal,
		Date:    p.date,
		Account: account,
		Label:   label,
		Debit:   amt,
	})
}

func (p *posting) credit(account, label, amt string) {
	p.entries = append(p.entries, model.JournalEntry{
		Journal: p.journal,
		Date:    p.date,
		Account: account,
		Label:   label,
		Credit:  amt,
	})
}

func (p *posting) note(format string, args ...any) {
	p.notes = append(p.notes, fmt.Sprintf(format, args...))
}

// cardSettlement posts a card-takings remittance: the clearing account is
// credited the gross, fees are debited the commission and the bank is debited
// the net amount actually received.
func (c *Classifier) cardSettlement(op model.BankOperation, p *posting) {
	label := c.rules.Labels.Settlement
	gross, commission := c.settlementAmounts(op, p)
	net := gross.Sub(commission)

	p.credit(c.clearing, label, amount.FromDecimal(gross))
	p.debit(c.fees, label, amount.FromDecimal(commission))
	p.debit(c.bank, label, amount.FromDecimal(net))
}

// settlementAmounts reads gross and commission from the remittance detail
// line ("BT 100,00E COM 1,50E") and reconciles them with the credited net so
// the three legs balance. The credited amount is authoritative.
func (c *Classifier) settlementAmounts(op model.BankOperation, p *posting) (gross, commission decimal.Decimal) {
	net, err := amount.Parse(amount.NormalizePositive(op.Credit))
	if err != nil {
		p.note("unreadable credited amount %q, using 0", op.Credit)
		net = decimal.Zero
	}

	text := op.Details
	g, gok := extractGross(text)
	com, cok := extractCommission(text)

	switch {
	case gok && cok:
		if !g.Equal(net.Add(com)) {
			p.note("gross %s does not equal net %s plus commission %s, using %s",
				amount.FromDecimal(g), amount.FromDecimal(net), amount.FromDecimal(com),
				amount.FromDecimal(net.Add(com)))
		}
		return net.Add(com), com
	case gok:
		com = g.Sub(net)
		if com.IsNegative() {
			p.note("gross %s below credited %s, commission set to 0",
				amount.FromDecimal(g), amount.FromDecimal(net))
			return net, decimal.Zero
		}
		p.note("commission not found, derived %s from gross", amount.FromDecimal(com))
		return g, com
	case cok:
		p.note("gross not found, derived from credited amount plus commission")
		return net.Add(com), com
	default:
		p.note("settlement detail not found, gross set to credited amount")
		return net, decimal.Zero
	}
}

// extractGross returns the amount between "BT " and the following "E COM".
func extractGross(text string) (decimal.Decimal, bool) {
	start := indexFold(text, "BT ")
	if start < 0 {
		return decimal.Zero, false
	}
	rest := text[start+len("BT "):]
	end := indexFold(rest, "E COM")
	if end < 0 {
		return decimal.Zero, false
	}
	return parseExtracted(rest[:end])
}

// extractCommission returns the amount between "COM " and the next "E".
func extractCommission(text string) (decimal.Decimal, bool) {
	start := indexFold(text, "COM ")
	if start < 0 {
		return decimal.Zero, false
	}
	rest := text[start+len("COM "):]
	end := indexFold(rest, "E")
	if end <= 0 {
		return decimal.Zero, false
	}
	return parseExtracted(rest[:end])
}

func parseExtracted(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := amount.Parse(amount.NormalizePositive(s))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// cardPayment posts a card purchase against the merchant's supplier account.
func (c *Classifier) cardPayment(op model.BankOperation, p *posting) {
	label := c.rules.Labels.Card
	if i := indexFold(op.Operation, c.rules.CardMarker); i >= 0 {
		if rest := strings.TrimSpace(op.Operation[i+len(c.rules.CardMarker):]); rest != "" {
			label = rest
		}
	}

	account, label, matched, resolved := c.lookup(c.rules.CardMerchants, label, label)
	switch {
	case matched && !resolved:
		p.note("merchant account not in chart, synthesized %s", account)
	case !matched:
		if code, ok := c.searchWords(label); ok {
			account = code
		} else {
			account = accounts.SynthesizeAccount(label)
			p.note("no account for %q, synthesized %s", label, account)
		}
	}

	amt := amount.NormalizePositive(op.Debit)
	p.debit(account, label, amt)
	p.credit(c.bank, label, amt)
}

// searchWords resolves each word of label longer than minSearchWord bytes in
// order and returns the first hit.
func (c *Classifier) searchWords(label string) (string, bool) {
	for _, word := range strings.Fields(label) {
		if len(word) <= minSearchWord {
			continue
		}
		if code, ok := c.resolve(word); ok {
			return code, true
		}
	}
	return "", false
}

func (c *Classifier) cashDeposit(op model.BankOperation, p *posting) {
	label := c.rules.Labels.CashDeposit
	amt := amount.Format(op.Credit)
	p.credit(c.clearing, label, amt)
	p.debit(c.bank, label, amt)
}

func (c *Classifier) incomingTransfer(op model.BankOperation, p *posting) {
	account, label, matched, resolved := c.lookup(c.rules.Transfers, op.Details, c.rules.Labels.Transfer)
	switch {
	case matched && !resolved:
		p.note("transfer account not in chart, synthesized %s", account)
	case !matched:
		account = c.resolveOr(c.defaults.VATRefund, c.defaults.VATRefund)
	}

	amt := amount.Format(op.Credit)
	p.credit(account, label, amt)
	p.debit(c.bank, label, amt)
}

func (c *Classifier) directDebit(op model.BankOperation, p *posting) {
	c.outgoing(c.rules.DirectDebits, c.rules.Labels.DirectDebit, op, p)
}

func (c *Classifier) outgoingWire(op model.BankOperation, p *posting) {
	c.outgoing(c.rules.Wires, c.rules.Labels.Wire, op, p)
}

// outgoing posts a payment leaving the bank, debiting the payee's account.
func (c *Classifier) outgoing(table []Match, defaultLabel string, op model.BankOperation, p *posting) {
	account, label, matched, resolved := c.lookup(table, op.Details, defaultLabel)
	switch {
	case matched && !resolved:
		p.note("payee account not in chart, synthesized %s", account)
	case !matched && c.defaults.Supplier != "":
		account = c.resolveOr(c.defaults.Supplier, c.defaults.Supplier)
	case !matched:
		account = accounts.SynthesizeAccount(label)
		p.note("no payee matched, synthesized %s", account)
	}

	amt := amount.NormalizePositive(op.Debit)
	p.debit(account, label, amt)
	p.credit(c.bank, label, amt)
}

// feePosting builds the posting for a fixed bank fee. The account is the
// rule's keyword resolved, else its fallback, else the fee account.
func feePosting(fee FeeRule) postFunc {
	return func(c *Classifier, op model.BankOperation, p *posting) {
		account := c.fees
		if fee.Keyword != "" {
			if code, ok := c.resolve(fee.Keyword); ok {
				account = code
			} else if fee.Fallback != "" {
				account = fee.Fallback
			}
		}

		amt := amount.NormalizePositive(op.Debit)
		p.debit(account, fee.Label, amt)
		p.credit(c.bank, fee.Label, amt)
	}
}

// isSettlementDetail matches the "BT ... COM ..." line that follows a card
// remittance.
func isSettlementDetail(fields []string) bool {
	for _, f := range fields {
		if containsFold(f, "BT ") {
			return true
		}
	}
	return false
}

// isDetailRow matches a row whose first field is empty.
func isDetailRow(fields []string) bool {
	return len(fields) > 0 && strings.TrimSpace(fields[0]) == "" && strings.TrimSpace(strings.Join(fields, "")) != ""
}

// indexFold is an ASCII case-insensitive strings.Index. Byte offsets into s
// stay valid since only ASCII letters are folded.
func indexFold(s, substr string) int {
	return strings.Index(upperASCII(s), upperASCII(substr))
}

func upperASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'a' <= c && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}

func containsFold(s, substr string) bool {
	return substr != "" && indexFold(s, substr) >= 0
}

func containsAllFold(s string, substrs []string) bool {
	if len(substrs) == 0 {
		return false
	}
	for _, sub := range substrs {
		if !containsFold(s, sub) {
			return false
		}
	}
	return true
}
