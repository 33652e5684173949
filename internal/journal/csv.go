package journal

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/bocal-dev/bocal/internal/amount"
	"github.com/bocal-dev/bocal/internal/model"
)

// Header is the first row of a bank journal file.
var Header = []string{"Journal", "Jour", "cpte", "Libelle", "Debit", "Credit"}

const (
	numFields  = 6
	colJournal = 0
	colDate    = 1
	colAccount = 2
	colLabel   = 3
	colDebit   = 4
	colCredit  = 5
)

// Writer writes journal entries as semicolon-separated rows.
type Writer struct {
	cw   *csv.Writer
	rows int
}

// NewWriter creates a Writer on w.
func NewWriter(w io.Writer) *Writer {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	return &Writer{cw: cw}
}

// WriteHeader writes the column header row.
func (w *Writer) WriteHeader() error {
	if err := w.cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	return nil
}

// Write writes entries in order.
func (w *Writer) Write(entries ...model.JournalEntry) error {
	for _, e := range entries {
		if err := w.cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", w.rows+1, err)
		}
		w.rows++
	}
	return nil
}

// Rows returns the number of entries written so far.
func (w *Writer) Rows() int {
	return w.rows
}

// Flush flushes buffered rows to the underlying writer.
func (w *Writer) Flush() error {
	w.cw.Flush()
	if err := w.cw.Error(); err != nil {
		return fmt.Errorf("flushing journal: %w", err)
	}
	return nil
}

// ReadEntries reads a journal file written by Writer, header included.
func ReadEntries(r io.Reader) ([]model.JournalEntry, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading journal: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	entries := make([]model.JournalEntry, 0, len(records)-1)
	for _, rec := range records[1:] {
		entries = append(entries, UnmarshalEntry(rec))
	}
	return entries, nil
}

// MarshalEntry converts an entry to a row.
func MarshalEntry(e model.JournalEntry) []string {
	row := make([]string, numFields)
	row[colJournal] = e.Journal
	row[colDate] = e.Date
	row[colAccount] = e.Account
	row[colLabel] = e.Label
	row[colDebit] = e.Debit
	row[colCredit] = e.Credit
	return row
}

// UnmarshalEntry converts a row to an entry. The record must have numFields
// fields.
func UnmarshalEntry(record []string) model.JournalEntry {
	return model.JournalEntry{
		Journal: amount.Clean(record[colJournal]),
		Date:    amount.Clean(record[colDate]),
		Account: amount.Clean(record[colAccount]),
		Label:   record[colLabel],
		Debit:   amount.Clean(record[colDebit]),
		Credit:  amount.Clean(record[colCredit]),
	}
}
