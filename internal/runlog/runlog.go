// Package runlog keeps the append-only record of conversion runs in
// logs/run-log.csv.
package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// Entry is one row in the run log: one input file converted.
type Entry struct {
	Timestamp    time.Time
	RunID        string
	Input        string
	Output       string
	Operations   int
	Entries      int
	Skipped      int
	Unclassified int
	Rejected     int
}

// Header is the CSV header for run-log.csv.
const Header = "timestamp,run_id,input,output,operations,entries,skipped,unclassified,rejected"

// File is the run log path relative to the workspace root.
const File = "logs/run-log.csv"

const (
	numFields       = 9
	colTimestamp    = 0
	colRunID        = 1
	colInput        = 2
	colOutput       = 3
	colOperations   = 4
	colEntries      = 5
	colSkipped      = 6
	colUnclassified = 7
	colRejected     = 8
)

// NewRunID returns an identifier shared by every entry of one run.
func NewRunID() string {
	return uuid.NewString()
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colInput] = e.Input
	row[colOutput] = e.Output
	row[colOperations] = strconv.Itoa(e.Operations)
	row[colEntries] = strconv.Itoa(e.Entries)
	row[colSkipped] = strconv.Itoa(e.Skipped)
	row[colUnclassified] = strconv.Itoa(e.Unclassified)
	row[colRejected] = strconv.Itoa(e.Rejected)
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	if _, err := uuid.Parse(record[colRunID]); err != nil {
		return Entry{}, fmt.Errorf("parsing run_id %q: %w", record[colRunID], err)
	}

	e := Entry{
		Timestamp: ts,
		RunID:     record[colRunID],
		Input:     record[colInput],
		Output:    record[colOutput],
	}
	counts := []struct {
		col int
		dst *int
	}{
		{colOperations, &e.Operations},
		{colEntries, &e.Entries},
		{colSkipped, &e.Skipped},
		{colUnclassified, &e.Unclassified},
		{colRejected, &e.Rejected},
	}
	for _, c := range counts {
		n, err := strconv.Atoi(record[c.col])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing count %q: %w", record[c.col], err)
		}
		*c.dst = n
	}
	return e, nil
}

// Append writes entries to <root>/logs/run-log.csv, creating the file and
// header if needed.
func Append(fs afero.Fs, root string, entries []Entry) error {
	dir := filepath.Join(root, filepath.Dir(File))
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(root, File)
	needsHeader := false
	if _, err := fs.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := fs.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	err = writeEntries(f, entries, needsHeader)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("closing run log: %w", cerr)
	}
	return err
}

func writeEntries(w io.Writer, entries []Entry, header bool) error {
	cw := csv.NewWriter(w)
	if header {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <root>/logs/run-log.csv.
// Returns an empty slice if the file does not exist.
func Read(fs afero.Fs, root string) ([]Entry, error) {
	f, err := fs.Open(filepath.Join(root, File))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
