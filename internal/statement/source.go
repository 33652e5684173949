// Package statement reads bank statement exports: semicolon-separated rows
// where an operation may be followed by a detail row that continues it.
package statement

import (
	"io"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/bocal-dev/bocal/internal/amount"
	"github.com/bocal-dev/bocal/internal/csvline"
)

// MaxFieldBytes bounds a single field. Longer fields are truncated.
const MaxFieldBytes = 4096

// Row is one physical record of the export.
type Row struct {
	Line   int      // 1-based physical line number
	Fields []string // quote-stripped and trimmed
}

// IsDetail reports whether the row continues the previous operation rather
// than starting one, which banks signal with an empty first field.
func (r Row) IsDetail() bool {
	return len(r.Fields) == 0 || r.Fields[0] == ""
}

// Text joins the row's non-empty fields with a single space.
func (r Row) Text() string {
	parts := make([]string, 0, len(r.Fields))
	for _, f := range r.Fields {
		if f != "" {
			parts = append(parts, f)
		}
	}
	return strings.Join(parts, " ")
}

// Source yields rows one at a time with a single row of lookahead.
type Source struct {
	lr     *csvline.Reader
	peeked *Row
	err    error // sticky read error returned after any peeked row
}

// NewSource creates a Source over r, which must already be UTF-8. Records
// never span lines; a line with broken quoting is split on every separator.
func NewSource(r io.Reader) *Source {
	return &Source{lr: csvline.NewReader(r)}
}

// Next returns the next row, or io.EOF when the export is exhausted. A row
// returned by Peek is returned again by the following Next.
func (s *Source) Next() (Row, error) {
	if s.peeked != nil {
		row := *s.peeked
		s.peeked = nil
		return row, nil
	}
	return s.read()
}

// Peek returns the next row without consuming it.
func (s *Source) Peek() (Row, error) {
	if s.peeked != nil {
		return *s.peeked, nil
	}
	row, err := s.read()
	if err != nil {
		return Row{}, err
	}
	s.peeked = &row
	return row, nil
}

func (s *Source) read() (Row, error) {
	if s.err != nil {
		return Row{}, s.err
	}
	record, err := s.lr.Read()
	if err == io.EOF {
		s.err = io.EOF
		return Row{}, io.EOF
	}
	if err != nil {
		s.err = errors.Wrapf(err, "reading statement after line %d", s.lr.Line())
		return Row{}, s.err
	}

	fields := make([]string, len(record))
	for i, f := range record {
		fields[i] = truncate(amount.Clean(f), MaxFieldBytes)
	}
	return Row{Line: s.lr.Line(), Fields: fields}, nil
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
