// Package csvline reads semicolon-separated exports one physical line at a
// time. A line with broken quoting only affects itself: it cannot pull the
// lines after it into one of its fields.
package csvline

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

// Comma is the field separator of bank and chart exports.
const Comma = ';'

// Reader yields the fields of each non-blank line.
type Reader struct {
	br   *bufio.Reader
	line int
	eof  bool
}

// NewReader creates a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReader(r)}
}

// Line returns the 1-based number of the last line read.
func (r *Reader) Line() int {
	return r.line
}

// Read returns the fields of the next non-blank line, or io.EOF. Fields are
// not trimmed or unquoted beyond what Split does.
func (r *Reader) Read() ([]string, error) {
	for {
		if r.eof {
			return nil, io.EOF
		}
		text, err := r.br.ReadString('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return nil, err
			}
			r.eof = true
			if text == "" {
				return nil, io.EOF
			}
		}
		r.line++
		text = strings.TrimRight(text, "\r\n")
		if strings.TrimSpace(text) == "" {
			continue
		}
		return Split(text), nil
	}
}

// Split parses a single line. Double-quoted fields follow CSV rules, so a
// quoted separator stays inside its field. A line whose quoting does not
// parse is split on every separator instead.
func Split(line string) []string {
	cr := csv.NewReader(strings.NewReader(line))
	cr.Comma = Comma
	cr.FieldsPerRecord = -1
	record, err := cr.Read()
	if err != nil {
		return strings.Split(line, string(Comma))
	}
	return record
}
