package statement

import (
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource_NextAndPeek(t *testing.T) {
	s := NewSource(strings.NewReader("a;b\nc;d\ne;f\n"))

	row, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, Row{Line: 1, Fields: []string{"a", "b"}}, row)

	peeked, err := s.Peek()
	require.NoError(t, err)
	assert.Equal(t, 2, peeked.Line)

	// Peeking twice does not advance.
	again, err := s.Peek()
	require.NoError(t, err)
	assert.Equal(t, peeked, again)

	row, err = s.Next()
	require.NoError(t, err)
	assert.Equal(t, peeked, row)

	row, err = s.Next()
	require.NoError(t, err)
	assert.Equal(t, []string{"e", "f"}, row.Fields)

	_, err = s.Peek()
	assert.Equal(t, io.EOF, err)
	_, err = s.Next()
	assert.Equal(t, io.EOF, err)
}

func TestSource_QuotesAndSpaces(t *testing.T) {
	s := NewSource(strings.NewReader(`"05/02/2025"; " CARTE X0067 " ;"-45.90";'x';"";"EUR"` + "\n"))

	row, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, []string{"05/02/2025", "CARTE X0067", "-45.90", "x", "", "EUR"}, row.Fields)
}

func TestSource_VariableFieldCounts(t *testing.T) {
	s := NewSource(strings.NewReader("a\nb;c;d;e\n\nf;g\n"))

	var counts []int
	for {
		row, err := s.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		counts = append(counts, len(row.Fields))
	}
	assert.Equal(t, []int{1, 4, 2}, counts)
}

func TestSource_UnbalancedQuoteStaysOnItsLine(t *testing.T) {
	in := "05/02/2025;\"CARTE X0067 0402 AMAZON FR;-45.90;;EUR;05/02/2025\n" +
		"06/02/2025;VRST GAB 0412;;150.00;EUR;06/02/2025\n"
	s := NewSource(strings.NewReader(in))

	row, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, 1, row.Line)
	assert.Len(t, row.Fields, 6)
	assert.Equal(t, "-45.90", row.Fields[2])

	row, err = s.Next()
	require.NoError(t, err)
	assert.Equal(t, 2, row.Line)
	assert.Equal(t, "VRST GAB 0412", row.Fields[1])

	_, err = s.Next()
	assert.Equal(t, io.EOF, err)
}

func TestSource_LineNumbersCountBlankLines(t *testing.T) {
	s := NewSource(strings.NewReader("a;b\n\nc;d\n"))
	_, err := s.Next()
	require.NoError(t, err)
	row, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, 3, row.Line)
}

func TestSource_TruncatesLongFields(t *testing.T) {
	long := strings.Repeat("é", MaxFieldBytes)
	s := NewSource(strings.NewReader("01/01/2025;" + long + "\n"))

	row, err := s.Next()
	require.NoError(t, err)
	assert.LessOrEqual(t, len(row.Fields[1]), MaxFieldBytes)
	assert.True(t, strings.HasPrefix(long, row.Fields[1]))
}

func TestRow_DetailAndText(t *testing.T) {
	detail := Row{Fields: []string{"", "BT 100.00E", "", "COM 1.50E", ""}}
	assert.True(t, detail.IsDetail())
	assert.Equal(t, "BT 100.00E COM 1.50E", detail.Text())

	op := Row{Fields: []string{"05/02/2025", "VRST GAB"}}
	assert.False(t, op.IsDetail())
	assert.True(t, Row{}.IsDetail())
}

func TestParseOperation(t *testing.T) {
	row := Row{Line: 3, Fields: []string{
		"05/02/2025", "CARTE X0067 AMAZON", "-45.90", "", "EUR", "06/02/2025", "PAIEMENT CB", "REF 1",
	}}

	op, err := ParseOperation(row)
	require.NoError(t, err)
	assert.Equal(t, "05/02/2025", op.Date)
	assert.Equal(t, "CARTE X0067 AMAZON", op.Operation)
	assert.Equal(t, "-45.90", op.Debit)
	assert.Equal(t, "", op.Credit)
	assert.Equal(t, "EUR", op.Currency)
	assert.Equal(t, "06/02/2025", op.ValueDate)
	assert.Equal(t, "PAIEMENT CB", op.Label)
	assert.Equal(t, "REF 1", op.Details)
}

func TestParseOperation_MinimumFields(t *testing.T) {
	op, err := ParseOperation(Row{Fields: []string{"05/02/2025", "VRST GAB", "", "150.00", "EUR", "05/02/2025"}})
	require.NoError(t, err)
	assert.Empty(t, op.Label)
	assert.Empty(t, op.Details)

	_, err = ParseOperation(Row{Line: 7, Fields: []string{"Solde", "1234.56"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTooFewFields))
	assert.Contains(t, err.Error(), "record 7")
}

func TestDetectPeriod(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		month time.Month
		year  int
		ok    bool
	}{
		{"first date wins", "x;03/02/2025\ny;15/03/2025", time.February, 2025, true},
		{"single-digit day and month", "x;5/2/2025", time.February, 2025, true},
		{"single-digit month", "x;15/3/2024", time.March, 2024, true},
		{"invalid month skipped", "99/13/2025;05/01/2024", time.January, 2024, true},
		{"old year skipped", "01/01/1800;01/12/2023", time.December, 2023, true},
		{"none", "Date;Nature", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			month, year, ok := DetectPeriod([]byte(tt.data))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.month, month)
			assert.Equal(t, tt.year, year)
		})
	}
}

func TestReleveFixture(t *testing.T) {
	data, err := os.ReadFile("../../testdata/releve.csv")
	require.NoError(t, err)

	month, year, ok := DetectPeriod(data)
	require.True(t, ok)
	assert.Equal(t, time.February, month)
	assert.Equal(t, 2025, year)

	s := NewSource(strings.NewReader(string(data)))
	var ops, details int
	for {
		row, err := s.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		if row.IsDetail() {
			details++
			continue
		}
		if op, err := ParseOperation(row); err == nil && op.Valid() {
			ops++
		}
	}
	assert.Equal(t, 12, ops)
	assert.Equal(t, 4, details)
}
