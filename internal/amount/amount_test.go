package amount

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePositive(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"-12.50", "12,50"},
		{"", "0"},
		{"   ", "0"},
		{"-", "0"},
		{"45.90", "45,90"},
		{`"-45.90"`, "45,90"},
		{"'-1 234.56'", "1234,56"},
		{" - 7.10 ", "7,10"},
		{"12,00", "12,00"},
		{"1.234,56", "1.234,56"},
		{"1.2.3", "1.2.3"},
		{`-"5.5"`, "5,5"},
		{`"'  -3.00 '"`, "3,00"},
		{"--8.00", "8,00"},
		{"100", "100"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePositive(tt.input), "NormalizePositive(%q)", tt.input)
	}
}

func TestNormalizePositive_Idempotent(t *testing.T) {
	inputs := []string{
		"", "0", "-12.50", `"-45.90"`, "'1 000.00'", `-"5"`, `"-5"`, `'"-'1.5'"'`,
		"--", "- -", "1.2.3", "1.234,56", "abc", `"`, `'`, `""`, `"a"b"`, "  -0.01  ",
		"12.", ".5", "-.", "+3.10", "\t-9.99\n",
	}
	for _, in := range inputs {
		once := NormalizePositive(in)
		assert.Equal(t, once, NormalizePositive(once), "not idempotent for %q", in)

		f := Format(in)
		assert.Equal(t, f, Format(f), "Format not idempotent for %q", in)
	}
}

func TestFormat_PreservesSign(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"-12.50", "-12,50"},
		{"98.50", "98,50"},
		{`"1500.00"`, "1500,00"},
		{"", "0"},
		{" 2 500.10 ", "2500,10"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.input), "Format(%q)", tt.input)
	}
}

func TestClean(t *testing.T) {
	assert.Equal(t, "abc", Clean(`  "abc"  `))
	assert.Equal(t, "abc", Clean(`'abc'`))
	assert.Equal(t, "a b", Clean(`" 'a b' "`))
	assert.Equal(t, `"abc'`, Clean(`"abc'`))
	assert.Equal(t, "", Clean(`""`))
	assert.Equal(t, `"`, Clean(`"`))
}

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"45,90", "45.9"},
		{"-12.50", "-12.5"},
		{"1.234,56", "1234.56"},
		{"1,234.56", "1234.56"},
		{"1,234,567", "1234567"},
		{" 2 500,10 ", "2500.1"},
		{`"98,50"`, "98.5"},
		{"", "0"},
	}
	for _, tt := range tests {
		got, err := Parse(tt.input)
		require.NoError(t, err, "Parse(%q)", tt.input)
		want, _ := decimal.NewFromString(tt.want)
		assert.True(t, want.Equal(got), "Parse(%q) = %s, want %s", tt.input, got, tt.want)
	}

	_, err := Parse("ABC")
	assert.Error(t, err)
}

func TestParse_RoundTripsDisplayForm(t *testing.T) {
	for _, raw := range []string{"-45.90", "12.00", "0.10", "3500"} {
		d, err := Parse(NormalizePositive(raw))
		require.NoError(t, err)
		want, _ := decimal.NewFromString(raw)
		assert.True(t, want.Abs().Equal(d), "raw %q", raw)
	}
}

func TestFromDecimal(t *testing.T) {
	assert.Equal(t, "100,00", FromDecimal(decimal.NewFromInt(100)))
	assert.Equal(t, "1,50", FromDecimal(decimal.RequireFromString("1.5")))
	assert.Equal(t, "0,30", FromDecimal(decimal.RequireFromString("0.1").Add(decimal.RequireFromString("0.2"))))
}
