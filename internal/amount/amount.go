// Package amount canonicalizes bank amount strings into the journal's display
// form (decimal comma) and parses them back into exact decimals.
package amount

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Zero is the display form of an empty or missing amount.
const Zero = "0"

// NormalizePositive strips quotes and whitespace, drops the leading minus sign
// and converts the decimal point to a comma. Empty input yields "0".
//
// NormalizePositive(NormalizePositive(x)) == NormalizePositive(x) for every x.
func NormalizePositive(raw string) string {
	return normalize(raw, true)
}

// Format is NormalizePositive without touching the sign.
func Format(raw string) string {
	return normalize(raw, false)
}

func normalize(raw string, dropSign bool) string {
	s := raw
	// Quote stripping and sign dropping can expose each other
	// (`-"5"`, `"-5"`), so iterate to a fixed point.
	for {
		prev := s
		s = Clean(s)
		s = strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, s)
		if dropSign {
			s = strings.TrimLeft(s, "-")
		}
		if s == prev {
			break
		}
	}

	if strings.Count(s, ".") == 1 && !strings.Contains(s, ",") {
		s = strings.Replace(s, ".", ",", 1)
	}
	if s == "" {
		return Zero
	}
	return s
}

// Clean trims whitespace and removes one or more layers of matching single or
// double quotes around s.
func Clean(s string) string {
	s = strings.TrimSpace(s)
	for len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first != '"' || last != '"') && (first != '\'' || last != '\'') {
			break
		}
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

// Parse reads an amount written with either a decimal comma or a decimal point.
// When both separators appear the last one is the decimal separator; a comma
// repeated more than once is a thousands separator. Empty input parses as zero.
func Parse(s string) (decimal.Decimal, error) {
	s = Clean(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if s == "" {
		return decimal.Zero, nil
	}

	comma, dot := strings.LastIndex(s, ","), strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && dot >= 0 && comma > dot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case comma >= 0 && dot >= 0:
		s = strings.ReplaceAll(s, ",", "")
	case strings.Count(s, ",") == 1:
		s = strings.Replace(s, ",", ".", 1)
	case comma >= 0:
		s = strings.ReplaceAll(s, ",", "")
	}
	return decimal.NewFromString(s)
}

// FromDecimal renders d with two decimals and a decimal comma.
func FromDecimal(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1)
}
