package journal

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bocal-dev/bocal/internal/model"
)

func entry(account, debit, credit string) model.JournalEntry {
	return model.JournalEntry{
		Journal: "BP",
		Date:    "05/02/2025",
		Account: account,
		Label:   "CARTE BANCAIRE",
		Debit:   debit,
		Credit:  credit,
	}
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Write(entry("4011AMAZON", "45,90", ""), entry("5121", "", "45,90")))
	require.NoError(t, w.Flush())

	want := "Journal;Jour;cpte;Libelle;Debit;Credit\n" +
		"BP;05/02/2025;4011AMAZON;CARTE BANCAIRE;45,90;\n" +
		"BP;05/02/2025;5121;CARTE BANCAIRE;;45,90\n"
	assert.Equal(t, want, buf.String())
	assert.Equal(t, 2, w.Rows())
}

func TestWriter_QuotesSeparatorInLabel(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	e := entry("401SCIJC", "900,00", "")
	e.Label = "Loyer; fevrier"
	require.NoError(t, w.Write(e))
	require.NoError(t, w.Flush())

	assert.Equal(t, "BP;05/02/2025;401SCIJC;\"Loyer; fevrier\";900,00;\n", buf.String())

	got, err := ReadEntries(strings.NewReader(strings.Join(Header, ";") + "\n" + buf.String()))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, e, got[0])
}

func TestReadEntries(t *testing.T) {
	in := "Journal;Jour;cpte;Libelle;Debit;Credit\n" +
		"BP;03/02/2025;580;CB;;100,00\n" +
		"BP;03/02/2025;627;CB;1,50;\n" +
		"BP;03/02/2025;5121;CB;98,50;\n"

	entries, err := ReadEntries(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "580", entries[0].Account)
	assert.Equal(t, "100,00", entries[0].Credit)
	assert.False(t, entries[0].IsDebit())
	assert.True(t, entries[2].IsDebit())
	assert.Empty(t, ValidatePosting(entries))
}

func TestReadEntries_Empty(t *testing.T) {
	entries, err := ReadEntries(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestReadEntries_WrongFieldCount(t *testing.T) {
	_, err := ReadEntries(strings.NewReader("Journal;Jour;cpte;Libelle;Debit;Credit\nBP;05/02/2025;5121\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading journal")
}
