package commands_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bocal-dev/bocal/internal/journal"
)

func TestConvert_Releve(t *testing.T) {
	dir := t.TempDir()
	out, err := runBocal(t, dir, "convert", fixture(t, "releve.csv"), fixture(t, "plan-comptable.csv"))
	require.NoError(t, err, out)
	assert.Contains(t, out, "24 entries from 12 operations")

	f, err := os.Open(filepath.Join(dir, "Journal Bq Fevrier 2025.csv"))
	require.NoError(t, err)
	defer f.Close()

	entries, err := journal.ReadEntries(f)
	require.NoError(t, err)
	require.Len(t, entries, 24)
	assert.Equal(t, "BP", entries[0].Journal)
	assert.Equal(t, "580", entries[0].Account)
}

func TestConvert_OutDir(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	out, err := runBocal(t, dir, "convert", fixture(t, "releve.csv"), fixture(t, "plan-comptable.csv"), "-o", outDir)
	require.NoError(t, err, out)

	_, err = os.Stat(filepath.Join(outDir, "Journal Bq Fevrier 2025.csv"))
	assert.NoError(t, err)
}

func TestConvert_MissingChartUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	out, err := runBocal(t, dir, "convert", fixture(t, "releve.csv"))
	require.NoError(t, err, out)
	assert.Contains(t, out, "no accounts loaded")

	data, err := os.ReadFile(filepath.Join(dir, "Journal Bq Fevrier 2025.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "BP;03/02/2025;5121;CB;98,50;")
}

func TestConvert_NoEntries(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "interets.csv")
	require.NoError(t, os.WriteFile(input, []byte("17/03/2025;INTERETS CREDITEURS;;0.42;EUR;17/03/2025\n"), 0o644))

	out, err := runBocal(t, dir, "convert", input)
	require.Error(t, err)
	assert.Contains(t, out, "no journal entries")

	_, err = os.Stat(filepath.Join(dir, "Journal Bq Mars 2025.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestConvert_MissingInput(t *testing.T) {
	dir := t.TempDir()
	_, err := runBocal(t, dir, "convert", filepath.Join(dir, "absent.csv"))
	require.Error(t, err)
}

func TestConvert_BadEncoding(t *testing.T) {
	dir := t.TempDir()
	_, err := runBocal(t, dir, "convert", fixture(t, "releve.csv"), "--encoding", "ebcdic")
	require.Error(t, err)
}
