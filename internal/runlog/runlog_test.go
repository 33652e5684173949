package runlog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const root = "/books"

var testTime = time.Date(2025, 3, 2, 9, 15, 0, 0, time.UTC)

func testEntry() Entry {
	return Entry{
		Timestamp:    testTime,
		RunID:        "0b9a3c2e-5d7f-4f7e-9a51-3f4c1a2b7d10",
		Input:        "import/releve-fevrier.csv",
		Output:       "journals/Journal Bq Fevrier 2025.csv",
		Operations:   12,
		Entries:      24,
		Skipped:      3,
		Unclassified: 1,
	}
}

func TestAppend_NewFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	err := Append(fs, root, []Entry{testEntry()})
	require.NoError(t, err)

	entries, err := Read(fs, root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 24, entries[0].Entries)
}

func TestAppend_ExistingFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, Append(fs, root, []Entry{testEntry()}))

	e2 := testEntry()
	e2.Input = "import/releve-mars.csv"
	e2.Rejected = 2
	require.NoError(t, Append(fs, root, []Entry{e2}))

	entries, err := Read(fs, root)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "import/releve-fevrier.csv", entries[0].Input)
	assert.Equal(t, "import/releve-mars.csv", entries[1].Input)
	assert.Equal(t, 2, entries[1].Rejected)

	data, err := afero.ReadFile(fs, filepath.Join(root, File))
	require.NoError(t, err)
	assert.Equal(t, 1, countLines(string(data), Header))
}

func countLines(s, line string) int {
	n := 0
	for _, l := range splitLines(s) {
		if l == line {
			n++
		}
	}
	return n
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	return lines
}

func TestRead_RoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	original := testEntry()
	require.NoError(t, Append(fs, root, []Entry{original}))

	entries, err := Read(fs, root)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got := entries[0]
	assert.True(t, original.Timestamp.Equal(got.Timestamp))
	got.Timestamp = original.Timestamp
	assert.Equal(t, original, got)
}

func TestRead_NotFound(t *testing.T) {
	entries, err := Read(afero.NewMemMapFs(), root)
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestRead_EmptyFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, filepath.Join(root, File), []byte(Header+"\n"), 0o644))

	entries, err := Read(fs, root)
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestUnmarshalEntry_BadFieldCount(t *testing.T) {
	_, err := UnmarshalEntry([]string{"one", "two"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "expected 9 fields")
}

func TestUnmarshalEntry_BadValues(t *testing.T) {
	row := MarshalEntry(testEntry())
	row[colRunID] = "not-a-uuid"
	_, err := UnmarshalEntry(row)
	assert.ErrorContains(t, err, "parsing run_id")

	row = MarshalEntry(testEntry())
	row[colEntries] = "many"
	_, err = UnmarshalEntry(row)
	assert.ErrorContains(t, err, "parsing count")
}

func TestTimestampFormat(t *testing.T) {
	row := MarshalEntry(testEntry())
	assert.Equal(t, "2025-03-02T09:15:00Z", row[colTimestamp])
	assert.Equal(t, "12", row[colOperations])
}

func TestNewRunID(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	assert.NotEqual(t, a, b)
	_, err := uuid.Parse(a)
	assert.NoError(t, err)
}

func TestAppend_CreatesDir(t *testing.T) {
	fs := afero.NewMemMapFs()
	err := Append(fs, root, []Entry{testEntry()})
	require.NoError(t, err)

	info, err := fs.Stat(filepath.Join(root, "logs"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

// failingCloseFs hands out files whose Close reports an error, as a full disk
// would on flush.
type failingCloseFs struct {
	afero.Fs
}

type failingCloseFile struct {
	afero.File
}

func (f failingCloseFile) Close() error {
	_ = f.File.Close()
	return errors.New("no space left on device")
}

func (fs failingCloseFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	f, err := fs.Fs.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return failingCloseFile{f}, nil
}

func TestAppend_ReportsCloseError(t *testing.T) {
	fs := failingCloseFs{afero.NewMemMapFs()}

	err := Append(fs, root, []Entry{testEntry()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closing run log: no space left on device")
}
