// Package importer manages the workspace directories a batch import reads
// from and writes to.
package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Workspace directories, relative to the workspace root.
const (
	ImportDir    = "import"
	ProcessedDir = "import/processed"
	JournalsDir  = "journals"
	LogsDir      = "logs"
)

// FileInfo describes a CSV file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// Workspace gives access to a bocal workspace on fs.
type Workspace struct {
	fs   afero.Fs
	root string
}

// NewWorkspace creates a Workspace rooted at root.
func NewWorkspace(fs afero.Fs, root string) *Workspace {
	return &Workspace{fs: fs, root: root}
}

// Root returns the workspace root.
func (w *Workspace) Root() string {
	return w.root
}

// Fs returns the filesystem the workspace lives on.
func (w *Workspace) Fs() afero.Fs {
	return w.fs
}

// Path joins elem onto the workspace root.
func (w *Workspace) Path(elem ...string) string {
	return filepath.Join(append([]string{w.root}, elem...)...)
}

// Scan returns CSV files in <root>/import/, sorted by name.
func (w *Workspace) Scan() ([]FileInfo, error) {
	dir := w.Path(ImportDir)
	entries, err := afero.ReadDir(w.fs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: e.Size(),
		})
	}
	return files, nil
}

// ReadFile returns the contents of path.
func (w *Workspace) ReadFile(path string) ([]byte, error) {
	data, err := afero.ReadFile(w.fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// OpenJournal opens <root>/journals/<name> for appending, creating it if
// needed. isNew reports that the file was empty, so it still needs a header.
func (w *Workspace) OpenJournal(name string) (f afero.File, isNew bool, err error) {
	if err := w.fs.MkdirAll(w.Path(JournalsDir), 0o755); err != nil {
		return nil, false, fmt.Errorf("creating journals dir: %w", err)
	}
	path := w.Path(JournalsDir, name)
	f, err = w.fs.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, false, fmt.Errorf("opening journal %s: %w", name, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, false, fmt.Errorf("opening journal %s: %w", name, err)
	}
	return f, info.Size() == 0, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func (w *Workspace) MarkProcessed(fileName string) error {
	src := w.Path(ImportDir, fileName)
	dstDir := w.Path(ProcessedDir)

	if err := w.fs.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := w.fs.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
