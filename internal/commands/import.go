package commands

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/bocal-dev/bocal/internal/config"
	"github.com/bocal-dev/bocal/internal/convert"
	"github.com/bocal-dev/bocal/internal/gitops"
	"github.com/bocal-dev/bocal/internal/importer"
	"github.com/bocal-dev/bocal/internal/runlog"
)

func newImportCommand(g *globals) *cobra.Command {
	var repoDir string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Convert every statement in the workspace import/ directory",
		Long: `Import converts each CSV in <repo>/import/ into <repo>/journals/,
moves the statement to import/processed/, appends a line per statement to
logs/run-log.csv and commits the workspace when git.auto_commit is set.
Statements of the same month are appended to the same journal. A statement
that fails to convert stays in import/ and the others are still recorded.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(repoDir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runImport(cmd, g, afero.NewOsFs(), absDir)
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "workspace directory")

	return cmd
}

func runImport(cmd *cobra.Command, g *globals, fs afero.Fs, root string) error {
	cfg, logger, err := g.setup(cmd, fs, root)
	if err != nil {
		return err
	}
	ws := importer.NewWorkspace(fs, root)
	runID := runlog.NewRunID()
	log := logger.WithField("run_id", runID)

	files, err := ws.Scan()
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No statements to import.")
		return nil
	}

	conv, err := newConverter(fs, cfg, ws.Path(cfg.Files.Chart), ws.Path(cfg.Files.Rules), log)
	if err != nil {
		return err
	}

	// A failed statement stays in import/ and the others are still recorded.
	now := time.Now()
	var entries []runlog.Entry
	var errs []error
	for _, file := range files {
		flog := log.WithField("input", file.Name)
		entry, err := importFile(ws, conv, cfg, file, now, flog)
		if err != nil {
			flog.WithError(err).Error("import failed")
			errs = append(errs, err)
			continue
		}
		entry.RunID = runID
		entries = append(entries, entry)
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s: %d entries (%d unclassified, %d rejected)\n",
			file.Name, filepath.Base(entry.Output), entry.Entries, entry.Unclassified, entry.Rejected)
	}
	if len(entries) == 0 {
		return errors.Join(errs...)
	}

	if err := runlog.Append(fs, root, entries); err != nil {
		return errors.Join(append(errs, fmt.Errorf("writing run log: %w", err))...)
	}
	if err := commitImport(cfg, root, runID, len(entries), log); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func commitImport(cfg *config.Config, root, runID string, n int, log logrus.FieldLogger) error {
	if !cfg.Git.AutoCommit || !gitops.IsRepo(root) {
		return nil
	}
	changed, err := gitops.HasChanges(root)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	msg := fmt.Sprintf("import: %d statement(s), run %s", n, runID)
	hash, err := gitops.CommitAll(root, msg, gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail})
	if err != nil {
		return fmt.Errorf("committing import: %w", err)
	}
	log.WithField("commit", hash).Info("committed import")
	return nil
}

// importFile converts one statement. Statements of the same month share a
// journal: entries are appended after any already there.
func importFile(ws *importer.Workspace, conv *convert.Converter, cfg *config.Config, file importer.FileInfo, now time.Time, log logrus.FieldLogger) (runlog.Entry, error) {
	raw, err := ws.ReadFile(file.Path)
	if err != nil {
		return runlog.Entry{}, err
	}
	st, err := decodeStatement(raw, cfg.Files.Encoding, now, log)
	if err != nil {
		return runlog.Entry{}, fmt.Errorf("%s: %w", file.Name, err)
	}

	name := st.OutputName()
	out, isNew, err := ws.OpenJournal(name)
	if err != nil {
		return runlog.Entry{}, fmt.Errorf("%s: %w", file.Name, err)
	}
	if !isNew {
		log.WithField("output", name).Info("appending to existing journal")
	}
	stats, err := st.run(conv, out, isNew)
	if cerr := out.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("closing journal: %w", cerr)
	}
	if err != nil {
		return runlog.Entry{}, fmt.Errorf("%s: %w", file.Name, err)
	}

	if err := ws.MarkProcessed(file.Name); err != nil {
		return runlog.Entry{}, err
	}
	log.WithFields(logrus.Fields{"output": name, "entries": stats.Entries}).Info("imported statement")

	return runlog.Entry{
		Timestamp:    now.UTC().Truncate(time.Second),
		Input:        filepath.ToSlash(filepath.Join(importer.ImportDir, file.Name)),
		Output:       filepath.ToSlash(filepath.Join(importer.JournalsDir, name)),
		Operations:   stats.Operations,
		Entries:      stats.Entries,
		Skipped:      stats.Skipped,
		Unclassified: stats.Unclassified,
		Rejected:     stats.Rejected,
	}, nil
}
