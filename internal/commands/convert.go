package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newConvertCommand(g *globals) *cobra.Command {
	var outDir string
	var rulesPath string
	var encoding string

	cmd := &cobra.Command{
		Use:   "convert <statement.csv> [chart.csv]",
		Short: "Convert one bank statement export into a bank journal file",
		Long: `Convert reads a semicolon-separated bank statement export and writes
"Journal Bq <Mois> <Annee>.csv" for the month of the first date it contains.
The chart of accounts defaults to "` + DefaultChartFile + `" in the current directory.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			chart := DefaultChartFile
			if len(args) > 1 {
				chart = args[1]
			}
			return runConvert(cmd, g, args[0], chart, outDir, rulesPath, encoding)
		},
	}

	cmd.Flags().StringVarP(&outDir, "out-dir", "o", ".", "directory for the journal file")
	cmd.Flags().StringVar(&rulesPath, "rules", "", "classification rules YAML (default built-in rules)")
	cmd.Flags().StringVar(&encoding, "encoding", "", "input encoding: auto, utf-8, windows-1252, iso-8859-1 (default from config)")

	return cmd
}

func runConvert(cmd *cobra.Command, g *globals, input, chart, outDir, rulesPath, encoding string) error {
	fs := afero.NewOsFs()
	cfg, logger, err := g.setup(cmd, fs, ".")
	if err != nil {
		return err
	}
	if encoding != "" {
		cfg.Files.Encoding = encoding
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	log := logger.WithField("input", input)

	raw, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("reading statement: %w", err)
	}
	st, err := decodeStatement(raw, cfg.Files.Encoding, time.Now(), log)
	if err != nil {
		return err
	}

	conv, err := newConverter(fs, cfg, chart, rulesPath, log)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	outPath := filepath.Join(outDir, st.OutputName())
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating journal: %w", err)
	}

	stats, err := st.run(conv, f, true)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("closing journal: %w", cerr)
	}
	if err != nil {
		return err
	}

	if stats.Entries == 0 {
		if err := os.Remove(outPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.WithError(err).Warn("removing empty journal")
		}
		return fmt.Errorf("no journal entries produced from %s (%d operations)", input, stats.Operations)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s: %s\n", outPath, summary(stats))
	return nil
}
