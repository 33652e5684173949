package commands

import (
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/bocal-dev/bocal/internal/buildinfo"
	"github.com/bocal-dev/bocal/internal/config"
	"github.com/bocal-dev/bocal/internal/logging"
)

// globals holds the persistent flags shared by every subcommand.
type globals struct {
	cfgFile string
	verbose bool
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:   "bocal",
		Short: "Bank statement to bank journal converter",
		Long: `bocal turns bank statement exports into double-entry bank journal
lines against a chart of accounts.

Examples:
  bocal convert "Releve fevrier.csv" "Plan Comptable 2025.csv"
  bocal init compta --name "Epicerie du Coin"
  bocal import --repo compta
  bocal resolve AMAZON --chart "Plan Comptable 2025.csv"`,
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&g.cfgFile, "config", "", "config file (default <workspace>/bocal.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(newInitCommand(g))
	rootCmd.AddCommand(newConvertCommand(g))
	rootCmd.AddCommand(newImportCommand(g))
	rootCmd.AddCommand(newResolveCommand(g))

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

// loadConfig reads the --config file if given, else <dir>/bocal.yaml on fs if
// it exists, else the built-in defaults. BOCAL_* environment variables apply
// in every case. The returned path is empty when no file was read.
func (g *globals) loadConfig(fs afero.Fs, dir string) (*config.Config, string, error) {
	if g.cfgFile != "" {
		cfg, err := config.Load(afero.NewOsFs(), g.cfgFile)
		return cfg, g.cfgFile, err
	}
	path := filepath.Join(dir, config.FileName)
	if _, err := fs.Stat(path); err != nil {
		cfg, err := config.FromViper(config.NewViper())
		return cfg, "", err
	}
	cfg, err := config.Load(fs, path)
	return cfg, path, err
}

// setup loads configuration for the workspace at dir and builds the logger,
// forcing debug level with --verbose.
func (g *globals) setup(cmd *cobra.Command, fs afero.Fs, dir string) (*config.Config, *logrus.Logger, error) {
	cfg, path, err := g.loadConfig(fs, dir)
	if err != nil {
		return nil, nil, err
	}

	logCfg := cfg.Log
	if g.verbose {
		logCfg.Level = logrus.DebugLevel.String()
	}
	logger, err := logging.New(logCfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, fmt.Errorf("configuring logger: %w", err)
	}
	if path != "" {
		logger.WithField("config", path).Debug("using config file")
	}
	return cfg, logger, nil
}
