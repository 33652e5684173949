package commands

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/bocal-dev/bocal/internal/accounts"
)

func newResolveCommand(g *globals) *cobra.Command {
	var chart string

	cmd := &cobra.Command{
		Use:   "resolve <keyword>...",
		Short: "Show which account a keyword resolves to",
		Long: `Resolve looks each keyword up in the chart of accounts the way the
classifier does: exact code, then account name substring, then supplier code
"401"+keyword. Keywords with no match show the supplier code that would be
synthesized for them.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := afero.NewOsFs()
			cfg, logger, err := g.setup(cmd, fs, ".")
			if err != nil {
				return err
			}
			idx := loadIndex(fs, chart, cfg.Files.Encoding, logger)

			out := cmd.OutOrStdout()
			for _, keyword := range args {
				code, ok := idx.Resolve(keyword)
				if !ok {
					fmt.Fprintf(out, "%s\t%s\t(synthesized)\n", keyword, accounts.SynthesizeAccount(keyword))
					continue
				}
				acct, _ := idx.Get(code)
				fmt.Fprintf(out, "%s\t%s\t%s\n", keyword, code, acct.Name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&chart, "chart", DefaultChartFile, "chart of accounts CSV")

	return cmd
}
