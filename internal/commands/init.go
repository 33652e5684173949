package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bocal-dev/bocal/internal/accounts"
	"github.com/bocal-dev/bocal/internal/classify"
	"github.com/bocal-dev/bocal/internal/config"
	"github.com/bocal-dev/bocal/internal/gitops"
	"github.com/bocal-dev/bocal/internal/importer"
)

func newInitCommand(g *globals) *cobra.Command {
	var name string
	var noGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new bocal workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd, absDir, name, noGit)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "business name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().BoolVar(&noGit, "no-git", false, "do not create a git repository")

	return cmd
}

func runInit(cmd *cobra.Command, dir, name string, noGit bool) error {
	cfg := config.Default(name)

	dirs := []string{
		filepath.Dir(cfg.Files.Chart),
		filepath.Dir(cfg.Files.Rules),
		importer.ImportDir,
		importer.ProcessedDir,
		importer.JournalsDir,
		importer.LogsDir,
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if err := writeChart(filepath.Join(dir, cfg.Files.Chart)); err != nil {
		return err
	}

	if err := classify.SaveRules(filepath.Join(dir, cfg.Files.Rules), classify.DefaultRules()); err != nil {
		return fmt.Errorf("writing rules: %w", err)
	}

	gitignore := "*.tmp\n~$*\n.~lock.*#\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	// Empty directories are not tracked by git.
	for _, d := range []string{importer.ImportDir, importer.ProcessedDir, importer.JournalsDir} {
		if err := os.WriteFile(filepath.Join(dir, d, ".gitkeep"), []byte{}, 0o644); err != nil {
			return fmt.Errorf("writing .gitkeep: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	if noGit || !gitops.Available() {
		fmt.Fprintf(out, "Initialized bocal workspace at %s\n", dir)
		return nil
	}

	if err := gitops.Init(dir); err != nil {
		return err
	}
	author := gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
	hash, err := gitops.CommitAll(dir, "init: Initialize "+name, author)
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Fprintf(out, "Initialized bocal workspace at %s (%s)\n", dir, hash)
	return nil
}

func writeChart(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}
	if err := accounts.WriteChart(f, accounts.DefaultChart()); err != nil {
		f.Close()
		return fmt.Errorf("writing chart of accounts: %w", err)
	}
	return f.Close()
}
