package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/bocal-dev/bocal/internal/classify"
	"github.com/bocal-dev/bocal/internal/logging"
	"github.com/bocal-dev/bocal/internal/textenc"
)

// FileName is the workspace configuration file.
const FileName = "bocal.yaml"

// EnvPrefix prefixes environment overrides, e.g. BOCAL_ACCOUNTS_BANK.
const EnvPrefix = "BOCAL"

// Config represents the top-level bocal.yaml configuration.
type Config struct {
	Business BusinessConfig `yaml:"business" mapstructure:"business"`
	Accounts AccountsConfig `yaml:"accounts" mapstructure:"accounts"`
	Files    FilesConfig    `yaml:"files" mapstructure:"files"`
	Git      GitConfig      `yaml:"git" mapstructure:"git"`
	Log      logging.Config `yaml:"log" mapstructure:"log"`
}

// BusinessConfig identifies the business whose books are kept.
type BusinessConfig struct {
	Name string `yaml:"name" mapstructure:"name"`
}

// AccountsConfig holds the journal code and the literal account codes used
// when the chart of accounts has no better match.
type AccountsConfig struct {
	Journal   string `yaml:"journal" mapstructure:"journal"`
	Bank      string `yaml:"bank" mapstructure:"bank"`
	Clearing  string `yaml:"clearing" mapstructure:"clearing"`
	Fees      string `yaml:"fees" mapstructure:"fees"`
	VATRefund string `yaml:"vat_refund" mapstructure:"vat_refund"`
	Supplier  string `yaml:"supplier,omitempty" mapstructure:"supplier"`
}

// FilesConfig locates the workspace inputs, relative to the workspace root.
type FilesConfig struct {
	Chart    string `yaml:"chart" mapstructure:"chart"`
	Rules    string `yaml:"rules" mapstructure:"rules"`
	Encoding string `yaml:"encoding" mapstructure:"encoding"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit" mapstructure:"auto_commit"`
	AuthorName  string `yaml:"author_name" mapstructure:"author_name"`
	AuthorEmail string `yaml:"author_email" mapstructure:"author_email"`
}

// Defaults converts the account settings for the classifier.
func (a AccountsConfig) Defaults() classify.Defaults {
	return classify.Defaults{
		Journal:   a.Journal,
		Bank:      a.Bank,
		Clearing:  a.Clearing,
		Fees:      a.Fees,
		VATRefund: a.VATRefund,
		Supplier:  a.Supplier,
	}
}

// Validate checks values that would otherwise fail late in a run.
func (c *Config) Validate() error {
	var errs []error
	if c.Accounts.Journal == "" {
		errs = append(errs, errors.New("accounts.journal is empty"))
	}
	if c.Accounts.Bank == "" {
		errs = append(errs, errors.New("accounts.bank is empty"))
	}
	if enc := c.Files.Encoding; enc != "" && !strings.EqualFold(enc, textenc.Auto) {
		if _, err := textenc.Lookup(enc); err != nil {
			errs = append(errs, fmt.Errorf("files.encoding: %w", err))
		}
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// NewViper returns a viper instance carrying the built-in defaults and the
// BOCAL_ environment overrides.
func NewViper() *viper.Viper {
	v := viper.New()
	d := Default("")
	v.SetDefault("business.name", d.Business.Name)
	v.SetDefault("accounts.journal", d.Accounts.Journal)
	v.SetDefault("accounts.bank", d.Accounts.Bank)
	v.SetDefault("accounts.clearing", d.Accounts.Clearing)
	v.SetDefault("accounts.fees", d.Accounts.Fees)
	v.SetDefault("accounts.vat_refund", d.Accounts.VATRefund)
	v.SetDefault("accounts.supplier", d.Accounts.Supplier)
	v.SetDefault("files.chart", d.Files.Chart)
	v.SetDefault("files.rules", d.Files.Rules)
	v.SetDefault("files.encoding", d.Files.Encoding)
	v.SetDefault("git.auto_commit", d.Git.AutoCommit)
	v.SetDefault("git.author_name", d.Git.AuthorName)
	v.SetDefault("git.author_email", d.Git.AuthorEmail)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads a bocal.yaml file from fs. Keys missing from the file take
// their defaults; environment variables override both.
func Load(fs afero.Fs, path string) (*Config, error) {
	v := NewViper()
	v.SetFs(fs)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return FromViper(v)
}

// FromViper decodes and validates the configuration held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new workspace.
func Default(businessName string) *Config {
	d := classify.DefaultDefaults()
	return &Config{
		Business: BusinessConfig{
			Name: businessName,
		},
		Accounts: AccountsConfig{
			Journal:   d.Journal,
			Bank:      d.Bank,
			Clearing:  d.Clearing,
			Fees:      d.Fees,
			VATRefund: d.VATRefund,
			Supplier:  d.Supplier,
		},
		Files: FilesConfig{
			Chart:    "accounts/plan-comptable.csv",
			Rules:    "rules/classification-rules.yaml",
			Encoding: textenc.Auto,
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "bocal",
			AuthorEmail: "bocal@localhost",
		},
		Log: logging.DefaultConfig(),
	}
}
