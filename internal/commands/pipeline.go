package commands

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/bocal-dev/bocal/internal/accounts"
	"github.com/bocal-dev/bocal/internal/classify"
	"github.com/bocal-dev/bocal/internal/config"
	"github.com/bocal-dev/bocal/internal/convert"
	"github.com/bocal-dev/bocal/internal/journal"
	"github.com/bocal-dev/bocal/internal/statement"
	"github.com/bocal-dev/bocal/internal/textenc"
)

// DefaultChartFile is the chart convert reads when none is given.
const DefaultChartFile = "Plan Comptable 2025.csv"

// loadIndex loads the chart of accounts. A missing or unreadable chart is
// not fatal: classification falls back to the literal default codes.
func loadIndex(fs afero.Fs, path, encoding string, log logrus.FieldLogger) *accounts.Index {
	log = log.WithField("chart", path)
	idx, err := accounts.LoadChart(fs, path, encoding)
	if err != nil {
		log.WithError(err).Warn("no accounts loaded, using default account codes")
		return accounts.NewIndex(nil)
	}
	if idx.Len() == 0 {
		log.Warn("chart of accounts is empty, using default account codes")
		return idx
	}
	log.WithField("accounts", idx.Len()).Debug("loaded chart of accounts")
	return idx
}

// loadRules reads the rules file at path, or returns the built-in rules when
// path is empty or does not exist.
func loadRules(fs afero.Fs, path string, log logrus.FieldLogger) (classify.Rules, error) {
	if path == "" {
		return classify.DefaultRules(), nil
	}
	rules, err := classify.LoadRules(fs, path)
	if errors.Is(err, os.ErrNotExist) {
		log.WithField("rules", path).Debug("rules file not found, using built-in rules")
		return classify.DefaultRules(), nil
	}
	if err != nil {
		return classify.Rules{}, err
	}
	return rules, nil
}

func newConverter(fs afero.Fs, cfg *config.Config, chartPath, rulesPath string, log logrus.FieldLogger) (*convert.Converter, error) {
	idx := loadIndex(fs, chartPath, cfg.Files.Encoding, log)
	rules, err := loadRules(fs, rulesPath, log)
	if err != nil {
		return nil, err
	}
	c := classify.New(idx, cfg.Accounts.Defaults(), rules)
	return convert.New(c, log), nil
}

// decodedStatement is a statement export converted to UTF-8 together with
// the period it covers.
type decodedStatement struct {
	data  []byte
	month time.Month
	year  int
}

// OutputName returns the journal file name for the statement period.
func (s decodedStatement) OutputName() string {
	return journal.FileName(s.month, s.year)
}

// decodeStatement decodes raw and detects its period, falling back to now
// when the export carries no date.
func decodeStatement(raw []byte, encoding string, now time.Time, log logrus.FieldLogger) (decodedStatement, error) {
	data, err := textenc.Decode(raw, encoding)
	if err != nil {
		return decodedStatement{}, fmt.Errorf("decoding statement: %w", err)
	}
	month, year, ok := statement.DetectPeriod(data)
	if !ok {
		month, year = now.Month(), now.Year()
		log.Warn("no date found in statement, using current month")
	}
	return decodedStatement{data: data, month: month, year: year}, nil
}

// run converts the statement into out, starting with the journal header when
// header is set.
func (s decodedStatement) run(conv *convert.Converter, out io.Writer, header bool) (convert.Stats, error) {
	run := conv.Append
	if header {
		run = conv.Run
	}
	stats, err := run(bytes.NewReader(s.data), out)
	if err != nil {
		return stats, fmt.Errorf("converting statement: %w", err)
	}
	return stats, nil
}

func summary(stats convert.Stats) string {
	return fmt.Sprintf("%d entries from %d operations (%d unclassified, %d rejected, %d rows skipped)",
		stats.Entries, stats.Operations, stats.Unclassified, stats.Rejected, stats.Skipped)
}
