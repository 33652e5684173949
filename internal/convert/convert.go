// Package convert runs a bank statement export through the classifier and
// writes the resulting bank journal.
package convert

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/bocal-dev/bocal/internal/classify"
	"github.com/bocal-dev/bocal/internal/journal"
	"github.com/bocal-dev/bocal/internal/model"
	"github.com/bocal-dev/bocal/internal/statement"
)

// Classifier is the part of classify.Classifier the pipeline needs.
type Classifier interface {
	Classify(op model.BankOperation) classify.Result
	Continuation(op model.BankOperation) (classify.ContinuationFunc, bool)
}

// Stats summarizes one run.
type Stats struct {
	Rows         int // physical records read
	Operations   int // valid operations handed to the classifier
	Merged       int // detail rows folded into the preceding operation
	Skipped      int // rows that were not operations
	Unclassified int // operations no rule matched
	Rejected     int // postings that failed validation
	Entries      int // journal rows written
	Categories   map[string]int
}

// Converter converts statements one at a time. It keeps no state between
// runs.
type Converter struct {
	classifier Classifier
	log        logrus.FieldLogger
}

// New creates a Converter.
func New(c Classifier, log logrus.FieldLogger) *Converter {
	return &Converter{classifier: c, log: log.WithField("component", "convert")}
}

// Run reads rows from in and writes the journal header and entries to out.
func (c *Converter) Run(in io.Reader, out io.Writer) (Stats, error) {
	return c.run(in, out, true)
}

// Append is Run for a journal that already has its header: only entries are
// written.
func (c *Converter) Append(in io.Reader, out io.Writer) (Stats, error) {
	return c.run(in, out, false)
}

func (c *Converter) run(in io.Reader, out io.Writer, header bool) (Stats, error) {
	stats := Stats{Categories: make(map[string]int)}
	src := statement.NewSource(in)
	w := journal.NewWriter(out)

	if header {
		if err := w.WriteHeader(); err != nil {
			return stats, err
		}
	}

	for {
		row, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, err
		}
		stats.Rows++
		log := c.log.WithField("line", row.Line)

		if row.IsDetail() {
			stats.Skipped++
			log.Debug("skipping orphan detail row")
			continue
		}

		op, err := statement.ParseOperation(row)
		if err != nil {
			stats.Skipped++
			log.WithError(err).Debug("skipping row")
			continue
		}
		if !op.Valid() {
			stats.Skipped++
			log.WithField("date", op.Date).Debug("skipping row without operation date")
			continue
		}

		op, merged, err := c.merge(src, op)
		if err != nil {
			return stats, err
		}
		if merged {
			stats.Rows++
			stats.Merged++
		}
		stats.Operations++

		res := c.classifier.Classify(op)
		if !res.Matched() {
			stats.Unclassified++
			log.WithField("operation", op.Operation).Info("no category for operation")
			continue
		}
		log = log.WithField("category", res.Category)
		for _, note := range res.Notes {
			log.Debug(note)
		}

		if verrs := journal.ValidatePosting(res.Entries); len(verrs) > 0 {
			stats.Rejected++
			for _, ve := range verrs {
				log.WithField("operation", op.Operation).Error(ve.Error())
			}
			continue
		}

		if err := w.Write(res.Entries...); err != nil {
			return stats, err
		}
		stats.Entries += len(res.Entries)
		stats.Categories[res.Category]++
	}

	if err := w.Flush(); err != nil {
		return stats, err
	}
	return stats, nil
}

// merge folds the following row into op when it matches op's continuation
// pattern. A row that does not match is left in the source.
func (c *Converter) merge(src *statement.Source, op model.BankOperation) (model.BankOperation, bool, error) {
	match, ok := c.classifier.Continuation(op)
	if !ok {
		return op, false, nil
	}
	next, err := src.Peek()
	if errors.Is(err, io.EOF) {
		return op, false, nil
	}
	if err != nil {
		return op, false, err
	}
	if !match(next.Fields) {
		return op, false, nil
	}
	if _, err := src.Next(); err != nil {
		return op, false, fmt.Errorf("consuming continuation row: %w", err)
	}
	return op.WithDetails(next.Text()), true, nil
}
