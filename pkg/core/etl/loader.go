// Package etl loads the SEC financial statement data sets into a
// companies.DB.
//
// A load is two strictly sequential passes: submissions (sub.txt) register
// companies and claim filings, then facts (num.txt) attach records to the
// filing's owner. Facts whose filing was never claimed are expected, for
// example when the allow-list excluded the company, and are counted rather
// than reported.
package etl

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"sec_extractor/pkg/core/companies"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrMalformedRow aborts a load when a row is structurally unusable.
var ErrMalformedRow = errors.New("malformed row")

// RowError locates a malformed row.
type RowError struct {
	Source string
	Line   int
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s:%d: %v: %s", e.Source, e.Line, ErrMalformedRow, e.Reason)
}

func (e *RowError) Unwrap() error { return ErrMalformedRow }

// Policy decides what happens to a fact whose filing resolves to a company
// that does not hold it.
type Policy int

const (
	// SkipUnknown counts the row and moves on.
	SkipUnknown Policy = iota
	// FailUnknown aborts the load with companies.ErrUnknownFiling.
	FailUnknown
)

// ParsePolicy accepts "skip" or "fail".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "skip":
		return SkipUnknown, nil
	case "fail":
		return FailUnknown, nil
	}
	return SkipUnknown, fmt.Errorf("unknown filing policy %q (want skip or fail)", s)
}

func (p Policy) String() string {
	if p == FailUnknown {
		return "fail"
	}
	return "skip"
}

// Options configure a Loader. The zero value loads every company with the
// default layout and skips unknown filings.
type Options struct {
	Layout *Layout
	// Include filters submissions by company name. Nil loads all companies.
	Include        func(name string) bool
	UnknownFilings Policy
	Logger         *zap.Logger
}

// Stats describes one load.
type Stats struct {
	RunID                uuid.UUID     `json:"run_id"`
	SubmissionRows       int           `json:"submission_rows"`
	FilteredRows         int           `json:"filtered_rows"`
	FilingsRegistered    int           `json:"filings_registered"`
	FactRows             int           `json:"fact_rows"`
	RecordsAdded         int           `json:"records_added"`
	SkippedUnclaimed     int           `json:"skipped_unclaimed"`
	SkippedUnknownFiling int           `json:"skipped_unknown_filing"`
	Duration             time.Duration `json:"duration"`
}

// Index is the part of companies.DB the loader writes through.
type Index interface {
	Register(companyName, filingID, formType string) bool
	LookupByFiling(filingID string) (*companies.Company, error)
}

// Loader populates an Index.
type Loader struct {
	db      Index
	layout  Layout
	include func(string) bool
	policy  Policy
	log     *zap.Logger
}

// NewLoader creates a loader writing into db.
func NewLoader(db Index, opts Options) *Loader {
	layout := DefaultLayout()
	if opts.Layout != nil {
		layout = *opts.Layout
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{
		db:      db,
		layout:  layout,
		include: opts.Include,
		policy:  opts.UnknownFilings,
		log:     log,
	}
}

// AllowList returns an Include predicate matching the given names exactly.
// An empty list returns nil, which loads everything.
func AllowList(names []string) func(string) bool {
	if len(names) == 0 {
		return nil
	}
	set := companies.NewNameSet(names...)
	return set.Has
}

// Load runs the submissions pass to completion, then the facts pass.
// On error the returned Stats reflect the rows processed so far.
func (l *Loader) Load(ctx context.Context, submissions, facts RowSource) (*Stats, error) {
	start := time.Now()
	stats := &Stats{RunID: uuid.New()}
	log := l.log.With(zap.String("run_id", stats.RunID.String()))

	if err := l.loadSubmissions(ctx, submissions, stats); err != nil {
		stats.Duration = time.Since(start)
		return stats, err
	}
	log.Info("submissions loaded",
		zap.String("source", submissions.Name()),
		zap.Int("rows", stats.SubmissionRows),
		zap.Int("filtered", stats.FilteredRows),
		zap.Int("filings", stats.FilingsRegistered),
	)

	if err := l.loadFacts(ctx, facts, stats, log); err != nil {
		stats.Duration = time.Since(start)
		return stats, err
	}
	stats.Duration = time.Since(start)
	log.Info("facts loaded",
		zap.String("source", facts.Name()),
		zap.Int("rows", stats.FactRows),
		zap.Int("records", stats.RecordsAdded),
		zap.Int("skipped_unclaimed", stats.SkippedUnclaimed),
		zap.Int("skipped_unknown_filing", stats.SkippedUnknownFiling),
		zap.Duration("duration", stats.Duration),
	)
	return stats, nil
}

func (l *Loader) loadSubmissions(ctx context.Context, src RowSource, stats *Stats) error {
	cols := l.layout.Submissions
	need := cols.width()
	first := true
	for src.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if first {
			first = false
			if l.layout.SkipHeader {
				continue
			}
		}
		row := src.Row()
		if len(row) < need {
			return tooShort(src, len(row), need)
		}
		stats.SubmissionRows++

		name := row[cols.Name]
		if l.include != nil && !l.include(name) {
			stats.FilteredRows++
			continue
		}
		if l.db.Register(name, row[cols.FilingID], row[cols.Form]) {
			stats.FilingsRegistered++
		}
	}
	if err := src.Err(); err != nil {
		return fmt.Errorf("failed to read %s: %w", src.Name(), err)
	}
	return nil
}

func (l *Loader) loadFacts(ctx context.Context, src RowSource, stats *Stats, log *zap.Logger) error {
	cols := l.layout.Facts
	need := cols.width()
	first := true
	for src.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if first {
			first = false
			if l.layout.SkipHeader {
				continue
			}
		}
		row := src.Row()
		if len(row) < need {
			return tooShort(src, len(row), need)
		}
		stats.FactRows++

		filingID := row[cols.FilingID]
		company, err := l.db.LookupByFiling(filingID)
		if errors.Is(err, companies.ErrNotFound) {
			stats.SkippedUnclaimed++
			continue
		}
		if err != nil {
			return err
		}

		quarters, err := strconv.Atoi(strings.TrimSpace(row[cols.Quarters]))
		if err != nil {
			return &RowError{
				Source: src.Name(),
				Line:   src.Line(),
				Reason: fmt.Sprintf("quarters %q is not an integer", row[cols.Quarters]),
			}
		}

		err = company.AddRecord(filingID, row[cols.FactType], row[cols.Value], row[cols.Date], quarters)
		if errors.Is(err, companies.ErrUnknownFiling) && l.policy == SkipUnknown {
			stats.SkippedUnknownFiling++
			log.Debug("skipping fact for unregistered filing",
				zap.String("filing_id", filingID),
				zap.String("company", company.Name()),
				zap.Int("line", src.Line()),
			)
			continue
		}
		if err != nil {
			return fmt.Errorf("%s:%d: %w", src.Name(), src.Line(), err)
		}
		stats.RecordsAdded++
	}
	if err := src.Err(); err != nil {
		return fmt.Errorf("failed to read %s: %w", src.Name(), err)
	}
	return nil
}

func tooShort(src RowSource, got, need int) error {
	return &RowError{
		Source: src.Name(),
		Line:   src.Line(),
		Reason: fmt.Sprintf("has %d fields, need at least %d", got, need),
	}
}
