package etl

import "fmt"

// SubmissionColumns are the sub.txt positions the loader reads.
type SubmissionColumns struct {
	FilingID int `yaml:"filing_id"`
	Name     int `yaml:"name"`
	Form     int `yaml:"form"`
}

// FactColumns are the num.txt positions the loader reads.
type FactColumns struct {
	FilingID int `yaml:"filing_id"`
	FactType int `yaml:"fact_type"`
	Date     int `yaml:"date"`
	Quarters int `yaml:"quarters"`
	Value    int `yaml:"value"`
}

// Layout describes where fields live in each source.
type Layout struct {
	Submissions SubmissionColumns `yaml:"submissions"`
	Facts       FactColumns       `yaml:"facts"`
	// SkipHeader drops the first row of every source.
	SkipHeader bool `yaml:"skip_header"`
}

// DefaultLayout returns the column positions of the SEC financial statement
// data sets (adsh, name, form / adsh, tag, ddate, qtrs, value).
func DefaultLayout() Layout {
	return Layout{
		Submissions: SubmissionColumns{FilingID: 0, Name: 2, Form: 25},
		Facts:       FactColumns{FilingID: 0, FactType: 1, Date: 4, Quarters: 5, Value: 7},
	}
}

func (c SubmissionColumns) width() int {
	return maxOf(c.FilingID, c.Name, c.Form) + 1
}

func (c FactColumns) width() int {
	return maxOf(c.FilingID, c.FactType, c.Date, c.Quarters, c.Value) + 1
}

// Validate rejects negative column indices.
func (l Layout) Validate() error {
	cols := map[string]int{
		"submissions.filing_id": l.Submissions.FilingID,
		"submissions.name":      l.Submissions.Name,
		"submissions.form":      l.Submissions.Form,
		"facts.filing_id":       l.Facts.FilingID,
		"facts.fact_type":       l.Facts.FactType,
		"facts.date":            l.Facts.Date,
		"facts.quarters":        l.Facts.Quarters,
		"facts.value":           l.Facts.Value,
	}
	for name, idx := range cols {
		if idx < 0 {
			return fmt.Errorf("column %s must not be negative, got %d", name, idx)
		}
	}
	return nil
}

func maxOf(vals ...int) int {
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
