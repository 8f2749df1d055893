package companies

import (
	"sort"
	"strconv"
)

// Filing holds one submission's form type and the records reported in it,
// bucketed by fact type. Buckets keep input order and are never deduplicated:
// revised values and different date/quarter combinations all stay.
type Filing struct {
	formType string
	facts    NameSet
	records  map[string][]Record
	count    int
}

// NewFiling creates an empty filing. Export only surfaces fact types in facts.
func NewFiling(formType string, facts NameSet) *Filing {
	return &Filing{
		formType: formType,
		facts:    facts,
		records:  make(map[string][]Record),
	}
}

// FormType returns the form the filing was registered with
func (f *Filing) FormType() string {
	return f.formType
}

// AddRecord appends a record to the bucket for factType.
func (f *Filing) AddRecord(factType, value, date string, quarters int) {
	f.records[factType] = append(f.records[factType], Record{
		Value:    value,
		Date:     date,
		Quarters: quarters,
	})
	f.count++
}

// Records returns a copy of the bucket for factType.
func (f *Filing) Records(factType string) []Record {
	bucket := f.records[factType]
	out := make([]Record, len(bucket))
	copy(out, bucket)
	return out
}

// FactTypes returns every stored fact type, sorted.
func (f *Filing) FactTypes() []string {
	types := make([]string, 0, len(f.records))
	for t := range f.records {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Len returns the number of stored records across all buckets.
func (f *Filing) Len() int {
	return f.count
}

// Export returns the filing restricted to the fact interest set. Each
// bucket is returned ordered by date; records with the same date keep input
// order. Stored buckets are not reordered.
func (f *Filing) Export() FilingExport {
	out := FilingExport{
		FormType: f.formType,
		Records:  make(map[string][]RecordExport),
	}
	for factType, bucket := range f.records {
		if !f.facts.Has(factType) {
			continue
		}
		recs := make([]RecordExport, 0, len(bucket))
		for _, r := range bucket {
			recs = append(recs, r.Export())
		}
		sort.SliceStable(recs, func(i, j int) bool {
			return dateLess(recs[i].Date, recs[j].Date)
		})
		out.Records[factType] = recs
	}
	return out
}

// dateLess orders yyyymmdd dates numerically, falling back to string order
// when either side is not an integer.
func dateLess(a, b string) bool {
	x, errA := strconv.ParseInt(a, 10, 64)
	y, errB := strconv.ParseInt(b, 10, 64)
	if errA != nil || errB != nil {
		return a < b
	}
	return x < y
}
