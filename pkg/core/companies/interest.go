package companies

import "sort"

// NameSet is a set of fact types or form types.
type NameSet map[string]bool

// NewNameSet builds a set from a list of names
func NewNameSet(names ...string) NameSet {
	s := make(NameSet, len(names))
	for _, n := range names {
		s[n] = true
	}
	return s
}

// Has reports whether name is in the set.
func (s NameSet) Has(name string) bool {
	return s[name]
}

// Names returns the members sorted.
func (s NameSet) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Default interest sets
var (
	DefaultForms = []string{"10-K", "10-Q"}
	DefaultFacts = []string{"Assets", "NetIncomeLoss", "OperatingIncomeLoss", "GrossProfit"}
)

// Interest restricts what Export surfaces. Data outside the sets is still
// stored, it just never leaves through an export.
type Interest struct {
	Forms NameSet
	Facts NameSet
}

// DefaultInterest returns the 10-K/10-Q and headline fact interest sets
func DefaultInterest() Interest {
	return Interest{
		Forms: NewNameSet(DefaultForms...),
		Facts: NewNameSet(DefaultFacts...),
	}
}
