package companies

import "fmt"

// Company owns the filings registered under one company name.
type Company struct {
	id       string
	name     string
	interest Interest
	filings  map[string]*Filing
	order    []string
}

func newCompany(name, id string, interest Interest) *Company {
	return &Company{
		id:       id,
		name:     name,
		interest: interest,
		filings:  make(map[string]*Filing),
	}
}

// ID returns the derived company identifier
func (c *Company) ID() string {
	return c.id
}

// Name returns the company name as registered
func (c *Company) Name() string {
	return c.name
}

// RegisterFiling stores a new empty filing under filingID. A filing id that
// is already registered keeps its first form type and the call returns false.
func (c *Company) RegisterFiling(filingID, formType string) bool {
	if _, exists := c.filings[filingID]; exists {
		return false
	}
	c.filings[filingID] = NewFiling(formType, c.interest.Facts)
	c.order = append(c.order, filingID)
	return true
}

// AddRecord appends a record to the named filing.
func (c *Company) AddRecord(filingID, factType, value, date string, quarters int) error {
	f, ok := c.filings[filingID]
	if !ok {
		return fmt.Errorf("%w: %s on company %q", ErrUnknownFiling, filingID, c.name)
	}
	f.AddRecord(factType, value, date, quarters)
	return nil
}

// Filing returns the filing registered under filingID.
func (c *Company) Filing(filingID string) (*Filing, bool) {
	f, ok := c.filings[filingID]
	return f, ok
}

// FilingIDs returns filing ids in registration order.
func (c *Company) FilingIDs() []string {
	ids := make([]string, len(c.order))
	copy(ids, c.order)
	return ids
}

// Export returns the filings whose form type is in the interest set, in
// registration order.
func (c *Company) Export() []FilingExport {
	out := make([]FilingExport, 0, len(c.order))
	for _, id := range c.order {
		f := c.filings[id]
		if !c.interest.Forms.Has(f.FormType()) {
			continue
		}
		out = append(out, f.Export())
	}
	return out
}
