package companies

// Record is one reported value for a fact type within a filing.
type Record struct {
	Value    string
	Date     string // ddate token, e.g. "20200101"
	Quarters int
}

// RecordExport is the serializable form of a Record.
type RecordExport struct {
	Quarters int    `json:"quarters"`
	Date     string `json:"date"`
	Value    string `json:"value"`
}

// Export converts the record for output.
func (r Record) Export() RecordExport {
	return RecordExport{
		Quarters: r.Quarters,
		Date:     r.Date,
		Value:    r.Value,
	}
}

// FilingExport is the serializable form of a Filing.
type FilingExport struct {
	FormType string                    `json:"form_type"`
	Records  map[string][]RecordExport `json:"records"`
}
