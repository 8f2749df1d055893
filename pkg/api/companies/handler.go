// Package companies provides HTTP handlers for querying the loaded index.
package companies

import (
	"encoding/json"
	"errors"
	"net/http"

	core "sec_extractor/pkg/core/companies"
)

// Summary is one row of the company list
type Summary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Filings int    `json:"filings"`
}

// CompanyResponse is a company with its exported filings
type CompanyResponse struct {
	ID      string              `json:"id"`
	Name    string              `json:"name"`
	Filings []core.FilingExport `json:"filings"`
}

// FilingResponse is one filing and the company that owns it
type FilingResponse struct {
	FilingID    string            `json:"filing_id"`
	CompanyID   string            `json:"company_id"`
	CompanyName string            `json:"company_name"`
	Filing      core.FilingExport `json:"filing"`
}

// Handler serves read-only queries. The DB must be fully loaded before the
// handler is registered.
type Handler struct {
	DB *core.DB
}

// NewHandler creates a new companies handler
func NewHandler(db *core.DB) *Handler {
	return &Handler{DB: db}
}

// Register mounts the endpoints on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/companies", h.HandleList)
	mux.HandleFunc("/api/companies/lookup", h.HandleCompany)
	mux.HandleFunc("/api/filings/lookup", h.HandleFiling)
}

// HandleList handles GET /api/companies
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	if !preflight(w, r) {
		return
	}
	list := make([]Summary, 0, h.DB.Len())
	for c := range h.DB.All() {
		list = append(list, Summary{ID: c.ID(), Name: c.Name(), Filings: len(c.FilingIDs())})
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleCompany handles GET /api/companies/lookup?name=... or ?id=...
func (h *Handler) HandleCompany(w http.ResponseWriter, r *http.Request) {
	if !preflight(w, r) {
		return
	}

	var (
		c   *core.Company
		err error
	)
	q := r.URL.Query()
	switch {
	case q.Get("id") != "":
		c, err = h.DB.LookupByID(q.Get("id"))
	case q.Get("name") != "":
		c, err = h.DB.LookupByName(q.Get("name"))
	default:
		http.Error(w, "name or id is required", http.StatusBadRequest)
		return
	}
	if err != nil {
		writeLookupError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, CompanyResponse{
		ID:      c.ID(),
		Name:    c.Name(),
		Filings: c.Export(),
	})
}

// HandleFiling handles GET /api/filings/lookup?id=...
func (h *Handler) HandleFiling(w http.ResponseWriter, r *http.Request) {
	if !preflight(w, r) {
		return
	}

	filingID := r.URL.Query().Get("id")
	if filingID == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}
	c, err := h.DB.LookupByFiling(filingID)
	if err != nil {
		writeLookupError(w, err)
		return
	}
	f, ok := c.Filing(filingID)
	if !ok {
		http.Error(w, "filing not registered on its owner", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, FilingResponse{
		FilingID:    filingID,
		CompanyID:   c.ID(),
		CompanyName: c.Name(),
		Filing:      f.Export(),
	})
}

// preflight sets CORS headers and rejects anything but GET.
func preflight(w http.ResponseWriter, r *http.Request) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return false
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func writeLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, core.ErrNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
