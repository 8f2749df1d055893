package config

import (
	"encoding/json"
	"net/http"

	"sec_extractor/pkg/core/config"
)

// Response is the public view of the extractor settings. Connection strings
// are left out.
type Response struct {
	DataDir        string   `json:"data_dir"`
	Companies      []string `json:"companies"`
	UnknownFilings string   `json:"unknown_filings"`
	Forms          []string `json:"forms"`
	Facts          []string `json:"facts"`
}

// Handler holds dependencies for config endpoints
type Handler struct {
	Config *config.Config
}

// NewHandler creates a new config handler
func NewHandler(cfg *config.Config) *Handler {
	return &Handler{
		Config: cfg,
	}
}

func (h *Handler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	// Add CORS headers for local dev
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	in := h.Config.CompanyInterest()
	companies := h.Config.Companies
	if companies == nil {
		companies = []string{}
	}
	resp := Response{
		DataDir:        h.Config.DataDir,
		Companies:      companies,
		UnknownFilings: h.Config.UnknownFilings,
		Forms:          in.Forms.Names(),
		Facts:          in.Facts.Names(),
	}
	json.NewEncoder(w).Encode(resp)
}
