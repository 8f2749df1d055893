package companies

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	core "sec_extractor/pkg/core/companies"
)

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()
	db := core.NewDB()
	db.Register("ACME INC", "F1", "10-K")
	db.Register("ACME INC", "F2", "8-K")
	db.Register("OKTA, INC.", "O1", "10-Q")
	acme, _ := db.LookupByName("ACME INC")
	if err := acme.AddRecord("F1", "Assets", "1000", "20200101", 4); err != nil {
		t.Fatal(err)
	}

	mux := http.NewServeMux()
	NewHandler(db).Register(mux)
	return mux
}

func get(mux *http.ServeMux, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandleList(t *testing.T) {
	rec := get(newTestMux(t), "/api/companies")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var list []Summary
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].Name != "ACME INC" || list[0].Filings != 2 {
		t.Errorf("unexpected list %+v", list)
	}
}

func TestHandleCompany(t *testing.T) {
	mux := newTestMux(t)

	tests := []struct {
		name   string
		target string
		status int
	}{
		{"by name", "/api/companies/lookup?name=" + url.QueryEscape("ACME INC"), http.StatusOK},
		{"by id", "/api/companies/lookup?id=" + core.DeriveID("ACME INC"), http.StatusOK},
		{"unknown", "/api/companies/lookup?name=" + url.QueryEscape("NOT REGISTERED"), http.StatusNotFound},
		{"missing query", "/api/companies/lookup", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(mux, tt.target)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d (%s)", tt.status, rec.Code, rec.Body.String())
			}
			if tt.status != http.StatusOK {
				return
			}
			var resp CompanyResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatal(err)
			}
			if len(resp.Filings) != 1 || resp.Filings[0].FormType != "10-K" {
				t.Errorf("expected only the 10-K, got %+v", resp.Filings)
			}
			if got := resp.Filings[0].Records["Assets"]; len(got) != 1 || got[0].Value != "1000" {
				t.Errorf("unexpected Assets records %+v", got)
			}
		})
	}
}

func TestHandleFiling(t *testing.T) {
	mux := newTestMux(t)

	rec := get(mux, "/api/filings/lookup?id=O1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp FilingResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.CompanyName != "OKTA, INC." || resp.Filing.FormType != "10-Q" {
		t.Errorf("unexpected response %+v", resp)
	}

	if rec := get(mux, "/api/filings/lookup?id=F9"); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unclaimed filing, got %d", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestMux(t).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/companies", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}
