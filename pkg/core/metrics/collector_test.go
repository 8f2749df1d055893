package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sec_extractor/pkg/core/companies"
	"sec_extractor/pkg/core/etl"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorObserve(t *testing.T) {
	c := NewCollector()
	c.Observe(&etl.Stats{
		SubmissionRows:   3,
		FactRows:         10,
		RecordsAdded:     6,
		FilteredRows:     1,
		SkippedUnclaimed: 4,
		Duration:         250 * time.Millisecond,
	})
	c.Observe(&etl.Stats{FactRows: 2, SkippedUnclaimed: 2})

	if got := testutil.ToFloat64(c.rowsSkipped.WithLabelValues("unclaimed")); got != 6 {
		t.Errorf("expected 6 unclaimed skips, got %v", got)
	}
	if got := testutil.ToFloat64(c.rowsRead.WithLabelValues("facts")); got != 12 {
		t.Errorf("expected 12 fact rows, got %v", got)
	}
	if got := testutil.ToFloat64(c.loads); got != 2 {
		t.Errorf("expected 2 loads, got %v", got)
	}
}

func TestCollectorHandler(t *testing.T) {
	c := NewCollector()
	db := companies.NewDB()
	db.Register("ACME INC", "F1", "10-K")
	db.Register("ACME INC", "F2", "10-Q")
	c.SetIndexSize(db)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	if !strings.Contains(body, "sec_extractor_filings 2") {
		t.Errorf("expected filings gauge in output, got:\n%s", body)
	}
	if !strings.Contains(body, "sec_extractor_companies 1") {
		t.Errorf("expected companies gauge in output, got:\n%s", body)
	}
}
