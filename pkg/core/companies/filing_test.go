package companies

import (
	"reflect"
	"testing"
)

func TestFilingAddRecord_KeepsInputOrderWithoutDedup(t *testing.T) {
	f := NewFiling("10-K", NewNameSet("Assets"))
	f.AddRecord("Assets", "100", "20200101", 4)
	f.AddRecord("Assets", "100", "20200101", 4)
	f.AddRecord("Assets", "90", "20190101", 4)

	recs := f.Records("Assets")
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}
	if recs[2].Value != "90" || recs[2].Date != "20190101" {
		t.Errorf("expected last record to be the 2019 value, got %+v", recs[2])
	}
	if f.Len() != 3 {
		t.Errorf("expected Len 3, got %d", f.Len())
	}
}

func TestFilingExport_FiltersFactTypes(t *testing.T) {
	f := NewFiling("10-Q", NewNameSet("Assets", "GrossProfit"))
	f.AddRecord("Assets", "1000", "20200101", 0)
	f.AddRecord("Revenues", "500", "20200101", 1)
	f.AddRecord("GrossProfit", "200", "20200101", 1)

	exp := f.Export()
	if exp.FormType != "10-Q" {
		t.Errorf("expected form 10-Q, got %s", exp.FormType)
	}
	if _, ok := exp.Records["Revenues"]; ok {
		t.Error("Revenues is outside the interest set and should not be exported")
	}
	if len(exp.Records) != 2 {
		t.Errorf("expected 2 exported fact types, got %d", len(exp.Records))
	}
	// still stored
	if len(f.Records("Revenues")) != 1 {
		t.Error("filtered fact type should still be stored")
	}
	want := RecordExport{Quarters: 1, Date: "20200101", Value: "200"}
	if got := exp.Records["GrossProfit"][0]; got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestFilingExport_OrdersByDate(t *testing.T) {
	f := NewFiling("10-K", NewNameSet("Assets"))
	f.AddRecord("Assets", "2", "20210101", 0)
	f.AddRecord("Assets", "1", "20200101", 0)
	f.AddRecord("Assets", "3", "20210101", 4)
	f.AddRecord("Assets", "0", "20191231", 4)

	got := f.Export().Records["Assets"]
	want := []RecordExport{
		{Quarters: 4, Date: "20191231", Value: "0"},
		{Quarters: 0, Date: "20200101", Value: "1"},
		{Quarters: 0, Date: "20210101", Value: "2"},
		{Quarters: 4, Date: "20210101", Value: "3"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %+v, got %+v", want, got)
	}
	// storage keeps input order
	if recs := f.Records("Assets"); recs[0].Date != "20210101" || recs[1].Date != "20200101" {
		t.Errorf("expected stored bucket in input order, got %+v", recs)
	}
}

func TestFilingRecords_ReturnsCopy(t *testing.T) {
	f := NewFiling("10-K", NewNameSet("Assets"))
	f.AddRecord("Assets", "1", "20200101", 4)

	recs := f.Records("Assets")
	recs[0].Value = "changed"
	if f.Records("Assets")[0].Value != "1" {
		t.Error("mutating the returned slice should not change the filing")
	}
}

func TestFilingFactTypes(t *testing.T) {
	f := NewFiling("10-K", NewNameSet())
	f.AddRecord("NetIncomeLoss", "1", "20200101", 4)
	f.AddRecord("Assets", "1", "20200101", 0)

	got := f.FactTypes()
	if len(got) != 2 || got[0] != "Assets" || got[1] != "NetIncomeLoss" {
		t.Errorf("expected [Assets NetIncomeLoss], got %v", got)
	}
}
