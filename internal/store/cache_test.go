package store

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/theirongolddev/budgetdash/internal/model"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func sampleDataset() *model.Dataset {
	records := []model.BudgetRecord{
		model.NewBudgetRecord(0, "MinistryA", "D1",
			decimal.RequireFromString("100.25"), decimal.RequireFromString("60"), decimal.RequireFromString("40.25"),
			model.CategoryLow,
			map[string]decimal.Decimal{"Budget_2022_Total": decimal.RequireFromString("90.5")},
			map[string]string{"Code": "AG"}),
		model.NewBudgetRecord(1, "MinistryB", "D2",
			decimal.NewFromInt(900), decimal.NewFromInt(500), decimal.NewFromInt(400),
			model.CategoryHigh, nil, nil),
	}
	schema := model.Schema{
		Columns:        append(append([]string{}, model.RequiredColumns...), "Budget_2022_Total", "Code"),
		NumericColumns: []string{model.FieldTotal, model.FieldRevenue, model.FieldCapital, "Budget_2022_Total"},
	}
	issues := []model.Issue{{Line: 4, Message: "empty Ministry"}}
	return model.NewDataset("/data/budget.csv", records, schema, issues)
}

func TestCache_RoundTrip(t *testing.T) {
	c := openTestCache(t)
	ds := sampleDataset()

	if err := c.SaveDataset(ds, 111, 222); err != nil {
		t.Fatalf("SaveDataset: %v", err)
	}

	fi, ok, err := c.Tracked(ds.Source())
	if err != nil || !ok {
		t.Fatalf("Tracked = %v, %v", ok, err)
	}
	if fi.MtimeNs != 111 || fi.SizeBytes != 222 {
		t.Errorf("FileInfo = %+v, want {111 222}", fi)
	}

	got, err := c.LoadDataset(ds.Source())
	if err != nil {
		t.Fatalf("LoadDataset: %v", err)
	}
	if got.Len() != 2 {
		t.Fatalf("Len = %d, want 2", got.Len())
	}

	a := got.At(0)
	if !a.Total.Equal(decimal.RequireFromString("100.25")) || a.Category != model.CategoryLow {
		t.Errorf("record 0 = %+v", a)
	}
	if v, ok := a.Value("Budget_2022_Total"); !ok || !v.Equal(decimal.RequireFromString("90.5")) {
		t.Errorf("extra numeric = %s (ok=%v), want 90.5", v, ok)
	}
	if a.Text("Code") != "AG" {
		t.Errorf("extra text = %q, want AG", a.Text("Code"))
	}
	if got.At(1).Ministry != "MinistryB" {
		t.Errorf("record order not preserved: %q", got.At(1).Ministry)
	}
	if len(got.NumericColumns()) != 4 || len(got.Issues()) != 1 {
		t.Errorf("schema/issues lost: numeric=%v issues=%v", got.NumericColumns(), got.Issues())
	}
}

func TestCache_SaveReplaces(t *testing.T) {
	c := openTestCache(t)
	ds := sampleDataset()

	for i := 0; i < 2; i++ {
		if err := c.SaveDataset(ds, int64(i), 1); err != nil {
			t.Fatalf("SaveDataset #%d: %v", i, err)
		}
	}

	n, err := c.DatasetCount()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("DatasetCount = %d, want 1", n)
	}
	got, err := c.LoadDataset(ds.Source())
	if err != nil {
		t.Fatal(err)
	}
	if got.Len() != 2 || len(got.Issues()) != 1 {
		t.Errorf("after resave: len=%d issues=%d, want 2 and 1", got.Len(), len(got.Issues()))
	}

	if err := c.DeleteDataset(ds.Source()); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := c.Tracked(ds.Source()); ok {
		t.Error("dataset still tracked after delete")
	}
}
