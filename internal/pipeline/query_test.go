package pipeline

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/theirongolddev/budgetdash/internal/model"
	"github.com/theirongolddev/budgetdash/internal/source"
)

const header = "Ministry,Demand,Budget_2023_Total,Budget_2023_Revenue,Budget_2023_Capital,Budget_Category"

func mustParse(t *testing.T, lines ...string) *model.Dataset {
	t.Helper()
	ds, err := source.Parse(strings.NewReader(strings.Join(lines, "\n")+"\n"), "test.csv")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return ds
}

func twoRecords(t *testing.T) *model.Dataset {
	return mustParse(t, header,
		"MinistryA,Demand1,100,60,40,Low",
		"MinistryB,Demand1,900,500,400,High",
	)
}

func sampleDataset(t *testing.T) *model.Dataset {
	return mustParse(t, header+",Budget_2022_Total",
		"Agriculture,Crop Insurance,300,250,50,Medium,280",
		"Defence,Army,900,600,300,High,850",
		"Agriculture,Research,120,100,20,Low,110",
		"Health,Hospitals,300,200,100,Medium,290",
		"Defence,Navy,500,200,300,High,450",
		"Culture,Museums,10,10,0,Low,12",
		"Health,Vaccines,80,70,10,Low,60",
	)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestEndToEndExample(t *testing.T) {
	ds := twoRecords(t)

	ov := Overview(ds)
	if ov.MinistryCount != 2 || !ov.TotalBudget.Equal(dec("1000")) {
		t.Errorf("Overview = (%d, %s), want (2, 1000)", ov.MinistryCount, ov.TotalBudget)
	}

	top, err := TopN(ds, model.FieldTotal, 1, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 1 || top[0].Ministry != "MinistryB" {
		t.Errorf("TopN(1) = %v, want [MinistryB]", top)
	}

	low := FilterByCategory(ds, model.CategoryLow)
	if len(low) != 1 || low[0].Ministry != "MinistryA" {
		t.Errorf("FilterByCategory(Low) = %v, want [MinistryA]", low)
	}

	rev, err := AggregateSum(ds, model.FieldRevenue)
	if err != nil {
		t.Fatal(err)
	}
	if !rev.Equal(dec("560")) {
		t.Errorf("AggregateSum(revenue) = %s, want 560", rev)
	}
}

func TestOverview_CountsDistinctMinistries(t *testing.T) {
	ov := Overview(sampleDataset(t))
	if ov.MinistryCount != 4 {
		t.Errorf("MinistryCount = %d, want 4", ov.MinistryCount)
	}
	if !ov.TotalBudget.Equal(dec("2210")) {
		t.Errorf("TotalBudget = %s, want 2210", ov.TotalBudget)
	}
}

func TestOverview_Empty(t *testing.T) {
	ov := Overview(mustParse(t, header))
	if ov.MinistryCount != 0 || !ov.TotalBudget.IsZero() {
		t.Errorf("Overview(empty) = (%d, %s), want (0, 0)", ov.MinistryCount, ov.TotalBudget)
	}
	sum, err := AggregateSum(mustParse(t, header), model.FieldCapital)
	if err != nil || !sum.IsZero() {
		t.Errorf("AggregateSum(empty) = %s, %v; want 0, nil", sum, err)
	}
}

func TestTopN_SortedAndStable(t *testing.T) {
	ds := sampleDataset(t)

	top, err := TopN(ds, model.FieldTotal, 5, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 5 {
		t.Fatalf("len = %d, want 5", len(top))
	}
	for i := 1; i < len(top); i++ {
		if top[i].Total.GreaterThan(top[i-1].Total) {
			t.Errorf("not non-increasing at %d: %s > %s", i, top[i].Total, top[i-1].Total)
		}
	}
	// Crop Insurance and Hospitals tie at 300; file order wins.
	if top[2].Demand != "Crop Insurance" || top[3].Demand != "Hospitals" {
		t.Errorf("tie order = %s, %s; want Crop Insurance, Hospitals", top[2].Demand, top[3].Demand)
	}

	least, err := TopN(ds, model.FieldTotal, 2, false)
	if err != nil {
		t.Fatal(err)
	}
	if least[0].Demand != "Museums" || least[1].Demand != "Vaccines" {
		t.Errorf("least = %s, %s; want Museums, Vaccines", least[0].Demand, least[1].Demand)
	}
}

func TestTopN_Bounds(t *testing.T) {
	ds := twoRecords(t)

	all, err := TopN(ds, model.FieldTotal, 5, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("len = %d, want min(5, 2) = 2", len(all))
	}

	none, err := TopN(ds, model.FieldTotal, 0, true)
	if err != nil {
		t.Fatal(err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("TopN(0) = %v, want empty non-nil slice", none)
	}
}

func TestInvalidField(t *testing.T) {
	ds := mustParse(t, header+",Notes", "MinistryA,D1,1,1,0,Low,n/a")

	checks := map[string]error{}
	_, checks["TopN"] = TopN(ds, "Nope", 3, true)
	_, checks["AggregateSum"] = AggregateSum(ds, "Notes")
	_, checks["ProjectPair"] = ProjectPair(ds, model.FieldTotal, model.FieldMinistry)

	for name, err := range checks {
		var ife *InvalidFieldError
		if !errors.As(err, &ife) {
			t.Errorf("%s: err = %v, want *InvalidFieldError", name, err)
			continue
		}
		if len(ife.Valid) != 3 {
			t.Errorf("%s: Valid = %v, want the three budget columns", name, ife.Valid)
		}
	}
}

func TestFilterByCategory_PartitionsDataset(t *testing.T) {
	ds := sampleDataset(t)

	seen := make(map[int]bool)
	for _, c := range model.Categories {
		prev := -1
		for _, r := range FilterByCategory(ds, c) {
			if r.Category != c {
				t.Errorf("%s filter returned %s record", c, r.Category)
			}
			if r.Row <= prev {
				t.Errorf("%s filter out of order at row %d", c, r.Row)
			}
			prev = r.Row
			if seen[r.Row] {
				t.Errorf("row %d returned twice", r.Row)
			}
			seen[r.Row] = true
		}
	}
	if len(seen) != ds.Len() {
		t.Errorf("union = %d records, want %d", len(seen), ds.Len())
	}

	empty := FilterByCategory(twoRecords(t), model.CategoryMedium)
	if empty == nil || len(empty) != 0 {
		t.Errorf("no match = %v, want empty non-nil slice", empty)
	}
}

func TestProjectPair(t *testing.T) {
	ds := sampleDataset(t)

	pts, err := ProjectPair(ds, model.FieldRevenue, "Budget_2022_Total")
	if err != nil {
		t.Fatal(err)
	}
	if len(pts) != ds.Len() {
		t.Fatalf("len = %d, want %d", len(pts), ds.Len())
	}
	for i, p := range pts {
		r := ds.At(i)
		y, _ := r.Value("Budget_2022_Total")
		if !p.X.Equal(r.Revenue) || !p.Y.Equal(y) || p.Category != r.Category {
			t.Errorf("point %d = %+v, want record %+v", i, p, r)
		}
	}
}

func TestNumericColumns_Stable(t *testing.T) {
	ds := sampleDataset(t)
	want := []string{model.FieldTotal, model.FieldRevenue, model.FieldCapital, "Budget_2022_Total"}

	first := NumericColumns(ds)
	if !reflect.DeepEqual(first, want) {
		t.Errorf("NumericColumns = %v, want %v", first, want)
	}
	first[0] = "mutated"
	if !reflect.DeepEqual(NumericColumns(ds), want) {
		t.Error("NumericColumns shares storage with the dataset")
	}
}

func TestQueriesAreIdempotent(t *testing.T) {
	ds := sampleDataset(t)

	a, _ := TopN(ds, model.FieldTotal, 5, true)
	b, _ := TopN(ds, model.FieldTotal, 5, true)
	if !reflect.DeepEqual(a, b) {
		t.Error("TopN differs between runs")
	}
	if !reflect.DeepEqual(Hierarchy(ds), Hierarchy(ds)) {
		t.Error("Hierarchy differs between runs")
	}
	if ds.At(0).Demand != "Crop Insurance" {
		t.Error("TopN reordered the dataset")
	}
}

func TestMinistryTotals(t *testing.T) {
	totals := MinistryTotals(sampleDataset(t))
	if len(totals) != 4 {
		t.Fatalf("len = %d, want 4", len(totals))
	}
	d := totals[1]
	if d.Ministry != "Defence" || d.Demands != 2 || !d.Total.Equal(dec("1400")) ||
		!d.Revenue.Equal(dec("800")) || !d.Capital.Equal(dec("600")) {
		t.Errorf("Defence = %+v", d)
	}
}

func TestHierarchy_Ordering(t *testing.T) {
	h := Hierarchy(sampleDataset(t))
	var names []string
	for _, n := range h {
		names = append(names, n.Ministry)
	}
	want := []string{"Defence", "Agriculture", "Health", "Culture"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("order = %v, want %v", names, want)
	}
	if h[0].Demands[0].Demand != "Army" || h[0].Demands[1].Demand != "Navy" {
		t.Errorf("Defence demands = %+v", h[0].Demands)
	}
}

func TestRequireColumns(t *testing.T) {
	ds := mustParse(t, "Ministry,Demand,Budget_2023_Total", "A,D,1")

	if err := RequireColumns(ds, model.FieldMinistry, model.FieldTotal); err != nil {
		t.Errorf("present columns: %v", err)
	}
	err := RequireColumns(ds, model.FieldRevenue, model.FieldTotal, model.FieldCapital)
	var mce *MissingColumnError
	if !errors.As(err, &mce) {
		t.Fatalf("err = %v, want *MissingColumnError", err)
	}
	if !reflect.DeepEqual(mce.Columns, []string{model.FieldRevenue, model.FieldCapital}) {
		t.Errorf("Columns = %v", mce.Columns)
	}
}
