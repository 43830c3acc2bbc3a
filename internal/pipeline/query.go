// Package pipeline loads budget datasets and answers the queries behind
// every dashboard view.
package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/theirongolddev/budgetdash/internal/model"
)

// InvalidFieldError reports a query against a field that is not a declared
// numeric column of the dataset.
type InvalidFieldError struct {
	Field string
	Valid []string
}

func (e *InvalidFieldError) Error() string {
	if len(e.Valid) == 0 {
		return fmt.Sprintf("invalid field %q: dataset has no numeric columns", e.Field)
	}
	return fmt.Sprintf("invalid field %q (numeric columns: %s)", e.Field, strings.Join(e.Valid, ", "))
}

// MissingColumnError names required columns the loaded file did not carry.
type MissingColumnError struct {
	Columns []string
}

func (e *MissingColumnError) Error() string {
	return "missing column(s): " + strings.Join(e.Columns, ", ")
}

// OverviewResult is the content of the Overview view.
type OverviewResult struct {
	Dataset       *model.Dataset
	MinistryCount int
	TotalBudget   decimal.Decimal
}

// Overview counts distinct ministries and sums Budget_2023_Total.
func Overview(ds *model.Dataset) OverviewResult {
	seen := make(map[string]struct{})
	total := decimal.Zero
	for i := 0; i < ds.Len(); i++ {
		r := ds.At(i)
		seen[r.Ministry] = struct{}{}
		total = total.Add(r.Total)
	}
	return OverviewResult{
		Dataset:       ds,
		MinistryCount: len(seen),
		TotalBudget:   total,
	}
}

// TopN returns the n records with the largest (descending) or smallest
// values of field. Ties keep their original row order. n <= 0 yields an
// empty slice and n >= ds.Len() the whole dataset sorted.
func TopN(ds *model.Dataset, field string, n int, descending bool) ([]model.BudgetRecord, error) {
	if err := checkNumeric(ds, field); err != nil {
		return nil, err
	}
	if n <= 0 {
		return []model.BudgetRecord{}, nil
	}

	records := ds.Records()
	sort.SliceStable(records, func(i, j int) bool {
		a, _ := records[i].Value(field)
		b, _ := records[j].Value(field)
		if descending {
			return a.GreaterThan(b)
		}
		return a.LessThan(b)
	})

	if n > len(records) {
		n = len(records)
	}
	return records[:n], nil
}

// AggregateSum totals field over every record.
func AggregateSum(ds *model.Dataset, field string) (decimal.Decimal, error) {
	if err := checkNumeric(ds, field); err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for i := 0; i < ds.Len(); i++ {
		v, _ := ds.At(i).Value(field)
		sum = sum.Add(v)
	}
	return sum, nil
}

// FilterByCategory returns the records of category c in original order.
func FilterByCategory(ds *model.Dataset, c model.Category) []model.BudgetRecord {
	out := []model.BudgetRecord{}
	for i := 0; i < ds.Len(); i++ {
		if r := ds.At(i); r.Category == c {
			out = append(out, r)
		}
	}
	return out
}

// NumericColumns lists the fields usable as scatter axes, in file order.
func NumericColumns(ds *model.Dataset) []string {
	return ds.NumericColumns()
}

// ProjectPair maps each record to an (x, y) point tagged with its category.
func ProjectPair(ds *model.Dataset, x, y string) ([]model.Point, error) {
	if err := checkNumeric(ds, x); err != nil {
		return nil, err
	}
	if err := checkNumeric(ds, y); err != nil {
		return nil, err
	}

	points := make([]model.Point, 0, ds.Len())
	for i := 0; i < ds.Len(); i++ {
		r := ds.At(i)
		xv, _ := r.Value(x)
		yv, _ := r.Value(y)
		points = append(points, model.Point{
			X:        xv,
			Y:        yv,
			Category: r.Category,
			Ministry: r.Ministry,
			Demand:   r.Demand,
		})
	}
	return points, nil
}

// MinistryTotals sums total, revenue and capital per ministry, in order of
// first appearance.
func MinistryTotals(ds *model.Dataset) []model.MinistryTotal {
	idx := make(map[string]int)
	var out []model.MinistryTotal
	for i := 0; i < ds.Len(); i++ {
		r := ds.At(i)
		j, ok := idx[r.Ministry]
		if !ok {
			j = len(out)
			idx[r.Ministry] = j
			out = append(out, model.MinistryTotal{Ministry: r.Ministry})
		}
		mt := &out[j]
		mt.Demands++
		mt.Total = mt.Total.Add(r.Total)
		mt.Revenue = mt.Revenue.Add(r.Revenue)
		mt.Capital = mt.Capital.Add(r.Capital)
	}
	return out
}

// Hierarchy groups demands under their ministry. Both levels are ordered by
// descending total; ties keep first appearance.
func Hierarchy(ds *model.Dataset) []model.MinistryNode {
	idx := make(map[string]int)
	var nodes []model.MinistryNode
	for i := 0; i < ds.Len(); i++ {
		r := ds.At(i)
		j, ok := idx[r.Ministry]
		if !ok {
			j = len(nodes)
			idx[r.Ministry] = j
			nodes = append(nodes, model.MinistryNode{Ministry: r.Ministry})
		}
		n := &nodes[j]
		n.Total = n.Total.Add(r.Total)
		n.Demands = append(n.Demands, model.DemandNode{Demand: r.Demand, Total: r.Total})
	}

	for i := range nodes {
		d := nodes[i].Demands
		sort.SliceStable(d, func(a, b int) bool { return d[a].Total.GreaterThan(d[b].Total) })
	}
	sort.SliceStable(nodes, func(a, b int) bool { return nodes[a].Total.GreaterThan(nodes[b].Total) })
	return nodes
}

// RequireColumns returns a *MissingColumnError if the file lacked any of cols.
func RequireColumns(ds *model.Dataset, cols ...string) error {
	var missing []string
	for _, c := range cols {
		if !ds.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &MissingColumnError{Columns: missing}
	}
	return nil
}

func checkNumeric(ds *model.Dataset, field string) error {
	if !ds.IsNumeric(field) {
		return &InvalidFieldError{Field: field, Valid: ds.NumericColumns()}
	}
	return nil
}
