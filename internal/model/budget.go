// Package model defines domain types for budget allocation records.
package model

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Canonical column names of the budget dataset.
const (
	FieldMinistry = "Ministry"
	FieldDemand   = "Demand"
	FieldTotal    = "Budget_2023_Total"
	FieldRevenue  = "Budget_2023_Revenue"
	FieldCapital  = "Budget_2023_Capital"
	FieldCategory = "Budget_Category"
)

// RequiredColumns lists the columns every budget file is expected to carry.
var RequiredColumns = []string{
	FieldMinistry,
	FieldDemand,
	FieldTotal,
	FieldRevenue,
	FieldCapital,
	FieldCategory,
}

// Category is the precomputed allocation bucket of a record.
type Category string

// Known categories. The zero value means the file had no category column.
const (
	CategoryNone   Category = ""
	CategoryLow    Category = "Low"
	CategoryMedium Category = "Medium"
	CategoryHigh   Category = "High"
)

// Categories is the fixed selector order.
var Categories = []Category{CategoryLow, CategoryMedium, CategoryHigh}

// ParseCategory matches s against the known categories, ignoring case and
// surrounding whitespace.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) {
			return c, true
		}
	}
	return CategoryNone, false
}

// Next returns the category after c in selector order, wrapping around.
func (c Category) Next() Category {
	for i, cat := range Categories {
		if cat == c {
			return Categories[(i+1)%len(Categories)]
		}
	}
	return Categories[0]
}

// Prev returns the category before c in selector order, wrapping around.
func (c Category) Prev() Category {
	for i, cat := range Categories {
		if cat == c {
			return Categories[(i-1+len(Categories))%len(Categories)]
		}
	}
	return Categories[len(Categories)-1]
}

// BudgetRecord is one (Ministry, Demand) allocation row.
type BudgetRecord struct {
	Row      int // 0-based position among accepted data rows
	Ministry string
	Demand   string
	Total    decimal.Decimal
	Revenue  decimal.Decimal
	Capital  decimal.Decimal
	Category Category

	numeric map[string]decimal.Decimal
	text    map[string]string
}

// NewBudgetRecord builds a record. The extra maps hold columns beyond the
// required ones and are copied so the caller cannot mutate the record later.
func NewBudgetRecord(row int, ministry, demand string, total, revenue, capital decimal.Decimal,
	category Category, numeric map[string]decimal.Decimal, text map[string]string) BudgetRecord {
	r := BudgetRecord{
		Row:      row,
		Ministry: ministry,
		Demand:   demand,
		Total:    total,
		Revenue:  revenue,
		Capital:  capital,
		Category: category,
	}
	if len(numeric) > 0 {
		r.numeric = make(map[string]decimal.Decimal, len(numeric))
		for k, v := range numeric {
			r.numeric[k] = v
		}
	}
	if len(text) > 0 {
		r.text = make(map[string]string, len(text))
		for k, v := range text {
			r.text[k] = v
		}
	}
	return r
}

// Value returns the numeric value stored under field.
func (r BudgetRecord) Value(field string) (decimal.Decimal, bool) {
	switch field {
	case FieldTotal:
		return r.Total, true
	case FieldRevenue:
		return r.Revenue, true
	case FieldCapital:
		return r.Capital, true
	}
	v, ok := r.numeric[field]
	return v, ok
}

// Text returns the display string for any column of the record.
func (r BudgetRecord) Text(field string) string {
	switch field {
	case FieldMinistry:
		return r.Ministry
	case FieldDemand:
		return r.Demand
	case FieldCategory:
		return string(r.Category)
	}
	if v, ok := r.Value(field); ok {
		return v.String()
	}
	return r.text[field]
}

// Extras returns copies of the columns beyond the required ones.
func (r BudgetRecord) Extras() (map[string]decimal.Decimal, map[string]string) {
	numeric := make(map[string]decimal.Decimal, len(r.numeric))
	for k, v := range r.numeric {
		numeric[k] = v
	}
	text := make(map[string]string, len(r.text))
	for k, v := range r.text {
		text[k] = v
	}
	return numeric, text
}

// RowKey holds the data-row index in a record's JSON object. An extra column
// with the same name is left out of the object.
const RowKey = "_row"

// MarshalJSON flattens the record into one object keyed by column name.
func (r BudgetRecord) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, 7+len(r.numeric)+len(r.text))
	m[FieldMinistry] = r.Ministry
	m[FieldDemand] = r.Demand
	m[FieldTotal] = r.Total
	m[FieldRevenue] = r.Revenue
	m[FieldCapital] = r.Capital
	if r.Category != CategoryNone {
		m[FieldCategory] = r.Category
	}
	for k, v := range r.numeric {
		m[k] = v
	}
	for k, v := range r.text {
		m[k] = v
	}
	m[RowKey] = r.Row
	return json.Marshal(m)
}
