package model

import "slices"

// Issue describes a data row that was rejected during load.
type Issue struct {
	Line    int    `json:"line"` // 1-based line in the source file
	Message string `json:"message"`
}

// Schema is the load-time description of a budget file.
type Schema struct {
	Columns        []string // every header column, file order
	NumericColumns []string // columns whose values are all numeric, file order
	Missing        []string // required columns absent from the header
}

// Dataset is an immutable, ordered set of budget records. It is built once
// at load time and shared read-only by every view.
type Dataset struct {
	source  string
	records []BudgetRecord
	schema  Schema
	issues  []Issue
}

// NewDataset takes ownership of the given slices.
func NewDataset(source string, records []BudgetRecord, schema Schema, issues []Issue) *Dataset {
	if records == nil {
		records = []BudgetRecord{}
	}
	return &Dataset{
		source:  source,
		records: records,
		schema:  schema,
		issues:  issues,
	}
}

// Source is the path the dataset was loaded from.
func (d *Dataset) Source() string { return d.source }

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// At returns the i-th record in original order.
func (d *Dataset) At(i int) BudgetRecord { return d.records[i] }

// Records returns a copy of all records in original order.
func (d *Dataset) Records() []BudgetRecord {
	return slices.Clone(d.records)
}

// Columns returns the header columns in file order.
func (d *Dataset) Columns() []string { return slices.Clone(d.schema.Columns) }

// NumericColumns returns the declared numeric columns in file order.
func (d *Dataset) NumericColumns() []string { return slices.Clone(d.schema.NumericColumns) }

// MissingColumns returns required columns the file did not provide.
func (d *Dataset) MissingColumns() []string { return slices.Clone(d.schema.Missing) }

// Issues returns the rows rejected while loading.
func (d *Dataset) Issues() []Issue { return slices.Clone(d.issues) }

// HasColumn reports whether the file carried the named column.
func (d *Dataset) HasColumn(name string) bool {
	return slices.Contains(d.schema.Columns, name)
}

// IsNumeric reports whether name is a declared numeric column.
func (d *Dataset) IsNumeric(name string) bool {
	return slices.Contains(d.schema.NumericColumns, name)
}
