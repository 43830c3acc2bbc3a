// Package source locates and parses budget allocation CSV files.
package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/theirongolddev/budgetdash/internal/model"
)

// Fatal parse errors. Anything else wrong with the data is reported as a
// row issue or a missing column on the Dataset instead.
var (
	ErrEmptyFile        = errors.New("file has no header row")
	ErrNoMinistryColumn = errors.New("header has no Ministry column")
)

// ParseFile reads the CSV at df.Path into a Dataset.
func ParseFile(df DiscoveredFile) ParseResult {
	f, err := os.Open(df.Path)
	if err != nil {
		return ParseResult{Err: err}
	}
	defer func() { _ = f.Close() }()

	ds, err := Parse(f, df.Path)
	return ParseResult{Dataset: ds, Err: err}
}

type column struct {
	name    string
	numeric bool
}

// Parse validates the header, classifies the extra columns and converts
// every acceptable row into a BudgetRecord.
//
// Required budget columns are always numeric. Extra columns are numeric when
// every non-empty cell parses as a decimal. Rows with an empty ministry, a
// negative or malformed budget amount, or an unknown category are skipped
// and recorded as issues.
func Parse(r io.Reader, sourceName string) (*model.Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols, err := canonicalHeader(header)
	if err != nil {
		return nil, err
	}

	type rawRow struct {
		line  int
		cells []string
	}
	var rows []rawRow
	for {
		cells, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading rows: %w", err)
		}
		line, _ := reader.FieldPos(0)
		if isBlankRow(cells) {
			continue
		}
		rows = append(rows, rawRow{line: line, cells: cells})
	}

	// Classify extra columns from every row before building records so the
	// numeric column list is stable regardless of which rows get rejected.
	for i := range cols {
		switch cols[i].name {
		case model.FieldTotal, model.FieldRevenue, model.FieldCapital:
			cols[i].numeric = true
		case model.FieldMinistry, model.FieldDemand, model.FieldCategory:
			cols[i].numeric = false
		default:
			cols[i].numeric = true
			for _, row := range rows {
				if _, ok := parseAmount(cell(row.cells, i)); !ok {
					cols[i].numeric = false
					break
				}
			}
		}
	}

	schema := model.Schema{}
	present := make(map[string]bool, len(cols))
	for _, c := range cols {
		schema.Columns = append(schema.Columns, c.name)
		present[c.name] = true
		if c.numeric {
			schema.NumericColumns = append(schema.NumericColumns, c.name)
		}
	}
	for _, req := range model.RequiredColumns {
		if !present[req] {
			schema.Missing = append(schema.Missing, req)
		}
	}

	records := make([]model.BudgetRecord, 0, len(rows))
	var issues []model.Issue
	for _, row := range rows {
		rec, msg := buildRecord(len(records), cols, row.cells)
		if msg != "" {
			issues = append(issues, model.Issue{Line: row.line, Message: msg})
			continue
		}
		records = append(records, rec)
	}

	return model.NewDataset(sourceName, records, schema, issues), nil
}

func canonicalHeader(header []string) ([]column, error) {
	if len(header) == 0 {
		return nil, ErrEmptyFile
	}

	cols := make([]column, len(header))
	seen := make(map[string]bool, len(header))
	hasMinistry := false
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		for _, req := range model.RequiredColumns {
			if strings.EqualFold(name, req) {
				name = req
				break
			}
		}
		if name == "" {
			name = fmt.Sprintf("Column_%d", i+1)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		seen[name] = true
		if name == model.FieldMinistry {
			hasMinistry = true
		}
		cols[i] = column{name: name}
	}

	if !hasMinistry {
		return nil, ErrNoMinistryColumn
	}
	return cols, nil
}

func buildRecord(idx int, cols []column, cells []string) (model.BudgetRecord, string) {
	var (
		ministry, demand        string
		total, revenue, capital decimal.Decimal
		category                = model.CategoryNone
		numeric                 map[string]decimal.Decimal
		text                    map[string]string
	)

	for i, c := range cols {
		raw := strings.TrimSpace(cell(cells, i))

		switch c.name {
		case model.FieldMinistry:
			ministry = raw
		case model.FieldDemand:
			demand = raw
		case model.FieldCategory:
			cat, ok := model.ParseCategory(raw)
			if !ok {
				return model.BudgetRecord{}, fmt.Sprintf("unknown %s %q", c.name, raw)
			}
			category = cat
		case model.FieldTotal, model.FieldRevenue, model.FieldCapital:
			v, ok := parseAmount(raw)
			if !ok {
				return model.BudgetRecord{}, fmt.Sprintf("invalid %s %q", c.name, raw)
			}
			if v.IsNegative() {
				return model.BudgetRecord{}, fmt.Sprintf("negative %s %s", c.name, v)
			}
			switch c.name {
			case model.FieldTotal:
				total = v
			case model.FieldRevenue:
				revenue = v
			default:
				capital = v
			}
		default:
			if c.numeric {
				v, _ := parseAmount(raw)
				if numeric == nil {
					numeric = make(map[string]decimal.Decimal)
				}
				numeric[c.name] = v
			} else {
				if text == nil {
					text = make(map[string]string)
				}
				text[c.name] = raw
			}
		}
	}

	if ministry == "" {
		return model.BudgetRecord{}, "empty Ministry"
	}

	return model.NewBudgetRecord(idx, ministry, demand, total, revenue, capital, category, numeric, text), ""
}

// parseAmount accepts plain decimals with optional thousands separators and
// a leading rupee sign. Empty cells read as zero.
func parseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "₹")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, true
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return v, true
}

func cell(cells []string, i int) string {
	if i < len(cells) {
		return cells[i]
	}
	return ""
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
