// Package store provides a SQLite-backed cache for parsed budget datasets.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"github.com/theirongolddev/budgetdash/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Cache provides SQLite-backed dataset caching.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// FileInfo holds the tracked mtime and size for a file.
type FileInfo struct {
	MtimeNs   int64
	SizeBytes int64
}

// Tracked returns the file info recorded for path, if any.
func (c *Cache) Tracked(path string) (FileInfo, bool, error) {
	var fi FileInfo
	err := c.db.QueryRow("SELECT mtime_ns, size_bytes FROM datasets WHERE source_path = ?", path).
		Scan(&fi.MtimeNs, &fi.SizeBytes)
	if errors.Is(err, sql.ErrNoRows) {
		return FileInfo{}, false, nil
	}
	if err != nil {
		return FileInfo{}, false, err
	}
	return fi, true, nil
}

// SaveDataset replaces everything cached for ds.Source().
func (c *Cache) SaveDataset(ds *model.Dataset, mtimeNs, sizeBytes int64) error {
	columns, err := json.Marshal(ds.Columns())
	if err != nil {
		return err
	}
	numeric, err := json.Marshal(ds.NumericColumns())
	if err != nil {
		return err
	}
	missing, err := json.Marshal(ds.MissingColumns())
	if err != nil {
		return err
	}

	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// Cascades to records and issues.
	if _, err := tx.Exec("DELETE FROM datasets WHERE source_path = ?", ds.Source()); err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = tx.Exec(`INSERT INTO datasets
		(source_path, mtime_ns, size_bytes, columns_json, numeric_json, missing_json, parsed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ds.Source(), mtimeNs, sizeBytes, string(columns), string(numeric), string(missing), now,
	)
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO records
		(source_path, row_idx, ministry, demand, total, revenue, capital, category,
		 extra_numeric_json, extra_text_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for i := 0; i < ds.Len(); i++ {
		r := ds.At(i)
		extraNum, extraText := r.Extras()
		numJSON, err := json.Marshal(extraNum)
		if err != nil {
			return err
		}
		textJSON, err := json.Marshal(extraText)
		if err != nil {
			return err
		}
		_, err = stmt.Exec(ds.Source(), r.Row, r.Ministry, r.Demand,
			r.Total.String(), r.Revenue.String(), r.Capital.String(), string(r.Category),
			string(numJSON), string(textJSON))
		if err != nil {
			return err
		}
	}

	for _, is := range ds.Issues() {
		_, err = tx.Exec("INSERT INTO issues (source_path, line, message) VALUES (?, ?, ?)",
			ds.Source(), is.Line, is.Message)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadDataset rebuilds the cached dataset for path.
func (c *Cache) LoadDataset(path string) (*model.Dataset, error) {
	var schema model.Schema
	var columns, numeric, missing string
	err := c.db.QueryRow(`SELECT columns_json, numeric_json, missing_json
		FROM datasets WHERE source_path = ?`, path).Scan(&columns, &numeric, &missing)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(columns), &schema.Columns); err != nil {
		return nil, fmt.Errorf("decoding columns: %w", err)
	}
	if err := json.Unmarshal([]byte(numeric), &schema.NumericColumns); err != nil {
		return nil, fmt.Errorf("decoding numeric columns: %w", err)
	}
	if err := json.Unmarshal([]byte(missing), &schema.Missing); err != nil {
		return nil, fmt.Errorf("decoding missing columns: %w", err)
	}

	rows, err := c.db.Query(`SELECT row_idx, ministry, demand, total, revenue, capital, category,
		extra_numeric_json, extra_text_json
		FROM records WHERE source_path = ? ORDER BY row_idx`, path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var records []model.BudgetRecord
	for rows.Next() {
		var (
			row                     int
			ministry, demand, cat   string
			total, revenue, capital string
			numJSON, textJSON       sql.NullString
		)
		if err := rows.Scan(&row, &ministry, &demand, &total, &revenue, &capital, &cat,
			&numJSON, &textJSON); err != nil {
			return nil, err
		}

		amounts := make([]decimal.Decimal, 3)
		for i, s := range []string{total, revenue, capital} {
			amounts[i], err = decimal.NewFromString(s)
			if err != nil {
				return nil, fmt.Errorf("decoding row %d: %w", row, err)
			}
		}

		var extraNum map[string]decimal.Decimal
		if numJSON.Valid && numJSON.String != "" {
			if err := json.Unmarshal([]byte(numJSON.String), &extraNum); err != nil {
				return nil, fmt.Errorf("decoding row %d: %w", row, err)
			}
		}
		var extraText map[string]string
		if textJSON.Valid && textJSON.String != "" {
			if err := json.Unmarshal([]byte(textJSON.String), &extraText); err != nil {
				return nil, fmt.Errorf("decoding row %d: %w", row, err)
			}
		}

		records = append(records, model.NewBudgetRecord(row, ministry, demand,
			amounts[0], amounts[1], amounts[2], model.Category(cat), extraNum, extraText))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	issueRows, err := c.db.Query("SELECT line, message FROM issues WHERE source_path = ? ORDER BY rowid", path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = issueRows.Close() }()

	var issues []model.Issue
	for issueRows.Next() {
		var is model.Issue
		if err := issueRows.Scan(&is.Line, &is.Message); err != nil {
			return nil, err
		}
		issues = append(issues, is)
	}
	if err := issueRows.Err(); err != nil {
		return nil, err
	}

	return model.NewDataset(path, records, schema, issues), nil
}

// DeleteDataset removes a cached dataset and its rows.
func (c *Cache) DeleteDataset(path string) error {
	_, err := c.db.Exec("DELETE FROM datasets WHERE source_path = ?", path)
	return err
}

// DatasetCount returns the number of cached datasets.
func (c *Cache) DatasetCount() (int, error) {
	var count int
	err := c.db.QueryRow("SELECT COUNT(*) FROM datasets").Scan(&count)
	return count, err
}
