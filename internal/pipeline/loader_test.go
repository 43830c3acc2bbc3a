package pipeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/budgetdash/internal/store"
)

func writeBudget(t *testing.T, dir string, body string) string {
	t.Helper()
	path := filepath.Join(dir, "cleaned_budget_data.csv")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Directory(t *testing.T) {
	dir := t.TempDir()
	writeBudget(t, dir, header+"\nMinistryA,D1,100,60,40,Low\n,D2,1,1,0,Low\n")

	var stages []string
	res, err := Load(dir, func(s string) { stages = append(stages, s) })
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if res.Dataset.Len() != 1 || res.Rejected != 1 {
		t.Errorf("len=%d rejected=%d, want 1 and 1", res.Dataset.Len(), res.Rejected)
	}
	if len(stages) == 0 {
		t.Error("progress callback never called")
	}
}

func TestLoad_FatalErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.csv"), nil); err == nil {
		t.Error("missing file: expected error")
	}

	dir := t.TempDir()
	path := writeBudget(t, dir, "Demand,Budget_2023_Total\nD1,5\n")
	if _, err := Load(path, nil); err == nil {
		t.Error("no Ministry column: expected error")
	}
}

func TestLoadWithCache_HitAndInvalidate(t *testing.T) {
	dir := t.TempDir()
	path := writeBudget(t, dir, header+"\nMinistryA,D1,100,60,40,Low\n")

	cache, err := store.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = cache.Close() }()

	first, err := LoadWithCache(path, cache, nil)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheHit {
		t.Error("first load reported a cache hit")
	}

	second, err := LoadWithCache(path, cache, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit {
		t.Error("second load missed the cache")
	}
	if second.Dataset.Len() != 1 || second.Dataset.At(0).Ministry != "MinistryA" {
		t.Errorf("cached dataset = %d records", second.Dataset.Len())
	}

	writeBudget(t, dir, header+"\nMinistryA,D1,100,60,40,Low\nMinistryB,D1,900,500,400,High\n")
	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}

	third, err := LoadWithCache(path, cache, nil)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheHit || third.Dataset.Len() != 2 {
		t.Errorf("after change: hit=%v len=%d, want miss and 2", third.CacheHit, third.Dataset.Len())
	}
}
