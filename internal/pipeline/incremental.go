package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/theirongolddev/budgetdash/internal/source"
	"github.com/theirongolddev/budgetdash/internal/store"
)

// LoadWithCache returns the cached dataset when the file's mtime and size
// match the cache, and otherwise parses the file and refreshes the cache.
// Cache failures never fail the load; they only cost a reparse.
func LoadWithCache(path string, cache *store.Cache, progressFn ProgressFunc) (*LoadResult, error) {
	report(progressFn, "locating")
	df, err := source.Locate(path)
	if err != nil {
		return nil, err
	}

	report(progressFn, "checking cache")
	if fi, ok, err := cache.Tracked(df.Path); err == nil && ok &&
		fi.MtimeNs == df.MtimeNs && fi.SizeBytes == df.SizeBytes {
		if ds, err := cache.LoadDataset(df.Path); err == nil {
			return &LoadResult{
				Dataset:  ds,
				File:     df,
				Rejected: len(ds.Issues()),
				CacheHit: true,
			}, nil
		}
	}

	report(progressFn, "parsing")
	pr := source.ParseFile(df)
	if pr.Err != nil {
		return nil, fmt.Errorf("loading %s: %w", df.Path, pr.Err)
	}

	_ = cache.SaveDataset(pr.Dataset, df.MtimeNs, df.SizeBytes)

	return &LoadResult{
		Dataset:  pr.Dataset,
		File:     df,
		Rejected: len(pr.Dataset.Issues()),
	}, nil
}

// CacheDir returns the platform-appropriate cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "budgetdash")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "budgetdash")
}

// CachePath returns the full path to the cache database.
func CachePath() string {
	return filepath.Join(CacheDir(), "datasets.db")
}
