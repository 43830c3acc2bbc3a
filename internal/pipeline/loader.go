package pipeline

import (
	"fmt"

	"github.com/theirongolddev/budgetdash/internal/model"
	"github.com/theirongolddev/budgetdash/internal/source"
)

// LoadResult holds the output of the data loading pipeline.
type LoadResult struct {
	Dataset  *model.Dataset
	File     source.DiscoveredFile
	Rejected int // rows skipped as issues
	CacheHit bool
}

// ProgressFunc is called during loading to report which stage is running.
type ProgressFunc func(stage string)

// Load locates and parses the budget file at path. Any failure here is
// fatal to the caller: no view can render without a dataset.
func Load(path string, progressFn ProgressFunc) (*LoadResult, error) {
	report(progressFn, "locating")
	df, err := source.Locate(path)
	if err != nil {
		return nil, err
	}

	report(progressFn, "parsing")
	pr := source.ParseFile(df)
	if pr.Err != nil {
		return nil, fmt.Errorf("loading %s: %w", df.Path, pr.Err)
	}

	return &LoadResult{
		Dataset:  pr.Dataset,
		File:     df,
		Rejected: len(pr.Dataset.Issues()),
	}, nil
}

func report(fn ProgressFunc, stage string) {
	if fn != nil {
		fn(stage)
	}
}
