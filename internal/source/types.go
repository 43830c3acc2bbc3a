package source

import "github.com/theirongolddev/budgetdash/internal/model"

// DefaultFileName is the dataset looked up when a directory is given.
const DefaultFileName = "cleaned_budget_data.csv"

// DiscoveredFile is a budget CSV located on disk.
type DiscoveredFile struct {
	Path      string
	MtimeNs   int64
	SizeBytes int64
}

// ParseResult holds the output of parsing one budget file.
type ParseResult struct {
	Dataset *model.Dataset
	Err     error
}
