package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoCSV is returned when a directory holds no CSV file.
var ErrNoCSV = errors.New("no CSV file found")

// Locate resolves path to a budget file. A directory resolves to
// DefaultFileName inside it, or else to its alphabetically first *.csv.
func Locate(path string) (DiscoveredFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return DiscoveredFile{}, fmt.Errorf("locating dataset: %w", err)
	}

	if info.IsDir() {
		resolved, err := pickCSV(path)
		if err != nil {
			return DiscoveredFile{}, err
		}
		path = resolved
		info, err = os.Stat(path)
		if err != nil {
			return DiscoveredFile{}, fmt.Errorf("locating dataset: %w", err)
		}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	return DiscoveredFile{
		Path:      abs,
		MtimeNs:   info.ModTime().UnixNano(),
		SizeBytes: info.Size(),
	}, nil
}

func pickCSV(dir string) (string, error) {
	preferred := filepath.Join(dir, DefaultFileName)
	if _, err := os.Stat(preferred); err == nil {
		return preferred, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("%s: %w", dir, ErrNoCSV)
	}
	sort.Strings(names)
	return filepath.Join(dir, names[0]), nil
}
