package document

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Supported document extensions, lower case.
const (
	ExtCSV  = ".csv"
	ExtXLSX = ".xlsx"
	ExtXLSM = ".xlsm"
)

// Supported reports whether path has a loadable extension.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtCSV, ExtXLSX, ExtXLSM:
		return true
	default:
		return false
	}
}

// Discover lists the documents directly inside dir, sorted by file name.
// Subdirectories, hidden files and unsupported extensions are ignored.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read document directory %s: %w", dir, err)
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$") {
			continue
		}
		if !Supported(name) {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	sort.Strings(paths)

	return paths, nil
}

// Buildings lists the subdirectories of root, sorted by name. Each
// subdirectory is treated as one building.
func Buildings(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory %s: %w", root, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	return names, nil
}
