// Package holders writes and reads the per-building deed-holder list: a
// plain-text file with one name per line in document-processing order.
package holders

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// fileSuffix is appended to the building identifier to form the file name.
const fileSuffix = "_deed_holders.txt"

// Path returns the deed-holder file of a building under outputDir:
// <outputDir>/<building>/<building>_deed_holders.txt.
func Path(outputDir, buildingID string) string {
	return filepath.Join(outputDir, buildingID, buildingID+fileSuffix)
}

// Write overwrites path with one name per line, creating parent
// directories as needed. Line breaks inside names are replaced by spaces
// so that every name stays on its own line.
func Write(path string, names []string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600) //nolint:gosec // output path is built by Path
	if err != nil {
		return fmt.Errorf("failed to create deed holder file: %w", err)
	}

	w := bufio.NewWriter(f)
	for _, name := range names {
		name = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(name)
		if _, err := w.WriteString(name + "\n"); err != nil {
			_ = f.Close() //nolint:errcheck // write error takes precedence
			return fmt.Errorf("failed to write deed holder file: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		_ = f.Close() //nolint:errcheck // flush error takes precedence
		return fmt.Errorf("failed to write deed holder file: %w", err)
	}
	return f.Close()
}

// Read returns the non-blank, trimmed lines of a deed-holder file.
func Read(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // output path is built by Path
	if err != nil {
		return nil, err
	}
	defer f.Close()

	names := make([]string, 0)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if name := strings.TrimSpace(scanner.Text()); name != "" {
			names = append(names, name)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read deed holder file %s: %w", path, err)
	}
	return names, nil
}
