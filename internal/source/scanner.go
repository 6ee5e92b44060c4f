// Package source discovers workbook files and reads their sheets into
// normalized tables and taxpayer datasets.
package source

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DetectFormat returns the reader format for a path based on its extension.
func DetectFormat(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, true
	case ".csv":
		return FormatCSV, true
	default:
		return "", false
	}
}

// Discover describes a single file, or returns ok=false if it is not a
// supported workbook.
func Discover(path string) (DiscoveredFile, bool) {
	format, ok := DetectFormat(path)
	if !ok {
		return DiscoveredFile{}, false
	}
	base := filepath.Base(path)
	return DiscoveredFile{
		Path:   path,
		Name:   strings.TrimSuffix(base, filepath.Ext(base)),
		Format: format,
	}, true
}

// ScanDir returns the workbooks directly inside dir, sorted by path.
// Office lock files ("~$Book.xlsx") and hidden files are skipped.
func ScanDir(dir string) ([]DiscoveredFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var files []DiscoveredFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, "~$") || strings.HasPrefix(name, ".") {
			continue
		}
		if df, ok := Discover(filepath.Join(dir, name)); ok {
			files = append(files, df)
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// Resolve expands path into the workbooks it names: the file itself, or the
// supported files inside it when it is a directory.
func Resolve(path string) ([]DiscoveredFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return ScanDir(path)
	}
	df, ok := Discover(path)
	if !ok {
		return nil, ErrUnsupportedFormat
	}
	return []DiscoveredFile{df}, nil
}
