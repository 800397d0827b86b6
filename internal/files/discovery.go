package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"portocli/internal/ingest"
)

// StatementFile describes one discovered statement export.
type StatementFile struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
	// Date is the statement as-of date parsed from the filename; HasDate
	// is false when the name carries none.
	Date    time.Time
	HasDate bool
}

// Discovery finds statement exports below a base directory.
type Discovery struct {
	basePath string
}

// NewDiscovery creates a file discovery instance rooted at basePath.
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// FindStatementFiles returns all CSV and XLSX statement files in dir,
// skipping Office lock files. Files are sorted by statement date (from the
// filename) with undated files last, so imports replay in statement order.
func (d *Discovery) FindStatementFiles(dir string) ([]StatementFile, error) {
	fullPath := dir
	if !filepath.IsAbs(dir) {
		fullPath = filepath.Join(d.basePath, dir)
	}

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var found []StatementFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if strings.HasPrefix(name, "~$") {
			continue
		}
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".csv" && ext != ".xlsx" && ext != ".txt" {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		file := StatementFile{
			Path:    filepath.Join(fullPath, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		}
		file.Date, file.HasDate = ingest.StatementDateFromFilename(name)
		found = append(found, file)
	}

	sort.Slice(found, func(i, j int) bool {
		a, b := found[i], found[j]
		switch {
		case a.HasDate && b.HasDate && !a.Date.Equal(b.Date):
			return a.Date.Before(b.Date)
		case a.HasDate != b.HasDate:
			return a.HasDate
		default:
			return a.Name < b.Name
		}
	})
	return found, nil
}

// Latest returns the statement file with the newest as-of date, preferring
// dated files and falling back to modification time.
func Latest(statements []StatementFile) (StatementFile, bool) {
	if len(statements) == 0 {
		return StatementFile{}, false
	}

	latest := statements[0]
	for _, file := range statements[1:] {
		switch {
		case file.HasDate && !latest.HasDate:
			latest = file
		case file.HasDate == latest.HasDate && file.HasDate && file.Date.After(latest.Date):
			latest = file
		case !file.HasDate && !latest.HasDate && file.ModTime.After(latest.ModTime):
			latest = file
		}
	}
	return latest, true
}
