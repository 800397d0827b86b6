package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths holds the resolved absolute directories the importer works with.
type Paths struct {
	BaseDir       string
	DataDir       string
	StatementsDir string
	ProcessedDir  string
	ReportsDir    string
	LogsDir       string
}

// ResolvePaths resolves the configured directories against the working
// directory and returns the absolute path set.
func (c *Config) ResolvePaths() (*Paths, error) {
	base, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to determine working directory: %w", err)
	}

	abs := func(dir string) string {
		if filepath.IsAbs(dir) {
			return dir
		}
		return filepath.Join(base, dir)
	}

	return &Paths{
		BaseDir:       base,
		DataDir:       abs(c.Paths.DataDir),
		StatementsDir: abs(c.Paths.StatementsDir),
		ProcessedDir:  abs(c.Paths.ProcessedDir),
		ReportsDir:    abs(c.Paths.ReportsDir),
		LogsDir:       abs(c.Paths.LogsDir),
	}, nil
}

// EnsureDirectories creates all required directories if they don't exist.
func (p *Paths) EnsureDirectories() error {
	dirs := []string{p.DataDir, p.StatementsDir, p.ProcessedDir, p.ReportsDir, p.LogsDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetStatementPath returns the full path of a file in the statements directory.
func (p *Paths) GetStatementPath(filename string) string {
	return filepath.Join(p.StatementsDir, filename)
}

// GetProcessedPath returns the full path of a file in the processed directory.
func (p *Paths) GetProcessedPath(filename string) string {
	return filepath.Join(p.ProcessedDir, filename)
}

// GetReportPath returns the full path of a file in the reports directory.
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetLogPath returns the full path of a file in the logs directory.
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}
