package files

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"portocli/internal/config"
)

// Manager provides file operations rooted in the configured directory
// layout.
type Manager struct {
	paths *config.Paths
}

// NewManager creates a new file manager instance.
func NewManager(paths *config.Paths) *Manager {
	return &Manager{paths: paths}
}

// Archive moves a processed statement into the processed directory,
// suffixing the name when a file of the same name was archived before.
func (m *Manager) Archive(path string) (string, error) {
	srcPath := m.resolvePath(path)
	name := filepath.Base(srcPath)

	dstPath := m.paths.GetProcessedPath(name)
	if _, err := os.Stat(dstPath); err == nil {
		ext := filepath.Ext(name)
		stem := strings.TrimSuffix(name, ext)
		for i := 1; ; i++ {
			dstPath = m.paths.GetProcessedPath(fmt.Sprintf("%s.%d%s", stem, i, ext))
			if _, err := os.Stat(dstPath); os.IsNotExist(err) {
				break
			}
		}
	}

	slog.Info("archiving processed statement",
		slog.String("src", srcPath),
		slog.String("dst", dstPath))

	if err := m.MoveFile(srcPath, dstPath); err != nil {
		return "", err
	}
	return dstPath, nil
}

// CopyFile copies a file from source to destination, creating the
// destination directory as needed.
func (m *Manager) CopyFile(src, dst string) error {
	srcPath := m.resolvePath(src)
	dstPath := m.resolvePath(dst)

	if err := os.MkdirAll(filepath.Dir(dstPath), 0755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	srcFile, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return fmt.Errorf("failed to copy file content: %w", err)
	}
	return dstFile.Sync()
}

// MoveFile moves a file, trying an atomic rename first and falling back to
// copy-and-delete across filesystems.
func (m *Manager) MoveFile(src, dst string) error {
	srcPath := m.resolvePath(src)
	dstPath := m.resolvePath(dst)

	if err := os.MkdirAll(filepath.Dir(dstPath), 0755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	if err := os.Rename(srcPath, dstPath); err == nil {
		return nil
	}

	if err := m.CopyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(srcPath)
}

// resolvePath resolves a path relative to the configured directory layout.
func (m *Manager) resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	switch {
	case strings.HasPrefix(path, "statements/"):
		return m.paths.GetStatementPath(strings.TrimPrefix(path, "statements/"))
	case strings.HasPrefix(path, "processed/"):
		return m.paths.GetProcessedPath(strings.TrimPrefix(path, "processed/"))
	case strings.HasPrefix(path, "reports/"):
		return m.paths.GetReportPath(strings.TrimPrefix(path, "reports/"))
	case strings.HasPrefix(path, "logs/"):
		return m.paths.GetLogPath(strings.TrimPrefix(path, "logs/"))
	default:
		return filepath.Join(m.paths.DataDir, path)
	}
}
