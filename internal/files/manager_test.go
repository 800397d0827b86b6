package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portocli/internal/config"
)

func testPaths(t *testing.T) *config.Paths {
	t.Helper()
	tmp := t.TempDir()
	paths := &config.Paths{
		BaseDir:       tmp,
		DataDir:       filepath.Join(tmp, "data"),
		StatementsDir: filepath.Join(tmp, "data", "statements"),
		ProcessedDir:  filepath.Join(tmp, "data", "processed"),
		ReportsDir:    filepath.Join(tmp, "data", "reports"),
		LogsDir:       filepath.Join(tmp, "logs"),
	}
	require.NoError(t, paths.EnsureDirectories())
	return paths
}

func TestManager_Archive(t *testing.T) {
	paths := testPaths(t)
	m := NewManager(paths)

	src := paths.GetStatementPath("depot.csv")
	require.NoError(t, os.WriteFile(src, []byte("a;b\n"), 0644))

	dst, err := m.Archive(src)
	require.NoError(t, err)
	assert.Equal(t, paths.GetProcessedPath("depot.csv"), dst)
	assert.NoFileExists(t, src)
	assert.FileExists(t, dst)
}

func TestManager_ArchiveCollision(t *testing.T) {
	paths := testPaths(t)
	m := NewManager(paths)

	require.NoError(t, os.WriteFile(paths.GetProcessedPath("depot.csv"), []byte("old"), 0644))

	src := paths.GetStatementPath("depot.csv")
	require.NoError(t, os.WriteFile(src, []byte("new"), 0644))

	dst, err := m.Archive(src)
	require.NoError(t, err)
	assert.Equal(t, paths.GetProcessedPath("depot.1.csv"), dst)

	// The earlier archive is untouched.
	old, err := os.ReadFile(paths.GetProcessedPath("depot.csv"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(old))
}

func TestManager_ResolvePathPrefixes(t *testing.T) {
	paths := testPaths(t)
	m := NewManager(paths)

	require.NoError(t, os.WriteFile(paths.GetStatementPath("in.csv"), []byte("x"), 0644))

	// Relative prefixed names resolve into the configured layout.
	require.NoError(t, m.MoveFile("statements/in.csv", "processed/in.csv"))
	assert.FileExists(t, paths.GetProcessedPath("in.csv"))
	assert.NoFileExists(t, paths.GetStatementPath("in.csv"))
}

func TestManager_MoveFileAcrossDirs(t *testing.T) {
	paths := testPaths(t)
	m := NewManager(paths)

	src := filepath.Join(paths.DataDir, "a.csv")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0644))

	dst := filepath.Join(paths.DataDir, "nested", "b.csv")
	require.NoError(t, m.MoveFile(src, dst))

	content, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(content))
	assert.NoFileExists(t, src)
}
