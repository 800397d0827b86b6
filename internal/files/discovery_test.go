package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
}

func TestFindStatementFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "Statement_Mar 26 2025.xlsx")
	touch(t, dir, "Statement_Jan 15 2025.csv")
	touch(t, dir, "undated.csv")
	touch(t, dir, "~$Statement_Mar 26 2025.xlsx")
	touch(t, dir, "notes.pdf")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.csv"), 0755))

	d := NewDiscovery(dir)
	found, err := d.FindStatementFiles(".")
	require.NoError(t, err)

	require.Len(t, found, 3)
	assert.Equal(t, "Statement_Jan 15 2025.csv", found[0].Name)
	assert.Equal(t, "Statement_Mar 26 2025.xlsx", found[1].Name)
	assert.Equal(t, "undated.csv", found[2].Name)

	assert.True(t, found[0].HasDate)
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), found[0].Date)
	assert.False(t, found[2].HasDate)
}

func TestFindStatementFiles_AbsoluteDir(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "depot.csv")

	d := NewDiscovery("/nonexistent")
	found, err := d.FindStatementFiles(dir)
	require.NoError(t, err)
	require.Len(t, found, 1)
}

func TestLatest(t *testing.T) {
	statements := []StatementFile{
		{Name: "a.csv", Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), HasDate: true},
		{Name: "b.csv", Date: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), HasDate: true},
		{Name: "c.csv"},
	}

	latest, ok := Latest(statements)
	require.True(t, ok)
	assert.Equal(t, "b.csv", latest.Name)

	_, ok = Latest(nil)
	assert.False(t, ok)
}
