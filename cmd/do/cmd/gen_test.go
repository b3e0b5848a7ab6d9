package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUpToDate(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "input.css")
	out := filepath.Join(dir, "output.css")

	assert.False(t, isUpToDate(out, []string{in}), "missing output")

	require.NoError(t, os.WriteFile(in, []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(out, []byte("b"), 0o644))
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(in, old, old))
	assert.True(t, isUpToDate(out, []string{in, filepath.Join(dir, "gone.html")}))

	require.NoError(t, os.Chtimes(in, time.Now().Add(time.Hour), time.Now().Add(time.Hour)))
	assert.False(t, isUpToDate(out, []string{in}))
}

func TestGlobTree(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "pages", "templates"), 0o755))
	for _, name := range []string{"pages/views.go", "pages/templates/home.html", "pages/notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	files := globTree(map[string]bool{".go": true, ".html": true}, dir, filepath.Join(dir, "missing"))
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "pages", "views.go"),
		filepath.Join(dir, "pages", "templates", "home.html"),
	}, files)
}
