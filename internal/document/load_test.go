package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadFirstCandidateWins(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".github", "workflows"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".github", "workflows", "auto-pr-demo.yml"), []byte("name: first\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "auto-pr-demo.yml"), []byte("name: second\n"), 0o644))

	candidates := []string{
		".github/workflows/auto-pr-demo.yml",
		"auto-pr-demo.yml",
	}
	path, content, err := Load(dir, "workflow", candidates)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, ".github", "workflows", "auto-pr-demo.yml"), path)
	require.Equal(t, "name: first\n", content)
}

func TestLoadFallsThroughMissingCandidates(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "auto-pr-demo.yaml"), []byte("name: demo\n"), 0o644))

	path, _, err := Load(dir, "workflow", []string{
		".github/workflows/auto-pr-demo.yml",
		"auto-pr-demo.yml",
		"auto-pr-demo.yaml",
	})
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "auto-pr-demo.yaml"), path)
}

func TestLoadNotFound(t *testing.T) {
	dir := t.TempDir()
	_, _, err := Load(dir, "workflow", []string{"a.yml", "b.yml"})
	require.Error(t, err)
	require.True(t, IsNotFound(err))

	var le *LoadError
	require.ErrorAs(t, err, &le)
	require.Equal(t, "workflow", le.Name)
	require.Equal(t, []string{"a.yml", "b.yml"}, le.Searched)
}

func TestLoadSkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	// A directory with a candidate's name must not satisfy the lookup.
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "auto-pr-demo.yml"), 0o755))

	_, _, err := Load(dir, "workflow", []string{"auto-pr-demo.yml"})
	require.True(t, IsNotFound(err))
}
