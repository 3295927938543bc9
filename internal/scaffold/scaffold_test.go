package scaffold

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumake/internal/cv"
)

func TestInitCreatesProject(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "my-cv")
	res, err := Init(dir)
	require.NoError(t, err)
	assert.Empty(t, res.Skipped)

	for _, name := range []string{"cv.yaml", ".resumake.yaml", ".gitignore"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
	for _, name := range []string{"assets", "output"} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "output/")
}

func TestInitTemplateIsValidCV(t *testing.T) {
	dir := t.TempDir()
	_, err := Init(dir)
	require.NoError(t, err)

	doc, err := cv.Load(filepath.Join(dir, "cv.yaml"))
	require.NoError(t, err)
	assert.NotEmpty(t, doc.Name)
	assert.NotEmpty(t, doc.Experience)
}

func TestInitDoesNotOverwrite(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "cv.yaml")
	require.NoError(t, os.WriteFile(existing, []byte("name: Existing\n"), 0o644))

	res, err := Init(dir)
	require.NoError(t, err)
	assert.Contains(t, res.Skipped, existing)

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "name: Existing\n", string(data))
}

func TestInitIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	_, err := Init(dir)
	require.NoError(t, err)

	res, err := Init(dir)
	require.NoError(t, err)
	assert.Empty(t, res.Created)
}
