package assets

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveUserDirFirst(t *testing.T) {
	dir := t.TempDir()
	photo := filepath.Join(dir, "photo.jpg")
	require.NoError(t, os.WriteFile(photo, []byte("jpeg-bytes"), 0o644))

	r := NewResolver(dir)

	// Bare name and assets-relative reference both land on the user file.
	got, err := r.Resolve("photo.jpg")
	require.NoError(t, err)
	assert.Equal(t, photo, got)

	got, err = r.Resolve("assets/photo.jpg")
	require.NoError(t, err)
	assert.Equal(t, photo, got)
}

func TestResolveAbsolutePath(t *testing.T) {
	dir := t.TempDir()
	photo := filepath.Join(dir, "me.png")
	require.NoError(t, os.WriteFile(photo, []byte("png"), 0o644))

	r := NewResolver(filepath.Join(dir, "other"))
	got, err := r.Resolve(photo)
	require.NoError(t, err)
	assert.Equal(t, photo, got)
}

func TestResolveMissing(t *testing.T) {
	r := NewResolver(t.TempDir())
	_, err := r.Resolve("nope.jpg")
	require.Error(t, err)

	_, err = r.Resolve("")
	require.Error(t, err)
}

func TestOpenFallsBackToDefaults(t *testing.T) {
	r := NewResolver(t.TempDir())

	f, err := r.Open("avatar.svg")
	require.NoError(t, err)
	defer f.Close()

	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
}

func TestOpenUnknown(t *testing.T) {
	r := NewResolver(t.TempDir())
	_, err := r.Open("missing.png")
	require.Error(t, err)
}

func TestDefaultNames(t *testing.T) {
	assert.Contains(t, DefaultNames(), "avatar.svg")
}
