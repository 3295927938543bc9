// Package assets locates referenced files (photos, images) on a search
// path: the project's assets directory first, then the bundled defaults.
package assets

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"resumake/internal/errors"
)

//go:embed defaults/*
var defaultFS embed.FS

// Resolver looks up asset references for the renderer and the web server.
type Resolver struct {
	// UserDir is the project assets directory, usually "<project>/assets".
	UserDir string
}

func NewResolver(userDir string) *Resolver {
	return &Resolver{UserDir: userDir}
}

// Resolve returns a filesystem path for ref. References are tried as
// given (absolute or relative to the working directory) and then inside
// the user assets directory. Bundled defaults have no filesystem path and
// are only reachable through Open.
func (r *Resolver) Resolve(ref string) (string, error) {
	if ref == "" {
		return "", errors.NewIOError(errors.ErrCodeAssetNotFound, "empty asset reference", nil)
	}
	candidates := []string{ref}
	if r.UserDir != "" && !filepath.IsAbs(ref) {
		candidates = append(candidates, filepath.Join(r.UserDir, filepath.Base(ref)))
	}
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", errors.NewIOError(errors.ErrCodeAssetNotFound,
		fmt.Sprintf("asset not found: %s", ref), nil)
}

// Open returns the asset's content, falling back to the bundled defaults
// when no file matches. The caller closes the reader.
func (r *Resolver) Open(ref string) (io.ReadCloser, error) {
	if path, err := r.Resolve(ref); err == nil {
		return os.Open(path)
	}
	f, err := defaultFS.Open("defaults/" + filepath.Base(ref))
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeAssetNotFound,
			fmt.Sprintf("asset not found: %s", ref), nil)
	}
	return f, nil
}

// ReadDefault returns a bundled default asset by name.
func ReadDefault(name string) ([]byte, error) {
	return defaultFS.ReadFile("defaults/" + name)
}

// DefaultNames lists the bundled default assets.
func DefaultNames() []string {
	entries, err := fs.ReadDir(defaultFS, "defaults")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
