// Package scaffold sets up a new project directory with a starter CV,
// bundled assets and a configuration file.
package scaffold

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"resumake/internal/assets"
	"resumake/internal/errors"
)

//go:embed templates/cv.example.yaml
var exampleCV []byte

//go:embed templates/resumake.example.yaml
var exampleConfig []byte

const gitignore = `output/
assets/profile.*
`

// Result reports what Init did, path by path.
type Result struct {
	Created []string
	Skipped []string
}

// Init scaffolds a project at dir: cv.yaml, assets/ with the bundled
// default assets, output/, .gitignore and .resumake.yaml. Existing files
// are never overwritten; they are reported in Result.Skipped instead.
func Init(dir string) (*Result, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("cannot create project directory %s", dir), err)
	}

	res := &Result{}
	files := []struct {
		name string
		data []byte
	}{
		{"cv.yaml", exampleCV},
		{".resumake.yaml", exampleConfig},
		{".gitignore", []byte(gitignore)},
	}
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if _, err := os.Stat(path); err == nil {
			res.Skipped = append(res.Skipped, path)
			continue
		}
		if err := os.WriteFile(path, f.data, 0o644); err != nil {
			return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
				fmt.Sprintf("cannot write %s", path), err)
		}
		res.Created = append(res.Created, path)
	}

	for _, sub := range []string{"assets", "output"} {
		path := filepath.Join(dir, sub)
		if err := os.MkdirAll(path, 0o750); err != nil {
			return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
				fmt.Sprintf("cannot create %s", path), err)
		}
	}

	// bundled default assets, e.g. the placeholder avatar
	for _, name := range assets.DefaultNames() {
		path := filepath.Join(dir, "assets", name)
		if _, err := os.Stat(path); err == nil {
			res.Skipped = append(res.Skipped, path)
			continue
		}
		data, err := assets.ReadDefault(name)
		if err != nil {
			continue
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
				fmt.Sprintf("cannot write %s", path), err)
		}
		res.Created = append(res.Created, path)
	}

	return res, nil
}
