package theme

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"resumake/internal/errors"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// DefaultName is the theme used when the caller specifies none. It is
// also the merge base for every user theme file.
const DefaultName = "classic"

var builtins = mustLoadBuiltins()

func mustLoadBuiltins() map[string]Theme {
	entries, err := builtinFS.ReadDir("builtin")
	if err != nil {
		panic(fmt.Sprintf("builtin themes unreadable: %v", err))
	}
	reg := make(map[string]Theme, len(entries))
	for _, entry := range entries {
		data, err := builtinFS.ReadFile("builtin/" + entry.Name())
		if err != nil {
			panic(fmt.Sprintf("builtin theme %s unreadable: %v", entry.Name(), err))
		}
		var t Theme
		if err := yaml.Unmarshal(data, &t); err != nil {
			panic(fmt.Sprintf("builtin theme %s malformed: %v", entry.Name(), err))
		}
		if err := t.Validate(); err != nil {
			panic(fmt.Sprintf("builtin theme %s invalid: %v", entry.Name(), err))
		}
		reg[t.Name] = t
	}
	if _, ok := reg[DefaultName]; !ok {
		panic("builtin theme registry is missing " + DefaultName)
	}
	return reg
}

// List returns the builtin themes sorted by name.
func List() []Theme {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]Theme, 0, len(names))
	for _, name := range names {
		out = append(out, builtins[name])
	}
	return out
}

// Names returns the builtin theme names sorted.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve turns a theme reference into a fully populated, validated Theme.
// The reference is a builtin name, a path to a theme override file, or
// empty for the default. Overrides merge onto the classic base; a builtin
// name replaces the base wholesale.
func Resolve(nameOrPath string) (*Theme, error) {
	ref := strings.TrimSpace(nameOrPath)
	if ref == "" {
		ref = DefaultName
	}

	var resolved Theme
	switch {
	case isThemePath(ref):
		override, err := loadOverride(ref)
		if err != nil {
			return nil, err
		}
		resolved = Merge(builtins[DefaultName], override)
		if resolved.Name == DefaultName {
			resolved.Name = "custom"
		}
	default:
		base, ok := builtins[ref]
		if !ok {
			return nil, errors.NewThemeError(errors.ErrCodeThemeNotFound,
				fmt.Sprintf("theme not found: %q (builtin themes: %s)",
					ref, strings.Join(Names(), ", ")), nil)
		}
		resolved = base
	}

	if err := resolved.Validate(); err != nil {
		return nil, err
	}
	return &resolved, nil
}

func isThemePath(ref string) bool {
	if strings.ContainsRune(ref, os.PathSeparator) || strings.ContainsRune(ref, '/') {
		return true
	}
	ext := strings.ToLower(filepath.Ext(ref))
	return ext == ".yaml" || ext == ".yml"
}

func loadOverride(path string) (*Override, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewThemeError(errors.ErrCodeThemeNotFound,
				fmt.Sprintf("theme not found: %q", path), err)
		}
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("cannot read theme file: %s", path), err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var override Override
	if err := dec.Decode(&override); err != nil {
		if err == io.EOF {
			// an empty file is an empty override
			return &Override{}, nil
		}
		return nil, errors.NewThemeError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("theme file %s is malformed", path), err)
	}
	return &override, nil
}
