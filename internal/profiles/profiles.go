// Package profiles embeds the built-in rule profiles shipped with the gate
// and installs them into the user profile directory.
package profiles

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed builtins
var builtinFS embed.FS

// Names lists the embedded builtin profiles by their path-like names,
// e.g. "git/read-only", sorted.
func Names() ([]string, error) {
	var names []string
	err := fs.WalkDir(builtinFS, "builtins", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".yaml" {
			return nil
		}
		rel := strings.TrimPrefix(p, "builtins/")
		names = append(names, strings.TrimSuffix(rel, ".yaml"))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk builtin profiles: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Read returns the raw YAML of one embedded builtin profile.
func Read(name string) ([]byte, error) {
	data, err := builtinFS.ReadFile("builtins/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("builtin profile %q: %w", name, err)
	}
	return data, nil
}

// Install writes every embedded builtin profile under dir, preserving the
// relative layout. Existing files are overwritten so upgrades refresh stale
// copies. It returns the installed relative paths, sorted.
func Install(dir string) ([]string, error) {
	var installed []string
	err := fs.WalkDir(builtinFS, "builtins", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel := strings.TrimPrefix(p, "builtins/")
		data, err := builtinFS.ReadFile(p)
		if err != nil {
			return err
		}
		target := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return err
		}
		installed = append(installed, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("install builtin profiles: %w", err)
	}
	sort.Strings(installed)
	return installed, nil
}
