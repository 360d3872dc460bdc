package config

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cmdgate/cmdgate/pkg/types"
)

const (
	// WorkspaceDir is the per-repository configuration directory.
	WorkspaceDir = ".cmdgate"
	// ConfigFile is the main config file inside WorkspaceDir.
	ConfigFile = "config.yaml"
)

// Loader resolves the main config file and the profile directories.
type Loader struct {
	workspace   string // directory containing .cmdgate/
	builtinsDir string // user dir holding installed builtin profiles
}

// NewLoader builds a loader rooted at the current working directory, with
// builtin profiles under the user config dir (~/.config/cmdgate/profiles/builtins).
func NewLoader() (*Loader, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	builtins, err := BuiltinProfilesDir()
	if err != nil {
		return nil, err
	}
	return &Loader{workspace: cwd, builtinsDir: builtins}, nil
}

// NewLoaderAt builds a loader with explicit directories, mainly for tests.
func NewLoaderAt(workspace, builtinsDir string) *Loader {
	return &Loader{workspace: workspace, builtinsDir: builtinsDir}
}

// BuiltinProfilesDir returns the directory builtin profiles are installed to.
func BuiltinProfilesDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "cmdgate", "profiles", "builtins"), nil
}

// ConfigPath returns the path of the main config file for this loader.
func (l *Loader) ConfigPath() string {
	return filepath.Join(l.workspace, WorkspaceDir, ConfigFile)
}

// Load reads the main configuration, discovers available profiles, and loads
// every active profile in activation order (builtins first, then custom).
// A missing config file yields the defaults; a malformed one is an error.
func (l *Loader) Load() (*Config, error) {
	path := l.ConfigPath()

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		parsed, err := parseConfig(data)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		cfg = parsed
	case os.IsNotExist(err):
		// No workspace config; defaults apply.
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	cfg.AvailableProfiles, err = l.discoverProfiles()
	if err != nil {
		return nil, err
	}

	for _, name := range cfg.Profiles.Builtins {
		p, err := l.loadProfile(l.builtinsDir, name)
		if err != nil {
			return nil, err
		}
		cfg.LoadedProfiles = append(cfg.LoadedProfiles, *p)
	}
	for _, name := range cfg.Profiles.Custom {
		p, err := l.loadProfile(filepath.Join(l.workspace, WorkspaceDir, "profiles"), name)
		if err != nil {
			return nil, err
		}
		cfg.LoadedProfiles = append(cfg.LoadedProfiles, *p)
	}

	return cfg, nil
}

func parseConfig(data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Settings.DefaultAction == "" {
		cfg.Settings.DefaultAction = types.ActionPrompt
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadProfile resolves a path-like profile name ("git/read-only") under dir.
func (l *Loader) loadProfile(dir, name string) (*Profile, error) {
	path, err := resolveProfilePath(dir, name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile %q: %w", name, err)
	}
	p, err := ParseProfile(data)
	if err != nil {
		return nil, fmt.Errorf("profile %q: %w", name, err)
	}
	p.Meta.Name = name
	return p, nil
}

// ParseProfile decodes and validates one profile document.
func ParseProfile(data []byte) (*Profile, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var p Profile
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func resolveProfilePath(dir, name string) (string, error) {
	if strings.Contains(name, "..") || filepath.IsAbs(name) {
		return "", fmt.Errorf("invalid profile name %q", name)
	}
	for _, ext := range []string{".yaml", ".yml"} {
		p := filepath.Join(dir, name+ext)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("profile %q not found in %q", name, dir)
}

// discoverProfiles walks the builtin profile directory and lists every
// profile found, named by its path relative to the directory root without
// the extension. Metadata is read best-effort: an unreadable profile still
// appears under its derived name.
func (l *Loader) discoverProfiles() ([]ProfileMeta, error) {
	var metas []ProfileMeta
	err := filepath.WalkDir(l.builtinsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		rel, err := filepath.Rel(l.builtinsDir, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(strings.TrimSuffix(rel, ext))

		meta := ProfileMeta{Name: name}
		if data, err := os.ReadFile(path); err == nil {
			if p, err := ParseProfile(data); err == nil {
				meta.Description = p.Meta.Description
			}
		}
		metas = append(metas, meta)
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("discover profiles: %w", err)
	}
	return metas, nil
}

// Load reads the configuration from the default locations.
func Load() (*Config, error) {
	l, err := NewLoader()
	if err != nil {
		return nil, err
	}
	return l.Load()
}
