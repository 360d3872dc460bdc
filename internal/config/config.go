// Package config defines the gate's configuration model and loads it from
// the workspace and user profile directories. A Config is built once per
// evaluation run and treated as read-only afterwards.
package config

import (
	"fmt"

	"github.com/cmdgate/cmdgate/pkg/types"
)

// Config is the merged view of the workspace configuration: global settings,
// profile activation lists, inline rules, and the profiles the loader
// resolved for them.
type Config struct {
	Settings Settings       `yaml:"settings"`
	Profiles ProfilesConfig `yaml:"profiles"`

	// Rules are inline rules from the main config file. They are checked
	// before any profile rule.
	Rules []Rule `yaml:"rules"`

	// LoadedProfiles holds the active profiles in activation order,
	// populated by the loader.
	LoadedProfiles []Profile `yaml:"-"`

	// AvailableProfiles lists every profile discovered on disk, active or
	// not, for display purposes.
	AvailableProfiles []ProfileMeta `yaml:"-"`
}

// Settings are the global knobs of the gate.
type Settings struct {
	// DefaultAction applies when no rule matches a command.
	DefaultAction types.Action `yaml:"default_action"`
	// LogDecisions enables the per-session audit log.
	LogDecisions bool `yaml:"log_decisions"`
}

// ProfilesConfig names the profiles to activate: builtins are resolved from
// the user profile directory, custom from the workspace profiles directory.
// Order is significant; earlier profiles are consulted first.
type ProfilesConfig struct {
	Builtins []string `yaml:"builtins"`
	Custom   []string `yaml:"custom"`
}

// Rule matches commands and assigns an action. Every filter field is
// optional; an omitted field constrains nothing, so a rule with no filters
// matches every command. Rules are immutable once loaded.
type Rule struct {
	// Program must equal the command's program name exactly.
	Program string `yaml:"program"`
	// Subcommands must be a prefix of the command's subcommand path, or
	// equal to it when SubcommandsExact is set.
	Subcommands      []string `yaml:"subcommands"`
	SubcommandsExact bool     `yaml:"subcommands_exact"`
	// ArgsMatch is a substring of the space-joined positional arguments.
	ArgsMatch string `yaml:"args_match"`
	// ArgsRegex is a regular expression over the same joined string. An
	// invalid pattern makes the rule not match; it never aborts evaluation.
	ArgsRegex string `yaml:"args_regex"`
	// FlagsPresent must all be in the command's flag set.
	FlagsPresent []string `yaml:"flags_present"`
	// FlagsAbsent must all be missing from the command's flag set.
	FlagsAbsent []string `yaml:"flags_absent"`
	// WorkingDir is a glob the process working directory must match.
	WorkingDir string `yaml:"working_dir"`

	Action  types.Action `yaml:"action"`
	Message string       `yaml:"message"`
}

// Profile is a named, reusable bundle of rules.
type Profile struct {
	Meta  ProfileMeta `yaml:"profile"`
	Rules []Rule      `yaml:"rules"`
}

// ProfileMeta identifies a profile by its path-like name, e.g. "git/read-only".
type ProfileMeta struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// Validate checks the semantic constraints the YAML schema cannot express.
// Pattern fields are deliberately not validated here: a broken regex or glob
// degrades to "rule does not match" at evaluation time instead of making the
// whole configuration unloadable.
func (c *Config) Validate() error {
	if !c.Settings.DefaultAction.Valid() {
		return fmt.Errorf("settings.default_action: unknown action %q", c.Settings.DefaultAction)
	}
	for i, r := range c.Rules {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("rules[%d]: %w", i, err)
		}
	}
	return nil
}

// Validate checks that the rule carries a known action.
func (r *Rule) Validate() error {
	if !r.Action.Valid() {
		return fmt.Errorf("unknown action %q", r.Action)
	}
	return nil
}

// Validate checks every rule of the profile.
func (p *Profile) Validate() error {
	for i, r := range p.Rules {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("rules[%d]: %w", i, err)
		}
	}
	return nil
}

// IsProfileActive reports whether name is in either activation list.
func (c *Config) IsProfileActive(name string) bool {
	for _, p := range c.Profiles.Builtins {
		if p == name {
			return true
		}
	}
	for _, p := range c.Profiles.Custom {
		if p == name {
			return true
		}
	}
	return false
}

// Default returns the configuration used when no config file exists:
// prompt for everything, no decision logging. Matches the zero value a
// config file that omits log_decisions decodes to.
func Default() *Config {
	return &Config{
		Settings: Settings{
			DefaultAction: types.ActionPrompt,
		},
	}
}
