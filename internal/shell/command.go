// Package shell turns raw shell command strings into structured command
// records for rule evaluation. It extracts every simple command reachable
// from a compound expression (pipelines, chains, subshells, loops,
// conditionals, case statements) so that policy decisions cannot be bypassed
// by hiding a command inside shell structure.
package shell

import "sort"

// ParsedCommand is one program invocation extracted from an input string,
// classified into program, subcommand path, flags and positional arguments.
type ParsedCommand struct {
	// Raw is the complete input string the command was extracted from.
	Raw string
	// Program is the word in command position, after quote removal.
	Program string
	// Subcommands is the recognized subcommand path (e.g. ["remote", "add"]).
	Subcommands []string
	// Args are the positional arguments in source order.
	Args []string
	// Flags holds every flag present, short flags decomposed ("-rf" -> -r, -f)
	// and long flags stripped of values ("--message=x" -> --message).
	Flags map[string]struct{}
	// IsPiped is set on every stage of a multi-stage pipeline.
	IsPiped bool
	// HasRedirect is set when the command carries any redirection or
	// process-substitution construct.
	HasRedirect bool
	// EnvVars are NAME=VALUE assignments prefixing the program word.
	// NAME=VALUE words after the program are arguments, never assignments.
	EnvVars map[string]string
	// HasExpansion is set when any word contains parameter expansion ($VAR).
	HasExpansion bool
	// HasSubstitution is set when any word contains command substitution
	// ($(...) or backticks).
	HasSubstitution bool
}

// HasFlag reports whether the command carries the given decomposed flag.
func (c *ParsedCommand) HasFlag(flag string) bool {
	_, ok := c.Flags[flag]
	return ok
}

// FlagList returns the flags as a sorted slice, for logging and display.
func (c *ParsedCommand) FlagList() []string {
	out := make([]string, 0, len(c.Flags))
	for f := range c.Flags {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}
