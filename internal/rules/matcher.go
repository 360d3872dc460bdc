package rules

import (
	"os"
	"strings"

	"github.com/cmdgate/cmdgate/internal/config"
	"github.com/cmdgate/cmdgate/internal/shell"
)

// Matches reports whether rule matches cmd. All present conditions are
// conjunctive; a rule with no conditions matches unconditionally. Pattern
// problems (invalid regex or glob, undeterminable working directory) make
// the rule not match; they never surface as errors.
func Matches(rule *config.Rule, cmd *shell.ParsedCommand) bool {
	if rule.Program != "" && cmd.Program != rule.Program {
		return false
	}

	if len(rule.Subcommands) > 0 && !subcommandsMatch(rule, cmd) {
		return false
	}

	for _, flag := range rule.FlagsPresent {
		if !cmd.HasFlag(flag) {
			return false
		}
	}
	for _, flag := range rule.FlagsAbsent {
		if cmd.HasFlag(flag) {
			return false
		}
	}

	if rule.ArgsMatch != "" || rule.ArgsRegex != "" {
		joined := strings.Join(cmd.Args, " ")
		if rule.ArgsMatch != "" && !strings.Contains(joined, rule.ArgsMatch) {
			return false
		}
		if rule.ArgsRegex != "" {
			re := cache.compileRegexp(rule.ArgsRegex)
			if re == nil || !re.MatchString(joined) {
				return false
			}
		}
	}

	if rule.WorkingDir != "" && !workingDirMatches(rule.WorkingDir) {
		return false
	}

	return true
}

func subcommandsMatch(rule *config.Rule, cmd *shell.ParsedCommand) bool {
	if rule.SubcommandsExact {
		if len(cmd.Subcommands) != len(rule.Subcommands) {
			return false
		}
	} else if len(cmd.Subcommands) < len(rule.Subcommands) {
		return false
	}
	for i, sub := range rule.Subcommands {
		if cmd.Subcommands[i] != sub {
			return false
		}
	}
	return true
}

func workingDirMatches(pattern string) bool {
	g := cache.compileGlob(pattern)
	if g == nil {
		return false
	}
	cwd, err := os.Getwd()
	if err != nil {
		return false
	}
	return g.Match(cwd)
}
