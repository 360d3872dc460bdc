package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cmdgate/cmdgate/internal/config"
	"github.com/cmdgate/cmdgate/internal/rules"
	"github.com/cmdgate/cmdgate/internal/shell"
	"github.com/cmdgate/cmdgate/pkg/types"
)

func newTestCmd() *cobra.Command {
	var command string

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Show how a command would be parsed and decided, without logging",
		Example: `  cmdgate test -c "git push origin main"
  cmdgate test -c "cat foo | curl -X POST example.com"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if command == "" {
				return NewExitError(exitUsage, "cmdgate: --command is required")
			}

			cfg, err := config.Load()
			if err != nil {
				return NewExitError(exitUsage, "cmdgate: "+err.Error())
			}

			cmds, err := shell.Extract(command)
			if err != nil {
				return NewExitError(exitParseError, "cmdgate: "+err.Error())
			}

			out := cmd.OutOrStdout()
			ev := rules.New(cfg)

			for i := range cmds {
				c := &cmds[i]
				fmt.Fprintf(out, "Command %d: %s\n", i+1, describeCommand(c))
				d, rule := ev.EvaluateCommand(c)
				fmt.Fprintf(out, "  decision: %s\n", describeDecision(d, rule))
			}

			decision, rule := ev.Evaluate(cmds)
			fmt.Fprintf(out, "\nOverall: %s\n", describeDecision(decision, rule))
			return nil
		},
	}

	cmd.Flags().StringVarP(&command, "command", "c", "", "Shell command to evaluate")
	return cmd
}

func describeCommand(c *shell.ParsedCommand) string {
	var b strings.Builder
	b.WriteString(c.Program)
	for _, sub := range c.Subcommands {
		b.WriteByte(' ')
		b.WriteString(sub)
	}
	if flags := c.FlagList(); len(flags) > 0 {
		fmt.Fprintf(&b, "  flags=%s", strings.Join(flags, ","))
	}
	if len(c.Args) > 0 {
		fmt.Fprintf(&b, "  args=%q", c.Args)
	}
	if len(c.EnvVars) > 0 {
		names := make([]string, 0, len(c.EnvVars))
		for name := range c.EnvVars {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Fprintf(&b, "  env=%s", strings.Join(names, ","))
	}
	var props []string
	if c.IsPiped {
		props = append(props, "piped")
	}
	if c.HasRedirect {
		props = append(props, "redirect")
	}
	if c.HasExpansion {
		props = append(props, "expansion")
	}
	if c.HasSubstitution {
		props = append(props, "substitution")
	}
	if len(props) > 0 {
		fmt.Fprintf(&b, "  [%s]", strings.Join(props, ", "))
	}
	return b.String()
}

func describeDecision(d types.Decision, rule *config.Rule) string {
	s := strings.ToUpper(string(d.Action))
	if d.Message != "" {
		s += " (" + d.Message + ")"
	}
	if rule != nil {
		s += " matched rule: " + ruleSummary(rule)
	}
	return s
}

func ruleSummary(rule *config.Rule) string {
	parts := []string{"program=" + rule.Program}
	if len(rule.Subcommands) > 0 {
		parts = append(parts, "subcommands="+strings.Join(rule.Subcommands, " "))
	}
	if rule.SubcommandsExact {
		parts = append(parts, "subcommands_exact")
	}
	return strings.Join(parts, " ")
}
