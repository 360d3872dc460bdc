package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cmdgate/cmdgate/internal/audit"
	"github.com/cmdgate/cmdgate/internal/config"
	"github.com/cmdgate/cmdgate/internal/hook"
	"github.com/cmdgate/cmdgate/internal/rules"
	"github.com/cmdgate/cmdgate/internal/shell"
)

// Exit codes for the check command. A parse failure must be distinguishable
// from a Deny so operators can tell a broken integration from a policy hit;
// hosts treat any non-zero exit as "do not run".
const (
	exitUsage      = 1
	exitParseError = 2
)

func newCheckCmd() *cobra.Command {
	var jsonOutput bool
	var format string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Evaluate a hook request from stdin (used by host-tool hooks)",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := hook.Format(format)
			if !f.Valid() {
				return NewExitError(exitUsage, fmt.Sprintf("invalid format %q: must be claude or opencode", format))
			}

			req, err := hook.ParseRequest(cmd.InOrStdin())
			if err != nil {
				return NewExitError(exitUsage, "cmdgate: "+err.Error())
			}

			cfg, err := config.Load()
			if err != nil {
				return NewExitError(exitUsage, "cmdgate: "+err.Error())
			}

			cmds, err := shell.Extract(req.ToolInput.Command)
			if err != nil {
				// Fail closed: the host must not fall back to allow.
				return NewExitError(exitParseError, "cmdgate: "+err.Error())
			}

			decision, rule := rules.New(cfg).Evaluate(cmds)

			if cfg.Settings.LogDecisions {
				logger := audit.NewSessionLogger(audit.DefaultLogDir())
				if err := logger.Log(req.SessionID, req.ToolInput.Command, cmds, decision, rule); err != nil {
					slog.Warn("audit log write failed", "error", err)
				}
			}

			if jsonOutput {
				out, err := hook.RenderJSON(f, decision)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), hook.RenderText(decision))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the host tool's JSON response format")
	cmd.Flags().StringVar(&format, "format", string(hook.FormatClaude), "Host tool protocol: claude|opencode")
	return cmd
}
