// Package cli wires the cmdgate commands. The evaluation core stays free of
// I/O and formatting; everything user- or host-facing lives here.
package cli

import (
	"github.com/spf13/cobra"
)

func NewRoot(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "cmdgate",
		Short:         "cmdgate: rule-based authorization for agent shell commands",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Version = version
	cmd.SetVersionTemplate("cmdgate {{.Version}}\n")

	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newTestCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newProfilesCmd())
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newAuditCmd())

	return cmd
}
