package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmdgate/cmdgate/internal/config"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the workspace configuration and referenced profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return NewExitError(exitUsage, "cmdgate: "+err.Error())
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Configuration is valid.")
			fmt.Fprintf(cmd.OutOrStdout(), "  inline rules: %d\n", len(cfg.Rules))
			fmt.Fprintf(cmd.OutOrStdout(), "  active profiles: %d\n", len(cfg.LoadedProfiles))
			return nil
		},
	}
}
