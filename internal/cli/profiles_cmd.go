package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmdgate/cmdgate/internal/config"
	"github.com/cmdgate/cmdgate/internal/profiles"
)

func newProfilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "Manage rule profiles",
	}
	cmd.AddCommand(newProfilesListCmd(), newProfilesInstallCmd())
	return cmd
}

func newProfilesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List installed profiles and whether each is active",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return NewExitError(exitUsage, "cmdgate: "+err.Error())
			}
			if len(cfg.AvailableProfiles) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No profiles installed. Run 'cmdgate profiles install-builtins'.")
				return nil
			}
			for _, meta := range cfg.AvailableProfiles {
				marker := " "
				if cfg.IsProfileActive(meta.Name) {
					marker = "*"
				}
				if meta.Description != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "%s %-28s %s\n", marker, meta.Name, meta.Description)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, meta.Name)
				}
			}
			return nil
		},
	}
}

func newProfilesInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install-builtins",
		Short: "Install the bundled builtin profiles into the user profile directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.BuiltinProfilesDir()
			if err != nil {
				return NewExitError(exitUsage, "cmdgate: "+err.Error())
			}
			installed, err := profiles.Install(dir)
			if err != nil {
				return NewExitError(exitUsage, "cmdgate: install profiles: "+err.Error())
			}
			for _, name := range installed {
				fmt.Fprintf(cmd.OutOrStdout(), "installed %s\n", name)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d profiles installed to %s\n", len(installed), dir)
			return nil
		},
	}
}
