package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cmdgate/cmdgate/internal/audit"
)

func newAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect the decision audit logs",
	}
	cmd.AddCommand(newAuditListCmd(), newAuditVerifyCmd())
	return cmd
}

func newAuditListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sessions with audit logs in this workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := audit.DefaultLogDir()
			entries, err := os.ReadDir(dir)
			if os.IsNotExist(err) {
				fmt.Fprintln(cmd.OutOrStdout(), "No audit logs.")
				return nil
			}
			if err != nil {
				return NewExitError(exitUsage, "cmdgate: "+err.Error())
			}
			var sessions []string
			for _, e := range entries {
				if e.IsDir() || !strings.HasSuffix(e.Name(), ".jsonl") {
					continue
				}
				sessions = append(sessions, strings.TrimSuffix(e.Name(), ".jsonl"))
			}
			if len(sessions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No audit logs.")
				return nil
			}
			sort.Strings(sessions)
			for _, s := range sessions {
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}
}

func newAuditVerifyCmd() *cobra.Command {
	var session string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify the hash chain of a session's audit log",
		RunE: func(cmd *cobra.Command, args []string) error {
			if session == "" {
				return NewExitError(exitUsage, "cmdgate: --session is required")
			}
			logger := audit.NewSessionLogger(audit.DefaultLogDir())
			path := logger.LogPath(session)
			res, err := audit.VerifyFile(path)
			if err != nil {
				return NewExitError(exitUsage, "cmdgate: "+err.Error())
			}
			if !res.OK() {
				return NewExitError(exitUsage, fmt.Sprintf("cmdgate: %s: chain broken: %s", filepath.Base(path), res.Reason))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d entries, chain intact\n", filepath.Base(path), res.Entries)
			return nil
		},
	}

	cmd.Flags().StringVar(&session, "session", "", "Session identifier to verify")
	return cmd
}
