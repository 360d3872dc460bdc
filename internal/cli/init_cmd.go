package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cmdgate/cmdgate/internal/config"
	"github.com/cmdgate/cmdgate/internal/hook"
)

const defaultConfigYAML = `settings:
  default_action: prompt
  log_decisions: true

profiles:
  builtins:
    - general/safe-basics
  custom: []

rules: []
`

const hookCommand = "cmdgate check --json --format claude"

func newInitCmd() *cobra.Command {
	var tool string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the workspace configuration and register the host-tool hook",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := hook.Format(tool)
			if !f.Valid() {
				return NewExitError(exitUsage, fmt.Sprintf("invalid tool %q: must be claude or opencode", tool))
			}

			cwd, err := os.Getwd()
			if err != nil {
				return NewExitError(exitUsage, "cmdgate: "+err.Error())
			}

			cfgPath, created, err := writeDefaultConfig(cwd)
			if err != nil {
				return NewExitError(exitUsage, "cmdgate: "+err.Error())
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", cfgPath)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s already exists, left unchanged\n", cfgPath)
			}

			switch f {
			case hook.FormatClaude:
				path, err := registerClaudeHook(cwd)
				if err != nil {
					return NewExitError(exitUsage, "cmdgate: "+err.Error())
				}
				fmt.Fprintf(cmd.OutOrStdout(), "registered PreToolUse hook in %s\n", path)
			case hook.FormatOpenCode:
				path, err := writeOpencodePlugin(cwd)
				if err != nil {
					return NewExitError(exitUsage, "cmdgate: "+err.Error())
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote plugin %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&tool, "tool", string(hook.FormatClaude), "Host tool to integrate with: claude|opencode")
	return cmd
}

// writeDefaultConfig creates .cmdgate/config.yaml unless it already exists.
func writeDefaultConfig(workspace string) (string, bool, error) {
	dir := filepath.Join(workspace, config.WorkspaceDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", false, err
	}
	path := filepath.Join(dir, config.ConfigFile)
	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	}
	if err := os.WriteFile(path, []byte(defaultConfigYAML), 0o644); err != nil {
		return "", false, err
	}
	return path, true, nil
}

// registerClaudeHook merges a PreToolUse entry into .claude/settings.local.json,
// preserving unrelated settings. Running init twice does not duplicate the hook.
func registerClaudeHook(workspace string) (string, error) {
	dir := filepath.Join(workspace, ".claude")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, "settings.local.json")

	settings := map[string]any{}
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, &settings); err != nil {
			return "", fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return "", err
	}

	hooks, _ := settings["hooks"].(map[string]any)
	if hooks == nil {
		hooks = map[string]any{}
		settings["hooks"] = hooks
	}
	preToolUse, _ := hooks["PreToolUse"].([]any)
	if !claudeHookRegistered(preToolUse) {
		preToolUse = append(preToolUse, map[string]any{
			"matcher": "Bash",
			"hooks": []any{
				map[string]any{"type": "command", "command": hookCommand},
			},
		})
	}
	hooks["PreToolUse"] = preToolUse

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func claudeHookRegistered(preToolUse []any) bool {
	for _, entry := range preToolUse {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		inner, _ := m["hooks"].([]any)
		for _, h := range inner {
			hm, ok := h.(map[string]any)
			if !ok {
				continue
			}
			if cmdStr, _ := hm["command"].(string); cmdStr == hookCommand {
				return true
			}
		}
	}
	return false
}

const opencodePlugin = `import type { Plugin } from "@opencode-ai/plugin"

export const CmdgatePlugin: Plugin = async ({ $ }) => {
  return {
    "tool.execute.before": async (input, output) => {
      if (input.tool !== "bash") return
      const res = await $` + "`" + `echo ${JSON.stringify({
        session_id: input.sessionID,
        tool_input: { command: output.args.command },
      })} | cmdgate check --json --format opencode` + "`" + `.nothrow().quiet()
      if (res.exitCode !== 0) {
        throw new Error("cmdgate: command rejected (parse failure)")
      }
      const verdict = JSON.parse(res.stdout.toString())
      if (verdict.abort) {
        throw new Error(verdict.abort)
      }
    },
  }
}
`

// writeOpencodePlugin drops the integration plugin into .opencode/plugin/.
func writeOpencodePlugin(workspace string) (string, error) {
	dir := filepath.Join(workspace, ".opencode", "plugin")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, "cmdgate.ts")
	if err := os.WriteFile(path, []byte(opencodePlugin), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
