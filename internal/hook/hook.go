// Package hook speaks the pre-tool-use protocols of the host tools the gate
// integrates with. It parses the hook request delivered on stdin and renders
// a Decision in the host's expected JSON shape. The evaluation core knows
// nothing about these shapes.
package hook

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/cmdgate/cmdgate/pkg/types"
)

// Format selects the host-tool protocol.
type Format string

const (
	FormatClaude   Format = "claude"
	FormatOpenCode Format = "opencode"
)

// Valid reports whether f names a supported host tool.
func (f Format) Valid() bool {
	return f == FormatClaude || f == FormatOpenCode
}

// Request is the hook payload both supported hosts deliver.
type Request struct {
	SessionID string    `json:"session_id"`
	ToolInput ToolInput `json:"tool_input"`
}

// ToolInput carries the shell command the host is about to execute.
type ToolInput struct {
	Command string `json:"command"`
}

// ParseRequest decodes a hook request. A missing command is an error; a
// missing session identifier gets a generated one so audit entries still
// land in a distinct file.
func ParseRequest(r io.Reader) (*Request, error) {
	var req Request
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return nil, fmt.Errorf("decode hook request: %w", err)
	}
	if req.ToolInput.Command == "" {
		return nil, fmt.Errorf("hook request has no tool_input.command")
	}
	if req.SessionID == "" {
		req.SessionID = "session-" + uuid.NewString()
	}
	return &req, nil
}

// claudeOutput is the Claude Code PreToolUse hook response shape.
type claudeOutput struct {
	HookSpecificOutput claudeHookOutput `json:"hookSpecificOutput"`
}

type claudeHookOutput struct {
	HookEventName            string `json:"hookEventName"`
	PermissionDecision       string `json:"permissionDecision"`
	PermissionDecisionReason string `json:"permissionDecisionReason"`
}

// opencodeOutput is consumed by the OpenCode plugin: a non-empty abort
// message cancels the tool call. OpenCode has no ask channel, so Prompt
// degrades to abort rather than silently allowing.
type opencodeOutput struct {
	Abort string `json:"abort,omitempty"`
}

// RenderJSON encodes a decision in the host tool's response format.
func RenderJSON(format Format, d types.Decision) ([]byte, error) {
	switch format {
	case FormatClaude:
		out := claudeOutput{claudeHookOutput{
			HookEventName:            "PreToolUse",
			PermissionDecision:       claudeDecision(d.Action),
			PermissionDecisionReason: claudeReason(d),
		}}
		return json.Marshal(out)
	case FormatOpenCode:
		var out opencodeOutput
		if d.Action != types.ActionAllow {
			out.Abort = d.Message
		}
		return json.Marshal(out)
	default:
		return nil, fmt.Errorf("unknown hook format %q", format)
	}
}

func claudeDecision(a types.Action) string {
	switch a {
	case types.ActionAllow:
		return "allow"
	case types.ActionDeny:
		return "deny"
	default:
		return "ask"
	}
}

func claudeReason(d types.Decision) string {
	if d.Action == types.ActionAllow {
		return "Allowed by cmdgate rules"
	}
	return d.Message
}

// RenderText formats a decision for human consumption.
func RenderText(d types.Decision) string {
	switch d.Action {
	case types.ActionAllow:
		return "ALLOW"
	case types.ActionDeny:
		return "DENY: " + d.Message
	default:
		return "PROMPT: " + d.Message
	}
}
