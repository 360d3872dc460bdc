// Package audit appends per-session decision records to JSONL files. Each
// entry carries a SHA-256 hash chain over its predecessor, so truncation or
// in-place edits of a session log are detectable after the fact.
package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cmdgate/cmdgate/internal/config"
	"github.com/cmdgate/cmdgate/internal/shell"
	"github.com/cmdgate/cmdgate/pkg/types"
)

// Entry is one logged decision. Sequence, PrevHash and EntryHash form the
// integrity chain; EntryHash covers the whole entry with the field itself
// blanked.
type Entry struct {
	Timestamp   time.Time        `json:"timestamp"`
	SessionID   string           `json:"session_id"`
	Command     string           `json:"command"`
	Commands    []CommandSummary `json:"commands"`
	Decision    types.Action     `json:"decision"`
	Reason      string           `json:"reason,omitempty"`
	MatchedRule string           `json:"matched_rule,omitempty"`

	Sequence  int64  `json:"sequence"`
	PrevHash  string `json:"prev_hash"`
	EntryHash string `json:"entry_hash"`
}

// CommandSummary is the loggable shape of one extracted command.
type CommandSummary struct {
	Program     string   `json:"program"`
	Subcommands []string `json:"subcommands,omitempty"`
	Flags       []string `json:"flags,omitempty"`
	Args        []string `json:"args,omitempty"`
}

func summarize(cmds []shell.ParsedCommand) []CommandSummary {
	out := make([]CommandSummary, 0, len(cmds))
	for i := range cmds {
		c := &cmds[i]
		out = append(out, CommandSummary{
			Program:     c.Program,
			Subcommands: c.Subcommands,
			Flags:       c.FlagList(),
			Args:        c.Args,
		})
	}
	return out
}

// SessionLogger appends entries to one JSONL file per session.
type SessionLogger struct {
	dir string
}

// NewSessionLogger logs under dir, typically <workspace>/.cmdgate/logs.
func NewSessionLogger(dir string) *SessionLogger {
	return &SessionLogger{dir: dir}
}

// DefaultLogDir returns the log directory for the current workspace.
func DefaultLogDir() string {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return filepath.Join(cwd, config.WorkspaceDir, "logs")
}

// LogPath returns the file a session's entries land in. Session identifiers
// come from untrusted hook input, so everything outside [A-Za-z0-9_-] is
// replaced before the value is used as a file name.
func (l *SessionLogger) LogPath(sessionID string) string {
	return filepath.Join(l.dir, sanitizeSessionID(sessionID)+".jsonl")
}

func sanitizeSessionID(id string) string {
	var b strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// Log appends one decision entry to the session's file, extending the hash
// chain from the file's current last entry.
func (l *SessionLogger) Log(sessionID, command string, cmds []shell.ParsedCommand, d types.Decision, rule *config.Rule) error {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	path := l.LogPath(sessionID)

	seq, prevHash, err := lastChainState(path)
	if err != nil {
		return err
	}

	entry := Entry{
		Timestamp: time.Now().UTC(),
		SessionID: sessionID,
		Command:   command,
		Commands:  summarize(cmds),
		Decision:  d.Action,
		Reason:    d.Message,
		Sequence:  seq + 1,
		PrevHash:  prevHash,
	}
	if rule != nil {
		entry.MatchedRule = describeRule(rule)
	}
	entry.EntryHash = hashEntry(&entry)

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode audit entry: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

// lastChainState reads the trailing entry of an existing log, if any.
func lastChainState(path string) (seq int64, prevHash string, err error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return 0, "", nil
	}
	if err != nil {
		return 0, "", fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxEntryBytes)
	var last Entry
	found := false
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			return 0, "", fmt.Errorf("corrupt audit log %s: %w", path, err)
		}
		last = e
		found = true
	}
	if err := sc.Err(); err != nil {
		return 0, "", fmt.Errorf("read audit log: %w", err)
	}
	if !found {
		return 0, "", nil
	}
	return last.Sequence, last.EntryHash, nil
}

// describeRule renders a compact, human-readable rule identifier for the log.
func describeRule(r *config.Rule) string {
	parts := []string{string(r.Action)}
	if r.Program != "" {
		parts = append(parts, "program="+r.Program)
	}
	if len(r.Subcommands) > 0 {
		parts = append(parts, "subcommands="+strings.Join(r.Subcommands, " "))
	}
	if len(r.FlagsPresent) > 0 {
		parts = append(parts, "flags="+strings.Join(r.FlagsPresent, ","))
	}
	if r.ArgsMatch != "" {
		parts = append(parts, "args~"+r.ArgsMatch)
	}
	if r.ArgsRegex != "" {
		parts = append(parts, "args_regex="+r.ArgsRegex)
	}
	return strings.Join(parts, " ")
}
