package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmdgate/cmdgate/internal/config"
	"github.com/cmdgate/cmdgate/internal/shell"
	"github.com/cmdgate/cmdgate/pkg/types"
)

func extractOne(t *testing.T, input string) []shell.ParsedCommand {
	t.Helper()
	cmds, err := shell.Extract(input)
	require.NoError(t, err)
	return cmds
}

func readEntries(t *testing.T, path string) []Entry {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []Entry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var e Entry
		require.NoError(t, json.Unmarshal([]byte(line), &e))
		entries = append(entries, e)
	}
	require.NoError(t, sc.Err())
	return entries
}

func TestLogAppendsChainedEntries(t *testing.T) {
	dir := t.TempDir()
	l := NewSessionLogger(dir)

	cmds := extractOne(t, "git push origin main")
	rule := &config.Rule{Program: "git", Subcommands: []string{"push"}, Action: types.ActionDeny}

	require.NoError(t, l.Log("sess-1", "git push origin main", cmds, types.Deny("no pushes"), rule))
	require.NoError(t, l.Log("sess-1", "ls", extractOne(t, "ls"), types.Allow(), nil))

	entries := readEntries(t, l.LogPath("sess-1"))
	require.Len(t, entries, 2)

	first, second := entries[0], entries[1]
	assert.Equal(t, int64(1), first.Sequence)
	assert.Equal(t, "", first.PrevHash)
	assert.Equal(t, types.ActionDeny, first.Decision)
	assert.Equal(t, "no pushes", first.Reason)
	assert.Contains(t, first.MatchedRule, "program=git")
	require.Len(t, first.Commands, 1)
	assert.Equal(t, "git", first.Commands[0].Program)
	assert.Equal(t, []string{"push"}, first.Commands[0].Subcommands)

	assert.Equal(t, int64(2), second.Sequence)
	assert.Equal(t, first.EntryHash, second.PrevHash)
	assert.Empty(t, second.MatchedRule)
}

func TestLogResumesChainAcrossLoggers(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, NewSessionLogger(dir).Log("s", "ls", extractOne(t, "ls"), types.Allow(), nil))
	require.NoError(t, NewSessionLogger(dir).Log("s", "pwd", extractOne(t, "pwd"), types.Allow(), nil))

	l := NewSessionLogger(dir)
	res, err := VerifyFile(l.LogPath("s"))
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, int64(2), res.Entries)
}

func TestVerifyDetectsTampering(t *testing.T) {
	dir := t.TempDir()
	l := NewSessionLogger(dir)
	for _, c := range []string{"ls", "pwd", "date"} {
		require.NoError(t, l.Log("s", c, extractOne(t, c), types.Allow(), nil))
	}
	path := l.LogPath("s")

	t.Run("edited entry", func(t *testing.T) {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		tampered := strings.Replace(string(data), `"command":"pwd"`, `"command":"rm -rf /"`, 1)
		require.NotEqual(t, string(data), tampered)

		p := filepath.Join(t.TempDir(), "tampered.jsonl")
		require.NoError(t, os.WriteFile(p, []byte(tampered), 0o644))

		res, err := VerifyFile(p)
		require.NoError(t, err)
		assert.False(t, res.OK())
		assert.Equal(t, int64(2), res.BrokenSequence)
		assert.Contains(t, res.Reason, "hash mismatch")
	})

	t.Run("dropped entry", func(t *testing.T) {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		lines := strings.SplitAfter(string(data), "\n")
		truncated := lines[0] + lines[2]

		p := filepath.Join(t.TempDir(), "truncated.jsonl")
		require.NoError(t, os.WriteFile(p, []byte(truncated), 0o644))

		res, err := VerifyFile(p)
		require.NoError(t, err)
		assert.False(t, res.OK())
	})

	t.Run("intact", func(t *testing.T) {
		res, err := VerifyFile(path)
		require.NoError(t, err)
		assert.True(t, res.OK())
		assert.Equal(t, int64(3), res.Entries)
	})
}

func TestLogPathSanitizesSessionID(t *testing.T) {
	l := NewSessionLogger("/logs")
	assert.Equal(t, "/logs/ok-session_1.jsonl", l.LogPath("ok-session_1"))
	assert.Equal(t, "/logs/______etc_passwd.jsonl", l.LogPath("../../etc/passwd"))
}
