package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeFlagDecomposition(t *testing.T) {
	tests := []struct {
		word string
		want []string
	}{
		{"-r", []string{"-r"}},
		{"-rf", []string{"-r", "-f"}},
		{"-xvf", []string{"-x", "-v", "-f"}},
		{"--force", []string{"--force"}},
		{"--message=hello world", []string{"--message"}},
		{"--set=a=b", []string{"--set"}},
		{"-9", nil}, // numeric short options are not tracked
		{"-", nil},
		{"--", []string{"--"}},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			flags := make(map[string]struct{})
			addFlags(tt.word, flags)
			got := make([]string, 0, len(flags))
			for f := range flags {
				got = append(got, f)
			}
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestAnalyzeFlagEndsSubcommandScan(t *testing.T) {
	// A flag before a would-be subcommand token demotes the token to an
	// argument; "add" never re-enters the subcommand path.
	subcmds, flags, args := analyze("git", []string{"-C", "/repo", "add", "file"})
	assert.Empty(t, subcmds)
	assert.Contains(t, flags, "-C")
	assert.Equal(t, []string{"/repo", "add", "file"}, args)
}

func TestAnalyzeDepthLimit(t *testing.T) {
	// "push" is a known git token but depth 2 is already consumed.
	subcmds, _, args := analyze("git", []string{"remote", "add", "push"})
	assert.Equal(t, []string{"remote", "add"}, subcmds)
	assert.Equal(t, []string{"push"}, args)
}

func TestAnalyzeUnknownProgram(t *testing.T) {
	subcmds, flags, args := analyze("mytool", []string{"run", "--fast", "job"})
	assert.Empty(t, subcmds)
	assert.Contains(t, flags, "--fast")
	assert.Equal(t, []string{"run", "job"}, args)
}
