package profiles

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmdgate/cmdgate/internal/config"
)

func TestEmbeddedProfilesParse(t *testing.T) {
	names, err := Names()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Contains(t, names, "general/safe-basics")
	assert.Contains(t, names, "git/read-only")

	for _, name := range names {
		data, err := Read(name)
		require.NoError(t, err, name)
		p, err := config.ParseProfile(data)
		require.NoError(t, err, name)
		assert.NotEmpty(t, p.Meta.Name, name)
		assert.NotEmpty(t, p.Rules, name)
	}
}

func TestInstall(t *testing.T) {
	dir := t.TempDir()
	installed, err := Install(dir)
	require.NoError(t, err)
	require.NotEmpty(t, installed)

	names, err := Names()
	require.NoError(t, err)
	require.Len(t, installed, len(names))

	for _, rel := range installed {
		data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
		require.NoError(t, err, rel)
		assert.NotEmpty(t, data, rel)
	}
}

func TestInstallOverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "git", "read-only.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0o755))
	require.NoError(t, os.WriteFile(stale, []byte("stale: content\n"), 0o644))

	_, err := Install(dir)
	require.NoError(t, err)

	data, err := os.ReadFile(stale)
	require.NoError(t, err)
	assert.NotEqual(t, "stale: content\n", string(data))
}
