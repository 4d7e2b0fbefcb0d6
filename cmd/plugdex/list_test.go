package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writePluginDirConfig points the CLI at a fresh plugin directory and
// returns its path.
func writePluginDirConfig(t *testing.T) string {
	t.Helper()

	base := t.TempDir()
	pluginDir := filepath.Join(base, "plugins")
	require.NoError(t, os.Mkdir(pluginDir, 0o755))

	path := filepath.Join(base, "plugdex.toml")
	content := fmt.Sprintf("[install]\ndir = %q\n", pluginDir)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	prev := cfgFile
	cfgFile = path
	t.Cleanup(func() { cfgFile = prev })
	return pluginDir
}

func TestRunList_Empty(t *testing.T) {
	writePluginDirConfig(t)
	cmd, buf := newOutCommand()

	require.NoError(t, runList(cmd, nil))
	assert.Contains(t, buf.String(), "No plugins installed")
}

func TestRunList_ShowsArtifacts(t *testing.T) {
	pluginDir := writePluginDirConfig(t)
	require.NoError(t, os.WriteFile(filepath.Join(pluginDir, "sky.jar"), []byte("jar bytes"), 0o644))
	cmd, buf := newOutCommand()

	require.NoError(t, runList(cmd, nil))
	assert.Contains(t, buf.String(), "sky.jar")
	assert.Contains(t, buf.String(), "9")
}

func TestRunRemove_DeletesArtifact(t *testing.T) {
	pluginDir := writePluginDirConfig(t)
	target := filepath.Join(pluginDir, "old.jar")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o644))
	cmd, buf := newOutCommand()

	require.NoError(t, runRemove(cmd, []string{"old.jar"}))
	assert.Contains(t, buf.String(), "Removed old.jar")
	assert.NoFileExists(t, target)
}

func TestRunRemove_MissingArtifact(t *testing.T) {
	writePluginDirConfig(t)
	cmd, _ := newOutCommand()

	err := runRemove(cmd, []string{"ghost.jar"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not installed")
}
