package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFakeRegistry serves a project with one paper release that requires a
// single dependency, plus the artifact bytes for both.
func newFakeRegistry(t *testing.T) *httptest.Server {
	t.Helper()

	var base string
	mux := http.NewServeMux()
	mux.HandleFunc("/project/skyblock", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"id": "p1", "slug": "skyblock", "title": "SkyBlock"}`)
	})
	mux.HandleFunc("/project/skyblock/version", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `[{
			"id": "v1", "project_id": "p1", "name": "SkyBlock 2.0", "version_number": "2.0.0",
			"loaders": ["paper"],
			"dependencies": [{"project_id": "dep1", "dependency_type": "required"}],
			"files": [{"url": %q, "filename": "sky.jar", "primary": true}]
		}]`, base+"/files/sky.jar")
	})
	mux.HandleFunc("/project/dep1", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"id": "dep1", "slug": "libcore", "title": "LibCore"}`)
	})
	mux.HandleFunc("/project/libcore/version", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `[{
			"id": "v9", "project_id": "dep1", "name": "LibCore 1.1", "version_number": "1.1.0",
			"loaders": ["paper"],
			"files": [{"url": %q, "filename": "libcore.jar", "primary": true}]
		}]`, base+"/files/libcore.jar")
	})
	mux.HandleFunc("/files/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "bytes of %s", filepath.Base(r.URL.Path))
	})

	server := httptest.NewServer(mux)
	base = server.URL
	t.Cleanup(server.Close)
	return server
}

func writeInstallConfig(t *testing.T, baseURL string) string {
	t.Helper()

	base := t.TempDir()
	pluginDir := filepath.Join(base, "plugins")
	require.NoError(t, os.Mkdir(pluginDir, 0o755))

	path := filepath.Join(base, "plugdex.toml")
	content := fmt.Sprintf("loaders = [\"paper\"]\n\n[registry]\nbase_url = %q\n\n[install]\ndir = %q\n", baseURL, pluginDir)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	prev := cfgFile
	cfgFile = path
	t.Cleanup(func() { cfgFile = prev })
	return pluginDir
}

func TestRunInstall_InstallsArtifactAndDependencies(t *testing.T) {
	server := newFakeRegistry(t)
	pluginDir := writeInstallConfig(t, server.URL)
	cmd, buf := newOutCommand()

	require.NoError(t, runInstall(cmd, []string{"skyblock"}))

	data, err := os.ReadFile(filepath.Join(pluginDir, "sky.jar"))
	require.NoError(t, err)
	assert.Equal(t, "bytes of sky.jar", string(data))

	data, err = os.ReadFile(filepath.Join(pluginDir, "libcore.jar"))
	require.NoError(t, err)
	assert.Equal(t, "bytes of libcore.jar", string(data))

	assert.Contains(t, buf.String(), "Saved sky.jar")
	assert.Contains(t, buf.String(), "Saved libcore.jar")
}

func TestRunInstall_NoDepsSkipsResolution(t *testing.T) {
	server := newFakeRegistry(t)
	pluginDir := writeInstallConfig(t, server.URL)
	cmd, _ := newOutCommand()

	installNoDeps = true
	t.Cleanup(func() { installNoDeps = false })

	require.NoError(t, runInstall(cmd, []string{"skyblock"}))

	assert.FileExists(t, filepath.Join(pluginDir, "sky.jar"))
	assert.NoFileExists(t, filepath.Join(pluginDir, "libcore.jar"))
}

func TestRunInstall_UnknownVersion(t *testing.T) {
	server := newFakeRegistry(t)
	writeInstallConfig(t, server.URL)
	cmd, _ := newOutCommand()

	err := runInstall(cmd, []string{"skyblock@9.9.9"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "9.9.9")
}
