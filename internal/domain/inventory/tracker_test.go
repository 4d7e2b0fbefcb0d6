package inventory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeArtifact(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestTracker_List(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeArtifact(t, dir, "LuckPerms-v5.4.jar", "aaaa")
	writeArtifact(t, dir, "Essentials.JAR", "bb")
	writeArtifact(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "backups.jar"), 0o755))

	artifacts, err := NewTracker(dir).List()
	require.NoError(t, err)
	require.Len(t, artifacts, 2)

	byName := make(map[string]int64, len(artifacts))
	for _, a := range artifacts {
		byName[a.Name] = a.Size
	}
	assert.Equal(t, int64(4), byName["LuckPerms-v5.4.jar"])
	assert.Equal(t, int64(2), byName["Essentials.JAR"])
}

func TestTracker_List_AlwaysRescans(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tracker := NewTracker(dir)

	artifacts, err := tracker.List()
	require.NoError(t, err)
	assert.Empty(t, artifacts)

	// External change to the directory shows up on the next scan.
	writeArtifact(t, dir, "dropped-in.jar", "x")

	artifacts, err = tracker.List()
	require.NoError(t, err)
	require.Len(t, artifacts, 1)
	assert.Equal(t, "dropped-in.jar", artifacts[0].Name)
}

func TestTracker_Delete(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeArtifact(t, dir, "gone.jar", "x")

	tracker := NewTracker(dir)
	require.NoError(t, tracker.Delete("gone.jar"))

	artifacts, err := tracker.List()
	require.NoError(t, err)
	assert.Empty(t, artifacts)
}

func TestTracker_Delete_NotFound(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeArtifact(t, dir, "keep.jar", "x")

	err := NewTracker(dir).Delete("missing.jar")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	// Directory unchanged.
	artifacts, listErr := NewTracker(dir).List()
	require.NoError(t, listErr)
	require.Len(t, artifacts, 1)
	assert.Equal(t, "keep.jar", artifacts[0].Name)
}

func TestTracker_Delete_RejectsNonArtifacts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeArtifact(t, dir, "server.properties", "motd=hi")

	err := NewTracker(dir).Delete("server.properties")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	// Non-artifact files are outside the inventory and must survive.
	assert.FileExists(t, filepath.Join(dir, "server.properties"))
}

func TestTracker_ContainsMatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeArtifact(t, dir, "LuckPerms-v5.4.jar", "x")

	tracker := NewTracker(dir)

	found, err := tracker.ContainsMatch("luckperms")
	require.NoError(t, err)
	assert.True(t, found, "slug substring should match case-insensitively")

	found, err = tracker.ContainsMatch("vault", "LuckPerms")
	require.NoError(t, err)
	assert.True(t, found, "any term matching is enough")

	found, err = tracker.ContainsMatch("vault", "")
	require.NoError(t, err)
	assert.False(t, found, "empty terms never match")
}
