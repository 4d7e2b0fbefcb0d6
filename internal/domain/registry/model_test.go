package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion_PrimaryFile(t *testing.T) {
	t.Parallel()

	t.Run("flagged primary wins over order", func(t *testing.T) {
		t.Parallel()
		v := Version{Files: []File{
			{URL: "u1", Filename: "sources.jar"},
			{URL: "u2", Filename: "plugin.jar", Primary: true},
		}}
		f, ok := v.PrimaryFile()
		require.True(t, ok)
		assert.Equal(t, "plugin.jar", f.Filename)
	})

	t.Run("falls back to first file", func(t *testing.T) {
		t.Parallel()
		v := Version{Files: []File{
			{URL: "u1", Filename: "first.jar"},
			{URL: "u2", Filename: "second.jar"},
		}}
		f, ok := v.PrimaryFile()
		require.True(t, ok)
		assert.Equal(t, "first.jar", f.Filename)
	})

	t.Run("no files", func(t *testing.T) {
		t.Parallel()
		_, ok := Version{}.PrimaryFile()
		assert.False(t, ok)
	})
}

func TestVersion_RequiredDependencies(t *testing.T) {
	t.Parallel()

	v := Version{Dependencies: []Dependency{
		{ProjectID: "a", Kind: DependencyOptional},
		{ProjectID: "b", Kind: DependencyRequired},
		{ProjectID: "c", Kind: DependencyIncompatible},
		{ProjectID: "d", Kind: DependencyRequired},
		{ProjectID: "e", Kind: DependencyEmbedded},
	}}

	deps := v.RequiredDependencies()
	require.Len(t, deps, 2)
	// Declared order is preserved.
	assert.Equal(t, "b", deps[0].ProjectID)
	assert.Equal(t, "d", deps[1].ProjectID)
}

func TestProject_LongText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "body", Project{Body: "body", Description: "short"}.LongText())
	assert.Equal(t, "short", Project{Description: "short"}.LongText())
	assert.Equal(t, "No description available.", Project{}.LongText())
}
