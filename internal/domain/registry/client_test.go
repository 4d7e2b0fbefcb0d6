package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultClientConfig(t *testing.T) {
	t.Parallel()

	config := DefaultClientConfig()
	assert.Equal(t, DefaultBaseURL, config.BaseURL)
	assert.Equal(t, 10*time.Second, config.Timeout)
	assert.Contains(t, config.UserAgent, "plugdex")
}

func newTestClient(serverURL string) *Client {
	return NewClient(ClientConfig{
		BaseURL:   serverURL,
		Timeout:   5 * time.Second,
		UserAgent: "plugdex-test/1.0",
	})
}

func TestClient_Search(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "plugdex-test/1.0", r.Header.Get("User-Agent"))

		q := r.URL.Query()
		assert.Equal(t, "essential", q.Get("query"))
		assert.Equal(t, "20", q.Get("limit"))
		assert.Equal(t, "40", q.Get("offset"))
		assert.Equal(t, "relevance", q.Get("index"))
		assert.JSONEq(t, `[["project_type:plugin"],["categories:paper","categories:spigot"]]`, q.Get("facets"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"hits": [
				{"slug": "essentialsx", "title": "EssentialsX", "author": "mdcfe", "description": "Core commands", "downloads": 500000},
				{"slug": "", "title": "Broken entry"},
				{"slug": "essential-mod", "title": "Essential", "downloads": 100}
			]
		}`))
	}))
	defer server.Close()

	hits, err := newTestClient(server.URL).Search(context.Background(), "essential", []string{"paper", "spigot"}, 20, 40)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "essentialsx", hits[0].Slug)
	assert.Equal(t, "EssentialsX", hits[0].Title)
	assert.Equal(t, 500000, hits[0].Downloads)
	assert.Equal(t, "essential-mod", hits[1].Slug)
}

func TestClient_Search_NoLoaders(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// With no loaders enabled the loader facet group is omitted
		// entirely and the search is unrestricted.
		assert.JSONEq(t, `[["project_type:plugin"]]`, r.URL.Query().Get("facets"))
		_, _ = w.Write([]byte(`{"hits": []}`))
	}))
	defer server.Close()

	hits, err := newTestClient(server.URL).Search(context.Background(), "anything", nil, 20, 0)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestClient_Search_ServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Search(context.Background(), "x", nil, 20, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServerError)
}

func TestClient_Search_MalformedBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Search(context.Background(), "x", nil, 20, 0)
	require.Error(t, err)
}

func TestClient_GetProject(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/project/luckperms", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"id": "Vebnzrzj",
			"slug": "luckperms",
			"title": "LuckPerms",
			"description": "A permissions plugin",
			"body": "# LuckPerms\nLong form body."
		}`))
	}))
	defer server.Close()

	project, err := newTestClient(server.URL).GetProject(context.Background(), "luckperms")
	require.NoError(t, err)
	assert.Equal(t, "luckperms", project.Slug)
	assert.Equal(t, "LuckPerms", project.Title)
	assert.Contains(t, project.LongText(), "Long form body")
}

func TestClient_GetProject_NotFound(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetProject(context.Background(), "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestClient_GetVersions(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/project/luckperms/version", r.URL.Path)
		assert.JSONEq(t, `["paper","spigot"]`, r.URL.Query().Get("loaders"))

		_, _ = w.Write([]byte(`[
			{
				"id": "v2",
				"project_id": "Vebnzrzj",
				"name": "LuckPerms 5.5",
				"version_number": "5.5.0",
				"loaders": ["paper", "spigot"],
				"dependencies": [],
				"files": [
					{"url": "https://cdn.example/LuckPerms-5.5.jar", "filename": "LuckPerms-5.5.jar", "primary": true},
					{"url": "", "filename": "dropped.jar"}
				]
			},
			{"id": "", "name": "malformed entry"},
			{
				"id": "v1",
				"project_id": "Vebnzrzj",
				"version_number": "5.4.0",
				"loaders": ["spigot"],
				"files": [{"url": "https://cdn.example/LuckPerms-5.4.jar", "filename": "LuckPerms-5.4.jar"}]
			}
		]`))
	}))
	defer server.Close()

	versions, err := newTestClient(server.URL).GetVersions(context.Background(), "luckperms", []string{"paper", "spigot"})
	require.NoError(t, err)
	require.Len(t, versions, 2)

	// Registry order (newest first) is preserved.
	assert.Equal(t, "v2", versions[0].ID)
	assert.Equal(t, "v1", versions[1].ID)

	// File entries missing a URL were dropped at the boundary.
	require.Len(t, versions[0].Files, 1)
	assert.Equal(t, "LuckPerms-5.5.jar", versions[0].Files[0].Filename)

	// Name fallback to version number.
	assert.Equal(t, "LuckPerms 5.5", versions[0].DisplayName())
	assert.Equal(t, "5.4.0", versions[1].DisplayName())
}

func TestClient_GetVersions_NoLoaders(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("loaders"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	versions, err := newTestClient(server.URL).GetVersions(context.Background(), "luckperms", nil)
	require.NoError(t, err)
	assert.Empty(t, versions)
}

func TestClient_GetVersion(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/version/abc123", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"id": "abc123",
			"project_id": "p1",
			"version_number": "1.0.0",
			"loaders": ["paper"],
			"files": [{"url": "https://cdn.example/a.jar", "filename": "a.jar"}]
		}`))
	}))
	defer server.Close()

	version, err := newTestClient(server.URL).GetVersion(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", version.ID)
	require.Len(t, version.Files, 1)
}

func TestClient_Timeout(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(300 * time.Millisecond)
		_, _ = w.Write([]byte(`{"hits": []}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL:   server.URL,
		Timeout:   50 * time.Millisecond,
		UserAgent: "plugdex-test/1.0",
	})

	// A stuck remote reads identically to any other network failure.
	_, err := client.Search(context.Background(), "x", nil, 20, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetworkError)
}
